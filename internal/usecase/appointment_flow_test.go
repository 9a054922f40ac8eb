package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type bookingFixture struct {
	usecase *appointmentUsecase
	mock    sqlmock.Sqlmock
	repo    *fakeAppointmentRepo
	audit   *recordingAuditService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	db, mock := testGormDB(t)
	repo := &fakeAppointmentRepo{}
	audit := &recordingAuditService{}
	doctors := &fakeDoctorRepo{doctors: map[int]*entity.Doctor{
		1: {
			ID:            1,
			Name:          "Dr. Warren",
			AvailableDays: entity.WeekdayList{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			StartTime:     "09:00",
			EndTime:       "17:00",
		},
	}}

	return &bookingFixture{
		usecase: &appointmentUsecase{
			db:              db,
			log:             logrus.New(),
			appointmentRepo: repo,
			doctorRepo:      doctors,
			auditService:    audit,
			now: func() time.Time {
				return time.Date(2099, time.January, 1, 0, 0, 0, 0, time.Local)
			},
		},
		mock:  mock,
		repo:  repo,
		audit: audit,
	}
}

// 2099-01-05 is a Monday.
func TestBookAppointmentFlow(t *testing.T) {
	patientID := uuid.New()

	t.Run("free slot books and commits", func(t *testing.T) {
		f := newBookingFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		result, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:00"))
		if err != nil {
			t.Fatalf("BookAppointment returned error: %v", err)
		}
		if result.AppointmentID == uuid.Nil {
			t.Error("AppointmentID is zero")
		}
		if len(f.repo.rows) != 1 || f.repo.rows[0].Status != entity.AppointmentStatusScheduled {
			t.Fatalf("stored rows = %+v, want one scheduled row", f.repo.rows)
		}
		if err := f.mock.ExpectationsWereMet(); err != nil {
			t.Errorf("transaction expectations: %v", err)
		}
	})

	t.Run("identical slot conflicts and rolls back", func(t *testing.T) {
		f := newBookingFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		if _, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:00")); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		_, err := f.usecase.BookAppointment(context.Background(), uuid.New(), bookingRequest(1, "2099-01-05T10:00"))
		if !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("error = %v, want ErrSlotTaken", err)
		}
		if len(f.repo.rows) != 1 {
			t.Errorf("stored rows = %d, want 1", len(f.repo.rows))
		}
		if err := f.mock.ExpectationsWereMet(); err != nil {
			t.Errorf("transaction expectations: %v", err)
		}
	})

	t.Run("slot inside the 30-minute window conflicts", func(t *testing.T) {
		f := newBookingFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		if _, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:00")); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		// 10:00 sits inside the [09:45, 10:15) window
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		if _, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T09:45")); !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("error = %v, want ErrSlotTaken", err)
		}

		// 10:30 starts a fresh window
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		if _, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:30")); err != nil {
			t.Fatalf("adjacent slot failed: %v", err)
		}
	})

	t.Run("racing insert surfaces as slot taken", func(t *testing.T) {
		f := newBookingFixture(t)
		// Both transactions read the slot as free; the second insert trips
		// the partial unique index instead.
		f.repo.blindReads = true

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		if _, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:00")); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		_, err := f.usecase.BookAppointment(context.Background(), uuid.New(), bookingRequest(1, "2099-01-05T10:00"))
		if !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("error = %v, want ErrSlotTaken", err)
		}
		if err := f.mock.ExpectationsWereMet(); err != nil {
			t.Errorf("transaction expectations: %v", err)
		}
	})

	t.Run("unknown doctor rolls back with not found", func(t *testing.T) {
		f := newBookingFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		if _, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(99, "2099-01-05T10:00")); !errors.Is(err, ErrDoctorNotFound) {
			t.Fatalf("error = %v, want ErrDoctorNotFound", err)
		}
		if err := f.mock.ExpectationsWereMet(); err != nil {
			t.Errorf("transaction expectations: %v", err)
		}
	})
}

func TestCancelAppointmentFlow(t *testing.T) {
	patientID := uuid.New()

	t.Run("canceling frees the slot for rebooking", func(t *testing.T) {
		f := newBookingFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		result, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:00"))
		if err != nil {
			t.Fatalf("booking failed: %v", err)
		}

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		if err := f.usecase.CancelAppointment(context.Background(), patientID, result.AppointmentID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		rebooked, err := f.usecase.BookAppointment(context.Background(), uuid.New(), bookingRequest(1, "2099-01-05T10:00"))
		if err != nil {
			t.Fatalf("rebooking a canceled slot failed: %v", err)
		}
		if rebooked.AppointmentID == result.AppointmentID {
			t.Error("rebooking reused the canceled appointment id")
		}
	})

	t.Run("foreign appointment reports not found", func(t *testing.T) {
		f := newBookingFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		result, err := f.usecase.BookAppointment(context.Background(), patientID, bookingRequest(1, "2099-01-05T10:00"))
		if err != nil {
			t.Fatalf("booking failed: %v", err)
		}

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		if err := f.usecase.CancelAppointment(context.Background(), uuid.New(), result.AppointmentID); !errors.Is(err, ErrAppointmentNotFound) {
			t.Fatalf("error = %v, want ErrAppointmentNotFound", err)
		}
		if f.repo.rows[0].Status != entity.AppointmentStatusScheduled {
			t.Errorf("status = %s, want scheduled", f.repo.rows[0].Status)
		}
	})

	t.Run("completed appointment cannot transition to canceled", func(t *testing.T) {
		f := newBookingFixture(t)
		done := &entity.Appointment{
			ID:        uuid.New(),
			PatientID: patientID,
			DoctorID:  1,
			Status:    entity.AppointmentStatusCompleted,
		}
		f.repo.rows = append(f.repo.rows, done)

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()
		if err := f.usecase.CancelAppointment(context.Background(), patientID, done.ID); !errors.Is(err, ErrAppointmentNotFound) {
			t.Fatalf("error = %v, want ErrAppointmentNotFound", err)
		}
		if done.Status != entity.AppointmentStatusCompleted {
			t.Errorf("status = %s, want completed", done.Status)
		}
	})
}
