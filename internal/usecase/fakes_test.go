package usecase

import (
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testGormDB opens gorm over a sqlmock connection so transaction begin,
// commit and rollback can be asserted without a live database.
func testGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

type recordingAuditService struct {
	actions []string
	userIDs []uuid.UUID
}

func (s *recordingAuditService) LogAction(tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	s.actions = append(s.actions, action)
	if userID != nil {
		s.userIDs = append(s.userIDs, *userID)
	}
	return nil
}

func (s *recordingAuditService) LogChange(tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	s.actions = append(s.actions, action)
	if userID != nil {
		s.userIDs = append(s.userIDs, *userID)
	}
	return nil
}

type fakeDoctorRepo struct {
	doctors map[int]*entity.Doctor
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	doctor.ID = len(r.doctors) + 1
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeDoctorRepo) FindByID(db *gorm.DB, id int) (*entity.Doctor, error) {
	return r.doctors[id], nil
}

func (r *fakeDoctorRepo) FindByIDForUpdate(db *gorm.DB, id int) (*entity.Doctor, error) {
	return r.doctors[id], nil
}

func (r *fakeDoctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	doctors := make([]entity.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		doctors = append(doctors, *d)
	}
	return doctors, nil
}

func (r *fakeDoctorRepo) UpdateAvailability(db *gorm.DB, id int, days entity.WeekdayList, startTime, endTime string) error {
	d, ok := r.doctors[id]
	if !ok {
		return nil
	}
	d.AvailableDays = days
	d.StartTime = startTime
	d.EndTime = endTime
	return nil
}

// fakeAppointmentRepo keeps rows in memory with the same slot semantics as
// the real table: the active-slot uniqueness holds at insert time, and the
// conflict window skips canceled rows. With blindReads set the conflict
// lookup always reports free, simulating two transactions that both read
// before either insert.
type fakeAppointmentRepo struct {
	rows       []*entity.Appointment
	blindReads bool
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	for _, row := range r.rows {
		if row.DoctorID == appointment.DoctorID &&
			row.AppointmentDate.Equal(appointment.AppointmentDate) &&
			row.AppointmentTime == appointment.AppointmentTime &&
			row.Status != entity.AppointmentStatusCanceled {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_active_slot"}
		}
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	r.rows = append(r.rows, appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, row := range r.rows {
		if row.PatientID == patientID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindConflict(db *gorm.DB, doctorID int, date time.Time, startClock string) (*entity.Appointment, error) {
	if r.blindReads {
		return nil, nil
	}
	start, err := entity.MinutesOfDay(startClock)
	if err != nil {
		return nil, err
	}
	for _, row := range r.rows {
		if row.DoctorID != doctorID || !row.AppointmentDate.Equal(date) || row.Status == entity.AppointmentStatusCanceled {
			continue
		}
		at, err := entity.MinutesOfDay(row.AppointmentTime)
		if err != nil {
			continue
		}
		if at >= start && at < start+entity.SlotDurationMinutes {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) CancelOwned(db *gorm.DB, id uuid.UUID, patientID uuid.UUID) (int64, error) {
	for _, row := range r.rows {
		if row.ID == id && row.PatientID == patientID && row.Status == entity.AppointmentStatusScheduled {
			row.Status = entity.AppointmentStatusCanceled
			return 1, nil
		}
	}
	return 0, nil
}
