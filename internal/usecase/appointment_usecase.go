package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMissingBookingFields = errors.New("missing required fields")
	ErrInvalidDatetime      = errors.New("invalid datetime format, use YYYY-MM-DDTHH:MM")
	ErrAppointmentInPast    = errors.New("cannot book appointments in the past")
	ErrSlotTaken            = errors.New("time slot conflict with existing appointment")
	ErrAppointmentNotFound  = errors.New("appointment not found")
)

// UnavailableDayError is returned when the requested date falls on a weekday
// outside the doctor's available days.
type UnavailableDayError struct {
	Weekday string
}

func (e *UnavailableDayError) Error() string {
	return fmt.Sprintf("doctor not available on %ss", e.Weekday)
}

// OutsideHoursError is returned when the requested time of day falls outside
// the doctor's working hours.
type OutsideHoursError struct {
	StartTime string
	EndTime   string
}

func (e *OutsideHoursError) Error() string {
	return fmt.Sprintf("doctor only available between %s and %s", e.StartTime, e.EndTime)
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
	GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, patientID uuid.UUID, appointmentID uuid.UUID) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService

	// now is swapped out in tests
	now func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		now:             time.Now,
	}
}

var datetimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

// requestedSlot is a parsed booking request: a calendar date plus a
// time-of-day clock at 30-minute slot granularity.
type requestedSlot struct {
	date  time.Time
	clock string
	at    time.Time
}

func parseSlot(datetime string) (*requestedSlot, error) {
	if !datetimePattern.MatchString(datetime) {
		return nil, ErrInvalidDatetime
	}
	at, err := time.ParseInLocation("2006-01-02T15:04", datetime, time.Local)
	if err != nil {
		return nil, ErrInvalidDatetime
	}

	return &requestedSlot{
		date:  time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location()),
		clock: datetime[11:],
		at:    at,
	}, nil
}

// checkAdmission runs the doctor-level admission predicates in their
// deterministic order: weekday availability first, then working hours.
func checkAdmission(doctor *entity.Doctor, slot *requestedSlot) error {
	weekday := slot.at.Weekday().String()
	if !doctor.IsAvailableOn(weekday) {
		return &UnavailableDayError{Weekday: weekday}
	}

	if !doctor.WithinWorkingHours(slot.clock) {
		return &OutsideHoursError{
			StartTime: clockOfDay(doctor.StartTime),
			EndTime:   clockOfDay(doctor.EndTime),
		}
	}

	return nil
}

func clockOfDay(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}

// BookAppointment validates a requested slot and commits it atomically.
//
// Validation order (fail fast, first violation wins):
// 1. presence and exact YYYY-MM-DDTHH:MM format
// 2. not in the past
// 3. doctor exists (row locked for the rest of the transaction)
// 4. weekday is in the doctor's available days
// 5. time of day inside working hours (inclusive bounds)
// 6. no non-canceled appointment in the same 30-minute window
// 7. insert, status scheduled, duration 30
//
// Steps 3-7 run in one transaction. The doctor row lock serializes bookings
// per doctor; the partial unique index on active slots backstops the race on
// an identical slot, surfacing as a unique violation mapped to ErrSlotTaken.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	if req.DoctorID <= 0 || req.Datetime == "" {
		return nil, ErrMissingBookingFields
	}

	slot, err := parseSlot(req.Datetime)
	if err != nil {
		return nil, err
	}

	if slot.at.Before(u.now()) {
		return nil, ErrAppointmentInPast
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByIDForUpdate(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := checkAdmission(doctor, slot); err != nil {
		return nil, err
	}

	conflict, err := u.appointmentRepo.FindConflict(tx, doctor.ID, slot.date, slot.clock)
	if err != nil {
		u.log.Warnf("Failed conflict check for doctor %d at %s: %+v", doctor.ID, req.Datetime, err)
		return nil, err
	}
	if conflict != nil {
		return nil, ErrSlotTaken
	}

	appointment := &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        doctor.ID,
		AppointmentDate: slot.date,
		AppointmentTime: slot.clock,
		Status:          entity.AppointmentStatusScheduled,
		DurationMinutes: entity.SlotDurationMinutes,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotTaken
		}
		if isForeignKeyError(err, "doctor_id") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.auditService.LogChange(tx, &patientID, entity.AuditActionAppointmentCreate,
		"appointment", appointment.ID.String(), nil, map[string]interface{}{
			"doctor_id": doctor.ID,
			"date":      slot.date.Format("2006-01-02"),
			"time":      slot.clock,
		})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit booking transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%d, patient=%s, at=%s", appointment.ID, doctor.ID, patientID, req.Datetime)
	return &dto.CreateAppointmentResponse{AppointmentID: appointment.ID}, nil
}

// GetMyAppointments returns all appointments for the logged-in patient
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CancelAppointment cancels the appointment only when it belongs to the
// caller. Absence and foreign ownership are deliberately indistinguishable:
// both report not found, so existence never leaks to non-owners.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, patientID uuid.UUID, appointmentID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.appointmentRepo.CancelOwned(tx, appointmentID, patientID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	u.auditService.LogChange(tx, &patientID, entity.AuditActionAppointmentCancel,
		"appointment", appointmentID.String(),
		string(entity.AppointmentStatusScheduled), string(entity.AppointmentStatusCanceled))

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancellation: %+v", err)
		return err
	}

	u.log.Infof("Appointment canceled: id=%s, patient=%s", appointmentID, patientID)
	return nil
}
