package repository

import (
	"errors"
	"time"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindConflict checks the fixed 30-minute window [startClock, startClock+30m)
// for any non-canceled appointment of the doctor on that date. The window
// arithmetic stays in SQL so time wraparound follows postgres semantics.
func (r *appointmentRepository) FindConflict(db *gorm.DB, doctorID int, date time.Time, startClock string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where(
		"doctor_id = ? AND appointment_date = ? AND appointment_time >= ?::time AND appointment_time < ?::time + interval '30 minutes' AND status <> ?",
		doctorID, date.Format("2006-01-02"), startClock, startClock, entity.AppointmentStatusCanceled,
	).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) CancelOwned(db *gorm.DB, id uuid.UUID, patientID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND patient_id = ? AND status = ?", id, patientID, entity.AppointmentStatusScheduled).
		Update("status", entity.AppointmentStatusCanceled)
	return result.RowsAffected, result.Error
}
