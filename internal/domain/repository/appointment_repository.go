package repository

import (
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	// FindConflict returns a non-canceled appointment for the doctor on the
	// given date whose time falls inside the 30-minute window starting at
	// startClock, or nil when the slot is free.
	FindConflict(db *gorm.DB, doctorID int, date time.Time, startClock string) (*entity.Appointment, error)
	// CancelOwned atomically cancels the appointment only when id and owning
	// patient match and the row is still scheduled; completed or missed
	// appointments never transition back. Returns affected rows: 0 means
	// absent, not owned by the caller, or not cancelable.
	CancelOwned(db *gorm.DB, id uuid.UUID, patientID uuid.UUID) (int64, error)
}
