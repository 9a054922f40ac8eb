package repository

import (
	"clinic-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id int) (*entity.Doctor, error)
	// FindByIDForUpdate locks the doctor row for the duration of the
	// caller's transaction, serializing bookings per doctor.
	FindByIDForUpdate(db *gorm.DB, id int) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	UpdateAvailability(db *gorm.DB, id int, days entity.WeekdayList, startTime, endTime string) error
}
