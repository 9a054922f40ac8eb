package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusMissed    AppointmentStatus = "missed"
)

// SlotDurationMinutes is the fixed bookable slot granularity.
const SlotDurationMinutes = 30

// Appointment is a booked slot: (doctor, date, time) at 30-minute
// granularity. Rows are never deleted; cancellation is a status transition
// that frees the slot.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        int               `gorm:"not null;index" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:time;not null" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:appointment_status;not null;default:'scheduled';index" json:"status"`
	DurationMinutes int               `gorm:"not null;default:30" json:"duration_minutes"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment is still scheduled
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsCanceled checks if the appointment has been canceled
func (a *Appointment) IsCanceled() bool {
	return a.Status == AppointmentStatusCanceled
}

// Cancel transitions the appointment to canceled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCanceled
}
