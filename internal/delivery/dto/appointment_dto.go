package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID int    `json:"doctorId" validate:"required,min=1"`
	Datetime string `json:"datetime" validate:"required"` // Format: YYYY-MM-DDTHH:MM
}

// Response DTOs

type CreateAppointmentResponse struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
}

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PatientID       uuid.UUID       `json:"patient_id"`
	DoctorID        int             `json:"doctor_id"`
	AppointmentDate string          `json:"appointment_date"`
	AppointmentTime string          `json:"appointment_time"`
	Status          string          `json:"status"`
	DurationMinutes int             `json:"duration_minutes"`
	Doctor          *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
