package dto

// Request DTOs

type CreateDoctorRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Specialization string   `json:"specialization" validate:"required"`
	AvailableDays  []string `json:"available_days" validate:"required,min=1,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime      string   `json:"start_time" validate:"required"`
	EndTime        string   `json:"end_time" validate:"required"`
	// Optional login account for the doctor, provisioned in the same
	// transaction as the doctor row.
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type UpdateAvailabilityRequest struct {
	AvailableDays []string `json:"available_days" validate:"required,min=1,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime     string   `json:"start_time" validate:"required"`
	EndTime       string   `json:"end_time" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	AvailableDays  []string `json:"available_days"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
