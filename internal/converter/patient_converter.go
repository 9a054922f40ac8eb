package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		Name:      patient.Name,
		Email:     patient.Email,
		Age:       patient.Age,
		Gender:    patient.Gender,
		Country:   patient.Country,
		Role:      patient.Role,
		CreatedAt: patient.CreatedAt,
	}
}
