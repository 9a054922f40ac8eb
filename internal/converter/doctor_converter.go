package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO.
// AvailableDays is never nil in the response: malformed stored data already
// normalized to the empty list at scan time.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	days := doctor.AvailableDays
	if days == nil {
		days = entity.WeekdayList{}
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
		AvailableDays:  days,
		StartTime:      clockOfDay(doctor.StartTime),
		EndTime:        clockOfDay(doctor.EndTime),
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// clockOfDay trims the seconds a postgres time column scans with, keeping
// the HH:MM form the API speaks.
func clockOfDay(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}
