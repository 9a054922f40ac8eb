package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// BookAppointment runs the admission check and books the slot
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.appointmentUsecase.BookAppointment(r.Context(), patientID, &req)
	if err != nil {
		var unavailableDay *usecase.UnavailableDayError
		var outsideHours *usecase.OutsideHoursError
		switch {
		case errors.Is(err, usecase.ErrMissingBookingFields):
			response.Error(w, http.StatusBadRequest, "Missing required fields", nil)
		case errors.Is(err, usecase.ErrInvalidDatetime):
			response.Error(w, http.StatusBadRequest, "Invalid datetime format. Use YYYY-MM-DDTHH:MM", nil)
		case errors.Is(err, usecase.ErrAppointmentInPast):
			response.Error(w, http.StatusBadRequest, "Cannot book appointments in the past", nil)
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.As(err, &unavailableDay):
			response.Conflict(w, "Doctor not available on "+unavailableDay.Weekday+"s")
		case errors.As(err, &outsideHours):
			response.Conflict(w, "Doctor only available between "+outsideHours.StartTime+" and "+outsideHours.EndTime)
		case errors.Is(err, usecase.ErrSlotTaken):
			response.Conflict(w, "Time slot conflict with existing appointment")
		default:
			response.InternalServerError(w, "Booking failed due to a server error")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", result)
}

// GetMyAppointments lists the caller's appointments
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to fetch appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// CancelAppointment cancels an appointment owned by the caller
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	if err := h.appointmentUsecase.CancelAppointment(r.Context(), patientID, appointmentID); err != nil {
		if errors.Is(err, usecase.ErrAppointmentNotFound) {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment canceled successfully", nil)
}
