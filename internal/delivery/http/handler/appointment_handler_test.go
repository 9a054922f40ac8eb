package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type stubAppointmentUsecase struct {
	bookErr   error
	cancelErr error
}

func (s *stubAppointmentUsecase) BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return &dto.CreateAppointmentResponse{AppointmentID: uuid.New()}, nil
}

func (s *stubAppointmentUsecase) GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Total: 0}, nil
}

func (s *stubAppointmentUsecase) CancelAppointment(ctx context.Context, patientID uuid.UUID, appointmentID uuid.UUID) error {
	return s.cancelErr
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestBookAppointmentStatusMapping(t *testing.T) {
	body := `{"doctorId": 1, "datetime": "2099-01-05T10:00"}`

	tests := []struct {
		name       string
		bookErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusCreated},
		{"missing fields", usecase.ErrMissingBookingFields, http.StatusBadRequest},
		{"bad datetime", usecase.ErrInvalidDatetime, http.StatusBadRequest},
		{"past slot", usecase.ErrAppointmentInPast, http.StatusBadRequest},
		{"unknown doctor", usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"unavailable weekday", &usecase.UnavailableDayError{Weekday: "Saturday"}, http.StatusConflict},
		{"outside hours", &usecase.OutsideHoursError{StartTime: "09:00", EndTime: "17:00"}, http.StatusConflict},
		{"slot taken", usecase.ErrSlotTaken, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAppointmentHandler(&stubAppointmentUsecase{bookErr: tc.bookErr}, validator.NewValidator())

			rec := httptest.NewRecorder()
			h.BookAppointment(rec, authedRequest(http.MethodPost, "/appointments", body))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}

	t.Run("conflict message carries the weekday", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{bookErr: &usecase.UnavailableDayError{Weekday: "Saturday"}}, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.BookAppointment(rec, authedRequest(http.MethodPost, "/appointments", body))

		var resp struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if resp.Message != "Doctor not available on Saturdays" {
			t.Errorf("message = %q, want %q", resp.Message, "Doctor not available on Saturdays")
		}
	})

	t.Run("unauthenticated request rejected", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("invalid json body rejected", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.BookAppointment(rec, authedRequest(http.MethodPost, "/appointments", "{broken"))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestCancelAppointmentStatusMapping(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{cancelErr: usecase.ErrAppointmentNotFound}, validator.NewValidator())

		req := authedRequest(http.MethodDelete, "/appointments/"+uuid.New().String(), "")
		req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("success maps to 200", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())

		req := authedRequest(http.MethodDelete, "/appointments/"+uuid.New().String(), "")
		req = mux.SetURLVars(req, map[string]string{"id": uuid.New().String()})

		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		h := NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator())

		req := authedRequest(http.MethodDelete, "/appointments/not-a-uuid", "")
		req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})

		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}
