package converter

import (
	"reflect"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

func TestDoctorToResponse(t *testing.T) {
	t.Run("trims seconds off time bounds", func(t *testing.T) {
		resp := DoctorToResponse(&entity.Doctor{
			ID:             3,
			Name:           "Dr. Osei",
			Specialization: "Cardiology",
			AvailableDays:  entity.WeekdayList{"Monday"},
			StartTime:      "09:00:00",
			EndTime:        "17:30:00",
		})

		if resp.StartTime != "09:00" || resp.EndTime != "17:30" {
			t.Errorf("bounds = %q-%q, want 09:00-17:30", resp.StartTime, resp.EndTime)
		}
	})

	t.Run("nil day list becomes empty list", func(t *testing.T) {
		resp := DoctorToResponse(&entity.Doctor{ID: 1, StartTime: "09:00", EndTime: "17:00"})
		if resp.AvailableDays == nil {
			t.Fatal("AvailableDays is nil, want empty list")
		}
		if len(resp.AvailableDays) != 0 {
			t.Errorf("AvailableDays = %v, want empty", resp.AvailableDays)
		}
	})

	t.Run("nil doctor yields nil response", func(t *testing.T) {
		if DoctorToResponse(nil) != nil {
			t.Error("DoctorToResponse(nil) != nil")
		}
	})
}

func TestAppointmentToResponse(t *testing.T) {
	appointmentID := uuid.New()
	patientID := uuid.New()

	appointment := &entity.Appointment{
		ID:              appointmentID,
		PatientID:       patientID,
		DoctorID:        3,
		AppointmentDate: time.Date(2099, time.January, 5, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:30:00",
		Status:          entity.AppointmentStatusScheduled,
		DurationMinutes: entity.SlotDurationMinutes,
	}

	resp := AppointmentToResponse(appointment)
	if resp.AppointmentDate != "2099-01-05" {
		t.Errorf("AppointmentDate = %q, want 2099-01-05", resp.AppointmentDate)
	}
	if resp.AppointmentTime != "10:30" {
		t.Errorf("AppointmentTime = %q, want 10:30", resp.AppointmentTime)
	}
	if resp.Status != "scheduled" {
		t.Errorf("Status = %q, want scheduled", resp.Status)
	}
	if resp.Doctor != nil {
		t.Error("Doctor populated without a preloaded doctor row")
	}

	t.Run("includes preloaded doctor", func(t *testing.T) {
		withDoctor := *appointment
		withDoctor.Doctor = entity.Doctor{ID: 3, Name: "Dr. Osei"}
		resp := AppointmentToResponse(&withDoctor)
		if resp.Doctor == nil || resp.Doctor.Name != "Dr. Osei" {
			t.Errorf("Doctor = %+v, want Dr. Osei", resp.Doctor)
		}
	})

	t.Run("slice conversion preserves order", func(t *testing.T) {
		second := *appointment
		second.ID = uuid.New()
		second.AppointmentTime = "11:00:00"

		got := AppointmentsToResponses([]entity.Appointment{*appointment, second})
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if !reflect.DeepEqual([]string{got[0].AppointmentTime, got[1].AppointmentTime}, []string{"10:30", "11:00"}) {
			t.Errorf("times = %v, want [10:30 11:00]", []string{got[0].AppointmentTime, got[1].AppointmentTime})
		}
	})
}
