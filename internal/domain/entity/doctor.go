package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Doctor holds a doctor's weekly availability: a set of weekday names plus
// an inclusive daily [StartTime, EndTime] working-hours window.
type Doctor struct {
	ID             int         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string      `gorm:"type:varchar(255);not null" json:"name"`
	Specialization string      `gorm:"type:varchar(100);not null;index" json:"specialization"`
	AvailableDays  WeekdayList `gorm:"type:text;not null;default:'[]'" json:"available_days"`
	StartTime      string      `gorm:"type:time;not null" json:"start_time"`
	EndTime        string      `gorm:"type:time;not null" json:"end_time"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// IsAvailableOn reports whether the doctor works on the named weekday.
func (d *Doctor) IsAvailableOn(weekday string) bool {
	return d.AvailableDays.Contains(weekday)
}

// WithinWorkingHours reports whether the given time of day falls inside the
// doctor's working hours. Both bounds are inclusive and the comparison is
// purely on time of day.
func (d *Doctor) WithinWorkingHours(clock string) bool {
	t, err := MinutesOfDay(clock)
	if err != nil {
		return false
	}
	start, err := MinutesOfDay(d.StartTime)
	if err != nil {
		return false
	}
	end, err := MinutesOfDay(d.EndTime)
	if err != nil {
		return false
	}
	return t >= start && t <= end
}

// MinutesOfDay parses a clock string as minutes since midnight. Accepts both
// HH:MM and the HH:MM:SS form postgres time columns scan as.
func MinutesOfDay(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time of day %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q", clock)
	}
	return hour*60 + minute, nil
}
