package entity

import (
	"database/sql/driver"
	"encoding/json"
)

// WeekdayList is a set of weekday names ("Monday" .. "Sunday") persisted as
// a JSON array in a text column. Malformed stored data is normalized to the
// empty list at scan time so a single bad row cannot fail a whole listing.
type WeekdayList []string

var weekdayNames = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

// IsWeekdayName reports whether s is a canonical English weekday name.
func IsWeekdayName(s string) bool {
	return weekdayNames[s]
}

// Contains reports membership of the named weekday.
func (w WeekdayList) Contains(weekday string) bool {
	for _, day := range w {
		if day == weekday {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (w WeekdayList) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(w))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Anything that is not a JSON string array
// scans as the empty list rather than an error.
func (w *WeekdayList) Scan(value interface{}) error {
	*w = WeekdayList{}
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	var days []string
	if err := json.Unmarshal(bytes, &days); err != nil {
		return nil
	}
	*w = WeekdayList(days)
	return nil
}
