package models

import "time"

// Trip represents a single bikeshare trip
type Trip struct {
	ID              int       `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time,omitempty"` // Zero when the source has no end time
	DurationSeconds float64   `json:"trip_duration_seconds"`
	StartStation    string    `json:"start_station"`
	EndStation      string    `json:"end_station"`
	UserType        string    `json:"user_type"`
	Gender          string    `json:"gender,omitempty"`     // Empty when blank or not recorded
	BirthYear       int       `json:"birth_year,omitempty"` // 0 when blank or not recorded

	// Derived from StartTime at load time
	Month     int    `json:"month"`
	DayOfWeek string `json:"day_of_week"`
}

// Derive fills in the calendar fields from StartTime
func (t *Trip) Derive() {
	t.Month = int(t.StartTime.Month())
	t.DayOfWeek = t.StartTime.Weekday().String()
}

// Hour returns the hour of day the trip started
func (t Trip) Hour() int {
	return t.StartTime.Hour()
}

// Route joins the start and end stations into a single route label
func (t Trip) Route() string {
	return t.StartStation + " and " + t.EndStation
}

// Schema records which optional columns a dataset carries
// It is a property of the whole dataset, not of individual trips
type Schema struct {
	HasGender    bool `json:"has_gender"`
	HasBirthYear bool `json:"has_birth_year"`
}
