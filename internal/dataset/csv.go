package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/bikestats/pkg/models"
)

// Column keys after header normalisation
const (
	ColStartTime    = "start_time"
	ColEndTime      = "end_time"
	ColDuration     = "trip_duration_seconds"
	ColStartStation = "start_station"
	ColEndStation   = "end_station"
	ColUserType     = "user_type"
	ColGender       = "gender"
	ColBirthYear    = "birth_year"
)

// RequiredColumns must be present in every source file
var RequiredColumns = []string{ColStartTime, ColDuration, ColStartStation, ColEndStation, ColUserType}

// columnAliases maps alternative header spellings onto column keys
var columnAliases = map[string]string{
	"trip_duration": ColDuration,
	"duration":      ColDuration,
}

// Accepted birth year range
const (
	minBirthYear = 1800
	maxBirthYear = 9999
)

// timeLayouts are tried in order when parsing start and end times
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadCSV parses trip rows from r and derives the calendar fields of every trip
// Headers are matched case-insensitively with spaces and dashes treated as
// underscores, so "Start Time" and "start_time" are the same column
func ReadCSV(r io.Reader, city string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // trailing optional cells may be left off

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: empty source", ErrSchema, city)
	}
	if err != nil {
		return nil, classifyReadError(city, err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := toSnakeCase(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if key == "" {
			continue // unnamed index column
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing required column %q", ErrSchema, city, col)
		}
	}

	_, hasGender := index[ColGender]
	_, hasBirthYear := index[ColBirthYear]
	ds := &Dataset{
		City:   city,
		Schema: models.Schema{HasGender: hasGender, HasBirthYear: hasBirthYear},
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classifyReadError(city, err)
		}
		line++

		trip, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: line %d: %v", ErrSchema, city, line, err)
		}
		trip.ID = len(ds.Trips) + 1
		trip.Derive()
		ds.Trips = append(ds.Trips, trip)
	}

	return ds, nil
}

func parseRow(row []string, index map[string]int) (models.Trip, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var trip models.Trip
	var err error

	for _, col := range RequiredColumns {
		if index[col] >= len(row) {
			return trip, fmt.Errorf("row has %d fields, missing column %q", len(row), col)
		}
	}

	raw := field(ColStartTime)
	if raw == "" {
		return trip, fmt.Errorf("column %q is empty", ColStartTime)
	}
	if trip.StartTime, err = ParseTimestamp(raw); err != nil {
		return trip, fmt.Errorf("column %q: %w", ColStartTime, err)
	}

	if raw = field(ColEndTime); raw != "" {
		if trip.EndTime, err = ParseTimestamp(raw); err != nil {
			return trip, fmt.Errorf("column %q: %w", ColEndTime, err)
		}
	}

	raw = field(ColDuration)
	trip.DurationSeconds, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(trip.DurationSeconds) || math.IsInf(trip.DurationSeconds, 0) {
		return trip, fmt.Errorf("column %q: invalid number %q", ColDuration, raw)
	}
	if trip.DurationSeconds < 0 {
		return trip, fmt.Errorf("column %q: negative duration %v", ColDuration, trip.DurationSeconds)
	}

	trip.StartStation = field(ColStartStation)
	trip.EndStation = field(ColEndStation)
	trip.UserType = field(ColUserType)
	trip.Gender = field(ColGender)

	if raw = field(ColBirthYear); raw != "" {
		year, err := strconv.Atoi(strings.TrimSuffix(raw, ".0"))
		if err != nil || year < minBirthYear || year > maxBirthYear {
			return trip, fmt.Errorf("column %q: invalid year %q", ColBirthYear, raw)
		}
		trip.BirthYear = year
	}

	return trip, nil
}

// ParseTimestamp parses a trip timestamp in any of the accepted layouts
// Timestamps without a zone are read as UTC wall-clock times
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func classifyReadError(city string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %v", ErrSchema, city, err)
	}
	return fmt.Errorf("%w: %s: reading source: %v", ErrDataSource, city, err)
}

// toSnakeCase converts "Column Name" → "column_name"
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
