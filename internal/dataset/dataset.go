// Package dataset loads city trip data and narrows it by calendar filters
package dataset

import (
	"errors"

	"github.com/jgoulah/bikestats/pkg/models"
)

var (
	// ErrDataSource means the backing source for a city is missing or unreadable
	ErrDataSource = errors.New("data source unavailable")
	// ErrSchema means a required column is missing or holds unparseable values
	ErrSchema = errors.New("schema error")
	// ErrInvalidFilter means a month or day filter is outside the configured enumerations
	ErrInvalidFilter = errors.New("invalid filter")
)

// Dataset is the ordered trip data for one city
// Datasets are never modified after loading; filtering returns a new Dataset
type Dataset struct {
	City   string
	Schema models.Schema
	Trips  []models.Trip
}

// Len returns the number of trips
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Trips)
}

// Page returns up to size trips starting at offset
// An offset past the end yields an empty page
func (d *Dataset) Page(offset, size int) []models.Trip {
	if offset < 0 {
		offset = 0
	}
	if offset >= d.Len() || size <= 0 {
		return nil
	}
	end := offset + size
	if end > len(d.Trips) {
		end = len(d.Trips)
	}
	return d.Trips[offset:end]
}
