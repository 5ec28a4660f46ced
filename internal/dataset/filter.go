package dataset

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jgoulah/bikestats/internal/config"
	"github.com/jgoulah/bikestats/pkg/models"
)

// Engine narrows datasets by month and weekday
// Month numbers come from the position of the name in the configured list
type Engine struct {
	months map[string]int
	days   map[string]bool
}

// NewEngine builds a filter engine from the month and day enumerations
func NewEngine(months, days []string) (*Engine, error) {
	e := &Engine{
		months: make(map[string]int, len(months)),
		days:   make(map[string]bool, len(days)),
	}
	for i, m := range months {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || m == config.AllFilter {
			return nil, fmt.Errorf("invalid month name %q", m)
		}
		e.months[m] = i + 1
	}

	weekdays := make(map[string]bool, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays[strings.ToLower(d.String())] = true
	}
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if !weekdays[d] {
			return nil, fmt.Errorf("invalid weekday name %q", d)
		}
		e.days[d] = true
	}
	return e, nil
}

// NewEngineFromConfig builds a filter engine from the configured enumerations
func NewEngineFromConfig(cfg *config.Config) (*Engine, error) {
	return NewEngine(cfg.Months, cfg.Days)
}

// Filter returns the trips of ds that match month AND day, in their original
// order. "all" disables either filter. The input dataset is never modified,
// and a nil dataset is an ErrDataSource
func (e *Engine) Filter(ds *Dataset, month, day string) (*Dataset, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset to filter", ErrDataSource)
	}

	month = strings.ToLower(strings.TrimSpace(month))
	day = strings.ToLower(strings.TrimSpace(day))

	wantMonth := 0
	if month != config.AllFilter {
		n, ok := e.months[month]
		if !ok {
			return nil, fmt.Errorf("%w: month %q", ErrInvalidFilter, month)
		}
		wantMonth = n
	}

	wantDay := ""
	if day != config.AllFilter {
		if !e.days[day] {
			return nil, fmt.Errorf("%w: day %q", ErrInvalidFilter, day)
		}
		wantDay = cases.Title(language.English).String(day)
	}

	out := &Dataset{City: ds.City, Schema: ds.Schema}
	if ds.Len() == 0 {
		return out, nil
	}

	out.Trips = make([]models.Trip, 0, len(ds.Trips))
	for _, trip := range ds.Trips {
		if wantMonth != 0 && trip.Month != wantMonth {
			continue
		}
		if wantDay != "" && trip.DayOfWeek != wantDay {
			continue
		}
		out.Trips = append(out.Trips, trip)
	}
	return out, nil
}
