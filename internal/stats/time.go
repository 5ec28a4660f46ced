// Package stats computes descriptive statistics over a filtered trip dataset
//
// Every aggregator reads the dataset without modifying it, so they can run in
// any order or concurrently. Each fails with ErrEmptyDataset on zero trips
package stats

import (
	"errors"
	"sort"
	"time"

	"github.com/jgoulah/bikestats/internal/dataset"
)

// ErrEmptyDataset is returned when a statistic is undefined over zero trips
var ErrEmptyDataset = errors.New("no trips to analyze")

// TimeStats holds the most frequent times of travel
// Months and Days hold every tied value; Hour is the smallest tied hour
type TimeStats struct {
	Months     []int    `json:"months"`
	MonthNames []string `json:"month_names"`
	MonthTrips int      `json:"month_trips"`
	Days       []string `json:"days"`
	DayTrips   int      `json:"day_trips"`
	Hour       int      `json:"hour"`
	HourTrips  int      `json:"hour_trips"`
}

// ComputeTime finds the most common month(s), weekday(s) and start hour
func ComputeTime(ds *dataset.Dataset) (TimeStats, error) {
	if ds.Len() == 0 {
		return TimeStats{}, ErrEmptyDataset
	}

	months := newTally[int]()
	days := newTally[string]()
	hours := newTally[int]()
	for _, trip := range ds.Trips {
		months.add(trip.Month)
		days.add(trip.DayOfWeek)
		hours.add(trip.Hour())
	}

	var out TimeStats

	out.Months = months.modes()
	sort.Ints(out.Months)
	out.MonthTrips = months.max()
	for _, m := range out.Months {
		out.MonthNames = append(out.MonthNames, time.Month(m).String())
	}

	out.Days = days.modes()
	sort.Slice(out.Days, func(i, j int) bool {
		return weekdayIndex(out.Days[i]) < weekdayIndex(out.Days[j])
	})
	out.DayTrips = days.max()

	out.Hour, out.HourTrips = smallestMode(hours)

	return out, nil
}

func weekdayIndex(name string) int {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return int(d)
		}
	}
	return 7
}
