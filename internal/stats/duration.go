package stats

import "github.com/jgoulah/bikestats/internal/dataset"

// DurationStats holds total and average trip duration
type DurationStats struct {
	Trips        int     `json:"trips"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	MeanSeconds  float64 `json:"mean_seconds"`
	MeanMinutes  float64 `json:"mean_minutes"`
}

// SumDuration returns the total trip duration in seconds; 0 for no trips
func SumDuration(ds *dataset.Dataset) float64 {
	var total float64
	for _, trip := range ds.Trips {
		total += trip.DurationSeconds
	}
	return total
}

// ComputeDuration sums and averages trip durations
// On an empty dataset the totals (both 0) are returned together with
// ErrEmptyDataset, since the mean is undefined
func ComputeDuration(ds *dataset.Dataset) (DurationStats, error) {
	out := DurationStats{Trips: ds.Len()}
	out.TotalSeconds = SumDuration(ds)
	out.TotalHours = out.TotalSeconds / 3600

	if out.Trips == 0 {
		return out, ErrEmptyDataset
	}

	out.MeanSeconds = out.TotalSeconds / float64(out.Trips)
	out.MeanMinutes = out.MeanSeconds / 60
	return out, nil
}
