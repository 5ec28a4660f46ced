package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/bikestats/internal/dataset"
)

// Section carries the outcome of one aggregator
type Section struct {
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
	err     error
}

// Err returns the aggregator's error, if any
func (s Section) Err() error { return s.err }

func (s *Section) finish(start time.Time, err error) {
	s.Elapsed = time.Since(start)
	s.err = err
	if err != nil {
		s.Error = err.Error()
	}
}

// TimeSection is the time aggregator's outcome
type TimeSection struct {
	Section
	Stats TimeStats `json:"stats"`
}

// StationSection is the station aggregator's outcome
type StationSection struct {
	Section
	Stats StationStats `json:"stats"`
}

// DurationSection is the duration aggregator's outcome
type DurationSection struct {
	Section
	Stats DurationStats `json:"stats"`
}

// UserSection is the user aggregator's outcome
type UserSection struct {
	Section
	Stats UserStats `json:"stats"`
}

// Report gathers every statistic for one query, in display order
type Report struct {
	ID          uuid.UUID       `json:"id"`
	City        string          `json:"city"`
	Month       string          `json:"month"`
	Day         string          `json:"day"`
	Trips       int             `json:"trips"`
	GeneratedAt time.Time       `json:"generated_at"`
	Time        TimeSection     `json:"time"`
	Stations    StationSection  `json:"stations"`
	Duration    DurationSection `json:"duration"`
	Users       UserSection     `json:"users"`
}

// Run computes every section of the report concurrently. An aggregator that
// fails records its error in its own section without affecting the others;
// only a canceled context fails the whole run
func Run(ctx context.Context, ds *dataset.Dataset, month, day string) (*Report, error) {
	r := &Report{
		ID:          uuid.New(),
		City:        ds.City,
		Month:       month,
		Day:         day,
		Trips:       ds.Len(),
		GeneratedAt: time.Now().UTC(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		stats, err := ComputeTime(ds)
		r.Time.Stats = stats
		r.Time.finish(start, err)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		stats, err := ComputeStations(ds)
		r.Stations.Stats = stats
		r.Stations.finish(start, err)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		stats, err := ComputeDuration(ds)
		r.Duration.Stats = stats
		r.Duration.finish(start, err)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		stats, err := ComputeUsers(ds)
		r.Users.Stats = stats
		r.Users.finish(start, err)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}
