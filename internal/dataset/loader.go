package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jgoulah/bikestats/internal/config"
	"github.com/jgoulah/bikestats/internal/logging"
	"github.com/jgoulah/bikestats/pkg/models"
)

// Store is a cache of previously imported trips
type Store interface {
	HasCity(ctx context.Context, city string) (bool, error)
	Schema(ctx context.Context, city string) (models.Schema, error)
	ListTrips(ctx context.Context, city string) ([]models.Trip, error)
}

// Loader reads a city's trips from its configured source
type Loader struct {
	cfg    *config.Config
	store  Store
	logger logrus.FieldLogger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithStore lets the loader read from the trip cache when the config enables it
func WithStore(store Store) LoaderOption {
	return func(l *Loader) {
		l.store = store
	}
}

// WithLogger sets the logger used for load diagnostics
func WithLogger(logger logrus.FieldLogger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader for the cities in cfg
func NewLoader(cfg *config.Config, opts ...LoaderOption) *Loader {
	l := &Loader{cfg: cfg, logger: logging.Discard()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the dataset for city. The trip cache is used when enabled and
// populated for the city; otherwise the city's CSV file is read
func (l *Loader) Load(ctx context.Context, city string) (*Dataset, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if !l.cfg.HasCity(city) {
		return nil, fmt.Errorf("%w: unknown city %q", ErrDataSource, city)
	}

	if l.cfg.UseCache && l.store != nil {
		ok, err := l.store.HasCity(ctx, city)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: checking cache: %v", ErrDataSource, city, err)
		}
		if ok {
			return l.loadStore(ctx, city)
		}
		l.logger.WithField("city", city).Debug("city not cached, reading CSV")
	}

	return l.LoadCSV(ctx, city)
}

// LoadCSV reads city directly from its CSV file, bypassing the cache
func (l *Loader) LoadCSV(ctx context.Context, city string) (*Dataset, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	path, ok := l.cfg.SourcePath(city)
	if !ok {
		return nil, fmt.Errorf("%w: no source configured for %q", ErrDataSource, city)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataSource, city, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f, city)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"city":    city,
		"source":  path,
		"trips":   ds.Len(),
		"elapsed": time.Since(start),
	}).Debug("loaded trips from CSV")

	return ds, nil
}

func (l *Loader) loadStore(ctx context.Context, city string) (*Dataset, error) {
	start := time.Now()
	schema, err := l.store.Schema(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading cached schema: %v", ErrDataSource, city, err)
	}
	trips, err := l.store.ListTrips(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading cached trips: %v", ErrDataSource, city, err)
	}

	for i := range trips {
		if trips[i].StartTime.IsZero() {
			return nil, fmt.Errorf("%w: %s: cached trip %d has no start time", ErrSchema, city, trips[i].ID)
		}
		trips[i].Derive()
	}

	l.logger.WithFields(logrus.Fields{
		"city":    city,
		"trips":   len(trips),
		"elapsed": time.Since(start),
	}).Debug("loaded trips from cache")

	return &Dataset{City: city, Schema: schema, Trips: trips}, nil
}
