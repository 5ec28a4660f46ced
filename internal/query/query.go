// Package query runs one load → filter → aggregate cycle
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jgoulah/bikestats/internal/config"
	"github.com/jgoulah/bikestats/internal/dataset"
	"github.com/jgoulah/bikestats/internal/logging"
	"github.com/jgoulah/bikestats/internal/stats"
)

// Loader produces the dataset for a city
type Loader interface {
	Load(ctx context.Context, city string) (*dataset.Dataset, error)
}

// Request names the city and the calendar filters of a query
type Request struct {
	City  string
	Month string
	Day   string
}

// Result is the filtered dataset together with its report
type Result struct {
	Dataset *dataset.Dataset
	Report  *stats.Report
}

// Service answers statistics queries
type Service struct {
	loader Loader
	engine *dataset.Engine
	logger logrus.FieldLogger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for query diagnostics
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a query service
func NewService(loader Loader, engine *dataset.Engine, opts ...Option) *Service {
	s := &Service{loader: loader, engine: engine, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromConfig wires a service whose filter engine follows cfg
func NewServiceFromConfig(cfg *config.Config, loader Loader, opts ...Option) (*Service, error) {
	engine, err := dataset.NewEngineFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building filter engine: %w", err)
	}
	return NewService(loader, engine, opts...), nil
}

// Execute loads the city, applies the filters and computes the report
// Load and filter errors fail the query; aggregator errors are kept in the report
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	req = normalize(req)
	log := s.logger.WithFields(logrus.Fields{"city": req.City, "month": req.Month, "day": req.Day})

	ds, err := s.loader.Load(ctx, req.City)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", req.City, err)
	}

	filtered, err := s.engine.Filter(ds, req.Month, req.Day)
	if err != nil {
		return nil, fmt.Errorf("filtering %s: %w", req.City, err)
	}
	log.WithFields(logrus.Fields{"loaded": ds.Len(), "matched": filtered.Len()}).Debug("dataset filtered")

	report, err := stats.Run(ctx, filtered, req.Month, req.Day)
	if err != nil {
		return nil, fmt.Errorf("computing statistics: %w", err)
	}
	log.WithField("report", report.ID).Debug("report computed")

	return &Result{Dataset: filtered, Report: report}, nil
}

func normalize(req Request) Request {
	req.City = strings.ToLower(strings.TrimSpace(req.City))
	req.Month = strings.ToLower(strings.TrimSpace(req.Month))
	req.Day = strings.ToLower(strings.TrimSpace(req.Day))
	if req.Month == "" {
		req.Month = config.AllFilter
	}
	if req.Day == "" {
		req.Day = config.AllFilter
	}
	return req
}
