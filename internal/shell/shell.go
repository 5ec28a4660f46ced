// Package shell runs the interactive prompt-and-report loop
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jgoulah/bikestats/internal/config"
	"github.com/jgoulah/bikestats/internal/logging"
	"github.com/jgoulah/bikestats/internal/query"
	"github.com/jgoulah/bikestats/internal/render"
)

// Querier executes one statistics query
type Querier interface {
	Execute(ctx context.Context, req query.Request) (*query.Result, error)
}

// Shell prompts for filters, prints reports and pages through raw trips
type Shell struct {
	cfg     *config.Config
	service Querier
	in      *bufio.Scanner
	out     io.Writer
	logger  logrus.FieldLogger
}

// Option configures a Shell
type Option func(*Shell)

// WithLogger sets the logger used for shell diagnostics
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a shell reading answers from in and writing to out
func New(cfg *config.Config, service Querier, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		cfg:     cfg,
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loops over query cycles until the user declines a restart or input ends
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Hello! Let's explore some US bikeshare data!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, ok := s.askRequest()
		if !ok {
			return nil
		}

		res, err := s.service.Execute(ctx, req)
		if err != nil {
			return err
		}
		if err := render.Text(s.out, res.Report); err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}

		if ok, err := s.pageTrips(res); err != nil || !ok {
			return err
		}

		answer, ok := s.ask("\nWould you like to restart? Enter yes or no.")
		if !ok || answer != "yes" {
			return nil
		}
	}
}

// askRequest returns false when input ends before all filters are chosen
func (s *Shell) askRequest() (query.Request, bool) {
	var req query.Request
	var ok bool

	req.City, ok = s.choose(
		fmt.Sprintf("Would you like to see data for %s?", strings.Join(titled(s.cfg.CityNames()), ", ")),
		s.cfg.HasCity)
	if !ok {
		return req, false
	}

	req.Month, ok = s.choose(
		fmt.Sprintf("Which month? %s, or all", strings.Join(titled(s.cfg.Months), ", ")),
		s.cfg.ValidMonth)
	if !ok {
		return req, false
	}

	req.Day, ok = s.choose(
		fmt.Sprintf("Which day? %s, or all", strings.Join(titled(s.cfg.Days), ", ")),
		s.cfg.ValidDay)
	if !ok {
		return req, false
	}

	s.logger.WithFields(logrus.Fields{"city": req.City, "month": req.Month, "day": req.Day}).Debug("filters chosen")
	return req, true
}

// choose re-prompts until valid accepts the answer
func (s *Shell) choose(prompt string, valid func(string) bool) (string, bool) {
	for {
		answer, ok := s.ask(prompt)
		if !ok {
			return "", false
		}
		if valid(answer) {
			return answer, true
		}
		fmt.Fprintf(s.out, "Sorry, %q is not a valid choice. Please try again.\n", answer)
	}
}

// pageTrips shows raw rows one page at a time while the user answers yes
func (s *Shell) pageTrips(res *query.Result) (bool, error) {
	size := s.cfg.GetPageSize()
	for offset := 0; offset < res.Dataset.Len(); offset += size {
		answer, ok := s.ask(fmt.Sprintf("\nWould you like to see %d rows of raw data? Enter yes or no.", size))
		if !ok {
			return false, nil
		}
		if answer != "yes" && answer != "y" {
			return true, nil
		}
		if err := render.Trips(s.out, res.Dataset.Page(offset, size)); err != nil {
			return false, fmt.Errorf("rendering trips: %w", err)
		}
	}
	if res.Dataset.Len() > 0 {
		fmt.Fprintln(s.out, "No more raw data to display.")
	}
	return true, nil
}

// ask prints the prompt and returns the next answer lowercased and trimmed
func (s *Shell) ask(prompt string) (string, bool) {
	fmt.Fprintln(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(s.in.Text())), true
}

func titled(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = render.Title(n)
	}
	return out
}
