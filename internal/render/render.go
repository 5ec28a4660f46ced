// Package render formats reports and raw trips for the terminal
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jgoulah/bikestats/internal/stats"
	"github.com/jgoulah/bikestats/pkg/models"
)

const rule = "----------------------------------------"

// Text writes the report as human-readable sections in display order:
// time, stations, duration, users
func Text(w io.Writer, r *stats.Report) error {
	p := &printer{w: w}

	p.printf("\nBikeshare statistics for %s (month: %s, day: %s)\n", Title(r.City), r.Month, r.Day)
	p.printf("%s trips matched\n", humanize.Comma(int64(r.Trips)))
	p.println(rule)

	p.section("Most Frequent Times of Travel", r.Time.Section, func() {
		s := r.Time.Stats
		p.printf("Most common month:          %s (%s trips)\n", strings.Join(s.MonthNames, ", "), humanize.Comma(int64(s.MonthTrips)))
		p.printf("Most common day of week:    %s (%s trips)\n", strings.Join(s.Days, ", "), humanize.Comma(int64(s.DayTrips)))
		p.printf("Most common start hour:     %02d:00 (%s trips)\n", s.Hour, humanize.Comma(int64(s.HourTrips)))
	})

	p.section("Most Popular Stations and Trip", r.Stations.Section, func() {
		s := r.Stations.Stats
		p.printf("Most popular start station: %s (%s trips)\n", s.StartStation, humanize.Comma(int64(s.StartTrips)))
		p.printf("Most popular end station:   %s (%s trips)\n", s.EndStation, humanize.Comma(int64(s.EndTrips)))
		p.printf("Most common route:          %s (%s trips)\n", s.Route, humanize.Comma(int64(s.RouteTrips)))
	})

	// Totals stay meaningful on an empty dataset, so print them before the error
	p.printf("\nTrip Duration\n%s\n", rule)
	d := r.Duration.Stats
	p.printf("Total travel time:          %s seconds (%s hours)\n",
		humanize.CommafWithDigits(d.TotalSeconds, 2), humanize.CommafWithDigits(d.TotalHours, 2))
	if err := r.Duration.Err(); err != nil {
		p.printf("Average travel time:        not available: %v\n", err)
	} else {
		p.printf("Average travel time:        %s seconds (%s minutes)\n",
			humanize.CommafWithDigits(d.MeanSeconds, 2), humanize.CommafWithDigits(d.MeanMinutes, 2))
	}
	p.printf("This took %s\n", r.Duration.Elapsed)

	p.section("User Stats", r.Users.Section, func() {
		s := r.Users.Stats
		p.println("Counts by user type:")
		p.counts(s.UserTypes)

		if s.Gender.Available {
			p.println("Counts by gender:")
			p.counts(s.Gender.Counts)
		} else {
			p.println("Gender data not available")
		}

		b := s.BirthYears
		switch {
		case !b.Available:
			p.println("Birth year data not available")
		case b.Known == 0:
			p.println("No birth years recorded")
		default:
			p.printf("Earliest birth year:        %d\n", b.Earliest)
			p.printf("Most recent birth year:     %d\n", b.Latest)
			p.printf("Most common birth year:     %d\n", b.Common)
		}
	})

	p.println(rule)
	return p.err
}

// JSON writes the report as indented JSON
func JSON(w io.Writer, r *stats.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Trips writes a page of raw trip rows
func Trips(w io.Writer, trips []models.Trip) error {
	p := &printer{w: w}
	p.println(rule)
	for _, t := range trips {
		p.printf("#%d  %s → %s  (%s s)\n", t.ID,
			t.StartTime.Format("2006-01-02 15:04:05"), durationEnd(t), humanize.CommafWithDigits(t.DurationSeconds, 1))
		p.printf("    %s → %s\n", t.StartStation, t.EndStation)

		rider := t.UserType
		if t.Gender != "" {
			rider += ", " + t.Gender
		}
		if t.BirthYear != 0 {
			rider += fmt.Sprintf(", born %d", t.BirthYear)
		}
		p.printf("    %s\n", rider)
	}
	p.println(rule)
	return p.err
}

// Title capitalises a city or weekday name for display
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

func durationEnd(t models.Trip) string {
	if t.EndTime.IsZero() {
		return "?"
	}
	return t.EndTime.Format("15:04:05")
}

// printer remembers the first write error so callers check once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

func (p *printer) section(title string, s stats.Section, body func()) {
	p.printf("\n%s\n%s\n", title, rule)
	if err := s.Err(); err != nil {
		p.printf("Not available: %v\n", err)
	} else {
		body()
	}
	p.printf("This took %s\n", s.Elapsed)
}

func (p *printer) counts(counts []stats.Count) {
	if len(counts) == 0 {
		p.println("  (none recorded)")
		return
	}
	for _, c := range counts {
		p.printf("  %-24s %10s\n", c.Value, humanize.Comma(int64(c.Count)))
	}
}
