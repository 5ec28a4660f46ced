package stats

import "github.com/jgoulah/bikestats/internal/dataset"

// Count is the number of trips sharing one value
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Breakdown is a per-value count, highest first
// Available is false when the dataset has no such column at all
type Breakdown struct {
	Available bool    `json:"available"`
	Counts    []Count `json:"counts,omitempty"`
}

// BirthYearStats summarises rider birth years
// Available is false when the dataset has no birth year column; Known counts
// the trips with a recorded year, and the years are zero when Known is 0
type BirthYearStats struct {
	Available bool `json:"available"`
	Known     int  `json:"known"`
	Earliest  int  `json:"earliest,omitempty"`
	Latest    int  `json:"latest,omitempty"`
	Common    int  `json:"common,omitempty"`
}

// UserStats holds rider demographics
type UserStats struct {
	UserTypes  []Count        `json:"user_types"`
	Gender     Breakdown      `json:"gender"`
	BirthYears BirthYearStats `json:"birth_years"`
}

// ComputeUsers counts user types and genders and summarises birth years
// Blank values are left out of every count
func ComputeUsers(ds *dataset.Dataset) (UserStats, error) {
	if ds.Len() == 0 {
		return UserStats{}, ErrEmptyDataset
	}

	var out UserStats

	types := newTally[string]()
	for _, trip := range ds.Trips {
		if trip.UserType != "" {
			types.add(trip.UserType)
		}
	}
	out.UserTypes = counts(types)

	if ds.Schema.HasGender {
		genders := newTally[string]()
		for _, trip := range ds.Trips {
			if trip.Gender != "" {
				genders.add(trip.Gender)
			}
		}
		out.Gender = Breakdown{Available: true, Counts: counts(genders)}
	}

	if ds.Schema.HasBirthYear {
		out.BirthYears = birthYears(ds)
	}

	return out, nil
}

func birthYears(ds *dataset.Dataset) BirthYearStats {
	out := BirthYearStats{Available: true}
	years := newTally[int]()
	for _, trip := range ds.Trips {
		y := trip.BirthYear
		if y == 0 {
			continue
		}
		if out.Known == 0 || y < out.Earliest {
			out.Earliest = y
		}
		if out.Known == 0 || y > out.Latest {
			out.Latest = y
		}
		out.Known++
		years.add(y)
	}
	if out.Known > 0 {
		out.Common, _ = smallestMode(years)
	}
	return out
}

func counts(t *tally[string]) []Count {
	if t.len() == 0 {
		return nil
	}
	values := t.descending()
	out := make([]Count, len(values))
	for i, v := range values {
		out[i] = Count{Value: v, Count: t.counts[v]}
	}
	return out
}
