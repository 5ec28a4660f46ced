package stats

import "github.com/jgoulah/bikestats/internal/dataset"

// StationStats holds the most popular stations and route
// Ties go to the value seen first in dataset order
type StationStats struct {
	StartStation string `json:"start_station"`
	StartTrips   int    `json:"start_trips"`
	EndStation   string `json:"end_station"`
	EndTrips     int    `json:"end_trips"`
	Route        string `json:"route"`
	RouteTrips   int    `json:"route_trips"`
}

// ComputeStations finds the most common start station, end station and route
func ComputeStations(ds *dataset.Dataset) (StationStats, error) {
	if ds.Len() == 0 {
		return StationStats{}, ErrEmptyDataset
	}

	starts := newTally[string]()
	ends := newTally[string]()
	routes := newTally[string]()
	for _, trip := range ds.Trips {
		starts.add(trip.StartStation)
		ends.add(trip.EndStation)
		routes.add(trip.Route())
	}

	var out StationStats
	out.StartStation, out.StartTrips = starts.firstMode()
	out.EndStation, out.EndTrips = ends.firstMode()
	out.Route, out.RouteTrips = routes.firstMode()
	return out, nil
}
