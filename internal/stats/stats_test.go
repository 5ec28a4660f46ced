package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/bikestats/internal/dataset"
	"github.com/jgoulah/bikestats/pkg/models"
)

func trip(ts string) models.Trip {
	start, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		panic(err)
	}
	t := models.Trip{StartTime: start}
	t.Derive()
	return t
}

func withStations(start, end string) models.Trip {
	t := trip("2017-01-01 00:00")
	t.StartStation = start
	t.EndStation = end
	return t
}

func withDuration(seconds float64) models.Trip {
	t := trip("2017-01-01 00:00")
	t.DurationSeconds = seconds
	return t
}

func withUser(userType, gender string, year int) models.Trip {
	t := trip("2017-01-01 00:00")
	t.UserType = userType
	t.Gender = gender
	t.BirthYear = year
	return t
}

func ds(trips ...models.Trip) *dataset.Dataset {
	return &dataset.Dataset{City: "chicago", Trips: trips}
}

func TestComputeTimeHourTieGoesToSmallest(t *testing.T) {
	got, err := ComputeTime(ds(
		trip("2017-01-02 05:10"),
		trip("2017-01-02 03:10"),
		trip("2017-01-02 05:20"),
		trip("2017-01-02 03:20"),
	))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Hour)
	assert.Equal(t, 2, got.HourTrips)
}

func TestComputeTimeReportsAllTiedMonthsAndDays(t *testing.T) {
	got, err := ComputeTime(ds(
		trip("2017-03-07 08:00"), // Tuesday
		trip("2017-01-02 08:00"), // Monday
		trip("2017-03-13 08:00"), // Monday
		trip("2017-01-03 17:00"), // Tuesday
		trip("2017-06-04 17:00"), // Sunday
	))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, got.Months)
	assert.Equal(t, []string{"January", "March"}, got.MonthNames)
	assert.Equal(t, 2, got.MonthTrips)
	assert.Equal(t, []string{"Monday", "Tuesday"}, got.Days)
	assert.Equal(t, 2, got.DayTrips)
	assert.Equal(t, 8, got.Hour)
}

func TestComputeTimeSingleWinner(t *testing.T) {
	got, err := ComputeTime(ds(
		trip("2017-05-01 12:00"),
		trip("2017-05-08 12:00"),
		trip("2017-04-02 09:00"),
	))
	require.NoError(t, err)
	assert.Equal(t, []int{5}, got.Months)
	assert.Equal(t, []string{"Monday"}, got.Days)
	assert.Equal(t, 12, got.Hour)
}

func TestComputeStations(t *testing.T) {
	got, err := ComputeStations(ds(
		withStations("A", "B"),
		withStations("A", "B"),
		withStations("C", "D"),
	))
	require.NoError(t, err)
	assert.Equal(t, "A", got.StartStation)
	assert.Equal(t, 2, got.StartTrips)
	assert.Equal(t, "B", got.EndStation)
	assert.Equal(t, "A and B", got.Route)
	assert.Equal(t, 2, got.RouteTrips)
}

func TestComputeStationsTieGoesToFirstSeen(t *testing.T) {
	got, err := ComputeStations(ds(
		withStations("X", "Y"),
		withStations("A", "B"),
		withStations("A", "Y"),
		withStations("X", "B"),
	))
	require.NoError(t, err)
	assert.Equal(t, "X", got.StartStation)
	assert.Equal(t, "Y", got.EndStation)
	assert.Equal(t, "X and Y", got.Route)
	assert.Equal(t, 1, got.RouteTrips)
}

func TestComputeDuration(t *testing.T) {
	got, err := ComputeDuration(ds(withDuration(60), withDuration(120)))
	require.NoError(t, err)
	assert.Equal(t, 2, got.Trips)
	assert.InDelta(t, 180, got.TotalSeconds, 1e-9)
	assert.InDelta(t, 0.05, got.TotalHours, 1e-9)
	assert.InDelta(t, 90, got.MeanSeconds, 1e-9)
	assert.InDelta(t, 1.5, got.MeanMinutes, 1e-9)
}

func TestComputeDurationEmpty(t *testing.T) {
	assert.Zero(t, SumDuration(ds()))

	got, err := ComputeDuration(ds())
	require.ErrorIs(t, err, ErrEmptyDataset)
	assert.Zero(t, got.TotalSeconds)
	assert.Zero(t, got.TotalHours)
}

func TestComputeUsersCountsDescending(t *testing.T) {
	got, err := ComputeUsers(ds(
		withUser("Customer", "", 0),
		withUser("Subscriber", "", 0),
		withUser("Subscriber", "", 0),
	))
	require.NoError(t, err)
	assert.Equal(t, []Count{{"Subscriber", 2}, {"Customer", 1}}, got.UserTypes)
	assert.False(t, got.Gender.Available)
	assert.False(t, got.BirthYears.Available)
}

func TestComputeUsersDemographics(t *testing.T) {
	data := ds(
		withUser("Subscriber", "Male", 1985),
		withUser("Subscriber", "Female", 1990),
		withUser("Customer", "", 0),
		withUser("Subscriber", "Male", 1990),
		withUser("Subscriber", "Female", 1985),
		withUser("Dependent", "Male", 1962),
	)
	data.Schema = models.Schema{HasGender: true, HasBirthYear: true}

	got, err := ComputeUsers(data)
	require.NoError(t, err)

	assert.Equal(t, []Count{{"Subscriber", 4}, {"Customer", 1}, {"Dependent", 1}}, got.UserTypes)
	assert.Equal(t, Breakdown{Available: true, Counts: []Count{{"Male", 3}, {"Female", 2}}}, got.Gender)
	assert.Equal(t, BirthYearStats{Available: true, Known: 5, Earliest: 1962, Latest: 1990, Common: 1985}, got.BirthYears)
}

func TestComputeUsersBirthYearColumnWithoutValues(t *testing.T) {
	data := ds(withUser("Customer", "", 0))
	data.Schema = models.Schema{HasGender: true, HasBirthYear: true}

	got, err := ComputeUsers(data)
	require.NoError(t, err)
	assert.True(t, got.Gender.Available)
	assert.Empty(t, got.Gender.Counts)
	assert.Equal(t, BirthYearStats{Available: true}, got.BirthYears)
}

func TestAggregatorsFailOnEmptyDataset(t *testing.T) {
	empty := ds()

	_, err := ComputeTime(empty)
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, err = ComputeStations(empty)
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, err = ComputeDuration(empty)
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, err = ComputeUsers(empty)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestRunBuildsEverySection(t *testing.T) {
	data := ds(withStations("A", "B"), withStations("A", "C"))
	data.Trips[0].DurationSeconds = 100
	data.Trips[1].DurationSeconds = 200
	data.Trips[0].UserType = "Subscriber"

	r, err := Run(context.Background(), data, "january", "all")
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", r.ID.String())
	assert.Equal(t, "chicago", r.City)
	assert.Equal(t, "january", r.Month)
	assert.Equal(t, "all", r.Day)
	assert.Equal(t, 2, r.Trips)
	assert.False(t, r.GeneratedAt.IsZero())

	require.NoError(t, r.Time.Err())
	require.NoError(t, r.Stations.Err())
	require.NoError(t, r.Duration.Err())
	require.NoError(t, r.Users.Err())

	assert.Equal(t, []int{1}, r.Time.Stats.Months)
	assert.Equal(t, "A", r.Stations.Stats.StartStation)
	assert.InDelta(t, 150, r.Duration.Stats.MeanSeconds, 1e-9)
	assert.Equal(t, []Count{{"Subscriber", 1}}, r.Users.Stats.UserTypes)
}

func TestRunOnEmptyDatasetKeepsSectionsIndependent(t *testing.T) {
	r, err := Run(context.Background(), ds(), "june", "sunday")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Time.Err(), ErrEmptyDataset)
	assert.ErrorIs(t, r.Stations.Err(), ErrEmptyDataset)
	assert.ErrorIs(t, r.Duration.Err(), ErrEmptyDataset)
	assert.ErrorIs(t, r.Users.Err(), ErrEmptyDataset)
	assert.Equal(t, ErrEmptyDataset.Error(), r.Users.Error)
	assert.Zero(t, r.Duration.Stats.TotalSeconds)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, ds(trip("2017-01-01 00:00")), "all", "all")
	require.ErrorIs(t, err, context.Canceled)
}
