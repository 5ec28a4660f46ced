package dataset

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Same header layout as the published Chicago and New York files
const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416,May St & Taylor St,Wood St & Taylor St,Subscriber,Male,1981.0
304487,2017-03-06 13:49:38,2017-03-06 13:55:28,350,Christiana Ave & Lawrence Ave,St. Louis Ave & Balmoral Ave,Subscriber,,
`

// Washington carries no gender or birth year columns
const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
`

func TestReadCSVChicago(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(chicagoCSV), "chicago")
	require.NoError(t, err)

	require.Equal(t, 4, ds.Len())
	assert.Equal(t, "chicago", ds.City)
	assert.True(t, ds.Schema.HasGender)
	assert.True(t, ds.Schema.HasBirthYear)

	first := ds.Trips[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, time.Date(2017, 6, 23, 15, 9, 32, 0, time.UTC), first.StartTime)
	assert.Equal(t, time.Date(2017, 6, 23, 15, 14, 53, 0, time.UTC), first.EndTime)
	assert.Equal(t, 321.0, first.DurationSeconds)
	assert.Equal(t, "Wood St & Hubbard St", first.StartStation)
	assert.Equal(t, "Damen Ave & Chicago Ave", first.EndStation)
	assert.Equal(t, "Subscriber", first.UserType)
	assert.Equal(t, "Male", first.Gender)
	assert.Equal(t, 1992, first.BirthYear)
	assert.Equal(t, 6, first.Month)
	assert.Equal(t, "Friday", first.DayOfWeek)
	assert.Equal(t, 15, first.Hour())

	blank := ds.Trips[3]
	assert.Empty(t, blank.Gender)
	assert.Zero(t, blank.BirthYear)
	assert.Equal(t, 3, blank.Month)
	assert.Equal(t, "Monday", blank.DayOfWeek)
}

func TestReadCSVWithoutOptionalColumns(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(washingtonCSV), "washington")
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.False(t, ds.Schema.HasGender)
	assert.False(t, ds.Schema.HasBirthYear)
	assert.InDelta(t, 489.066, ds.Trips[0].DurationSeconds, 1e-9)
	assert.Equal(t, "Saturday", ds.Trips[1].DayOfWeek)
}

func TestReadCSVSnakeCaseHeaders(t *testing.T) {
	data := "start_time,trip_duration_seconds,start_station,end_station,user_type,gender\n" +
		"2017-02-01T07:00:00Z,60,A,B,Customer,Female\n"

	ds, err := ReadCSV(strings.NewReader(data), "chicago")
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.True(t, ds.Schema.HasGender)
	assert.False(t, ds.Schema.HasBirthYear)
	assert.Equal(t, 2, ds.Trips[0].Month)
	assert.Equal(t, "Wednesday", ds.Trips[0].DayOfWeek)
}

func TestReadCSVSchemaErrors(t *testing.T) {
	cases := map[string]string{
		"missing start time column": "Trip Duration,Start Station,End Station,User Type\n60,A,B,Customer\n",
		"unparseable start time":    "Start Time,Trip Duration,Start Station,End Station,User Type\nyesterday,60,A,B,Customer\n",
		"blank start time":          "Start Time,Trip Duration,Start Station,End Station,User Type\n,60,A,B,Customer\n",
		"non numeric duration":      "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,long,A,B,Customer\n",
		"negative duration":         "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,-5,A,B,Customer\n",
		"bad birth year":            "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n2017-01-01 00:00:00,5,A,B,Customer,old\n",
		"NaN duration":              "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,NaN,A,B,Customer\n",
		"infinite duration":         "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,+Inf,A,B,Customer\n",
		"infinite birth year":       "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n2017-01-01 00:00:00,5,A,B,Customer,Inf\n",
		"huge birth year":           "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n2017-01-01 00:00:00,5,A,B,Customer,1e20\n",
		"fractional birth year":     "Start Time,Trip Duration,Start Station,End Station,User Type,Birth Year\n2017-01-01 00:00:00,5,A,B,Customer,1990.5\n",
		"ragged row":                "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,5,A\n",
		"empty input":               "",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(data), "chicago")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema), "got %v", err)
		})
	}
}

func TestReadCSVShortOptionalCells(t *testing.T) {
	data := "Start Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year\n" +
		"2017-01-01 00:00:00,5,A,B,Customer,Female,1990\n" +
		"2017-01-02 00:00:00,7,B,C,Subscriber\n"

	ds, err := ReadCSV(strings.NewReader(data), "chicago")
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 1990, ds.Trips[0].BirthYear)
	assert.Empty(t, ds.Trips[1].Gender)
	assert.Zero(t, ds.Trips[1].BirthYear)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadCSVUnreadableSource(t *testing.T) {
	_, err := ReadCSV(failingReader{}, "chicago")
	require.ErrorIs(t, err, ErrDataSource)
}

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2017, 4, 2, 9, 30, 0, 0, time.UTC)
	for _, s := range []string{"2017-04-02 09:30:00", "2017-04-02T09:30:00Z", "2017-04-02T09:30:00", "2017-04-02 09:30"} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	_, err := ParseTimestamp("04/02/2017")
	assert.Error(t, err)
}
