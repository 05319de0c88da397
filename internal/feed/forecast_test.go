package feed_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/feed"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

const precisPayload = `IDT16710
Australian Government Bureau of Meteorology
Tasmania

Précis Forecast for Saltwater River
Issued at 4:20 pm EDT on Wednesday 28 February 2024

Forecast for the rest of Wednesday
Partly cloudy.
Chance of any rain: 10%

Forecast for Thursday
Sunny morning, shower or two developing later.
Minimum 9 Maximum 19
Chance of any rain: 30%
Possible rainfall: 0 to 1 mm

Forecast for Friday
Showers.
Minimum 11 Maximum 17
Chance of any rain: 80%
Possible rainfall: 2 to 8 mm

Forecast for Saturday
Showers easing.
Minimum 10 Maximum 16
Chance of any rain: 60%

Forecast for Sunday
Partly cloudy.
Minimum 8 Maximum 18
Chance of any rain: 20%

Forecast for Monday
Mostly sunny.
Minimum 7 Maximum 20

Forecast for Tuesday
Sunny.
Minimum 8 Maximum 21

Forecast for Wednesday
Cloud increasing.
Minimum 9 Maximum twenty
`

func TestParseForecastSkipsMalformedPeriod(t *testing.T) {
	now := time.Date(2024, 2, 28, 17, 0, 0, 0, time.UTC)

	records, skipped, err := feed.ParseForecast([]byte(precisPayload), "IDT16710", now)
	require.NoError(t, err)
	require.Len(t, records, 7, "seven valid periods")
	require.Len(t, skipped, 1, "one malformed period reported")
	require.Contains(t, skipped[0], "period 7")
}

func TestParseForecastFields(t *testing.T) {
	now := time.Date(2024, 2, 28, 17, 0, 0, 0, time.UTC)

	records, _, err := feed.ParseForecast([]byte(precisPayload), "IDT16710", now)
	require.NoError(t, err)

	// Day 0 is the "rest of" section: no temperatures published.
	rest := records[0]
	require.Equal(t, "IDT16710", rest.StationID)
	require.Equal(t, 0, rest.PeriodIndex)
	require.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), rest.ValidDate)
	require.Equal(t, "Partly cloudy.", *rest.Summary)
	require.Nil(t, rest.MinTemp)
	require.Nil(t, rest.MaxTemp)
	require.Equal(t, 10, *rest.RainChancePct)
	require.Nil(t, rest.RainAmountRange)
	require.Equal(t, now, rest.FetchedAt)

	day1 := records[1]
	require.Equal(t, 1, day1.PeriodIndex)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day1.ValidDate)
	require.Equal(t, 9, *day1.MinTemp)
	require.Equal(t, 19, *day1.MaxTemp)
	require.Equal(t, 30, *day1.RainChancePct)
	require.Equal(t, "0 to 1 mm", *day1.RainAmountRange)

	// Issuance timestamp carries the published clock time.
	require.Equal(t, time.Date(2024, 2, 28, 16, 20, 0, 0, time.UTC), day1.IssuedAt)
}

func TestParseForecastSeptemberQuirk(t *testing.T) {
	payload := `Issued at 9:05 am EST on Monday 2 Sept 2024

Forecast for Tuesday
Sunny.
Minimum 5 Maximum 14
`
	records, skipped, err := feed.ParseForecast([]byte(payload), "IDT16710", time.Now().UTC())
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, records, 1)
	require.Equal(t, time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), records[0].ValidDate)
}

func TestParseForecastMissingIssueLine(t *testing.T) {
	payload := "Forecast for Thursday\nSunny.\nMinimum 9 Maximum 19\n"

	_, _, err := feed.ParseForecast([]byte(payload), "IDT16710", time.Now().UTC())
	var parseErr *weather.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "header", parseErr.Section)
}
