package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

// aifstime is the timestamp layout used by the observation feed, in UTC.
const aifstime = "20060102150405"

// ParseObservations normalizes the observation JSON product. The payload
// carries the most recent readings for one station; an empty data array
// means the source has nothing new and is not an error. A record with an
// unreadable timestamp is skipped and reported; optional measurement
// fields map to nil.
func ParseObservations(raw []byte, stationID string, now time.Time) ([]weather.ObservationRecord, []string, error) {
	var payload struct {
		Observations struct {
			Data []struct {
				AifstimeUTC string   `json:"aifstime_utc"`
				AirTemp     *float64 `json:"air_temp"`
				RelHum      *float64 `json:"rel_hum"`
				WindSpdKmh  *float64 `json:"wind_spd_kmh"`
				WindDir     *string  `json:"wind_dir"`
				RainTrace   *string  `json:"rain_trace"`
			} `json:"data"`
		} `json:"observations"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, &weather.ParseError{
			Product: weather.ProductObservation,
			Section: "observations",
			Err:     err,
		}
	}

	var records []weather.ObservationRecord
	var skipped []string

	for i, obs := range payload.Observations.Data {
		observedAt, err := time.Parse(aifstime, obs.AifstimeUTC)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("record %d: bad aifstime_utc %q", i, obs.AifstimeUTC))
			continue
		}

		records = append(records, weather.ObservationRecord{
			StationID:      stationID,
			ObservedAt:     observedAt.UTC(),
			AirTemp:        obs.AirTemp,
			RelHumidityPct: obs.RelHum,
			WindSpeedKmh:   obs.WindSpdKmh,
			WindDir:        obs.WindDir,
			RainSince9am:   parseRainTrace(obs.RainTrace),
			FetchedAt:      now,
		})
	}

	return records, skipped, nil
}

// parseRainTrace converts the feed's rain_trace string to millimetres.
// The feed uses "-" for no reading.
func parseRainTrace(s *string) *float64 {
	if s == nil || *s == "" || *s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	return &v
}
