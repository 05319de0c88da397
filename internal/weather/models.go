package weather

import (
	"time"
)

// Product identifies one of the two BoM products this service ingests.
type Product string

const (
	// ProductForecast is the précis forecast text product for the
	// Saltwater River / Tasman Peninsula forecast district.
	ProductForecast Product = "IDT16710"

	// ProductObservation is the half-hourly observation JSON product for
	// station 94951, Dunalley (Henry Anson).
	ProductObservation Product = "IDT60801.94951"
)

// Path returns the product's file path relative to the BoM fwo base URL.
func (p Product) Path() string {
	switch p {
	case ProductForecast:
		return "IDT16710.txt"
	case ProductObservation:
		return "IDT60801/IDT60801.94951.json"
	}
	return string(p)
}

// ForecastRecord is one normalized précis forecast period. The feed
// re-publishes the same period many times per day, so rows are keyed by
// (station_id, valid_date, period_index) and collapsed on upsert.
// Payload fields the source omits stay nil past the parser boundary.
type ForecastRecord struct {
	ID uint `gorm:"primaryKey" json:"-"`

	StationID   string    `gorm:"uniqueIndex:ux_forecast_key,priority:1;not null" json:"stationId"`
	ValidDate   time.Time `gorm:"uniqueIndex:ux_forecast_key,priority:2;not null" json:"validDate"`
	PeriodIndex int       `gorm:"uniqueIndex:ux_forecast_key,priority:3;not null" json:"periodIndex"`

	IssuedAt time.Time `gorm:"not null" json:"issuedAt"`

	Summary         *string `json:"summary,omitempty"`
	MinTemp         *int    `json:"minTempC,omitempty"`
	MaxTemp         *int    `json:"maxTempC,omitempty"`
	RainChancePct   *int    `json:"rainChancePercent,omitempty"`
	RainAmountRange *string `json:"rainAmountRange,omitempty"`

	FetchedAt time.Time `gorm:"not null" json:"fetchedAt"`
}

// TableName implements the GORM tabler interface.
func (ForecastRecord) TableName() string { return "forecasts" }

// ObservationRecord is one normalized station reading. Observations are
// append-mostly, but the source may correct a just-published reading, so
// they are upserted on (station_id, observed_at) like forecasts.
type ObservationRecord struct {
	ID uint `gorm:"primaryKey" json:"-"`

	StationID  string    `gorm:"uniqueIndex:ux_observation_key,priority:1;not null" json:"stationId"`
	ObservedAt time.Time `gorm:"uniqueIndex:ux_observation_key,priority:2;not null" json:"observedAt"`

	AirTemp        *float64 `json:"airTempC,omitempty"`
	RelHumidityPct *float64 `json:"relHumidityPercent,omitempty"`
	WindSpeedKmh   *float64 `json:"windSpeedKmh,omitempty"`
	WindDir        *string  `json:"windDir,omitempty"`
	RainSince9am   *float64 `gorm:"column:rain_since_9am" json:"rainSince9amMm,omitempty"`

	FetchedAt time.Time `gorm:"not null" json:"fetchedAt"`
}

// TableName implements the GORM tabler interface.
func (ObservationRecord) TableName() string { return "observations" }

// ComparisonRow pairs a forecast period with the observations recorded on
// the day it predicted. Observations is empty (left join) when the day has
// no readings yet.
type ComparisonRow struct {
	Forecast     ForecastRecord      `json:"forecast"`
	Observations []ObservationRecord `json:"observations"`
}

// StationScope maps the forecast district onto the observation station it
// is compared against. The current design tracks exactly one pair.
type StationScope struct {
	ForecastAreaID       string
	ObservationStationID string
}

// MatchesFilter reports whether a station filter selects this scope. An
// empty filter matches; otherwise the filter must name either side of
// the pair.
func (s StationScope) MatchesFilter(filter string) bool {
	if filter == "" {
		return true
	}
	return filter == s.ForecastAreaID || filter == s.ObservationStationID
}
