package store

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

// SQLiteStore is the durable record store backing the ingestion pipeline.
// Rows are keyed by each record type's natural key; the same logical
// forecast or observation is re-published repeatedly by the source and
// must collapse to one row.
type SQLiteStore struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the forecast and observation tables.
func Open(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, &weather.StoreError{Op: "open", Err: err}
	}

	if err := db.AutoMigrate(&weather.ForecastRecord{}, &weather.ObservationRecord{}); err != nil {
		return nil, &weather.StoreError{Op: "migrate", Err: err}
	}

	return &SQLiteStore{db: db}, nil
}

var (
	forecastKey = []clause.Column{
		{Name: "station_id"}, {Name: "valid_date"}, {Name: "period_index"},
	}
	forecastAssign = clause.AssignmentColumns([]string{
		"issued_at", "summary", "min_temp", "max_temp",
		"rain_chance_pct", "rain_amount_range", "fetched_at",
	})

	observationKey = []clause.Column{
		{Name: "station_id"}, {Name: "observed_at"},
	}
	observationAssign = clause.AssignmentColumns([]string{
		"air_temp", "rel_humidity_pct", "wind_speed_kmh",
		"wind_dir", "rain_since_9am", "fetched_at",
	})
)

// UpsertForecasts inserts or overwrites forecast rows on their natural
// key. issued_at and fetched_at are always refreshed on conflict, even
// when the payload fields are unchanged, so freshness stays queryable.
func (s *SQLiteStore) UpsertForecasts(ctx context.Context, records []weather.ForecastRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   forecastKey,
		DoUpdates: forecastAssign,
	}).Create(&records).Error
	if err != nil {
		return &weather.StoreError{Op: "upsert forecasts", Err: err}
	}
	return nil
}

// UpsertObservations inserts or overwrites observation rows on their
// natural key.
func (s *SQLiteStore) UpsertObservations(ctx context.Context, records []weather.ObservationRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   observationKey,
		DoUpdates: observationAssign,
	}).Create(&records).Error
	if err != nil {
		return &weather.StoreError{Op: "upsert observations", Err: err}
	}
	return nil
}
