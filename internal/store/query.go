package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/common"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

// QueryForecasts returns forecast rows whose valid_date falls inside the
// filter window, ordered by valid_date then period_index ascending.
func (s *SQLiteStore) QueryForecasts(ctx context.Context, f weather.Filter) ([]weather.ForecastRecord, error) {
	var records []weather.ForecastRecord
	q := applyWindow(s.db.WithContext(ctx), f, "valid_date").
		Order("valid_date asc").Order("period_index asc")
	if err := q.Find(&records).Error; err != nil {
		return nil, &weather.StoreError{Op: "query forecasts", Err: err}
	}
	return records, nil
}

// QueryObservations returns observation rows whose observed_at falls
// inside the filter window, ordered by observed_at ascending.
func (s *SQLiteStore) QueryObservations(ctx context.Context, f weather.Filter) ([]weather.ObservationRecord, error) {
	var records []weather.ObservationRecord
	q := applyWindow(s.db.WithContext(ctx), f, "observed_at").
		Order("observed_at asc")
	if err := q.Find(&records).Error; err != nil {
		return nil, &weather.StoreError{Op: "query observations", Err: err}
	}
	return records, nil
}

// applyWindow narrows a query to the filter's date window and optional
// station. The To bound is inclusive of the whole day it names.
func applyWindow(q *gorm.DB, f weather.Filter, column string) *gorm.DB {
	if !f.From.IsZero() {
		q = q.Where(column+" >= ?", common.DayOf(f.From))
	}
	if !f.To.IsZero() {
		q = q.Where(column+" < ?", common.DayOf(f.To).AddDate(0, 0, 1))
	}
	if f.StationID != "" {
		q = q.Where("station_id = ?", f.StationID)
	}
	return q
}
