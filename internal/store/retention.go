package store

import (
	"context"
	"time"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

// PurgeForecastsBefore deletes forecast rows whose valid_date is strictly
// before cutoff and returns the number removed. Rows exactly at the
// cutoff are retained. Repeated calls with the same cutoff remove zero
// additional rows.
func (s *SQLiteStore) PurgeForecastsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("valid_date < ?", cutoff).
		Delete(&weather.ForecastRecord{})
	if res.Error != nil {
		return 0, &weather.StoreError{Op: "purge forecasts", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// PurgeObservationsBefore deletes observation rows whose observed_at is
// strictly before cutoff and returns the number removed.
func (s *SQLiteStore) PurgeObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("observed_at < ?", cutoff).
		Delete(&weather.ObservationRecord{})
	if res.Error != nil {
		return 0, &weather.StoreError{Op: "purge observations", Err: res.Error}
	}
	return res.RowsAffected, nil
}
