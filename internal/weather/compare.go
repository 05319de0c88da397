package weather

import (
	"context"
	"time"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/common"
)

// Compare pairs each forecast period in [from, to] with the observations
// recorded on its valid date. Left-join semantics: a forecast with no
// matching observation yet is still returned with an empty observation
// list, so the display layer can show "no data yet". Rows are ordered by
// valid_date then period_index ascending; observations within a row by
// observed_at ascending. Pure read, no side effects.
//
// stationFilter may name either side of the configured area/station pair;
// any other value matches nothing.
func (s *Service) Compare(ctx context.Context, from, to time.Time, stationFilter string) ([]ComparisonRow, error) {
	if !s.scope.MatchesFilter(stationFilter) {
		return []ComparisonRow{}, nil
	}

	forecasts, err := s.store.QueryForecasts(ctx, Filter{
		From:      from,
		To:        to,
		StationID: s.scope.ForecastAreaID,
	})
	if err != nil {
		return nil, err
	}

	observations, err := s.store.QueryObservations(ctx, Filter{
		From:      from,
		To:        to,
		StationID: s.scope.ObservationStationID,
	})
	if err != nil {
		return nil, err
	}

	// Bucket observations by calendar day. The store returns them
	// ordered by observed_at, so each bucket stays ordered.
	byDay := make(map[time.Time][]ObservationRecord)
	for _, obs := range observations {
		day := common.DayOf(obs.ObservedAt)
		byDay[day] = append(byDay[day], obs)
	}

	rows := make([]ComparisonRow, 0, len(forecasts))
	for _, fc := range forecasts {
		rows = append(rows, ComparisonRow{
			Forecast:     fc,
			Observations: byDay[common.DayOf(fc.ValidDate)],
		})
	}
	return rows, nil
}

// Forecasts delegates to the underlying store.
func (s *Service) Forecasts(ctx context.Context, f Filter) ([]ForecastRecord, error) {
	return s.store.QueryForecasts(ctx, f)
}

// Observations delegates to the underlying store.
func (s *Service) Observations(ctx context.Context, f Filter) ([]ObservationRecord, error) {
	return s.store.QueryObservations(ctx, f)
}
