package weather

import (
	"context"
	"time"
)

// Fetcher abstracts the upstream BoM file feed: one raw payload per
// product per call, no pagination. Implementations are stateless; repeated
// calls may return different content as the source refreshes.
type Fetcher interface {
	Fetch(ctx context.Context, product Product) ([]byte, error)
}

// Filter narrows store reads to a date window and, optionally, a station.
// From/To bound the retention-relevant timestamp (valid_date for
// forecasts, observed_at for observations); To is inclusive of the whole
// day it names.
type Filter struct {
	From      time.Time
	To        time.Time
	StationID string
}

// Store is the contract the durable record store must satisfy. Upserts are
// keyed by each record type's natural key and never fail on duplicates;
// purges delete strictly-older-than and are idempotent.
type Store interface {
	UpsertForecasts(ctx context.Context, records []ForecastRecord) error
	UpsertObservations(ctx context.Context, records []ObservationRecord) error

	PurgeForecastsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeObservationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	QueryForecasts(ctx context.Context, f Filter) ([]ForecastRecord, error)
	QueryObservations(ctx context.Context, f Filter) ([]ObservationRecord, error)
}
