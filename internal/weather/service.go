package weather

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/common"
)

// Parsers holds the product parsers the pipeline runs on raw payloads.
// Parsers must never fail a whole batch for one malformed record: a
// record-level problem is reported in the skipped reasons, and only a
// payload-level problem returns an error.
type Parsers struct {
	Forecast    func(raw []byte, areaID string, now time.Time) ([]ForecastRecord, []string, error)
	Observation func(raw []byte, stationID string, now time.Time) ([]ObservationRecord, []string, error)
}

// Service orchestrates the ingestion pipeline (fetch, parse, upsert,
// purge) and answers comparison queries against the store.
type Service struct {
	store   Store
	fetcher Fetcher
	parsers Parsers
	scope   StationScope
	horizon time.Duration

	now func() time.Time
}

// NewService creates a Service with the given retention horizon.
func NewService(store Store, fetcher Fetcher, parsers Parsers, scope StationScope, horizon time.Duration) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
		parsers: parsers,
		scope:   scope,
		horizon: horizon,
		now:     time.Now,
	}
}

// ProductResult reports one product type's outcome within a cycle.
type ProductResult struct {
	Product  Product  `json:"product"`
	Upserted int      `json:"upserted"`
	Skipped  []string `json:"skipped,omitempty"`

	// Err is set when this product's ingestion was aborted (fetch
	// failure, payload-level parse failure, or a store failure mid
	// batch). Per-record skips are not failures.
	Err error `json:"-"`
}

// PurgeResult reports rows removed by one retention pass.
type PurgeResult struct {
	ForecastRemoved    int64 `json:"forecastRemoved"`
	ObservationRemoved int64 `json:"observationRemoved"`
}

// CycleResult reports one full ingestion cycle.
type CycleResult struct {
	Forecast    ProductResult `json:"forecast"`
	Observation ProductResult `json:"observation"`
	Purge       PurgeResult   `json:"purge"`
}

// RunCycle executes one ingestion cycle: both products are fetched
// concurrently, then each product's parse and upsert proceeds
// independently so a failing product cannot block the other. The
// retention purge runs once at the end regardless of product failures,
// since it only touches existing data. The returned error aggregates
// every product-level failure; a nil error means the cycle completed
// without unrecoverable error.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	var (
		wg      sync.WaitGroup
		rawMu   sync.Mutex
		raw     = make(map[Product][]byte)
		fetches = make(map[Product]error)
	)

	for _, p := range []Product{ProductForecast, ProductObservation} {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := s.fetcher.Fetch(ctx, p)
			rawMu.Lock()
			raw[p], fetches[p] = body, err
			rawMu.Unlock()
		}()
	}
	wg.Wait()

	var result CycleResult
	result.Forecast = s.ingestForecasts(ctx, raw[ProductForecast], fetches[ProductForecast])
	result.Observation = s.ingestObservations(ctx, raw[ProductObservation], fetches[ProductObservation])

	var errs *multierror.Error
	for _, pr := range []ProductResult{result.Forecast, result.Observation} {
		if pr.Err != nil {
			log.Printf("ingest: product %s aborted: %v", pr.Product, pr.Err)
			errs = multierror.Append(errs, pr.Err)
		} else {
			log.Printf("ingest: product %s upserted=%d skipped=%d", pr.Product, pr.Upserted, len(pr.Skipped))
		}
	}

	purge, err := s.RunPurge(ctx, s.now())
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	result.Purge = purge

	return result, errs.ErrorOrNil()
}

func (s *Service) ingestForecasts(ctx context.Context, raw []byte, fetchErr error) ProductResult {
	pr := ProductResult{Product: ProductForecast}
	if fetchErr != nil {
		pr.Err = fetchErr
		return pr
	}

	records, skipped, err := s.parsers.Forecast(raw, s.scope.ForecastAreaID, s.now())
	if err != nil {
		pr.Err = err
		return pr
	}
	pr.Skipped = skipped

	if err := s.store.UpsertForecasts(ctx, records); err != nil {
		pr.Err = err
		return pr
	}
	pr.Upserted = len(records)
	return pr
}

func (s *Service) ingestObservations(ctx context.Context, raw []byte, fetchErr error) ProductResult {
	pr := ProductResult{Product: ProductObservation}
	if fetchErr != nil {
		pr.Err = fetchErr
		return pr
	}

	records, skipped, err := s.parsers.Observation(raw, s.scope.ObservationStationID, s.now())
	if err != nil {
		pr.Err = err
		return pr
	}
	pr.Skipped = skipped

	if err := s.store.UpsertObservations(ctx, records); err != nil {
		pr.Err = err
		return pr
	}
	pr.Upserted = len(records)
	return pr
}

// RunPurge removes records past the retention horizon. The cutoff is
// computed at day granularity so rows exactly at the boundary survive.
// Safe to run at arbitrary frequency: it only removes rows strictly
// older than the cutoff, never rows a concurrent upsert is writing.
func (s *Service) RunPurge(ctx context.Context, now time.Time) (PurgeResult, error) {
	cutoff := common.DayOf(now).Add(-s.horizon)

	var res PurgeResult
	var errs *multierror.Error

	n, err := s.store.PurgeForecastsBefore(ctx, cutoff)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	res.ForecastRemoved = n

	n, err = s.store.PurgeObservationsBefore(ctx, cutoff)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	res.ObservationRemoved = n

	if errs.ErrorOrNil() == nil {
		log.Printf("retention: purged %d forecast, %d observation rows older than %s",
			res.ForecastRemoved, res.ObservationRemoved, cutoff.Format(time.RFC3339))
	}
	return res, errs.ErrorOrNil()
}
