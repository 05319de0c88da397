package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/store"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

func newTestApp(t *testing.T) (*fiber.App, *store.SQLiteStore) {
	t.Helper()

	recordStore, err := store.Open(filepath.Join(t.TempDir(), "weather_data.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	scope := weather.StationScope{ForecastAreaID: "IDT16710", ObservationStationID: "94951"}
	svc := weather.NewService(recordStore, nil, weather.Parsers{}, scope, 14*24*time.Hour)

	app := fiber.New()
	RegisterRoutes(app, svc)
	return app, recordStore
}

// TestComparisonQueryValidation verifies that the comparison endpoint
// rejects missing or malformed date parameters.
func TestComparisonQueryValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing from/to should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparison", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// to before from should also return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/comparison?from=2024-03-05&to=2024-03-01", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Unparseable date should return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/comparison?from=yesterday&to=2024-03-01", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestComparisonRows(t *testing.T) {
	app, recordStore := newTestApp(t)

	fetched := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	maxTemp := 21
	err := recordStore.UpsertForecasts(context.Background(), []weather.ForecastRecord{{
		StationID:   "IDT16710",
		ValidDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodIndex: 0,
		IssuedAt:    fetched,
		MaxTemp:     &maxTemp,
		FetchedAt:   fetched,
	}})
	if err != nil {
		t.Fatalf("failed to seed forecast: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comparison?from=2024-03-01&to=2024-03-07", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Rows []weather.ComparisonRow `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Rows) != 1 {
		t.Fatalf("expected 1 comparison row, got %d", len(body.Rows))
	}
	if body.Rows[0].Forecast.MaxTemp == nil || *body.Rows[0].Forecast.MaxTemp != 21 {
		t.Fatalf("expected forecast max temp 21, got %v", body.Rows[0].Forecast.MaxTemp)
	}
	if len(body.Rows[0].Observations) != 0 {
		t.Fatalf("expected no observations, got %d", len(body.Rows[0].Observations))
	}
}
