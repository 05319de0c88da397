package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/feed"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/IDT16710.txt":
			w.Write([]byte("Issued at 4:20 pm EDT on Wednesday 28 February 2024"))
		case "/IDT60801/IDT60801.94951.json":
			w.Write([]byte(`{"observations":{"data":[]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := feed.NewClient(srv.Client(), srv.URL)

	body, err := client.Fetch(context.Background(), weather.ProductForecast)
	require.NoError(t, err)
	require.Contains(t, string(body), "Issued at")

	body, err = client.Fetch(context.Background(), weather.ProductObservation)
	require.NoError(t, err)
	require.JSONEq(t, `{"observations":{"data":[]}}`, string(body))
}

func TestClientFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := feed.NewClient(srv.Client(), srv.URL)

	// Bound the retry loop so the failure surfaces quickly.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, weather.ProductForecast)
	var fetchErr *weather.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, weather.ProductForecast, fetchErr.Product)
}
