package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	flag "github.com/spf13/pflag"

	httpapi "github.com/jozwang/SalterWaterRiver-weather-forecast/internal/api/http"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/config"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/feed"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/scheduler"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/store"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

const dateFormat = "2006-01-02"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(cfg)
	case "compare":
		runCompare(cfg, os.Args[2:])
	case "serve":
		runServe(cfg)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: saltwater-weather <ingest|compare|serve>")
	fmt.Fprintln(os.Stderr, "  ingest   run one ingestion cycle and exit")
	fmt.Fprintln(os.Stderr, "  compare  print forecast/observation comparison rows as JSON")
	fmt.Fprintln(os.Stderr, "  serve    run the scheduler and the comparison read API")
}

// buildService wires the pipeline: shared HTTP client, feed client,
// sqlite store, parsers.
func buildService(cfg *config.AppConfig) (*weather.Service, error) {
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	feedClient := feed.NewClient(httpClient, cfg.BaseURL)

	recordStore, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	parsers := weather.Parsers{
		Forecast:    feed.ParseForecast,
		Observation: feed.ParseObservations,
	}

	scope := weather.StationScope{
		ForecastAreaID:       cfg.ForecastAreaID,
		ObservationStationID: cfg.ObservationStationID,
	}

	return weather.NewService(recordStore, feedClient, parsers, scope, cfg.RetentionHorizon()), nil
}

func runIngest(cfg *config.AppConfig) {
	service, err := buildService(cfg)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, cycleErr := service.RunCycle(ctx)

	for _, pr := range []weather.ProductResult{result.Forecast, result.Observation} {
		for _, reason := range pr.Skipped {
			log.Printf("ingest: %s skipped %s", pr.Product, reason)
		}
	}
	log.Printf("ingest: forecast upserted=%d skipped=%d, observation upserted=%d skipped=%d, purged=%d/%d",
		result.Forecast.Upserted, len(result.Forecast.Skipped),
		result.Observation.Upserted, len(result.Observation.Skipped),
		result.Purge.ForecastRemoved, result.Purge.ObservationRemoved)

	if cycleErr != nil {
		log.Printf("ingest: cycle failed: %v", cycleErr)
		os.Exit(1)
	}
}

func runCompare(cfg *config.AppConfig, args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	fromFlag := fs.StringP("from", "f", time.Now().UTC().Format(dateFormat), "start date (yyyy-mm-dd)")
	toFlag := fs.StringP("to", "t", time.Now().UTC().AddDate(0, 0, 6).Format(dateFormat), "end date (yyyy-mm-dd)")
	station := fs.StringP("station", "s", "", "station filter (forecast area or observation station id)")
	if err := fs.Parse(args); err != nil {
		log.Fatal(err)
	}

	from, err := time.ParseInLocation(dateFormat, *fromFlag, time.UTC)
	if err != nil {
		log.Fatalf("compare: invalid --from: %v", err)
	}
	to, err := time.ParseInLocation(dateFormat, *toFlag, time.UTC)
	if err != nil {
		log.Fatalf("compare: invalid --to: %v", err)
	}

	service, err := buildService(cfg)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := service.Compare(ctx, from, to, *station)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		log.Fatalf("compare: encode: %v", err)
	}
}

func runServe(cfg *config.AppConfig) {
	service, err := buildService(cfg)
	if err != nil {
		log.Fatalf("serve: %v", err)
	}

	sched := scheduler.New(cfg.IngestInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "saltwater-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "saltwater-weather",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
