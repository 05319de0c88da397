package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the comparison read API into the Fiber app. These
// endpoints are the surface an external display layer consumes; they are
// pure reads, decoupled from the ingestion write path.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/comparison", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := service.Compare(c.Context(), req.From, req.To, req.Station)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to run comparison query")
		}

		return c.JSON(fiber.Map{
			"from":    req.From,
			"to":      req.To,
			"station": req.Station,
			"rows":    rows,
		})
	})

	v1.Get("/forecasts", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.Forecasts(c.Context(), req.filter())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecasts")
		}
		return c.JSON(fiber.Map{"forecasts": records})
	})

	v1.Get("/observations", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.Observations(c.Context(), req.filter())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch observations")
		}
		return c.JSON(fiber.Map{"observations": records})
	})
}

// rangeQuery holds the query parameters shared by the read endpoints.
type rangeQuery struct {
	From    time.Time `validate:"required"`
	To      time.Time `validate:"required,gtefield=From"`
	Station string
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseDate(fromStr)
	if err != nil {
		return err
	}
	to, err := parseDate(toStr)
	if err != nil {
		return err
	}

	r.From = from
	r.To = to
	r.Station = c.Query("station")

	return validate.Struct(r)
}

func (r *rangeQuery) filter() weather.Filter {
	return weather.Filter{From: r.From, To: r.To, StationID: r.Station}
}

// parseDate tries to parse either a calendar date or RFC3339.
func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Time{}, errors.New("invalid date format; use YYYY-MM-DD or RFC3339")
}
