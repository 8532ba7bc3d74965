package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-monitor/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. The surface
// mirrors the stored-summary lifecycle: trigger a fetch, write a summary
// directly, and read by city/date/range.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	w := app.Group("/weather")

	// Kick off a fetch cycle in the background; idempotent and safe to call
	// anytime.
	w.Get("/get", func(c *fiber.Ctx) error {
		go service.FetchCycle(context.Background())
		return c.JSON(fiber.Map{"message": "Weather data is being fetched"})
	})

	w.Post("/", func(c *fiber.Ctx) error {
		var body summaryBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sum, err := body.toSummary()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		saved, err := service.SaveSummary(sum)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save weather summary")
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	w.Get("/", func(c *fiber.Ctx) error {
		summaries, err := service.AllSummaries()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list weather summaries")
		}
		return c.JSON(summaries)
	})

	w.Get("/summary/:city/:date", func(c *fiber.Ctx) error {
		date, err := weather.ParseDate(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		sum, err := service.SummaryByCityAndDate(c.Params("city"), date)
		return respondSummary(c, sum, err)
	})

	w.Get("/summary/:city", func(c *fiber.Ctx) error {
		sum, err := service.SummaryByCity(c.Params("city"))
		return respondSummary(c, sum, err)
	})

	w.Get("/daily/:date", func(c *fiber.Ctx) error {
		date, err := weather.ParseDate(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		summaries, err := service.SummariesByDate(date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch daily summaries")
		}
		return c.JSON(summaries)
	})

	w.Get("/historical-summary/:city", func(c *fiber.Ctx) error {
		start, err := weather.ParseDate(c.Query("startDate"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		end, err := weather.ParseDate(c.Query("endDate"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summaries, err := service.SummariesByDateRange(c.Params("city"), start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}
		if len(summaries) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no weather summaries for requested range")
		}
		return c.JSON(summaries)
	})
}

func respondSummary(c *fiber.Ctx, sum weather.Summary, err error) error {
	if err != nil {
		if errors.Is(err, weather.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather summary for requested city and date")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather summary")
	}
	return c.JSON(sum)
}

// summaryBody is the external write payload. Date arrives as "2006-01-02".
type summaryBody struct {
	City              string  `json:"city" validate:"required"`
	Date              string  `json:"date" validate:"required"`
	AvgTemp           float64 `json:"avgTemp"`
	MaxTemp           float64 `json:"maxTemp"`
	MinTemp           float64 `json:"minTemp"`
	DominantCondition string  `json:"dominantCondition"`
	Kind              string  `json:"kind" validate:"omitempty,oneof=raw_fetch daily_aggregate"`
}

func (b summaryBody) toSummary() (weather.Summary, error) {
	date, err := weather.ParseDate(b.Date)
	if err != nil {
		return weather.Summary{}, err
	}
	return weather.Summary{
		City:              b.City,
		Date:              date,
		AvgTemp:           b.AvgTemp,
		MaxTemp:           b.MaxTemp,
		MinTemp:           b.MinTemp,
		DominantCondition: b.DominantCondition,
		Kind:              weather.Kind(b.Kind),
	}, nil
}
