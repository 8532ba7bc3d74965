package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"weather-monitor/internal/store"
	"weather-monitor/internal/weather"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }
func (stubProvider) Current(context.Context, string) (weather.Reading, error) {
	return weather.Reading{TempKelvin: 290.15}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})
	st := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := weather.NewService(st, stubProvider{}, weather.CycleConfig{Cities: []string{"Delhi"}}, logger)
	RegisterRoutes(app, svc)
	return app, st
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body []byte) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestCreateAndListSummaries(t *testing.T) {
	app, _ := newTestApp(t)

	body := []byte(`{"city":"Delhi","date":"2024-06-01","avgTemp":28.5,"maxTemp":33,"minTemp":24,"dominantCondition":"Sunny"}`)
	resp := doRequest(t, app, http.MethodPost, "/weather/", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created weather.Summary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 {
		t.Error("created summary has no ID")
	}
	// Caller-supplied records default to daily-aggregate semantics.
	if created.Kind != weather.KindDailyAggregate {
		t.Errorf("Kind = %q, want %q", created.Kind, weather.KindDailyAggregate)
	}

	resp = doRequest(t, app, http.MethodGet, "/weather/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var all []weather.Summary
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("list has %d summaries, want 1", len(all))
	}
}

func TestCreateSummaryValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing city.
	resp := doRequest(t, app, http.MethodPost, "/weather/", []byte(`{"date":"2024-06-01"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing city: status = %d, want 400", resp.StatusCode)
	}

	// Malformed date.
	resp = doRequest(t, app, http.MethodPost, "/weather/", []byte(`{"city":"Delhi","date":"June 1st"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", resp.StatusCode)
	}

	// Unknown kind.
	resp = doRequest(t, app, http.MethodPost, "/weather/", []byte(`{"city":"Delhi","date":"2024-06-01","kind":"hourly"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad kind: status = %d, want 400", resp.StatusCode)
	}
}

func TestSummaryByCityAndDate(t *testing.T) {
	app, st := newTestApp(t)
	day := mustDate(t, "2024-06-01")
	if _, err := st.Create(weather.Summary{City: "Delhi", Date: day, AvgTemp: 27, Kind: weather.KindRawFetch}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := doRequest(t, app, http.MethodGet, "/weather/summary/Delhi/2024-06-01", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/weather/summary/Delhi/2024-06-02", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing date: status = %d, want 404", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/weather/summary/Delhi/notadate", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", resp.StatusCode)
	}
}

func TestSummaryByCityToday(t *testing.T) {
	app, st := newTestApp(t)
	if _, err := st.Create(weather.Summary{City: "Delhi", Date: weather.Today(), AvgTemp: 27, Kind: weather.KindRawFetch}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := doRequest(t, app, http.MethodGet, "/weather/summary/Delhi", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet, "/weather/summary/Mumbai", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing city: status = %d, want 404", resp.StatusCode)
	}
}

func TestHistoricalSummaryRange(t *testing.T) {
	app, st := newTestApp(t)
	for day := 1; day <= 5; day++ {
		date := mustDate(t, fmt.Sprintf("2024-06-%02d", day))
		if _, err := st.Create(weather.Summary{City: "Delhi", Date: date, Kind: weather.KindDailyAggregate}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	resp := doRequest(t, app, http.MethodGet,
		"/weather/historical-summary/Delhi?startDate=2024-06-02&endDate=2024-06-04", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got []weather.Summary
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d summaries, want 3 (inclusive range)", len(got))
	}

	resp = doRequest(t, app, http.MethodGet,
		"/weather/historical-summary/Delhi?startDate=2025-01-01&endDate=2025-01-02", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty range: status = %d, want 404", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodGet,
		"/weather/historical-summary/Delhi?startDate=bad&endDate=2024-06-04", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad start date: status = %d, want 400", resp.StatusCode)
	}
}

func TestDailySummariesByDate(t *testing.T) {
	app, st := newTestApp(t)
	day := mustDate(t, "2024-06-01")
	for _, city := range []string{"Delhi", "Mumbai"} {
		if _, err := st.Create(weather.Summary{City: city, Date: day, Kind: weather.KindDailyAggregate}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	resp := doRequest(t, app, http.MethodGet, "/weather/daily/2024-06-01", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got []weather.Summary
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
}

func TestTriggerFetch(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/weather/get", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func mustDate(t *testing.T, s string) weather.Date {
	t.Helper()
	d, err := weather.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}
