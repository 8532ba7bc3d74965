package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenWeatherClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenWeatherClient(srv.Client(), "test-key")
	c.baseURL = srv.URL
	// Keep failure tests fast.
	c.retry = retryPolicy{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	return c
}

func TestCurrentParsesKelvin(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"main":{"temp":300.15,"humidity":40},"weather":[{"main":"Clear"}]}`))
	})

	reading, err := c.Current(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if reading.TempKelvin != 300.15 {
		t.Errorf("TempKelvin = %v, want 300.15", reading.TempKelvin)
	}

	q, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if q.Get("q") != "Delhi" || q.Get("appid") != "test-key" {
		t.Errorf("query = %q, want q=Delhi and appid=test-key", gotQuery)
	}
	if q.Has("units") {
		t.Error("units parameter must not be sent; the payload is expected in Kelvin")
	}
}

func TestCurrentMissingAPIKey(t *testing.T) {
	c := NewOpenWeatherClient(http.DefaultClient, "")
	if _, err := c.Current(context.Background(), "Delhi"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestCurrentMalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cod":"404","message":"city not found"`))
	})
	if _, err := c.Current(context.Background(), "Delhi"); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestCurrentMissingTemperature(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[{"main":"Clear"}]}`))
	})
	if _, err := c.Current(context.Background(), "Delhi"); err == nil {
		t.Fatal("expected error when main.temp is absent")
	}
}

func TestCurrentRetriesServerErrors(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"main":{"temp":290.15}}`))
	})

	reading, err := c.Current(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("Current after retry: %v", err)
	}
	if reading.TempKelvin != 290.15 {
		t.Errorf("TempKelvin = %v, want 290.15", reading.TempKelvin)
	}
	if calls != 2 {
		t.Errorf("provider called %d times, want 2", calls)
	}
}

func TestCurrentUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.Current(context.Background(), "Delhi"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
