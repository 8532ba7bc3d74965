package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.FetchInterval != 5*time.Minute {
		t.Errorf("FetchInterval = %v, want 5m", cfg.FetchInterval)
	}
	if cfg.AggregateInterval != 24*time.Hour {
		t.Errorf("AggregateInterval = %v, want 24h", cfg.AggregateInterval)
	}
	if cfg.AlertThresholdC != 32.0 {
		t.Errorf("AlertThresholdC = %v, want 32.0", cfg.AlertThresholdC)
	}
	if len(cfg.Cities) != 6 {
		t.Errorf("Cities = %v, want the 6 defaults", cfg.Cities)
	}
	if cfg.OpenWeatherAPIKey != "secret" {
		t.Errorf("OpenWeatherAPIKey = %q, want secret", cfg.OpenWeatherAPIKey)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WEATHER_CITIES", "Paris, Berlin ,Oslo")
	t.Setenv("FETCH_INTERVAL", "1m")
	t.Setenv("ALERT_THRESHOLD_C", "28.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"Paris", "Berlin", "Oslo"}
	if len(cfg.Cities) != len(want) {
		t.Fatalf("Cities = %v, want %v", cfg.Cities, want)
	}
	for i, c := range want {
		if cfg.Cities[i] != c {
			t.Errorf("Cities[%d] = %q, want %q", i, cfg.Cities[i], c)
		}
	}
	if cfg.FetchInterval != time.Minute {
		t.Errorf("FetchInterval = %v, want 1m", cfg.FetchInterval)
	}
	if cfg.AlertThresholdC != 28.5 {
		t.Errorf("AlertThresholdC = %v, want 28.5", cfg.AlertThresholdC)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("FETCH_INTERVAL", "five minutes")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable FETCH_INTERVAL")
	}
}
