package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"weather-monitor/internal/weather"
)

// OpenWeatherClient implements weather.Provider against the OpenWeatherMap
// current-weather endpoint. No units parameter is sent, so main.temp arrives
// in Kelvin.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	retry   retryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		retry: retryPolicy{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

func (c *OpenWeatherClient) Name() string {
	return c.name
}

func (c *OpenWeatherClient) Current(ctx context.Context, city string) (weather.Reading, error) {
	if c.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("appid", c.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), nil)
	}

	resp, err := doWithResilience(ctx, c.client, c.retry, c.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("malformed openweather response: %w", err)
	}
	if payload.Main.Temp == nil {
		return weather.Reading{}, fmt.Errorf("malformed openweather response: missing main.temp")
	}

	return weather.Reading{TempKelvin: *payload.Main.Temp}, nil
}
