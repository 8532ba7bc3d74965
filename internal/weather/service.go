package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CycleConfig carries the fixed inputs both background cycles need.
// It is built once at startup and never mutated.
type CycleConfig struct {
	// Cities is the fixed, ordered city list both cycles walk.
	Cities []string
	// AlertThresholdC triggers an alert log line when exceeded (strictly).
	AlertThresholdC float64
	// FetchTimeout bounds each city's provider call so one stalled city
	// cannot delay the rest of the cycle.
	FetchTimeout time.Duration
}

// Service orchestrates the fetch and daily-aggregation cycles and exposes
// the read operations consumed by the HTTP surface.
type Service struct {
	store    Store
	provider Provider
	cfg      CycleConfig
	log      *slog.Logger
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, cfg CycleConfig, log *slog.Logger) *Service {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Service{
		store:    store,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

// FetchCycle fetches a current reading for every configured city and upserts
// today's raw summary. Failures are isolated per city: they are logged and
// the loop moves on. The cycle is fire-and-forget and never returns an error.
func (s *Service) FetchCycle(ctx context.Context) {
	s.log.Info("running weather fetch cycle", "cities", len(s.cfg.Cities))
	for _, city := range s.cfg.Cities {
		if err := s.fetchCity(ctx, city); err != nil {
			s.log.Error("fetch failed", "city", city, "error", err)
		}
	}
}

func (s *Service) fetchCity(ctx context.Context, city string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	reading, err := s.provider.Current(ctx, city)
	if err != nil {
		return fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}

	celsius := KelvinToCelsius(reading.TempKelvin)
	s.checkThreshold(city, celsius)

	today := Today()
	existing, err := s.store.FindFirst(city, today)
	switch {
	case errors.Is(err, ErrNotFound):
		created, err := s.store.Create(Summary{
			City:    city,
			Date:    today,
			AvgTemp: celsius,
			Kind:    KindRawFetch,
		})
		if err != nil {
			return fmt.Errorf("create summary: %w", err)
		}
		s.log.Info("saved new weather summary", "city", city, "id", created.ID, "temperatureC", celsius)
	case err != nil:
		return fmt.Errorf("lookup summary: %w", err)
	default:
		existing.AvgTemp = celsius
		if _, err := s.store.Save(existing); err != nil {
			return fmt.Errorf("update summary: %w", err)
		}
		s.log.Info("updated weather summary", "city", city, "id", existing.ID, "temperatureC", celsius)
	}
	return nil
}

// checkThreshold emits an alert log line when the converted temperature
// strictly exceeds the configured threshold. Observability only; it never
// influences control flow.
func (s *Service) checkThreshold(city string, celsius float64) {
	if celsius > s.cfg.AlertThresholdC {
		s.log.Warn(
			fmt.Sprintf("ALERT! Temperature in %s is now %.2f°C, exceeding the threshold of %.2f°C.",
				city, celsius, s.cfg.AlertThresholdC),
			"city", city, "temperatureC", celsius,
		)
	}
}

// AggregateCycle reduces each city's summaries for today into one
// daily-aggregate record. Cities with no records are skipped; per-city
// failures are isolated exactly like in FetchCycle.
func (s *Service) AggregateCycle(ctx context.Context) {
	today := Today()
	s.log.Info("running daily aggregation cycle", "date", today.String())
	for _, city := range s.cfg.Cities {
		if ctx.Err() != nil {
			s.log.Warn("aggregation cycle cancelled", "error", ctx.Err())
			return
		}
		if err := s.aggregateCity(city, today); err != nil {
			s.log.Error("aggregation failed", "city", city, "error", err)
		}
	}
}

func (s *Service) aggregateCity(city string, day Date) error {
	rows, err := s.store.FindByCityAndDate(city, day)
	if err != nil {
		return fmt.Errorf("read summaries: %w", err)
	}
	if len(rows) == 0 {
		s.log.Info("no summaries to aggregate", "city", city)
		return nil
	}

	agg := AggregateDaily(city, day, rows)
	created, err := s.store.Create(agg)
	if err != nil {
		return fmt.Errorf("write aggregate: %w", err)
	}
	s.log.Info("aggregated daily weather",
		"city", city, "id", created.ID,
		"avgTemp", agg.AvgTemp, "dominantCondition", agg.DominantCondition)
	return nil
}

// SaveSummary stores a caller-supplied record, bypassing the fetch logic.
// Records arriving without a kind carry explicit values in all fields, so
// they default to daily-aggregate semantics.
func (s *Service) SaveSummary(sum Summary) (Summary, error) {
	if sum.Kind == "" {
		sum.Kind = KindDailyAggregate
	}
	if sum.ID == 0 {
		return s.store.Create(sum)
	}
	return s.store.Save(sum)
}

// AllSummaries lists every stored record.
func (s *Service) AllSummaries() ([]Summary, error) {
	return s.store.FindAll()
}

// SummaryByCityAndDate returns the first stored record for city+date.
func (s *Service) SummaryByCityAndDate(city string, date Date) (Summary, error) {
	rows, err := s.store.FindByCityAndDate(city, date)
	if err != nil {
		return Summary{}, err
	}
	if len(rows) == 0 {
		return Summary{}, ErrNotFound
	}
	return rows[0], nil
}

// SummaryByCity returns the first stored record for the city today.
func (s *Service) SummaryByCity(city string) (Summary, error) {
	return s.SummaryByCityAndDate(city, Today())
}

// SummariesByDate lists every record for the given date across cities.
func (s *Service) SummariesByDate(date Date) ([]Summary, error) {
	return s.store.FindByDate(date)
}

// SummariesByDateRange lists a city's records with dates in [start, end].
func (s *Service) SummariesByDateRange(city string, start, end Date) ([]Summary, error) {
	return s.store.FindRange(city, start, end)
}
