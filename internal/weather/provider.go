package weather

import "context"

// Reading is a single raw observation from a provider. OpenWeatherMap
// reports temperature in Kelvin when no unit system is requested.
type Reading struct {
	TempKelvin float64
}

// Provider abstracts the external weather source.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (Reading, error)
}

// Store is the contract any summary storage (SQLite, in-memory) must satisfy.
// (city, date) is deliberately not unique: a raw-fetch row and a
// daily-aggregate row for the same day coexist.
type Store interface {
	// FindFirst returns the earliest-created summary for city+date,
	// or ErrNotFound.
	FindFirst(city string, date Date) (Summary, error)
	FindByCityAndDate(city string, date Date) ([]Summary, error)
	FindByDate(date Date) ([]Summary, error)
	// FindRange returns summaries for the city with start <= date <= end.
	FindRange(city string, start, end Date) ([]Summary, error)
	FindAll() ([]Summary, error)
	// Create persists a new summary and assigns its identity.
	Create(s Summary) (Summary, error)
	// Save upserts by identity: updates the row with s.ID, or creates one
	// when s.ID is zero.
	Save(s Summary) (Summary, error)
}
