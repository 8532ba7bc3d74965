package store

import (
	"sync"

	"weather-monitor/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory weather.Store. It backs tests
// and runs without a configured SQLite path. Rows keep insertion order, which
// is what gives FindFirst its "earliest created" semantics.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []weather.Summary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) FindFirst(city string, date weather.Date) (weather.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rows {
		if r.City == city && r.Date.Equal(date) {
			return r, nil
		}
	}
	return weather.Summary{}, weather.ErrNotFound
}

func (s *MemoryStore) FindByCityAndDate(city string, date weather.Date) ([]weather.Summary, error) {
	return s.filter(func(r weather.Summary) bool {
		return r.City == city && r.Date.Equal(date)
	}), nil
}

func (s *MemoryStore) FindByDate(date weather.Date) ([]weather.Summary, error) {
	return s.filter(func(r weather.Summary) bool {
		return r.Date.Equal(date)
	}), nil
}

func (s *MemoryStore) FindRange(city string, start, end weather.Date) ([]weather.Summary, error) {
	return s.filter(func(r weather.Summary) bool {
		return r.City == city && !r.Date.Before(start) && !r.Date.After(end)
	}), nil
}

func (s *MemoryStore) FindAll() ([]weather.Summary, error) {
	return s.filter(func(weather.Summary) bool { return true }), nil
}

func (s *MemoryStore) Create(sum weather.Summary) (weather.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, sum)
	return sum, nil
}

func (s *MemoryStore) Save(sum weather.Summary) (weather.Summary, error) {
	if sum.ID == 0 {
		return s.Create(sum)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rows {
		if r.ID == sum.ID {
			s.rows[i] = sum
			return sum, nil
		}
	}
	return weather.Summary{}, weather.ErrNotFound
}

func (s *MemoryStore) filter(keep func(weather.Summary) bool) []weather.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []weather.Summary
	for _, r := range s.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
