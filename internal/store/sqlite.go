package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"weather-monitor/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_summaries (
  id                 INTEGER PRIMARY KEY AUTOINCREMENT,
  city               TEXT NOT NULL,
  date               TEXT NOT NULL,
  kind               TEXT NOT NULL DEFAULT '',
  avg_temp           REAL NOT NULL DEFAULT 0,
  max_temp           REAL NOT NULL DEFAULT 0,
  min_temp           REAL NOT NULL DEFAULT 0,
  dominant_condition TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_summaries_city_date ON weather_summaries(city, date);
`

const selectColumns = "id, city, date, kind, avg_temp, max_temp, min_temp, dominant_condition"

// SQLiteStore is a durable weather.Store backed by SQLite. (city, date) has
// an index but no unique constraint: raw-fetch and daily-aggregate rows for
// the same day coexist.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. ":memory:" is accepted for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every pooled connection to :memory: would get its own database, so
	// pin the pool to a single connection there.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return ":memory:", nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// busy_timeout covers concurrent fetch/aggregation cycles; WAL keeps
	// reads open during writes.
	params := []string{
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindFirst(city string, date weather.Date) (weather.Summary, error) {
	row := s.db.QueryRow(
		"SELECT "+selectColumns+" FROM weather_summaries WHERE city = ? AND date = ? ORDER BY id LIMIT 1",
		city, date.String())
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.Summary{}, weather.ErrNotFound
	}
	return sum, err
}

func (s *SQLiteStore) FindByCityAndDate(city string, date weather.Date) ([]weather.Summary, error) {
	return s.query(
		"SELECT "+selectColumns+" FROM weather_summaries WHERE city = ? AND date = ? ORDER BY id",
		city, date.String())
}

func (s *SQLiteStore) FindByDate(date weather.Date) ([]weather.Summary, error) {
	return s.query(
		"SELECT "+selectColumns+" FROM weather_summaries WHERE date = ? ORDER BY id",
		date.String())
}

func (s *SQLiteStore) FindRange(city string, start, end weather.Date) ([]weather.Summary, error) {
	// ISO dates compare correctly as strings; both bounds are inclusive.
	return s.query(
		"SELECT "+selectColumns+" FROM weather_summaries WHERE city = ? AND date >= ? AND date <= ? ORDER BY date, id",
		city, start.String(), end.String())
}

func (s *SQLiteStore) FindAll() ([]weather.Summary, error) {
	return s.query("SELECT " + selectColumns + " FROM weather_summaries ORDER BY id")
}

func (s *SQLiteStore) Create(sum weather.Summary) (weather.Summary, error) {
	res, err := s.db.Exec(
		"INSERT INTO weather_summaries (city, date, kind, avg_temp, max_temp, min_temp, dominant_condition) VALUES (?, ?, ?, ?, ?, ?, ?)",
		sum.City, sum.Date.String(), string(sum.Kind),
		sum.AvgTemp, sum.MaxTemp, sum.MinTemp, sum.DominantCondition)
	if err != nil {
		return weather.Summary{}, fmt.Errorf("insert summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return weather.Summary{}, fmt.Errorf("insert summary id: %w", err)
	}
	sum.ID = id
	return sum, nil
}

func (s *SQLiteStore) Save(sum weather.Summary) (weather.Summary, error) {
	if sum.ID == 0 {
		return s.Create(sum)
	}
	res, err := s.db.Exec(
		"UPDATE weather_summaries SET city = ?, date = ?, kind = ?, avg_temp = ?, max_temp = ?, min_temp = ?, dominant_condition = ? WHERE id = ?",
		sum.City, sum.Date.String(), string(sum.Kind),
		sum.AvgTemp, sum.MaxTemp, sum.MinTemp, sum.DominantCondition, sum.ID)
	if err != nil {
		return weather.Summary{}, fmt.Errorf("update summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return weather.Summary{}, fmt.Errorf("update summary: %w", err)
	}
	if affected == 0 {
		return weather.Summary{}, weather.ErrNotFound
	}
	return sum, nil
}

func (s *SQLiteStore) query(q string, args ...interface{}) ([]weather.Summary, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []weather.Summary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(r rowScanner) (weather.Summary, error) {
	var sum weather.Summary
	var dateStr, kindStr string
	if err := r.Scan(&sum.ID, &sum.City, &dateStr, &kindStr,
		&sum.AvgTemp, &sum.MaxTemp, &sum.MinTemp, &sum.DominantCondition); err != nil {
		return weather.Summary{}, err
	}
	date, err := weather.ParseDate(dateStr)
	if err != nil {
		return weather.Summary{}, fmt.Errorf("scan summary %d: %w", sum.ID, err)
	}
	sum.Date = date
	sum.Kind = weather.Kind(kindStr)
	return sum, nil
}
