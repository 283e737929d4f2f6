package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vitaflowd/vitaflow/internal/model"
)

const (
	keySupplements = "supplements"
	keyDayMarker   = "day_marker"
)

// SQLiteStore keeps both logical keys in a single app_state key/value table.
// Each save rewrites the whole value; last write wins.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteStore{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadSupplements() ([]model.Supplement, bool, error) {
	raw, ok, err := s.loadValue(keySupplements)
	if err != nil || !ok {
		return nil, false, err
	}
	var items []model.Supplement
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return items, true, nil
}

func (s *SQLiteStore) SaveSupplements(items []model.Supplement) error {
	if items == nil {
		items = []model.Supplement{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	return s.saveValue(keySupplements, string(payload))
}

func (s *SQLiteStore) LoadDayMarker() (string, bool, error) {
	return s.loadValue(keyDayMarker)
}

func (s *SQLiteStore) SaveDayMarker(marker string) error {
	return s.saveValue(keyDayMarker, marker)
}

func (s *SQLiteStore) loadValue(key string) (string, bool, error) {
	row := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) saveValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
