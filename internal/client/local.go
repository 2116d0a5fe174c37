package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoCache — для запрошенной даты нет локальной копии.
var ErrNoCache = errors.New("нет локальной копии для этой даты")

// LocalStore — офлайн-кэш личного календаря: по одной записи на
// календарный день, ключ — сама дата.
type LocalStore struct {
	db *sql.DB
}

// OpenLocalStore открывает (при необходимости создавая) файл кэша.
func OpenLocalStore(path string) (*LocalStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть локальный кэш: %w", err)
	}
	query := `CREATE TABLE IF NOT EXISTS day_cache (
		date TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу кэша: %w", err)
	}
	return &LocalStore{db: db}, nil
}

// Save сохраняет снимок дня, затирая прежний.
func (s *LocalStore) Save(ctx context.Context, date string, payload []byte) error {
	query := `INSERT INTO day_cache (date, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, date, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("не удалось сохранить снимок дня: %w", err)
	}
	return nil
}

// Load возвращает последний сохранённый снимок дня.
func (s *LocalStore) Load(ctx context.Context, date string) ([]byte, error) {
	var payload []byte
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM day_cache WHERE date = ?`, date)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCache
		}
		return nil, err
	}
	return payload, nil
}

// Forget удаляет снимок дня (например, после очистки календаря).
func (s *LocalStore) Forget(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM day_cache WHERE date = ?`, date)
	return err
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}
