// Package kv is the single local key-value namespace every record lives in.
// Keys follow the layout the browser sheet used for its local storage.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	DB  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

// Bucket is a view of the namespace bound to either the pool or a transaction.
type Bucket struct {
	q   Querier
	now func() time.Time
}

func (s *Store) Bucket() Bucket {
	return Bucket{q: s.DB, now: s.now}
}

// Update runs fn inside one transaction; any error rolls everything back.
func (s *Store) Update(ctx context.Context, fn func(b Bucket) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(Bucket{q: tx, now: s.now}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.Bucket().Get(ctx, key)
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return s.Bucket().Put(ctx, key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Bucket().Delete(ctx, key)
}

func (b Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.q.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b Bucket) Put(ctx context.Context, key string, value []byte) error {
	_, err := b.q.ExecContext(ctx, `
    INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
    ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
  `, key, value, b.now().UnixMilli())
	return err
}

// Delete is a no-op for missing keys, matching localStorage.removeItem.
func (b Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.q.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// Keys lists keys sharing prefix in lexical order.
func (b Bucket) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.q.QueryContext(ctx, "SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key", len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
