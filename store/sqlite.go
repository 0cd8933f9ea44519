package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rushteam/tagrec/core"
)

//go:embed schema.sql
var schema string

// SQLiteStore 是基于 SQLite 的 Store。
// expires_at 为 UnixNano，0 表示不过期。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 打开 dbPath 并初始化表结构。
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "open sqlite "+dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "init schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func expiresAtNano(ttl []int) int64 {
	at := expiresAt(ttl)
	if at.IsZero() {
		return 0
	}
	return at.UnixNano()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE key = ? AND (expires_at = 0 OR expires_at > ?)",
		key, time.Now().UnixNano(),
	).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at",
		key, value, expiresAtNano(ttl),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, err := s.Get(ctx, k)
		if core.IsStoreNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, nil
}

func (s *SQLiteStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at")
	if err != nil {
		return fmt.Errorf("prepare batch set: %w", err)
	}
	defer stmt.Close()

	exp := expiresAtNano(ttl)
	for k, v := range kvs {
		if _, err := stmt.ExecContext(ctx, k, v, exp); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ core.Store = (*SQLiteStore)(nil)
