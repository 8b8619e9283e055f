package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const sqlTimeLayout = time.RFC3339Nano

type Dialect string

const (
	DialectSQLite Dialect = "sqlite3"
	DialectMySQL  Dialect = "mysql"
)

const mysqlCreateSlots = `CREATE TABLE IF NOT EXISTS slots (
    slot_key VARCHAR(191) PRIMARY KEY,
    value LONGTEXT NOT NULL,
    version BIGINT NOT NULL DEFAULT 1,
    updated_at VARCHAR(40) NOT NULL
)`

// SQLStore keeps slots in a single "slots" table. Writes are optimistic:
// an update only lands when the stored version still matches.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	switch dialect {
	case DialectSQLite:
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	case DialectMySQL:
	default:
		return nil, fmt.Errorf("storage: unsupported dialect %q", dialect)
	}
	return &SQLStore{db: db, dialect: dialect, now: time.Now}, nil
}

// OpenSQLite opens (or creates) the database file at path and migrates it.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open(string(DialectSQLite), path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLStore(db, DialectSQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenMySQL connects to dsn and creates the slots table when missing.
func OpenMySQL(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open(string(DialectMySQL), dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	if _, err := db.ExecContext(ctx, mysqlCreateSlots); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	store, err := NewSQLStore(db, DialectMySQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, key string) (Slot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT slot_key, value, version, updated_at FROM slots WHERE slot_key = ?`, key)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Slot{}, ErrNotFound
		}
		return Slot{}, err
	}
	return slot, nil
}

func (s *SQLStore) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	if expectedVersion < 0 {
		return 0, fmt.Errorf("storage: negative version %d", expectedVersion)
	}
	updated := mustTime(s.now())
	var (
		res sql.Result
		err error
	)
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, s.insertIfAbsent(), key, value, updated)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE slots SET value = ?, version = version + 1, updated_at = ?
			WHERE slot_key = ? AND version = ?`,
			value, updated, key, expectedVersion,
		)
	}
	if err != nil {
		return 0, err
	}
	if err := checkRowsAffected(res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrVersionConflict
		}
		return 0, err
	}
	return expectedVersion + 1, nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE slot_key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (s *SQLStore) insertIfAbsent() string {
	if s.dialect == DialectMySQL {
		return `INSERT IGNORE INTO slots (slot_key, value, version, updated_at) VALUES (?, ?, 1, ?)`
	}
	return `INSERT INTO slots (slot_key, value, version, updated_at) VALUES (?, ?, 1, ?) ON CONFLICT(slot_key) DO NOTHING`
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqlTimeLayout)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(s scanner) (Slot, error) {
	var out Slot
	var updated string
	if err := s.Scan(&out.Key, &out.Value, &out.Version, &updated); err != nil {
		return Slot{}, err
	}
	updatedAt, err := time.Parse(sqlTimeLayout, updated)
	if err != nil {
		return Slot{}, fmt.Errorf("parse updated_at: %w", err)
	}
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
