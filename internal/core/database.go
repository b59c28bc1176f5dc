package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Database wraps sql.DB with transaction and timeout helpers.
type Database struct {
	*sql.DB
	logger *Logger
}

// NewDatabase creates a new database wrapper.
func NewDatabase(db *sql.DB, logger *Logger) *Database {
	return &Database{
		DB:     db,
		logger: logger,
	}
}

// Transaction executes a function within a database transaction.
func (db *Database) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return err
}

// PingWithTimeout pings the database with a timeout.
func (db *Database) PingWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return db.PingContext(ctx)
}

// QueryWithTimeout executes a query with a 30s ceiling. The timeout context
// must outlive this call so the returned rows stay readable; cancellation is
// released once the deadline or the parent context fires.
func (db *Database) QueryWithTimeout(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

	rows, err := db.QueryContext(queryCtx, query, args...)
	if err != nil {
		cancel()
		return nil, err
	}

	go func() {
		<-queryCtx.Done()
		cancel()
	}()

	return rows, nil
}

// QueryRowWithTimeout executes a single-row query with a 30s ceiling. As with
// QueryWithTimeout, the context stays live until the caller has scanned.
func (db *Database) QueryRowWithTimeout(ctx context.Context, query string, args ...interface{}) *sql.Row {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

	row := db.QueryRowContext(queryCtx, query, args...)

	go func() {
		<-queryCtx.Done()
		cancel()
	}()

	return row
}

// ExecWithTimeout executes a command with a 30s ceiling.
func (db *Database) ExecWithTimeout(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return db.ExecContext(queryCtx, query, args...)
}

// Close closes the database connection.
func (db *Database) Close() error {
	db.logger.Info("Closing database connection")
	return db.DB.Close()
}
