package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const (
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute

	dbPingTimeout    = 3 * time.Second
	dbPingAttempts   = 8
	dbInitialBackoff = 500 * time.Millisecond
	dbMaxBackoff     = 5 * time.Second
)

// openDatabase opens a pooled handle through the pgx stdlib driver and
// waits for the instance to accept connections. Under docker compose,
// Postgres usually comes up a few seconds after the app.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	if err := waitForDatabase(ctx, db, dbPingAttempts, dbInitialBackoff); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// waitForDatabase pings until the database answers, doubling the backoff
// between logged attempts. It gives up after attempts tries or caller
// cancellation.
func waitForDatabase(ctx context.Context, db *sql.DB, attempts int, backoff time.Duration) error {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		if attempt == attempts {
			break
		}

		log.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("retry_in", backoff).
			Msg("database not ready, retrying")

		time.Sleep(backoff)
		backoff *= 2
		if backoff > dbMaxBackoff {
			backoff = dbMaxBackoff
		}
	}

	return fmt.Errorf("ping database: %w", lastErr)
}
