// db/bundb/bundb.go
package bundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/clan-service/config"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const sqlStateUniqueViolation = "23505"

// Open connects to Postgres with the configured driver and returns a bun.DB.
func Open(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger, models ...any) (*bun.DB, error) {
	sqldb, err := pgConn(cfg)
	if err != nil {
		return nil, err
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	if len(models) > 0 {
		db.RegisterModel(models...)
	}

	if logger != nil {
		logger.InfoContext(ctx, "Database connection established", slog.String("driver", driverName(cfg)))
	}
	return db, nil
}

func driverName(cfg config.PostgresConfig) string {
	if cfg.Driver == "pgx" {
		return "pgx"
	}
	return "pg"
}

func pgConn(cfg config.PostgresConfig) (*sql.DB, error) {
	if driverName(cfg) == "pgx" {
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open pgx connection: %w", err)
		}
		return db, nil
	}
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN))), nil
}

// UniqueViolation reports whether err is a Postgres unique_violation and, if
// so, the name of the violated constraint. Both pgdriver and pgx errors are
// recognized.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == sqlStateUniqueViolation {
		return pgErr.Field('n'), true
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == sqlStateUniqueViolation {
		return pgxErr.ConstraintName, true
	}

	return "", false
}
