// internal/db/postgres.go
package db

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// openPostgres uses pgx; dsn is a URL or a key=value string
func openPostgres(dsn string) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	// Register the driver configuration with stdlib
	return sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
}

// openPQ uses lib/pq for setups that rely on its connection string handling
func openPQ(dsn string) (*sql.DB, error) {
	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	return sql.OpenDB(connector), nil
}
