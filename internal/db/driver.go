// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DriverType represents supported database types
type DriverType string

const (
	SQLite     DriverType = "sqlite3"
	Postgres   DriverType = "postgres" // jackc/pgx
	PostgresPQ DriverType = "pq"       // lib/pq
	MySQL      DriverType = "mysql"
)

// ParseDriver normalizes a configured driver name
func ParseDriver(name string) (DriverType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "pq", "libpq":
		return PostgresPQ, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unknown driver type: %s", name)
	}
}

// DB is an open database together with the dialect it speaks
type DB struct {
	*sql.DB
	driver DriverType
}

// Type returns the driver type
func (d *DB) Type() DriverType {
	return d.driver
}

// IsPostgres reports whether either postgres driver is in use
func (d *DB) IsPostgres() bool {
	return d.driver == Postgres || d.driver == PostgresPQ
}

// Rebind rewrites ? placeholders into the driver's style
func (d *DB) Rebind(query string) string {
	if !d.IsPostgres() {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Open connects to the database and verifies it is reachable
func Open(ctx context.Context, driver DriverType, dsn string) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)
	switch driver {
	case SQLite:
		sqlDB, err = openSQLite(dsn)
	case Postgres:
		sqlDB, err = openPostgres(dsn)
	case PostgresPQ:
		sqlDB, err = openPQ(dsn)
	case MySQL:
		sqlDB, err = openMySQL(dsn)
	default:
		return nil, fmt.Errorf("unknown driver type: %s", driver)
	}
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	if driver != SQLite {
		// Configure connection pooling
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	// Verify connection (sql.Open is lazy)
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, WrapConnectionError(err)
	}

	return &DB{DB: sqlDB, driver: driver}, nil
}
