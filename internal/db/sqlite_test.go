// internal/db/sqlite_test.go
package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	d, err := Open(context.Background(), SQLite, ":memory:")
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, SQLite, d.Type())
	assert.False(t, d.IsPostgres())
	require.NoError(t, d.Ping())

	_, err = d.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = d.Exec(d.Rebind("INSERT INTO t (name) VALUES (?)"), "x")
	require.NoError(t, err)

	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM t").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), SQLite, "")
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)

	_, err = Open(context.Background(), "oracle", "x")
	assert.Error(t, err)

	_, err = Open(context.Background(), MySQL, "not a dsn")
	assert.ErrorAs(t, err, &ce)
}

func TestParseDriver(t *testing.T) {
	cases := map[string]DriverType{
		"":           SQLite,
		"SQLite":     SQLite,
		"postgresql": Postgres,
		"pgx":        Postgres,
		"pq":         PostgresPQ,
		"mariadb":    MySQL,
	}
	for in, want := range cases {
		got, err := ParseDriver(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDriver("mssql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: Postgres}
	assert.Equal(t, "SELECT * FROM h WHERE a = $1 AND b LIKE $2 AND c = '?'", pg.Rebind("SELECT * FROM h WHERE a = ? AND b LIKE ? AND c = '?'"))

	pq := &DB{driver: PostgresPQ}
	assert.Equal(t, "VALUES ($1, $2)", pq.Rebind("VALUES (?, ?)"))

	my := &DB{driver: MySQL}
	assert.Equal(t, "VALUES (?, ?)", my.Rebind("VALUES (?, ?)"))
}

func TestErrorWrapping(t *testing.T) {
	base := errors.New("boom")
	assert.Nil(t, WrapQueryError("insert", nil))

	err := WrapQueryError("insert history", base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "insert history failed: boom", err.Error())
	assert.ErrorIs(t, WrapConnectionError(base), base)
}
