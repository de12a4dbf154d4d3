package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                    { return nil }
func (nopStmt) NumInput() int                                   { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func ensureTestDriverRegistered() {
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
}

func withTestDriver(t *testing.T) *[]string {
	t.Helper()
	ensureTestDriverRegistered()
	var opened []string
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		opened = append(opened, name+"|"+dsn)
		return sql.Open("dbtest", dsn)
	}
	t.Cleanup(func() {
		openDB = prev
	})
	return &opened
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	withTestDriver(t)

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultServerOptions())
	db, err := Connect(context.Background(), DriverPostgres, "postgres://ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", stats.MaxOpenConnections)
	}
	if opts.MaxIdleConns != 3 {
		t.Fatalf("expected MaxIdleConns=3, got %d", opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != 20*time.Minute {
		t.Fatalf("expected ConnMaxLifetime=20m, got %s", opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if opts.PingTimeout != time.Second {
		t.Fatalf("expected PingTimeout=1s, got %s", opts.PingTimeout)
	}
}

func TestConnectSQLiteUsesSingleConnection(t *testing.T) {
	opened := withTestDriver(t)

	db, err := Connect(context.Background(), DriverSQLite, "file:test.db", DefaultServerOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite pool of 1, got %d", got)
	}
	if len(*opened) != 1 || (*opened)[0] != "sqlite|file:test.db" {
		t.Fatalf("unexpected open calls: %v", *opened)
	}
}

func TestConnectMySQLForcesParseTime(t *testing.T) {
	opened := withTestDriver(t)

	db, err := Connect(context.Background(), DriverMySQL, "user:pass@tcp(localhost:3306)/screener", DefaultServerOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if len(*opened) != 1 {
		t.Fatalf("expected one open call, got %d", len(*opened))
	}
	if !strings.HasPrefix((*opened)[0], "mysql|") || !strings.Contains((*opened)[0], "parseTime=true") {
		t.Fatalf("expected parseTime in mysql dsn, got %q", (*opened)[0])
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	withTestDriver(t)

	if _, err := Connect(context.Background(), "oracle", "dsn", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Connect(context.Background(), DriverSQLite, "  ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
