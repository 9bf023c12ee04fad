// Package testutil provides a stub database/sql driver that understands the
// handful of statements the postgres catalogue store issues.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
)

var stubSeq atomic.Int64

// StubConn records statements and keeps bucket rows in memory.
type StubConn struct {
	Execs      []string
	Rows       map[string][]byte
	FailPing   bool
	FailExec   bool
	FailBegin  bool
	FailCommit bool

	staged map[string][]byte
	inTx   bool
}

// NewStubDB registers a fresh driver instance and opens a sql.DB on it.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Rows: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)
	return db, conn
}

type stubDriver struct{ conn *StubConn }

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn; every statement goes through the
// Context fast paths instead.
func (c *StubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return errors.New("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx. Writes are staged until Commit.
func (c *StubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, errors.New("begin fail")
	}
	c.staged = make(map[string][]byte, len(c.Rows))
	for k, v := range c.Rows {
		c.staged[k] = v
	}
	c.inTx = true
	return &stubTx{conn: c}, nil
}

func (c *StubConn) target() map[string][]byte {
	if c.inTx {
		return c.staged
	}
	return c.Rows
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, errors.New("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(upper, "DELETE FROM"):
		rows := c.target()
		for k := range rows {
			delete(rows, k)
		}
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(upper, "INSERT INTO"):
		if len(args) != 2 {
			return nil, fmt.Errorf("insert expects 2 args, got %d", len(args))
		}
		bucket, _ := args[0].Value.(string)
		payload, _ := args[1].Value.([]byte)
		c.target()[bucket] = append([]byte(nil), payload...)
		return driver.RowsAffected(1), nil
	}
	return driver.RowsAffected(0), nil
}

// QueryContext implements driver.QueryerContext for SELECT bucket, payload.
func (c *StubConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	keys := make([]string, 0, len(c.Rows))
	for k := range c.Rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([][]driver.Value, 0, len(keys))
	for _, k := range keys {
		values = append(values, []driver.Value{k, c.Rows[k]})
	}
	return &stubRows{rows: values}, nil
}

type stubTx struct{ conn *StubConn }

func (t *stubTx) Commit() error {
	t.conn.inTx = false
	if t.conn.FailCommit {
		return errors.New("commit fail")
	}
	t.conn.Rows = t.conn.staged
	return nil
}

func (t *stubTx) Rollback() error {
	t.conn.inTx = false
	t.conn.staged = nil
	return nil
}

type stubRows struct {
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return []string{"bucket", "payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
