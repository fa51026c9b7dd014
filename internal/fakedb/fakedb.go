// Package fakedb is a minimal database/sql driver for exercising
// transaction boundaries in tests. It supports nothing but BeginTx,
// Commit and Rollback, and records each of them together with the
// isolation level requested at begin time.
package fakedb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// New returns a *sql.DB backed by the fake driver and the Recorder that
// observes it.
func New() (*sql.DB, *Recorder) {
	rec := &Recorder{}
	return sql.OpenDB(connector{rec: rec}), rec
}

// Recorder counts transaction lifecycle events across all connections of
// one fake database.
type Recorder struct {
	mu         sync.Mutex
	begins     int
	commits    int
	rollbacks  int
	isolations []sql.IsolationLevel
}

// Counts returns the number of begins, commits and rollbacks seen so far.
func (r *Recorder) Counts() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins, r.commits, r.rollbacks
}

// LastIsolation returns the isolation level requested by the most recent
// begin, or sql.LevelDefault if none happened yet.
func (r *Recorder) LastIsolation() sql.IsolationLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.isolations) == 0 {
		return sql.LevelDefault
	}
	return r.isolations[len(r.isolations)-1]
}

type connector struct {
	rec *Recorder
}

func (c connector) Connect(context.Context) (driver.Conn, error) {
	return &conn{rec: c.rec}, nil
}

func (c connector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("fakedb: open via sql.OpenDB")
}

type conn struct {
	rec *Recorder
}

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("fakedb: statements not supported")
}

func (c *conn) Close() error { return nil }

func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *conn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.rec.mu.Lock()
	c.rec.begins++
	c.rec.isolations = append(c.rec.isolations, sql.IsolationLevel(opts.Isolation))
	c.rec.mu.Unlock()
	return &txn{rec: c.rec}, nil
}

type txn struct {
	rec *Recorder
}

func (t *txn) Commit() error {
	t.rec.mu.Lock()
	t.rec.commits++
	t.rec.mu.Unlock()
	return nil
}

func (t *txn) Rollback() error {
	t.rec.mu.Lock()
	t.rec.rollbacks++
	t.rec.mu.Unlock()
	return nil
}
