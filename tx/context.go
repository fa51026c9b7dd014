package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

// boundary is the per-transaction state carried in the context: the open
// transaction plus callbacks to run once the boundary commits. A boundary
// is only ever used from the goroutine running it.
type boundary struct {
	tx          *sql.Tx
	afterCommit []func(ctx context.Context)
}

func boundaryFrom(ctx context.Context) (*boundary, bool) {
	b, ok := ctx.Value(ctxKey{}).(*boundary)
	return b, ok
}

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories written against it work the same inside and outside a
// transaction boundary.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx returns a context carrying t. Run attaches the transaction it
// opens to the context it hands the boundary function; manual use is only
// needed when bridging into code that manages its own transactions. Note
// that OnCommit callbacks fire only for boundaries opened by Run.
func WithTx(ctx context.Context, t *sql.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, &boundary{tx: t})
}

// FromContext returns the transaction active in ctx, if any.
func FromContext(ctx context.Context) (*sql.Tx, bool) {
	b, ok := boundaryFrom(ctx)
	if !ok {
		return nil, false
	}
	return b.tx, true
}

// OnCommit schedules fn to run after the active transaction commits.
// Inside a boundary, fn runs in registration order once the boundary that
// owns the transaction commits, and never runs if it rolls back; joined
// boundaries defer to the outermost one. Outside any boundary there is
// nothing to wait for and fn runs immediately. Use it for side effects
// that must not become visible when the transaction is discarded, such as
// publishing events or invalidating caches.
func OnCommit(ctx context.Context, fn func(ctx context.Context)) {
	b, ok := boundaryFrom(ctx)
	if !ok {
		fn(ctx)
		return
	}
	b.afterCommit = append(b.afterCommit, fn)
}
