// Package tx provides explicit transaction boundaries over database/sql.
// A boundary is entered with Manager.Run under a Policy; the open
// transaction travels in the context so that repositories join it through
// Manager.Querier without knowing whether a boundary is active.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Manager opens and resolves transaction boundaries against one database.
type Manager struct {
	db *sql.DB
}

func NewManager(db *sql.DB) *Manager {
	return &Manager{db: db}
}

// Querier returns the transaction active in ctx, or the bare connection
// pool when no boundary is active.
func (m *Manager) Querier(ctx context.Context) Querier {
	if t, ok := FromContext(ctx); ok {
		return t
	}
	return m.db
}

// Run executes fn inside a transaction boundary governed by p.
//
// With PropagationRequired, fn joins the transaction already active in ctx
// if there is one; otherwise a new transaction begins at p's isolation
// level, commits when fn returns nil and rolls back when fn returns an
// error p considers fatal (any error, unless p.RollbackOn says otherwise).
// A panic out of fn rolls the transaction back and then continues
// unwinding. When fn joins an outer transaction the commit-or-rollback
// decision belongs to the outermost boundary; an error returned from fn
// reaches it through the normal return path.
func (m *Manager) Run(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, active := FromContext(ctx)

	switch p.Propagation {
	case PropagationRequired:
		if active {
			return fn(ctx)
		}
	case PropagationSupports:
		return fn(ctx)
	case PropagationRequiresNew:
		// always begins its own transaction below
	default:
		return fmt.Errorf("tx: unknown propagation %d", p.Propagation)
	}

	return m.runNew(ctx, p, fn)
}

func (m *Manager) runNew(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	t, err := m.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: p.Isolation.Level(),
		ReadOnly:  p.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("tx: begin: %w", err)
	}

	completed := false
	defer func() {
		// reached with completed == false only when fn panicked
		if !completed {
			_ = t.Rollback()
		}
	}()

	b := &boundary{tx: t}
	err = fn(context.WithValue(ctx, ctxKey{}, b))
	completed = true

	if err != nil && p.shouldRollback(err) {
		if rbErr := t.Rollback(); rbErr != nil {
			return fmt.Errorf("tx: rollback failed: %v (rolling back because: %w)", rbErr, err)
		}
		return err
	}
	if cmErr := t.Commit(); cmErr != nil {
		return fmt.Errorf("tx: commit: %w", cmErr)
	}
	// the transaction is durable; run deferred side effects outside it
	for _, hook := range b.afterCommit {
		hook(ctx)
	}
	return err
}
