package tx_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/eaglebank/servicekit/internal/fakedb"
	"github.com/eaglebank/servicekit/tx"
)

func readCommittedRequired() tx.Policy {
	return tx.Policy{Isolation: tx.IsolationReadCommitted, Propagation: tx.PropagationRequired}
}

func TestRunBeginsAndCommitsWhenNoTransactionActive(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	ran := false
	err := mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		ran = true
		if _, ok := tx.FromContext(ctx); !ok {
			t.Error("expected a transaction in the boundary context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("boundary function did not run")
	}
	if begins, commits, rollbacks := rec.Counts(); begins != 1 || commits != 1 || rollbacks != 0 {
		t.Errorf("expected 1 begin / 1 commit / 0 rollbacks, got %d/%d/%d", begins, commits, rollbacks)
	}
	if got := rec.LastIsolation(); got != sql.LevelReadCommitted {
		t.Errorf("expected read-committed isolation, got %v", got)
	}
}

func TestRunRollsBackOnError(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	boom := errors.New("insufficient funds")
	err := mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the boundary error back, got %v", err)
	}
	if begins, commits, rollbacks := rec.Counts(); begins != 1 || commits != 0 || rollbacks != 1 {
		t.Errorf("expected 1 begin / 0 commits / 1 rollback, got %d/%d/%d", begins, commits, rollbacks)
	}
}

func TestRunJoinsActiveTransaction(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	var outer, inner *sql.Tx
	err := mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		outer, _ = tx.FromContext(ctx)
		return mgr.Run(ctx, readCommittedRequired(), func(ctx context.Context) error {
			inner, _ = tx.FromContext(ctx)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outer == nil || outer != inner {
		t.Error("inner boundary did not join the outer transaction")
	}
	if begins, commits, rollbacks := rec.Counts(); begins != 1 || commits != 1 || rollbacks != 0 {
		t.Errorf("expected a single shared transaction, got %d begins / %d commits / %d rollbacks", begins, commits, rollbacks)
	}
}

func TestRunInnerErrorRollsBackJoinedTransaction(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	boom := errors.New("audit write failed")
	err := mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		return mgr.Run(ctx, readCommittedRequired(), func(ctx context.Context) error {
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected inner error to surface, got %v", err)
	}
	if begins, commits, rollbacks := rec.Counts(); begins != 1 || commits != 0 || rollbacks != 1 {
		t.Errorf("expected joined transaction to roll back once, got %d/%d/%d", begins, commits, rollbacks)
	}
}

func TestRunRequiresNewStartsSecondTransaction(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	requiresNew := tx.Policy{Isolation: tx.IsolationReadCommitted, Propagation: tx.PropagationRequiresNew}
	err := mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		return mgr.Run(ctx, requiresNew, func(ctx context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if begins, commits, _ := rec.Counts(); begins != 2 || commits != 2 {
		t.Errorf("expected 2 independent transactions, got %d begins / %d commits", begins, commits)
	}
}

func TestRunSupportsRunsWithoutTransaction(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	supports := tx.Policy{Propagation: tx.PropagationSupports}
	ran := false
	err := mgr.Run(context.Background(), supports, func(ctx context.Context) error {
		ran = true
		if _, ok := tx.FromContext(ctx); ok {
			t.Error("supports propagation must not begin a transaction on its own")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("boundary function did not run")
	}
	if begins, _, _ := rec.Counts(); begins != 0 {
		t.Errorf("expected no transaction, got %d begins", begins)
	}
}

func TestRunPanicRollsBackAndRepanics(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected the panic to continue unwinding")
		}
		if _, commits, rollbacks := rec.Counts(); commits != 0 || rollbacks != 1 {
			t.Errorf("expected rollback on panic, got %d commits / %d rollbacks", commits, rollbacks)
		}
	}()
	_ = mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		panic("corrupted invariant")
	})
}

func TestRunRollbackOnPredicateCommitsExcludedErrors(t *testing.T) {
	db, rec := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	benign := errors.New("partial result")
	p := readCommittedRequired()
	p.RollbackOn = func(err error) bool { return !errors.Is(err, benign) }

	err := mgr.Run(context.Background(), p, func(ctx context.Context) error {
		return fmt.Errorf("listing: %w", benign)
	})
	if !errors.Is(err, benign) {
		t.Fatalf("expected the error back, got %v", err)
	}
	if _, commits, rollbacks := rec.Counts(); commits != 1 || rollbacks != 0 {
		t.Errorf("expected commit despite error, got %d commits / %d rollbacks", commits, rollbacks)
	}
}

func TestQuerierResolvesTransactionFromContext(t *testing.T) {
	db, _ := fakedb.New()
	defer db.Close()
	mgr := tx.NewManager(db)

	if _, ok := mgr.Querier(context.Background()).(*sql.DB); !ok {
		t.Error("expected the bare pool outside a boundary")
	}
	err := mgr.Run(context.Background(), readCommittedRequired(), func(ctx context.Context) error {
		if _, ok := mgr.Querier(ctx).(*sql.Tx); !ok {
			t.Error("expected the active transaction inside a boundary")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
