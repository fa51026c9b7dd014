package tx

import "database/sql"

// Isolation is the visibility guarantee requested from the underlying
// store for a transaction. The store provides the actual guarantee; this
// package only forwards the request via sql.TxOptions.
type Isolation int

const (
	IsolationDefault Isolation = iota
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// Level maps the isolation onto the database/sql level passed to BeginTx.
func (i Isolation) Level() sql.IsolationLevel {
	switch i {
	case IsolationReadCommitted:
		return sql.LevelReadCommitted
	case IsolationRepeatableRead:
		return sql.LevelRepeatableRead
	case IsolationSerializable:
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}

func (i Isolation) String() string {
	switch i {
	case IsolationReadCommitted:
		return "read-committed"
	case IsolationRepeatableRead:
		return "repeatable-read"
	case IsolationSerializable:
		return "serializable"
	default:
		return "default"
	}
}

// Propagation is the rule governing whether an operation joins the
// transaction active in its calling context or starts its own.
type Propagation int

const (
	// PropagationRequired joins the active transaction if the calling
	// context carries one, otherwise begins a new one.
	PropagationRequired Propagation = iota

	// PropagationRequiresNew always begins a new transaction, independent
	// of any transaction active in the calling context.
	PropagationRequiresNew

	// PropagationSupports joins the active transaction if one exists and
	// otherwise runs without any transaction.
	PropagationSupports
)

func (p Propagation) String() string {
	switch p {
	case PropagationRequiresNew:
		return "requires-new"
	case PropagationSupports:
		return "supports"
	default:
		return "required"
	}
}

// Policy describes how a transaction boundary behaves.
type Policy struct {
	Isolation   Isolation
	Propagation Propagation
	ReadOnly    bool

	// RollbackOn decides whether an error returned from within the
	// boundary rolls the transaction back. A nil RollbackOn rolls back on
	// any error.
	RollbackOn func(error) bool
}

func (p Policy) shouldRollback(err error) bool {
	if p.RollbackOn == nil {
		return true
	}
	return p.RollbackOn(err)
}
