package container

import "github.com/eaglebank/servicekit/tx"

// Role classifies a managed component within the application's layering.
type Role string

const (
	RoleComponent  Role = "component"
	RoleService    Role = "service"
	RoleRepository Role = "repository"
	RoleHandler    Role = "handler"
)

// Definition is one managed component: the registered value plus the
// metadata wiring code reads back out. Definitions are created by
// Container.Register and never mutated afterwards.
type Definition struct {
	name     string
	role     Role
	txPolicy *tx.Policy
	value    any
}

// Name is the resolved managed-instance name.
func (d *Definition) Name() string { return d.name }

func (d *Definition) Role() Role { return d.role }

// Value is the registered component itself.
func (d *Definition) Value() any { return d.value }

// TxPolicy returns the transaction policy attached at registration, and
// false when the component is not transactional.
func (d *Definition) TxPolicy() (tx.Policy, bool) {
	if d.txPolicy == nil {
		return tx.Policy{}, false
	}
	return *d.txPolicy, true
}

// Option customises a registration.
type Option func(*Definition)

// WithName suggests a logical name for the component. The empty string
// (the default) derives the name from the component's type name. No format
// validation is applied.
func WithName(name string) Option {
	return func(d *Definition) { d.name = name }
}

func WithRole(role Role) Option {
	return func(d *Definition) { d.role = role }
}

// WithTxPolicy marks the component transactional: boundaries entered on
// its behalf run under p.
func WithTxPolicy(p tx.Policy) Option {
	return func(d *Definition) { d.txPolicy = &p }
}
