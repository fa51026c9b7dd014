// Package appservice provides the composite service-layer marker: one
// registration call that declares a type a managed service component and
// binds the application's standard transaction policy to its operation
// boundaries.
//
// The policy is deliberately not configurable per call site. Every
// application service joins the caller's transaction when one is active
// and otherwise begins one at read-committed isolation, and any error
// rolls it back. A component that needs different behaviour is not an
// application service; register it with container.Register and its own
// tx.Policy instead.
package appservice

import (
	"github.com/eaglebank/servicekit/container"
	"github.com/eaglebank/servicekit/tx"
)

// Policy is the transaction policy every application service runs under:
// required propagation, read-committed isolation, rollback on any error
// (RollbackOn nil) and, at the boundary, on any panic.
func Policy() tx.Policy {
	return tx.Policy{
		Isolation:   tx.IsolationReadCommitted,
		Propagation: tx.PropagationRequired,
	}
}

// Register declares svc an application service in c. Without a WithName
// option the managed name derives from svc's type name.
func Register(c *container.Container, svc any, opts ...container.Option) (*container.Definition, error) {
	base := []container.Option{
		container.WithRole(container.RoleService),
		container.WithTxPolicy(Policy()),
	}
	return c.Register(svc, append(base, opts...)...)
}

// Inherit declares svc, which embeds or otherwise derives from the service
// registered under parent, an application service with the parent's role
// and policy. Derivation is an explicit opt-in: embedding a registered
// service does not by itself register the embedding type.
func Inherit(c *container.Container, parent string, svc any, opts ...container.Option) (*container.Definition, error) {
	return c.Inherit(parent, svc, opts...)
}
