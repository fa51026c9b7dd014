// Package container is a registry of managed components. A component is
// registered once with a name, a role and optionally a transaction policy;
// wiring code enumerates the registry to attach boundaries, routes and
// lifecycle handling. Registration replaces classpath scanning: it is the
// single explicit point where a type declares what it is.
package container

import (
	"fmt"
	"sync"
)

// Container holds component definitions keyed by their resolved name.
// Safe for concurrent use, although registration normally happens once
// during startup.
type Container struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []string
}

func New() *Container {
	return &Container{defs: make(map[string]*Definition)}
}

// Register adds value to the container. Without WithName the name derives
// from value's type name; without WithRole the component registers as
// RoleComponent. Name conflicts are rejected here, at the earliest
// deterministic point.
func (c *Container) Register(value any, opts ...Option) (*Definition, error) {
	d := &Definition{role: RoleComponent, value: value}
	for _, opt := range opts {
		opt(d)
	}
	if d.name == "" {
		d.name = DefaultName(value)
	}
	if d.name == "" {
		return nil, fmt.Errorf("container: cannot derive a name for %T, use WithName", value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.defs[d.name]; ok {
		return nil, fmt.Errorf("container: name %q already registered to %T", d.name, existing.value)
	}
	c.defs[d.name] = d
	c.order = append(c.order, d.name)
	return d, nil
}

// Inherit registers value with the role and transaction policy of the
// component registered under parent. Go embedding does not carry
// registration metadata to the embedding type, so derived components opt
// in here instead; opts apply after the inherited settings, so a derived
// component may still narrow or rename itself, exactly as it could by
// redeclaring the registration in full.
func (c *Container) Inherit(parent string, value any, opts ...Option) (*Definition, error) {
	c.mu.RLock()
	p, ok := c.defs[parent]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("container: unknown parent %q", parent)
	}
	inherited := []Option{WithRole(p.role)}
	if p.txPolicy != nil {
		inherited = append(inherited, WithTxPolicy(*p.txPolicy))
	}
	return c.Register(value, append(inherited, opts...)...)
}

// Get returns the definition registered under name.
func (c *Container) Get(name string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.defs[name]
	return d, ok
}

// ByRole returns all definitions with the given role, in registration
// order.
func (c *Container) ByRole(role Role) []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Definition
	for _, name := range c.order {
		if d := c.defs[name]; d.role == role {
			out = append(out, d)
		}
	}
	return out
}

// Names returns all registered names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
