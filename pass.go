package passgate

import (
	"fmt"
)

// Pass is the execution surface handed to a scope's body. It is the only
// way to reach the driver adapter, and it refuses any bind that the owning
// scope does not hold a grant for.
//
// A Pass is valid only for the duration of the Execute call that produced
// it; once the scope is released every method fails with ErrNotExecuting.
type Pass struct {
	scope   *Scope
	adapter Adapter

	// bound tracks handles with live driver bindings so teardown can
	// unbind whatever the body left behind.
	bound map[Handle]struct{}
}

// Scope returns the owning scope.
func (p *Pass) Scope() *Scope { return p.scope }

// Adapter returns the driver adapter the pass executes against.
func (p *Pass) Adapter() Adapter { return p.adapter }

// BindForRead binds a declared read resource to the given texture unit.
//
// Returns ErrNotExecuting outside the Executing state and ErrNotDeclared if
// the scope holds no read grant on h.
func (p *Pass) BindForRead(h Handle, unit int) error {
	obj, err := p.checkBind(h, AccessRead)
	if err != nil {
		return fmt.Errorf("bind for read: %w", err)
	}
	if err := p.adapter.BindForRead(obj, unit); err != nil {
		return fmt.Errorf("bind for read: %v: %w", h, err)
	}
	p.bound[h] = struct{}{}
	return nil
}

// BindForWrite binds a declared write resource as the render target at the
// given color attachment index.
//
// Returns ErrNotExecuting outside the Executing state and ErrNotDeclared if
// the scope holds no write grant on h.
func (p *Pass) BindForWrite(h Handle, attachment int) error {
	obj, err := p.checkBind(h, AccessWrite)
	if err != nil {
		return fmt.Errorf("bind for write: %w", err)
	}
	if err := p.adapter.BindForWrite(obj, attachment); err != nil {
		return fmt.Errorf("bind for write: %v: %w", h, err)
	}
	p.bound[h] = struct{}{}
	return nil
}

// Unbind removes the driver binding for h. Unbinding a handle that is not
// bound is a no-op.
func (p *Pass) Unbind(h Handle) error {
	if p.scope.state != ScopeExecuting {
		return fmt.Errorf("unbind: %w", ErrNotExecuting)
	}
	if _, ok := p.bound[h]; !ok {
		return nil
	}

	obj, err := p.scope.tracker.reg.Resolve(h)
	if err != nil {
		return fmt.Errorf("unbind: %w", err)
	}
	if err := p.adapter.Unbind(obj); err != nil {
		return fmt.Errorf("unbind: %v: %w", h, err)
	}
	delete(p.bound, h)
	return nil
}

// checkBind validates scope state and grant ownership, then resolves the
// driver object.
func (p *Pass) checkBind(h Handle, mode AccessMode) (DriverObject, error) {
	if p.scope.state != ScopeExecuting {
		return nil, ErrNotExecuting
	}
	if p.scope.grantFor(h, mode) == nil {
		return nil, fmt.Errorf("%w: %v (%s)", ErrNotDeclared, h, mode)
	}
	return p.scope.tracker.reg.Resolve(h)
}

// unbindAll clears every binding the pass still holds. Called from scope
// teardown; unbind failures are logged, not surfaced, because release must
// proceed regardless.
func (p *Pass) unbindAll() {
	for h := range p.bound {
		obj, err := p.scope.tracker.reg.Resolve(h)
		if err != nil {
			Logger().Warn("unbind on teardown", "handle", h, "err", err)
			continue
		}
		if err := p.adapter.Unbind(obj); err != nil {
			Logger().Warn("unbind on teardown", "handle", h, "err", err)
		}
	}
	p.bound = make(map[Handle]struct{})
}
