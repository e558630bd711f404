/*
File    : scope/scope.go

Package scope implements Bang's lexical scope chain. Every block
(function body, loop body, if/elif/else branch) runs against its own
Scope, parented to the scope it is nested inside; name resolution walks
the chain outward until it finds a binding or falls off the root.
*/
package scope

import "github.com/Geetur/Bang-PL/objects"

// Scope is one frame in the lexical scope chain.
type Scope struct {
	vars   map[string]objects.Value
	Parent *Scope
}

// New creates a scope nested under parent. parent == nil makes this the
// global (root) scope.
func New(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]objects.Value), Parent: parent}
}

// LookUp walks the chain from this scope outward and returns the first
// binding found for name.
func (s *Scope) LookUp(name string) (objects.Value, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.Parent != nil {
		return s.Parent.LookUp(name)
	}
	return nil, false
}

// Bind creates or overwrites a binding in this scope only, never
// touching a parent's binding of the same name.
func (s *Scope) Bind(name string, v objects.Value) {
	s.vars[name] = v
}

// Assign mutates an existing binding wherever it lives in the chain. It
// reports false if name is bound nowhere in the chain, in which case
// the caller is responsible for deciding whether that's an error or an
// implicit top-level bind.
func (s *Scope) Assign(name string, v objects.Value) bool {
	if _, ok := s.vars[name]; ok {
		s.vars[name] = v
		return true
	}
	if s.Parent != nil {
		return s.Parent.Assign(name, v)
	}
	return false
}

// CloneChain copies every frame of the chain, preserving the links
// between the copies. A closure captures its defining chain by
// reference (so it sees bindings added to those frames later,
// including its own name); each call then runs against a CloneChain of
// the capture, so writes the function body makes to outer names stay
// inside the call and are discarded on return.
func (s *Scope) CloneChain() *Scope {
	if s == nil {
		return nil
	}
	cp := &Scope{vars: make(map[string]objects.Value, len(s.vars)), Parent: s.Parent.CloneChain()}
	for k, v := range s.vars {
		cp.vars[k] = v
	}
	return cp
}
