package style

import "errors"

var (
	// ErrDuplicateClass is returned when a class name is declared twice in
	// one context.
	ErrDuplicateClass = errors.New("class already declared")
	// ErrUnknownClass is returned when a declaration refers to a class which
	// is not known to the context or its parent.
	ErrUnknownClass = errors.New("unknown class")
	// ErrInvalidClass is returned for malformed class names.
	ErrInvalidClass = errors.New("invalid class name")
	// ErrCycle is returned when components pull each other's styles in a loop.
	ErrCycle = errors.New("style declaration cycle")
	// ErrNoProviders is returned when a context without provider cache is
	// asked to pull styles of another component.
	ErrNoProviders = errors.New("context is not attached to providers")
)
