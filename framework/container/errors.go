package container

import (
	"fmt"
	"strings"
)

// ── Error taxonomy ────────────────────────────────────────────────────────────
//
// Every failure path out of Get() is one of the four typed errors below, so
// callers can branch with errors.As instead of string-matching messages.

// NotFoundError is returned when an identifier has no binding, no resolvable
// alias target and no auto-wirable concrete type — or, during auto-wiring,
// when a required constructor parameter cannot be resolved (Param names it).
type NotFoundError struct {
	ID    string
	Param string
}

func (e *NotFoundError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("container: cannot auto-wire [%s]: required parameter [%s] is not resolvable", e.ID, e.Param)
	}
	return fmt.Sprintf("container: no binding registered for [%s]", e.ID)
}

// ContainerError wraps a failure that happened inside a factory, an
// auto-wired constructor, or a provider's Register()/Boot(). ID names the
// identifier (or provider) being processed; the original error is the cause.
type ContainerError struct {
	ID    string
	Cause error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("container: resolving [%s]: %v", e.ID, e.Cause)
}

func (e *ContainerError) Unwrap() error { return e.Cause }

// CircularDependencyError is returned when a factory-resolution chain
// revisits an identifier already on the resolution stack. ID is the
// offending identifier; Path is the full cycle, ending in ID again.
type CircularDependencyError struct {
	ID   string
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("container: circular dependency on [%s]: %s", e.ID, strings.Join(e.Path, " -> "))
}

// CircularAliasError is returned when an alias chain revisits a name while
// being walked to its target. Chain is the walk up to and including the
// repeated name.
type CircularAliasError struct {
	ID    string
	Chain []string
}

func (e *CircularAliasError) Error() string {
	return fmt.Sprintf("container: circular alias on [%s]: %s", e.ID, strings.Join(e.Chain, " -> "))
}

// isContainerError reports whether err is already one of the container's own
// typed errors, in which case it propagates as-is instead of being wrapped
// again on the way out of a nested resolution.
func isContainerError(err error) bool {
	switch err.(type) {
	case *NotFoundError, *ContainerError, *CircularDependencyError, *CircularAliasError:
		return true
	}
	return false
}
