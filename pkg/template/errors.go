package template

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingPrimary indicates no source declares primary: true.
	ErrMissingPrimary = errors.New("template declares no primary source")

	// ErrParseFailed indicates the template file could not be decoded.
	ErrParseFailed = errors.New("failed to parse template")
)

// DuplicatePrimaryError reports more than one primary declaration.
type DuplicatePrimaryError struct {
	Namespaces []string // sorted
}

func (e *DuplicatePrimaryError) Error() string {
	return fmt.Sprintf("multiple sources declare primary: true: %s", strings.Join(e.Namespaces, ", "))
}

// MalformedReferenceError reports a join reference that is not exactly
// namespace.field.
type MalformedReferenceError struct {
	Namespace string
	JoinKey   string
	Ref       string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("join in %q key %q has invalid ref %q (must be namespace.field)",
		e.Namespace, e.JoinKey, e.Ref)
}

// SelfJoinError reports a source joining to itself.
type SelfJoinError struct {
	Namespace string
}

func (e *SelfJoinError) Error() string {
	return fmt.Sprintf("source %q joins on itself", e.Namespace)
}

// UnknownJoinTargetError reports a join reference to an undeclared
// namespace.
type UnknownJoinTargetError struct {
	Namespace string
	JoinKey   string
	Target    string
}

func (e *UnknownJoinTargetError) Error() string {
	return fmt.Sprintf("join in %q references unknown namespace %q", e.Namespace, e.Target)
}
