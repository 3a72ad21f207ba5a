package domain

import "fmt"

// ValidationError reports a required field that is missing or malformed on
// write. It is surfaced to the caller as a typed error and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a backend I/O failure on load or save. The store
// propagates it uncaught; recovery policy belongs to the caller.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// SectionNotFoundError reports an operation addressed to a section that has
// no registered store.
type SectionNotFoundError struct {
	Section string
}

func (e SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.Section)
}
