package queryeval

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions that need no extra payload, in the
// package-level-sentinel style (compare with ==, wrap with errors.Is).
var (
	// ErrNoPostingList is returned when a leaf references a token the
	// inverted-list provider has never heard of.
	ErrNoPostingList = errors.New("queryeval: no posting list for token")

	// ErrUninitializedIterator is a programmer error: a leaf's posting
	// iterator was used before validate() bound it.
	ErrUninitializedIterator = errors.New("queryeval: posting iterator not initialized")

	// ErrQueryUnusable is returned by any operation attempted on a Query
	// that has already failed validation or retrieval once.
	ErrQueryUnusable = errors.New("queryeval: query object is unusable after a prior error")

	// ErrPoolExhausted signals the fallible location-iterator pool
	// constructor failed.
	ErrPoolExhausted = errors.New("queryeval: location iterator pool allocation failed")
)

// ValidateError reports a structural violation found during Query.Validate,
// named with the offending node's kind.
type ValidateError struct {
	Kind   NodeKind
	Reason string
}

func (e *ValidateError) Error() string {
	return fmt.Sprintf("queryeval: query validate failed: %s (node kind %s)", e.Reason, e.Kind)
}

// StorageError wraps an error surfaced by the inverted-list provider or a
// posting/location iterator. It is never constructed by this package other
// than to add the node context; the underlying error is always the
// caller-supplied one.
type StorageError struct {
	Token string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("queryeval: storage error for token %q: %v", e.Token, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InternalAssertError marks an invariant violation. There is no recovery
// path; a query that raises one is considered unusable for the remainder
// of its lifetime.
type InternalAssertError struct {
	Invariant string
}

func (e *InternalAssertError) Error() string {
	return fmt.Sprintf("queryeval: internal assertion failed: %s", e.Invariant)
}

func assertInvariant(cond bool, invariant string) {
	if !cond {
		panic(&InternalAssertError{Invariant: invariant})
	}
}
