// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an operation did not succeed.
type FailureKind string

const (
	// KindUpstream covers search and inference calls that did not succeed:
	// network errors, timeouts, non-success status, unparsable bodies.
	KindUpstream FailureKind = "upstream"

	// KindIO covers topic container create, write, and read failures.
	KindIO FailureKind = "io"

	// KindCorruption marks a persisted topic that does not parse.
	KindCorruption FailureKind = "corruption"

	// KindInvalid marks caller input rejected before any side effect.
	KindInvalid FailureKind = "invalid"
)

// Failure is the error type returned by the store and the adapters. Op names
// the operation ("save topic", "search arXiv") and Err carries the cause.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Op == "" {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Fail builds a Failure of the given kind.
func Fail(kind FailureKind, op string, err error) error {
	return &Failure{Kind: kind, Op: op, Err: err}
}

// Failf builds a Failure of the given kind from a format string.
func Failf(kind FailureKind, op, format string, args ...any) error {
	return &Failure{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err wraps a Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost Failure in err's chain, or "".
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Cause returns the error a Failure wraps, without its operation prefix, or
// err itself when there is no Failure in the chain.
func Cause(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return f.Err
	}
	return err
}
