// Package modelresult provides the success/failure envelope returned by every
// service operation.
package modelresult

import "fmt"

// Kind enumerates the closed set of expected failure conditions a service
// operation may report.
type Kind int

const (
	// NotFound indicates that a referenced entity does not exist.
	NotFound Kind = iota + 1
	// NotCreated indicates that an insert failed, e.g. on a unique-constraint violation.
	NotCreated
	// EmptySearch indicates that a query executed but matched zero rows where
	// the caller expects an explicit empty signal.
	EmptySearch
	// PasswordNotUpdated indicates that a password update affected zero rows.
	PasswordNotUpdated
	// BadCredentials indicates that credentials are malformed.
	BadCredentials
	// WrongCredentials indicates that credentials do not match a stored identity.
	WrongCredentials
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotCreated:
		return "not created"
	case EmptySearch:
		return "empty search"
	case PasswordNotUpdated:
		return "password not updated"
	case BadCredentials:
		return "bad credentials"
	case WrongCredentials:
		return "wrong credentials"
	default:
		return "unknown"
	}
}

// Unit is the data type of operations that carry no payload on success.
type Unit struct{}

// Failure carries a failure kind and its underlying cause, when one exists.
type Failure struct {
	Kind  Kind
	Cause error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s", f.Kind, f.Cause.Error())
	}
	return f.Kind.String()
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Result is a two-case envelope holding either data or a Failure. Expected
// failure conditions travel through Result instead of plain error returns so
// that each call site dispatches on the closed Kind set.
type Result[D any] struct {
	data    D
	failure *Failure
}

// OK makes a successful Result wrapping data.
func OK[D any](data D) Result[D] {
	return Result[D]{data: data}
}

// Fail makes a failed Result of the given kind, cause may be nil.
func Fail[D any](kind Kind, cause error) Result[D] {
	return Result[D]{failure: &Failure{Kind: kind, Cause: cause}}
}

// Failed reports whether the Result carries a Failure.
func (r Result[D]) Failed() bool {
	return r.failure != nil
}

// Data returns the payload, the zero value on a failed Result.
func (r Result[D]) Data() D {
	return r.data
}

// Failure returns the Failure, nil on a successful Result.
func (r Result[D]) Failure() *Failure {
	return r.failure
}

// Kind returns the failure kind, zero on a successful Result.
func (r Result[D]) Kind() Kind {
	if r.failure == nil {
		return 0
	}
	return r.failure.Kind
}
