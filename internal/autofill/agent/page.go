// Package agent implements the browser-side autofill state machine. It runs
// against an abstract page so the machine can be exercised without a real
// DOM; the concrete page implementation is expected to translate SetValue
// into the native-setter-plus-synthetic-events sequence reactive frameworks
// require.
package agent

import "context"

// Field is one input element on a page.
type Field interface {
	// SetValue writes a value into the field. Implementations must dispatch
	// whatever synthetic events the host framework needs to observe the
	// change.
	SetValue(value string) error

	// Value reads the field's current value, used to verify a write
	// persisted across framework re-renders.
	Value() (string, error)
}

// Page is the agent's view of the current document.
type Page interface {
	// Host returns the host of the page's location.
	Host() string

	// Ready reports whether the document finished its initial render.
	Ready() bool

	// Find returns the first visible field matching a CSS selector, or nil.
	Find(selector string) Field
}

// CredentialSource resolves the credential to fill for a host. ok is false
// when no credential applies; that is a normal outcome, not an error.
type CredentialSource interface {
	Resolve(ctx context.Context, host string) (username, secret string, ok bool, err error)
}
