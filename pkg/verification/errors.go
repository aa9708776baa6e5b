package verification

import "errors"

var (
	// ErrPolicyDenied is returned when the purpose's time-window policy
	// forbids initiating the flow right now.
	ErrPolicyDenied = errors.New("action not allowed at this time")

	// ErrNotVerified is returned when a guarded action is attempted without
	// a live verification grant for the (identity, purpose) pair.
	ErrNotVerified = errors.New("verification required")
)
