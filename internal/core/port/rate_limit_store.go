package port

import (
	"context"
	"time"
)

// RateLimitStore tracks login and registration attempts inside a sliding
// window. Identifiers are rule-scoped keys such as "auth_login_ip:<ip>".
type RateLimitStore interface {
	// TrimWindow drops attempts older than the window relative to reference.
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	// CountAttempts reports how many attempts remain inside the window.
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	// RecordAttempt stores one attempt at the given instant.
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	// OldestAttempt returns the earliest attempt still inside the window; the
	// bool is false when the window is empty.
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
