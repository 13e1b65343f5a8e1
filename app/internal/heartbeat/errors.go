package heartbeat

import "errors"

// Authentication failures surfaced to heartbeat callers. These are
// terminal: the caller must fix its credentials, never retry blindly.
var (
	ErrMissingCredential = errors.New("heartbeat: missing tag or secret")
	ErrUnknownMonitor    = errors.New("heartbeat: unknown monitor")
	ErrSecretMismatch    = errors.New("heartbeat: secret mismatch")
)

// IsAuthError reports whether err is one of the authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrUnknownMonitor) ||
		errors.Is(err, ErrSecretMismatch)
}
