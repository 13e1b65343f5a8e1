package heartbeat

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"statuspage/app/internal/models"
)

// MonitorRegistry resolves monitor definitions by tag.
type MonitorRegistry interface {
	FindMonitorByTag(ctx context.Context, tag string) (*models.Monitor, error)
}

// Validator authenticates heartbeat submissions against the registry.
type Validator struct {
	registry MonitorRegistry
}

// NewValidator creates a validator backed by the given registry.
func NewValidator(registry MonitorRegistry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks tag and secret against the registered monitor.
// It has no side effects. Registry lookup failures are wrapped and
// propagated as-is, never translated into an auth error.
func (v *Validator) Validate(ctx context.Context, tag, secret string) (*models.Monitor, error) {
	if tag == "" || secret == "" {
		return nil, ErrMissingCredential
	}

	mon, err := v.registry.FindMonitorByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("heartbeat: lookup %q: %w", tag, err)
	}
	if mon == nil {
		return nil, ErrUnknownMonitor
	}

	if !secretMatches(mon.Secret, secret) {
		return nil, ErrSecretMismatch
	}
	return mon, nil
}

// secretMatches compares a registered secret with the supplied one in
// constant time. Secrets stored as bcrypt hashes are verified with
// bcrypt, anything else byte-for-byte via crypto/subtle.
func secretMatches(registered, supplied string) bool {
	if registered == "" {
		return false
	}
	if strings.HasPrefix(registered, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(registered), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(registered), []byte(supplied)) == 1
}
