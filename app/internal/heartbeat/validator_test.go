package heartbeat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"statuspage/app/internal/models"
)

type fakeRegistry struct {
	monitors map[string]*models.Monitor
	err      error
}

func (f *fakeRegistry) FindMonitorByTag(_ context.Context, tag string) (*models.Monitor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.monitors[tag], nil
}

func registryWith(mons ...*models.Monitor) *fakeRegistry {
	reg := &fakeRegistry{monitors: make(map[string]*models.Monitor)}
	for _, m := range mons {
		reg.monitors[m.Tag] = m
	}
	return reg
}

func TestValidate_Success(t *testing.T) {
	v := NewValidator(registryWith(&models.Monitor{Tag: "svc-api", Secret: "hunter2"}))

	mon, err := v.Validate(context.Background(), "svc-api", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "svc-api", mon.Tag)
}

func TestValidate_MissingCredential(t *testing.T) {
	v := NewValidator(registryWith(&models.Monitor{Tag: "svc-api", Secret: "hunter2"}))

	_, err := v.Validate(context.Background(), "", "hunter2")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = v.Validate(context.Background(), "svc-api", "")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestValidate_UnknownMonitor(t *testing.T) {
	v := NewValidator(registryWith(&models.Monitor{Tag: "svc-api", Secret: "hunter2"}))

	_, err := v.Validate(context.Background(), "no-such", "hunter2")
	assert.ErrorIs(t, err, ErrUnknownMonitor)
}

func TestValidate_SecretMismatch(t *testing.T) {
	v := NewValidator(registryWith(&models.Monitor{Tag: "svc-api", Secret: "hunter2"}))

	_, err := v.Validate(context.Background(), "svc-api", "wrong")
	assert.ErrorIs(t, err, ErrSecretMismatch)
	assert.True(t, IsAuthError(err))
}

func TestValidate_RegistryErrorIsNotAuthError(t *testing.T) {
	sentinel := errors.New("db closed")
	v := NewValidator(&fakeRegistry{err: sentinel})

	_, err := v.Validate(context.Background(), "svc-api", "hunter2")
	assert.ErrorIs(t, err, sentinel)
	assert.False(t, IsAuthError(err))
}

func TestValidate_BcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	v := NewValidator(registryWith(&models.Monitor{Tag: "svc-api", Secret: string(hash)}))

	_, err = v.Validate(context.Background(), "svc-api", "hunter2")
	assert.NoError(t, err)

	_, err = v.Validate(context.Background(), "svc-api", "wrong")
	assert.ErrorIs(t, err, ErrSecretMismatch)
}

func TestSecretMatches_EmptyRegistered(t *testing.T) {
	assert.False(t, secretMatches("", ""))
	assert.False(t, secretMatches("", "anything"))
}
