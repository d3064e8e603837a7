package keychain

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// OSKeyring stores the seed in the operating system keychain.
type OSKeyring struct{}

// NewOSKeyring creates a new OS keyring wrapper.
func NewOSKeyring() *OSKeyring {
	return &OSKeyring{}
}

// Get retrieves the seed from the OS keyring.
func (k *OSKeyring) Get(service string) (string, error) {
	secret, err := keyring.Get(service, seedUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrSecretNotFound
		}
		return "", err
	}
	return secret, nil
}

// Set stores the seed in the OS keyring.
func (k *OSKeyring) Set(service, secret string) error {
	return keyring.Set(service, seedUser, secret)
}

// Delete removes the seed from the OS keyring.
func (k *OSKeyring) Delete(service string) error {
	err := keyring.Delete(service, seedUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// Probe tests whether the OS keyring is available by writing, reading and
// deleting a throwaway value.
func (k *OSKeyring) Probe() bool {
	const (
		testService = "boltzap-probe"
		testValue   = "test"
	)

	if err := keyring.Set(testService, seedUser, testValue); err != nil {
		return false
	}

	val, err := keyring.Get(testService, seedUser)
	if err != nil || val != testValue {
		_ = keyring.Delete(testService, seedUser)
		return false
	}

	return keyring.Delete(testService, seedUser) == nil
}
