// Package keychain is the credential store for the wallet seed. The primary
// backend is the OS keyring; an age-encrypted file serves as fallback on
// systems without one. The seed is held as an opaque string and only this
// package touches its persistence.
package keychain

import (
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

// seedUser is the account name the seed is filed under inside a service.
const seedUser = "mnemonic"

// ErrSecretNotFound is returned when no secret exists for the service.
var ErrSecretNotFound = &walleterr.WalletError{
	Code:     "SECRET_NOT_FOUND",
	Message:  "no secret stored for this service",
	ExitCode: walleterr.ExitNotFound,
}

// Store is the credential store capability: get/set/delete a secret scoped
// by a service name.
type Store interface {
	// Get returns the stored secret, or ErrSecretNotFound.
	Get(service string) (string, error)

	// Set stores the secret, overwriting any previous value.
	Set(service, secret string) error

	// Delete removes the secret. Deleting a missing secret is not an error.
	Delete(service string) error
}

// Select returns the OS keyring when it is usable, otherwise the given
// fallback. The fallback may be nil, in which case an unusable keyring
// surfaces as ErrKeychainUnavailable at first use.
func Select(fallback Store) Store {
	k := NewOSKeyring()
	if k.Probe() {
		return k
	}
	if fallback != nil {
		return fallback
	}
	return unavailableStore{}
}

// unavailableStore fails every operation with a typed error.
type unavailableStore struct{}

func (unavailableStore) Get(string) (string, error) {
	return "", walleterr.ErrKeychainUnavailable
}

func (unavailableStore) Set(string, string) error {
	return walleterr.ErrKeychainUnavailable
}

func (unavailableStore) Delete(string) error {
	return walleterr.ErrKeychainUnavailable
}
