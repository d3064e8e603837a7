package keychain

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
)

// FileStore keeps the seed in an age-encrypted file. Used when no OS
// keyring is available (headless hosts, CI).
type FileStore struct {
	// Dir is the directory holding one encrypted file per service.
	Dir string

	// Passphrase derives the scrypt identity protecting the files.
	Passphrase string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir, passphrase string) *FileStore {
	return &FileStore{Dir: dir, Passphrase: passphrase}
}

// path returns the encrypted file for a service.
func (s *FileStore) path(service string) string {
	return filepath.Join(s.Dir, service+".age")
}

// Get decrypts and returns the stored secret.
func (s *FileStore) Get(service string) (string, error) {
	ciphertext, err := os.ReadFile(s.path(service)) // #nosec G304 -- path is derived from a fixed dir and service name
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrSecretNotFound
		}
		return "", err
	}

	identity, err := age.NewScryptIdentity(s.Passphrase)
	if err != nil {
		return "", fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return "", fmt.Errorf("decrypting secret: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading decrypted secret: %w", err)
	}
	// Pin the decrypted bytes so they never hit swap, then zero them once
	// the caller's copy is made.
	locked := LockBytes(plaintext)
	defer func() {
		ZeroBytes(plaintext)
		if locked {
			UnlockBytes(plaintext)
		}
	}()

	return string(plaintext), nil
}

// Set encrypts and stores the secret, overwriting any previous value.
func (s *FileStore) Set(service, secret string) error {
	recipient, err := age.NewScryptRecipient(s.Passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return fmt.Errorf("initializing encryption: %w", err)
	}
	if _, err := io.WriteString(w, secret); err != nil {
		return fmt.Errorf("writing encrypted secret: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path(service), buf.Bytes(), 0o600)
}

// Delete removes the encrypted file. Missing files are not an error.
func (s *FileStore) Delete(service string) error {
	err := os.Remove(s.path(service))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
