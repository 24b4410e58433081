package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/assesskit/assesskit/internal/errors"
)

// Store persists the current identity between CLI invocations.
// The SPA kept this blob in localStorage; here it lives as a file
// under the user's config directory.
type Store interface {
	Load() (*Identity, error)
	Save(*Identity) error
	Clear() error
}

// FileStore is the default Store, writing a JSON credentials file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialsPath returns ~/.assesskit/credentials.json.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "resolve home directory", err)
	}
	return filepath.Join(home, ".assesskit", "credentials.json"), nil
}

// Load reads the stored identity. A missing file yields (nil, nil):
// not being logged in is not an error.
func (s *FileStore) Load() (*Identity, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read credentials file", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, errors.NewFileUnmarshalError(s.path, "JSON", err)
	}
	return &id, nil
}

// Save writes the identity, creating the parent directory if needed.
// The file is written 0600: it holds live tokens.
func (s *FileStore) Save(id *Identity) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "create credentials directory", err)
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "encode credentials", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write credentials file", err)
	}
	return nil
}

// Clear removes the credentials file. Clearing an absent file succeeds.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "remove credentials file", err)
	}
	return nil
}
