package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupt is returned when the session file is neither a session document
// nor a sealed one. Writes replace such a file.
var ErrCorrupt = errors.New("storage: session file is corrupt")

// FileRepository stores session values in a single JSON document.
// When a passphrase is set the document is sealed before it is written.
type FileRepository struct {
	path       string
	passphrase []byte
	mu         sync.Mutex
}

// NewFileRepository creates a repository backed by the file at path.
// An empty passphrase stores the document in clear text.
func NewFileRepository(path, passphrase string) *FileRepository {
	repo := &FileRepository{path: path}
	if passphrase != "" {
		repo.passphrase = []byte(passphrase)
	}
	return repo
}

// Path returns the location of the session document
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Get(_ context.Context, key Key) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return "", err
	}

	value, ok := values[string(key)]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (r *FileRepository) Set(_ context.Context, key Key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if errors.Is(err, ErrCorrupt) {
		values = make(map[string]string)
	} else if err != nil {
		return err
	}

	values[string(key)] = value
	return r.save(values)
}

func (r *FileRepository) Clear(_ context.Context, keys ...Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	corrupt := errors.Is(err, ErrCorrupt)
	if corrupt {
		values = make(map[string]string)
	} else if err != nil {
		return err
	}

	changed := corrupt
	for _, key := range keys {
		if _, ok := values[string(key)]; ok {
			delete(values, string(key))
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(values)
}

func (r *FileRepository) Close() error {
	return nil
}

// load reads the document. A missing file is an empty session; a file that
// parses neither way is ErrCorrupt.
func (r *FileRepository) load() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if r.passphrase != nil {
		data, err = unseal(r.passphrase, data)
		if err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		if r.passphrase == nil && isSealed(data) {
			return nil, fmt.Errorf("%w: no passphrase configured", ErrSealed)
		}
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return values, nil
}

// save writes the document through a temp file so readers never see a
// partially written session
func (r *FileRepository) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	if r.passphrase != nil {
		data, err = seal(r.passphrase, data)
		if err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set session file permissions: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
