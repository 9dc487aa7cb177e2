package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

var _ Store[int] = (*Plain[int])(nil)

// Plain is an unencrypted [Store]. It is the fallback for platforms where
// encryption setup fails: credentials are stored as plain JSON.
type Plain[T any] struct {
	fs       afero.Fs
	filePath string
	lock     sync.Mutex
}

func NewPlain[T any](filePath string) *Plain[T] {
	return NewPlainWithFS[T](afero.NewOsFs(), filePath)
}

func NewPlainWithFS[T any](fs afero.Fs, filePath string) *Plain[T] {
	return &Plain[T]{fs: fs, filePath: filePath}
}

// Load reads and decodes the stored record.
// It returns os.ErrNotExist if nothing has been saved yet.
func (p *Plain[T]) Load() (T, error) {
	var t T
	p.lock.Lock()
	defer p.lock.Unlock()

	data, err := afero.ReadFile(p.fs, p.filePath)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return t, os.ErrNotExist
		}
		return t, err
	}
	if err = json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("decode data: %w", err)
	}
	return t, nil
}

// Save encodes and writes the record to disk.
func (p *Plain[T]) Save(t T) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	body, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	if err = afero.WriteFile(p.fs, p.filePath, body, 0600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Delete removes the stored record. Deleting a record that doesn't exist is not an error.
func (p *Plain[T]) Delete() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if err := p.fs.Remove(p.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
