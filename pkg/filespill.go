// Package pkg provides utilities shared by clooze commands.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// SpillDirName is the directory, under the OS temp dir, holding spill files.
const SpillDirName = "clooze-spill"

const spillPrefix = "spill-"

// ErrSpillClosed is returned when appending to a removed spill.
var ErrSpillClosed = errors.New("spill is closed")

// Spill appends gob-encoded items to a temporary file so that results of a
// long run are not all held by the workers. Items are read back in append
// order. A Spill is safe for concurrent use.
type Spill[T any] struct {
	fs      billy.Filesystem
	path    string
	mu      sync.Mutex
	file    billy.File
	encoder *gob.Encoder
	length  int
}

// NewSpill creates a spill file under dir on filesystem.
func NewSpill[T any](filesystem billy.Filesystem, dir string) (*Spill[T], error) {
	if err := filesystem.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create spill directory %s: %w", dir, err)
	}

	file, err := util.TempFile(filesystem, dir, spillPrefix)
	if err != nil {
		return nil, fmt.Errorf("create spill file in %s: %w", dir, err)
	}

	slog.Debug("Created spill", "path", file.Name())

	return &Spill[T]{
		fs:      filesystem,
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// NewTempSpill creates a spill in the OS temp directory.
func NewTempSpill[T any]() (*Spill[T], error) {
	return NewSpill[T](osfs.New(os.TempDir()), SpillDirName)
}

// Path returns the spill file path relative to its filesystem.
func (s *Spill[T]) Path() string {
	return filepath.ToSlash(s.path)
}

// Len returns the number of appended items.
func (s *Spill[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Append encodes items at the end of the spill. Items of one call stay
// contiguous.
func (s *Spill[T]) Append(items ...T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return ErrSpillClosed
	}

	for _, item := range items {
		if err := s.encoder.Encode(item); err != nil {
			return fmt.Errorf("encode item %d: %w", s.length, err)
		}

		s.length++
	}

	return nil
}

// Range decodes the items in order and calls fn for each. It stops at the
// first error fn returns.
func (s *Spill[T]) Range(fn func(index int, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.fs.Open(s.path)
	if err != nil {
		return fmt.Errorf("open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Debug("Failed to close spill reader", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := range s.length {
		var item T
		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return fmt.Errorf("decode item %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Items returns every item in append order.
func (s *Spill[T]) Items() ([]T, error) {
	items := make([]T, 0, s.Len())

	err := s.Range(func(_ int, item T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Remove closes the spill and deletes its file. Further appends fail.
func (s *Spill[T]) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var closeErr error

	if s.file != nil {
		closeErr = s.file.Close()
		s.file = nil
	}

	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, fmt.Errorf("remove spill: %w", err))
	}

	slog.Debug("Removed spill", "path", s.path, "items", s.length)

	return closeErr
}
