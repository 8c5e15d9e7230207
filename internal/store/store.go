// Package store keeps employees as fixed-size blocks in a flat file.
//
// Record i occupies bytes [i*RecordSize, (i+1)*RecordSize) of the file, there's
// no header and the file only ever grows. Every operation opens the file,
// works on it and closes it before returning; no cursor survives between
// calls and the store doesn't guard against other processes writing to the
// same file.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/record"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrCorruptStore   = errors.New("corrupt store")
	ErrNotConfigured  = errors.New("store file not configured")
)

// CorruptStoreError is returned when the file length isn't a multiple of
// record.RecordSize.
type CorruptStoreError struct {
	File string
	Size int64
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("%s: %s is %d bytes, not a multiple of %d (%d trailing bytes)",
		ErrCorruptStore, e.File, e.Size, record.RecordSize, e.Size%record.RecordSize)
}

func (e *CorruptStoreError) Unwrap() error {
	return ErrCorruptStore
}

// Reader is what the searches need from a store.
type Reader interface {
	// Count returns the number of records.
	Count(ctx context.Context) (int64, error)

	// ReadAt returns the record at index, ErrRecordNotFound if index is
	// outside [0, Count).
	ReadAt(ctx context.Context, index int64) (*data.Employee, error)
}

type Store interface {
	Reader

	// Append encodes e and writes it after the last record; it doesn't
	// check or keep any ordering.
	Append(ctx context.Context, e *data.Employee) error

	// View opens the file once for the duration of fn so a sequence of
	// reads shares a single handle, the handle is closed when fn returns.
	View(ctx context.Context, fn func(Reader) error) error

	// Scan visits records in file order starting at index from, it stops
	// when fn returns false or the records run out.
	Scan(ctx context.Context, from int64, fn func(index int64, e *data.Employee) bool) error
}

type fileStore struct {
	sync.RWMutex
	config struct {
		file string
		mode os.FileMode
	}
	utilities.Logger
}

func NewStore(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Store
} {
	s := &fileStore{}
	s.config.mode = 0o644
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewNopLogger()
	}
	return s
}

func (s *fileStore) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if file, ok := envs["STORE_FILE"]; ok {
		s.config.file = file
	}
	if mode, ok := envs["STORE_FILE_MODE"]; ok {
		i, err := strconv.ParseUint(mode, 8, 32)
		if err != nil {
			return pkgerrors.Wrapf(err, "invalid STORE_FILE_MODE %q", mode)
		}
		s.config.mode = os.FileMode(i)
	}
	return nil
}

// Open creates the file if it doesn't exist and verifies its length.
func (s *fileStore) Open(ctx context.Context) error {
	s.RLock()
	file, mode := s.config.file, s.config.mode
	s.RUnlock()

	if file == "" {
		return ErrNotConfigured
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	s.Debug(ctx, "opened store %s with %d records", file, n)
	return nil
}

func (s *fileStore) Close(ctx context.Context) error {
	return nil
}

func (s *fileStore) file() string {
	s.RLock()
	defer s.RUnlock()
	return s.config.file
}

func count(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if size := info.Size(); size%record.RecordSize != 0 {
		return 0, &CorruptStoreError{File: f.Name(), Size: size}
	}
	return info.Size() / record.RecordSize, nil
}

func (s *fileStore) Count(ctx context.Context) (int64, error) {
	f, err := os.Open(s.file())
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return count(f)
}

func (s *fileStore) Append(ctx context.Context, e *data.Employee) (err error) {
	s.RLock()
	file, mode := s.config.file, s.config.mode
	s.RUnlock()

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = pkgerrors.Wrap(closeErr, "error while closing store after append")
		}
	}()
	n, err := count(f)
	if err != nil {
		return err
	}
	if _, err := f.Write(record.Encode(e)); err != nil {
		return pkgerrors.Wrapf(err, "error while appending record %d", n)
	}
	s.Trace(ctx, "appended employee %d at index %d", e.Code, n)
	return nil
}

func (s *fileStore) View(ctx context.Context, fn func(Reader) error) error {
	f, err := os.Open(s.file())
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(&fileReader{file: f})
}

func (s *fileStore) ReadAt(ctx context.Context, index int64) (*data.Employee, error) {
	var e *data.Employee

	if err := s.View(ctx, func(r Reader) error {
		var err error
		e, err = r.ReadAt(ctx, index)
		return err
	}); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *fileStore) Scan(ctx context.Context, from int64, fn func(index int64, e *data.Employee) bool) error {
	return s.View(ctx, func(r Reader) error {
		n, err := r.Count(ctx)
		if err != nil {
			return err
		}
		for index := max(from, 0); index < n; index++ {
			e, err := r.ReadAt(ctx, index)
			if err != nil {
				return err
			}
			if !fn(index, e) {
				return nil
			}
		}
		return nil
	})
}
