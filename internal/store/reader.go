package store

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/record"

	pkgerrors "github.com/pkg/errors"
)

// fileReader reads records through a handle owned by View, it reuses one
// block buffer between reads.
type fileReader struct {
	file  *os.File
	block [record.RecordSize]byte
}

func (r *fileReader) Count(ctx context.Context) (int64, error) {
	return count(r.file)
}

func (r *fileReader) ReadAt(ctx context.Context, index int64) (*data.Employee, error) {
	n, err := count(r.file)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, ErrRecordNotFound
	}
	read, err := r.file.ReadAt(r.block[:], index*record.RecordSize)
	switch {
	case errors.Is(err, io.EOF):
		// the file shrank underneath us, there's no full block to decode
	case err != nil:
		return nil, pkgerrors.Wrapf(err, "error while reading record %d", index)
	}
	e, err := record.Decode(r.block[:read])
	if err != nil {
		if errors.Is(err, record.ErrIncomplete) {
			return nil, ErrRecordNotFound
		}
		return nil, pkgerrors.Wrapf(err, "error while decoding record %d", index)
	}
	return e, nil
}
