package chunk

import (
	"context"
	"io"
	"starmus/internal/core/port"
)

// assembledReader streams chunk objects one after the other, opening each only when reached.
type assembledReader struct {
	ctx     context.Context
	storage port.BlobStorage
	keys    []string
	next    int
	current io.ReadCloser
}

func newAssembledReader(ctx context.Context, storage port.BlobStorage, keys []string) io.ReadCloser {
	return &assembledReader{ctx: ctx, storage: storage, keys: keys}
}

func (r *assembledReader) Read(p []byte) (int, error) {
	for {
		if r.current == nil {
			if r.next >= len(r.keys) {
				return 0, io.EOF
			}
			object, err := r.storage.GetObject(r.ctx, r.keys[r.next])
			if err != nil {
				return 0, upstream(err)
			}
			r.current = object
			r.next++
		}

		n, err := r.current.Read(p)
		if err == io.EOF {
			r.current.Close()
			r.current = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *assembledReader) Close() error {
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	r.next = len(r.keys)
	return err
}
