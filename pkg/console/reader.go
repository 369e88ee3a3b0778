package console

import (
	"context"
	"io"
)

type readResult struct {
	n   int
	err error
}

// contextReader stops reading once its context is done, even while a read on
// the underlying source is still blocked. The blocked read is abandoned and
// whatever it returns later is discarded.
type contextReader struct {
	ctx context.Context
	src io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	buf := make([]byte, len(p))
	done := make(chan readResult, 1)
	go func() {
		n, err := r.src.Read(buf)
		done <- readResult{n, err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-done:
		return copy(p, buf[:res.n]), res.err
	}
}
