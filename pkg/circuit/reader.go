package circuit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"
)

// RetryPrompt is written to the sink after every rejected signal character
const RetryPrompt = "Retry>"

// SignalReader reads tri-state signal characters from a character stream.
// Rejected characters produce RetryPrompt on the sink and another read.
type SignalReader struct {
	src        io.RuneReader
	sink       io.Writer
	maxRetries int  // 0 means retry until a valid character arrives
	prompts    bool // Print per-terminal prompts during bulk reads
}

// ReaderOption configures a SignalReader
type ReaderOption func(*SignalReader)

// WithMaxRetries bounds the number of rejected characters tolerated by one read
func WithMaxRetries(n int) ReaderOption {
	return func(r *SignalReader) {
		if n < 0 {
			n = 0
		}
		r.maxRetries = n
	}
}

// WithPrompts enables the per-terminal prompts written by Gate.BulkRead
func WithPrompts(enabled bool) ReaderOption {
	return func(r *SignalReader) {
		r.prompts = enabled
	}
}

// NewSignalReader creates a reader over src that writes prompts to sink.
// If src is already an io.RuneReader it is used directly, so callers can share
// one buffered stream between several readers.
func NewSignalReader(src io.Reader, sink io.Writer, opts ...ReaderOption) *SignalReader {
	rr, ok := src.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(src)
	}
	if sink == nil {
		sink = io.Discard
	}

	r := &SignalReader{src: rr, sink: sink}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prompts reports whether per-terminal prompts are enabled
func (r *SignalReader) Prompts() bool {
	return r.prompts
}

// Prompt writes a formatted prompt to the sink when prompts are enabled
func (r *SignalReader) Prompt(format string, args ...interface{}) {
	if r.prompts {
		fmt.Fprintf(r.sink, format, args...)
	}
}

// ReadSignal reads characters until one of '0', '1', 'X' or 'x' arrives.
// Whitespace is skipped. It fails with ErrRetriesExhausted once more than the
// configured number of invalid characters were seen, and with io.ErrUnexpectedEOF
// when the source runs dry.
func (r *SignalReader) ReadSignal() (Signal, error) {
	rejected := 0
	for {
		ch, _, err := r.src.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Low, io.ErrUnexpectedEOF
			}
			return Low, fmt.Errorf("failed to read signal: %w", err)
		}

		if unicode.IsSpace(ch) {
			continue
		}

		if signal, ok := SignalFromChar(ch); ok {
			return signal, nil
		}

		rejected++
		if r.maxRetries > 0 && rejected > r.maxRetries {
			return Low, fmt.Errorf("%w: %d rejected", ErrRetriesExhausted, rejected)
		}
		fmt.Fprint(r.sink, RetryPrompt)
	}
}
