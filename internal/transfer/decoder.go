package transfer

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/jaywantadh/midasclient/pkg/envelope"
)

// readTracker remembers the first error the underlying body returned, so a
// failed decode can be told apart from a failed read.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// StatusDecoder turns an acknowledgement stream into status frames. Each
// frame is one JSON envelope; frames may share or straddle transport chunks.
type StatusDecoder struct {
	op     string
	src    *readTracker
	dec    *json.Decoder
	frames int
	err    error
}

// NewStatusDecoder reads status frames from r on behalf of op.
func NewStatusDecoder(op string, r io.Reader) *StatusDecoder {
	src := &readTracker{r: r}
	return &StatusDecoder{
		op:  op,
		src: src,
		dec: json.NewDecoder(src),
	}
}

// Next decodes the following frame. After any error, including io.EOF, the
// decoder keeps returning that error.
func (d *StatusDecoder) Next() (envelope.Envelope[string], error) {
	if d.err != nil {
		return envelope.Envelope[string]{}, d.err
	}

	var env envelope.Envelope[string]
	if err := d.dec.Decode(&env); err != nil {
		switch {
		case err == io.EOF:
			d.err = io.EOF
		case d.src.err != nil && !errors.Is(d.src.err, io.EOF):
			d.err = transportError(d.op, d.src.err)
		default:
			d.err = decodeError(d.op, err)
		}
		return envelope.Envelope[string]{}, d.err
	}

	d.frames++
	return env, nil
}

// Frames is the number of frames decoded so far.
func (d *StatusDecoder) Frames() int {
	return d.frames
}

// ChunkReader yields raw payload from a download body, one read at a time.
type ChunkReader struct {
	op     string
	r      io.Reader
	buf    []byte
	err    error
	chunks int
}

// NewChunkReader reads r in slices of at most size bytes, falling back to
// DefaultChunkSize when size is not positive.
func NewChunkReader(op string, r io.Reader, size int) *ChunkReader {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &ChunkReader{
		op:  op,
		r:   r,
		buf: make([]byte, size),
	}
}

// Next returns the next slice of payload. Bytes that arrive together with a
// read error are delivered first; the error is reported on the following call.
func (c *ChunkReader) Next() ([]byte, error) {
	for c.err == nil {
		n, err := c.r.Read(c.buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.err = io.EOF
			} else {
				c.err = transportError(c.op, err)
			}
		}
		if n > 0 {
			c.chunks++
			return c.buf[:n], nil
		}
	}
	return nil, c.err
}

// Chunks is the number of non-empty reads delivered so far.
func (c *ChunkReader) Chunks() int {
	return c.chunks
}
