package transfer

import (
	"errors"
	"io"

	"github.com/jaywantadh/midasclient/pkg/envelope"
	"github.com/sirupsen/logrus"
)

var errConnReset = errors.New("connection reset by peer")

// countingFrames serves a fixed list of frames and counts how many were pulled.
type countingFrames struct {
	frames []envelope.Envelope[string]
	pulled int
}

func (c *countingFrames) Next() (envelope.Envelope[string], error) {
	if c.pulled >= len(c.frames) {
		return envelope.Envelope[string]{}, io.EOF
	}
	f := c.frames[c.pulled]
	c.pulled++
	return f, nil
}

// scriptedChunks serves chunks, then err (io.EOF when nil).
type scriptedChunks struct {
	chunks [][]byte
	err    error
	pos    int
}

func (s *scriptedChunks) Next() ([]byte, error) {
	if s.pos < len(s.chunks) {
		c := s.chunks[s.pos]
		s.pos++
		return c, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

// chunkedReader returns one chunk per Read call, then err.
type chunkedReader struct {
	chunks [][]byte
	err    error
	reads  int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	r.reads++
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n == len(r.chunks[0]) {
		r.chunks = r.chunks[1:]
	} else {
		r.chunks[0] = r.chunks[0][n:]
	}
	return n, nil
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func ok(message string) envelope.Envelope[string] {
	return envelope.New(envelope.StatusSuccess, message, 200, "")
}

func failed(code int, message string) envelope.Envelope[string] {
	return envelope.New(envelope.StatusFailed, message, code, "")
}
