package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/pierrec/lz4/v4"
)

// Sink is the destination of a binary stream. Close releases whatever the
// sink holds and is called exactly once by Fill.
type Sink interface {
	io.Writer
	Close() error
}

// Stats describes what a sink received.
type Stats struct {
	Chunks   int
	Bytes    int64
	Checksum uint64 // xxhash64 of the payload as received
}

// ChecksumHex formats the checksum the way the journal stores it.
func (s Stats) ChecksumHex() string {
	return fmt.Sprintf("%016x", s.Checksum)
}

// Fill drains src into sink in arrival order and closes the sink on every
// exit path. Bytes already written stay written when the stream fails.
func Fill(op string, src ChunkSource, sink Sink, meter *Meter) (stats Stats, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = sinkError(op, cerr)
		}
	}()

	h := xxhash.New()
	for {
		chunk, nerr := src.Next()
		if errors.Is(nerr, io.EOF) {
			break
		}
		if nerr != nil {
			stats.Checksum = h.Sum64()
			return stats, nerr
		}
		if len(chunk) == 0 {
			continue
		}

		if _, werr := sink.Write(chunk); werr != nil {
			stats.Checksum = h.Sum64()
			return stats, sinkError(op, werr)
		}
		_, _ = h.Write(chunk)

		stats.Chunks++
		stats.Bytes += int64(len(chunk))
		if meter != nil {
			meter.Chunk(len(chunk))
		}
	}

	stats.Checksum = h.Sum64()
	return stats, nil
}

// BufferSink keeps the whole payload in memory. It has no size bound.
type BufferSink struct {
	buf bytes.Buffer
}

// NewBufferSink returns an empty in-memory sink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (b *BufferSink) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *BufferSink) Close() error {
	return nil
}

// Bytes returns the collected payload, never nil.
func (b *BufferSink) Bytes() []byte {
	if b.buf.Len() == 0 {
		return []byte{}
	}
	return b.buf.Bytes()
}

// FileSink writes each chunk straight to a file. A partially written file is
// left in place on failure; removing it is up to the caller.
type FileSink struct {
	path string
	f    *os.File
}

// CreateFileSink creates or truncates path.
func CreateFileSink(op, path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, sinkError(op, err)
	}
	return &FileSink{path: path, f: f}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *FileSink) Close() error {
	return s.f.Close()
}

func (s *FileSink) Path() string {
	return s.path
}

// CompressedFileSink writes the payload as an lz4 frame.
type CompressedFileSink struct {
	path string
	f    *os.File
	zw   *lz4.Writer
}

// CreateCompressedFileSink creates or truncates path and writes an lz4 frame to it.
func CreateCompressedFileSink(op, path string) (*CompressedFileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, sinkError(op, err)
	}
	return &CompressedFileSink{path: path, f: f, zw: lz4.NewWriter(f)}, nil
}

func (s *CompressedFileSink) Write(p []byte) (int, error) {
	return s.zw.Write(p)
}

// Close flushes the lz4 frame and always closes the file.
func (s *CompressedFileSink) Close() error {
	zerr := s.zw.Close()
	ferr := s.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

func (s *CompressedFileSink) Path() string {
	return s.path
}
