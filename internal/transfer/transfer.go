package transfer

import (
	"net/http"

	"github.com/jaywantadh/midasclient/pkg/envelope"
)

// Transport issues one HTTP exchange. *http.Client satisfies it; the client's
// Timeout bounds the whole exchange including the body drain.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChunkSource yields binary frames in arrival order. The returned slice is
// only valid until the next call. io.EOF marks the end of the stream.
type ChunkSource interface {
	Next() ([]byte, error)
}

// FrameSource yields status frames in arrival order. io.EOF marks the end of
// the stream.
type FrameSource interface {
	Next() (envelope.Envelope[string], error)
}
