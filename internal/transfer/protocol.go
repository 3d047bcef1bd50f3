package transfer

import "net/http"

// Base path of the historical service
const BasePath = "/historical"

// Market data endpoints
const (
	EndpointCreateStream = BasePath + "/mbp/create/stream"
	EndpointCreateBulk   = BasePath + "/mbp/create/bulk"
	EndpointGetStream    = BasePath + "/mbp/get/stream"
)

// Content types
const (
	ContentTypeJSON   = "application/json"
	ContentTypeBinary = "application/octet-stream"
)

// HeaderRequestID carries the per-call id so server logs can be correlated.
const HeaderRequestID = "X-Request-ID"

// StatusOK is the only code that starts a streamed body. Every other code
// carries a single envelope.
const StatusOK = http.StatusOK

// DefaultChunkSize is the read buffer used for binary streams.
const DefaultChunkSize = 64 * 1024

// Mode selects how a streamed body is demultiplexed. It is chosen per
// endpoint, never sniffed from content.
type Mode int

const (
	// ModeStatus treats the body as a run of status envelopes.
	ModeStatus Mode = iota
	// ModeBinary treats the body as opaque payload.
	ModeBinary
)

func (m Mode) String() string {
	switch m {
	case ModeStatus:
		return "status"
	case ModeBinary:
		return "binary"
	default:
		return "unknown"
	}
}
