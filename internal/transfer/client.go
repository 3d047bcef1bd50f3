package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jaywantadh/midasclient/pkg/envelope"
	"github.com/sirupsen/logrus"
)

// Client sends single-attempt requests to the historical service and runs
// the streamed responses through the decoders and sinks. It holds no state
// between calls.
type Client struct {
	baseURL   string
	transport Transport
	chunkSize int
}

// NewClient creates a new transfer client
func NewClient(baseURL string, transport Transport, chunkSize int) *Client {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		chunkSize: chunkSize,
	}
}

// Request describes one exchange.
type Request struct {
	Op          string
	Method      string
	Endpoint    string
	RequestID   string
	ContentType string
	Body        io.Reader
}

// send performs the exchange. Errors before a response exists are transport
// errors.
func (c *Client) send(ctx context.Context, r Request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Endpoint, r.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", r.Op, err)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if r.RequestID != "" {
		req.Header.Set(HeaderRequestID, r.RequestID)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, transportError(r.Op, err)
	}
	return resp, nil
}

// Acknowledge sends r and folds the acknowledgement stream into one
// envelope. A non-200 response is returned as decoded, without streaming.
func (c *Client) Acknowledge(ctx context.Context, r Request, log *logrus.Entry, meter *Meter) (envelope.Envelope[string], error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		log.WithError(err).Error("request failed")
		return envelope.Envelope[string]{}, err
	}

	env, body, err := Classify[string](r.Op, resp)
	if err != nil {
		log.WithError(err).Error("could not decode response")
		return envelope.Envelope[string]{}, err
	}
	if env != nil {
		return *env, nil
	}
	defer body.Close()

	return Aggregate(NewStatusDecoder(r.Op, body), resp.StatusCode, log, meter)
}

// Download sends r and streams the payload into the sink returned by open.
// The sink is only opened once the response is known to be a stream, so a
// rejected request never touches the destination. If the fast path is taken
// the decoded envelope is returned and stats are zero.
func (c *Client) Download(ctx context.Context, r Request, open func() (Sink, error), log *logrus.Entry, meter *Meter) (*envelope.Envelope[[]byte], Stats, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		log.WithError(err).Error("request failed")
		return nil, Stats{}, err
	}

	env, body, err := Classify[[]byte](r.Op, resp)
	if err != nil {
		log.WithError(err).Error("could not decode response")
		return nil, Stats{}, err
	}
	if env != nil {
		return env, Stats{}, nil
	}
	defer body.Close()

	sink, err := open()
	if err != nil {
		log.WithError(err).Error("could not open sink")
		return nil, Stats{}, err
	}

	stats, err := Fill(r.Op, NewChunkReader(r.Op, body, c.chunkSize), sink, meter)
	if err != nil {
		log.WithError(err).WithField("bytes", stats.Bytes).Error("error while receiving chunk")
		return nil, stats, err
	}
	return nil, stats, nil
}
