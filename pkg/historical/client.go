// Package historical is the client for the historical market data service.
//
// Uploads are answered with a stream of status envelopes that is folded into
// one verdict; downloads stream raw record bytes into memory or a file. A
// rejection by the service comes back as an envelope with a failed status,
// never as an error. Errors are reserved for exchanges that could not be
// completed: see ErrTransport, ErrDecode and ErrSink.
package historical

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jaywantadh/midasclient/config"
	"github.com/jaywantadh/midasclient/internal/journal"
	"github.com/jaywantadh/midasclient/internal/transfer"
	"github.com/jaywantadh/midasclient/pkg/envelope"
	"github.com/jaywantadh/midasclient/pkg/logging"
	"github.com/sirupsen/logrus"
)

var (
	ErrTransport = transfer.ErrTransport
	ErrDecode    = transfer.ErrDecode
	ErrSink      = transfer.ErrSink
)

type (
	Progress     = transfer.Progress
	ProgressFunc = transfer.ProgressFunc
	Record       = journal.Record
)

// Journal receives one record per call.
type Journal interface {
	Put(rec Record) error
}

// Operation names, used in logs and journal records.
const (
	OpCreateMbp                  = "create_mbp"
	OpCreateMbpFromFile          = "create_mbp_from_file"
	OpGetRecords                 = "get_records"
	OpGetRecordsToFile           = "get_records_to_file"
	OpGetRecordsToCompressedFile = "get_records_to_compressed_file"
)

// Client is a plain value: safe for concurrent use, with no state shared
// between calls. Each call makes exactly one request attempt.
type Client struct {
	transfer *transfer.Client
	progress ProgressFunc
	journal  Journal
	closer   func() error
}

type options struct {
	transport transfer.Transport
	chunkSize int
	progress  ProgressFunc
	journal   Journal
}

// Option configures a Client.
type Option func(*options)

// WithTransport replaces the default *http.Client. The timeout passed to New
// is ignored when a transport is supplied.
func WithTransport(t transfer.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithChunkSize sets the read buffer for downloads.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithProgress registers a callback fired for every frame and chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithJournal records every call in j.
func WithJournal(j Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// New creates a client for the service at baseURL. timeout bounds each whole
// exchange, from connect to the end of the streamed body.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	o := options{chunkSize: transfer.DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = &http.Client{Timeout: timeout}
	}

	return &Client{
		transfer: transfer.NewClient(baseURL, o.transport, o.chunkSize),
		progress: o.progress,
		journal:  o.journal,
		closer:   func() error { return nil },
	}
}

// NewFromConfig builds a client from loaded configuration, opening the
// journal when journal_path is set. Close releases it.
func NewFromConfig(cfg *config.AppConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store *journal.Store
	if cfg.JournalPath != "" {
		var err error
		store, err = journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		opts = append([]Option{WithJournal(store)}, opts...)
	}

	opts = append([]Option{WithChunkSize(cfg.ChunkSize)}, opts...)
	c := New(cfg.BaseURL, cfg.Timeout, opts...)
	if store != nil {
		c.closer = store.Close
	}
	return c, nil
}

// Close releases resources owned by the client.
func (c *Client) Close() error {
	return c.closer()
}

// call carries the per-request bookkeeping.
type call struct {
	id      string
	op      string
	target  string
	started time.Time
	log     *logrus.Entry
	meter   *transfer.Meter
}

func (c *Client) begin(op, target string) *call {
	id := uuid.New().String()
	cl := &call{
		id:      id,
		op:      op,
		target:  target,
		started: time.Now(),
		log:     logging.WithRequest(id, op),
		meter:   transfer.NewMeter(id, op, c.progress),
	}
	cl.log.WithField("target", target).Debug("transfer started")
	return cl
}

func (c *Client) finish(cl *call, status envelope.Status, code int, message string, stats transfer.Stats, err error) {
	rec := Record{
		ID:         cl.id,
		Op:         cl.op,
		Target:     cl.target,
		Status:     string(status),
		Code:       code,
		Message:    message,
		Bytes:      stats.Bytes,
		StartedAt:  cl.started,
		FinishedAt: time.Now(),
	}
	if stats.Bytes > 0 {
		rec.Checksum = stats.ChecksumHex()
	}
	if err != nil {
		rec.Error = err.Error()
	}

	cl.log.WithFields(logrus.Fields{
		"status":   rec.Status,
		"code":     rec.Code,
		"bytes":    rec.Bytes,
		"checksum": rec.Checksum,
		"elapsed":  rec.Duration().String(),
	}).Info("transfer finished")

	if c.journal == nil {
		return
	}
	if jerr := c.journal.Put(rec); jerr != nil {
		cl.log.WithError(jerr).Warn("failed to write journal record")
	}
}

func (c *Client) acknowledge(ctx context.Context, cl *call, req transfer.Request) (envelope.Envelope[string], error) {
	req.Op = cl.op
	req.Method = http.MethodPost
	req.RequestID = cl.id

	env, err := c.transfer.Acknowledge(ctx, req, cl.log, cl.meter)
	c.finish(cl, env.Status, env.Code, env.Message, transfer.Stats{}, err)
	return env, err
}

// CreateMbpFromFile asks the service to ingest a file it already holds at
// path. Only the path crosses the wire.
func (c *Client) CreateMbpFromFile(ctx context.Context, path string) (envelope.Envelope[string], error) {
	cl := c.begin(OpCreateMbpFromFile, path)

	body, err := json.Marshal(path)
	if err != nil {
		err = fmt.Errorf("%s: %w", cl.op, err)
		c.finish(cl, "", 0, "", transfer.Stats{}, err)
		return envelope.Envelope[string]{}, err
	}

	return c.acknowledge(ctx, cl, transfer.Request{
		Endpoint:    transfer.EndpointCreateBulk,
		ContentType: transfer.ContentTypeJSON,
		Body:        bytes.NewReader(body),
	})
}

// CreateMbp uploads encoded records as the request body.
func (c *Client) CreateMbp(ctx context.Context, data []byte) (envelope.Envelope[string], error) {
	cl := c.begin(OpCreateMbp, fmt.Sprintf("%d bytes", len(data)))

	return c.acknowledge(ctx, cl, transfer.Request{
		Endpoint:    transfer.EndpointCreateStream,
		ContentType: transfer.ContentTypeBinary,
		Body:        bytes.NewReader(data),
	})
}

func (c *Client) download(ctx context.Context, cl *call, params RetrieveParams, open func() (transfer.Sink, error)) (*envelope.Envelope[[]byte], transfer.Stats, error) {
	if err := params.Validate(); err != nil {
		c.finish(cl, "", 0, "", transfer.Stats{}, err)
		return nil, transfer.Stats{}, err
	}
	body, err := json.Marshal(params)
	if err != nil {
		err = fmt.Errorf("%s: %w", cl.op, err)
		c.finish(cl, "", 0, "", transfer.Stats{}, err)
		return nil, transfer.Stats{}, err
	}

	env, stats, err := c.transfer.Download(ctx, transfer.Request{
		Op:          cl.op,
		Method:      http.MethodGet,
		Endpoint:    transfer.EndpointGetStream,
		RequestID:   cl.id,
		ContentType: transfer.ContentTypeJSON,
		Body:        bytes.NewReader(body),
	}, open, cl.log, cl.meter)

	switch {
	case err != nil:
		c.finish(cl, "", 0, "", stats, err)
	case env != nil:
		c.finish(cl, env.Status, env.Code, env.Message, stats, nil)
	default:
		c.finish(cl, envelope.StatusSuccess, http.StatusOK, "", stats, nil)
	}
	return env, stats, err
}

// GetRecords downloads the selected records into memory.
func (c *Client) GetRecords(ctx context.Context, params RetrieveParams) (envelope.Envelope[[]byte], error) {
	cl := c.begin(OpGetRecords, "memory")

	sink := transfer.NewBufferSink()
	env, _, err := c.download(ctx, cl, params, func() (transfer.Sink, error) {
		return sink, nil
	})
	if err != nil {
		return envelope.Envelope[[]byte]{}, err
	}
	if env != nil {
		return *env, nil
	}
	return envelope.Success(sink.Bytes()), nil
}

// GetRecordsToFile streams the selected records into path, creating or
// truncating it. On success Data holds the number of bytes written. If an
// error is returned after the stream started, whatever arrived stays in the
// file and removing it is the caller's job. A rejected request leaves path
// untouched.
func (c *Client) GetRecordsToFile(ctx context.Context, params RetrieveParams, path string) (envelope.Envelope[int64], error) {
	cl := c.begin(OpGetRecordsToFile, path)
	return c.toFile(ctx, cl, params, func() (transfer.Sink, error) {
		return transfer.CreateFileSink(cl.op, path)
	})
}

// GetRecordsToCompressedFile is GetRecordsToFile with the payload written as
// an lz4 frame. Data holds the number of uncompressed bytes.
func (c *Client) GetRecordsToCompressedFile(ctx context.Context, params RetrieveParams, path string) (envelope.Envelope[int64], error) {
	cl := c.begin(OpGetRecordsToCompressedFile, path)
	return c.toFile(ctx, cl, params, func() (transfer.Sink, error) {
		return transfer.CreateCompressedFileSink(cl.op, path)
	})
}

func (c *Client) toFile(ctx context.Context, cl *call, params RetrieveParams, open func() (transfer.Sink, error)) (envelope.Envelope[int64], error) {
	env, stats, err := c.download(ctx, cl, params, open)
	if err != nil {
		return envelope.Envelope[int64]{}, err
	}
	if env != nil {
		return envelope.New(env.Status, env.Message, env.Code, int64(0)), nil
	}
	return envelope.Success(stats.Bytes), nil
}
