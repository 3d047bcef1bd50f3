package historical

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidParams = errors.New("invalid retrieve params")

// Timestamp layouts accepted by ParseTimestamp. Layouts without a zone are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RetrieveParams selects the records a download returns.
type RetrieveParams struct {
	Symbols []string `json:"symbols"`
	StartTs int64    `json:"start_ts"` // Unix nanoseconds
	EndTs   int64    `json:"end_ts"`   // Unix nanoseconds
	Schema  string   `json:"schema"`
	Dataset string   `json:"dataset,omitempty"`
}

// NewRetrieveParams builds params from ISO-8601 start and end times.
func NewRetrieveParams(symbols []string, start, end, schema, dataset string) (RetrieveParams, error) {
	startTs, err := ParseTimestamp(start)
	if err != nil {
		return RetrieveParams{}, err
	}
	endTs, err := ParseTimestamp(end)
	if err != nil {
		return RetrieveParams{}, err
	}

	p := RetrieveParams{
		Symbols: symbols,
		StartTs: startTs,
		EndTs:   endTs,
		Schema:  schema,
		Dataset: dataset,
	}
	if err := p.Validate(); err != nil {
		return RetrieveParams{}, err
	}
	return p, nil
}

// ParseTimestamp converts an ISO-8601 date or date-time to Unix nanoseconds.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixNano(), nil
		}
	}
	return 0, fmt.Errorf("%w: invalid date format %q", ErrInvalidParams, s)
}

// Validate checks the params before they are sent. Errors wrap ErrInvalidParams.
func (p RetrieveParams) Validate() error {
	if len(p.Symbols) == 0 {
		return fmt.Errorf("%w: at least one symbol is required", ErrInvalidParams)
	}
	for _, s := range p.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: empty symbol", ErrInvalidParams)
		}
	}
	if p.StartTs >= p.EndTs {
		return fmt.Errorf("%w: start_ts must be before end_ts", ErrInvalidParams)
	}
	if p.Schema == "" {
		return fmt.Errorf("%w: schema is required", ErrInvalidParams)
	}
	return nil
}
