// Package envelope defines the status wrapper the historical service puts
// around every response, streamed or not.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformed is returned for JSON that parses but is not an envelope.
var ErrMalformed = errors.New("malformed envelope")

// Status is the logical outcome reported by the service.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Envelope is the unit exchanged with the service:
//
//	{"status": "success"|"failed", "code": 200, "message": "...", "data": ...}
//
// Data depends on the endpoint: an id, a list of records, a string, or raw
// bytes. Once streaming has started the Status field is authoritative, not
// the HTTP code.
type Envelope[T any] struct {
	Status  Status `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// New builds an envelope locally, for outcomes no frame carried.
func New[T any](status Status, message string, code int, data T) Envelope[T] {
	return Envelope[T]{
		Status:  status,
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// Success is the synthesized terminal outcome of a stream that ended without
// a failure frame.
func Success[T any](data T) Envelope[T] {
	return New(StatusSuccess, "", http.StatusOK, data)
}

// Failed reports whether the service rejected the operation. Anything other
// than an explicit "success" counts as a rejection.
func (e Envelope[T]) Failed() bool {
	return e.Status != StatusSuccess
}

func (e Envelope[T]) String() string {
	return fmt.Sprintf("%s (%d): %s", e.Status, e.Code, e.Message)
}

// UnmarshalJSON requires status, code and message to be present. A null
// value or an object with other fields is rejected.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return fmt.Errorf("%w: null", ErrMalformed)
	}

	var wire struct {
		Status  *Status `json:"status"`
		Code    *int    `json:"code"`
		Message *string `json:"message"`
		Data    T       `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	switch {
	case wire.Status == nil:
		return fmt.Errorf("%w: missing status", ErrMalformed)
	case wire.Code == nil:
		return fmt.Errorf("%w: missing code", ErrMalformed)
	case wire.Message == nil:
		return fmt.Errorf("%w: missing message", ErrMalformed)
	}

	*e = New(*wire.Status, *wire.Message, *wire.Code, wire.Data)
	return nil
}

// Decode parses a single envelope from raw JSON.
func Decode[T any](body []byte) (Envelope[T], error) {
	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope[T]{}, err
	}
	return env, nil
}
