package transfer

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is a snapshot of one in-flight call.
type Progress struct {
	RequestID string
	Op        string
	Frames    int
	Bytes     int64
	Message   string
	Elapsed   time.Duration
	Speed     float64 // bytes per second
}

// ProgressFunc receives a snapshot for every frame or chunk as it is
// processed. It runs on the calling goroutine and must not block for long.
type ProgressFunc func(Progress)

// Meter tracks the progress of a single call. It is not shared between
// calls and needs no locking.
type Meter struct {
	requestID string
	op        string
	fn        ProgressFunc
	startTime time.Time
	frames    int
	bytes     int64
	message   string
}

// NewMeter starts a meter for one request. fn may be nil.
func NewMeter(requestID, op string, fn ProgressFunc) *Meter {
	return &Meter{
		requestID: requestID,
		op:        op,
		fn:        fn,
		startTime: time.Now(),
	}
}

// Frame records a status frame that reported success.
func (m *Meter) Frame(message string) {
	m.frames++
	m.message = message
	m.emit()
}

// Chunk records n payload bytes handed to a sink.
func (m *Meter) Chunk(n int) {
	m.frames++
	m.bytes += int64(n)
	m.emit()
}

func (m *Meter) emit() {
	if m.fn != nil {
		m.fn(m.Snapshot())
	}
}

// Snapshot returns the current totals.
func (m *Meter) Snapshot() Progress {
	elapsed := time.Since(m.startTime)
	speed := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		speed = float64(m.bytes) / secs
	}
	return Progress{
		RequestID: m.requestID,
		Op:        m.op,
		Frames:    m.frames,
		Bytes:     m.bytes,
		Message:   m.message,
		Elapsed:   elapsed,
		Speed:     speed,
	}
}

// String renders a one-line summary for terminals and logs.
func (p Progress) String() string {
	if p.Bytes == 0 {
		if p.Message != "" {
			return fmt.Sprintf("%s: %d frames, last %q", p.Op, p.Frames, p.Message)
		}
		return fmt.Sprintf("%s: %d frames", p.Op, p.Frames)
	}
	return fmt.Sprintf("%s: %s in %d chunks (%s/s)",
		p.Op, humanize.Bytes(uint64(p.Bytes)), p.Frames, humanize.Bytes(uint64(p.Speed)))
}
