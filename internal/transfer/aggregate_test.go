package transfer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jaywantadh/midasclient/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateAllSuccess(t *testing.T) {
	frames := &countingFrames{frames: []envelope.Envelope[string]{ok("1/2"), ok("2/2")}}

	got, err := Aggregate(frames, 200, testLog(), nil)
	require.NoError(t, err)

	assert.Equal(t, envelope.StatusSuccess, got.Status)
	assert.Equal(t, 200, got.Code)
	assert.Empty(t, got.Message)
	assert.Empty(t, got.Data)
	assert.Equal(t, 2, frames.pulled)
}

func TestAggregateStopsAtFirstFailure(t *testing.T) {
	for n := 0; n < 4; n++ {
		for m := 0; m < 4; m++ {
			t.Run(fmt.Sprintf("n=%d,m=%d", n, m), func(t *testing.T) {
				var list []envelope.Envelope[string]
				for i := 0; i < n; i++ {
					list = append(list, ok(fmt.Sprintf("%d", i)))
				}
				failure := failed(500, "duplicate key")
				list = append(list, failure)
				for i := 0; i < m; i++ {
					// Frames after the failure must never be looked at.
					list = append(list, failed(409, "unreachable"))
				}
				frames := &countingFrames{frames: list}

				got, err := Aggregate(frames, 200, testLog(), nil)
				require.NoError(t, err)

				assert.Equal(t, failure, got)
				assert.Equal(t, n+1, frames.pulled)
			})
		}
	}
}

func TestAggregateEmptyStream(t *testing.T) {
	got, err := Aggregate(&countingFrames{}, 200, testLog(), nil)
	require.NoError(t, err)

	assert.Equal(t, envelope.New(envelope.StatusSuccess, "", 200, ""), got)
}

func TestAggregatePropagatesDecodeError(t *testing.T) {
	dec := NewStatusDecoder("upload", &chunkedReader{chunks: [][]byte{
		[]byte(`{"status":"success","code":200,"message":"1/2","data":""}`),
		[]byte(`not json`),
	}})

	_, err := Aggregate(dec, 200, testLog(), nil)
	assert.True(t, IsDecode(err))
	assert.Equal(t, 1, dec.Frames())
}

func TestAggregateNonEnvelopeFrameIsDecodeError(t *testing.T) {
	for _, body := range []string{`{}`, `null`, `{"error":"boom"}`} {
		stream := `{"status":"success","code":200,"message":"1/2","data":""}` + body

		_, err := Aggregate(NewStatusDecoder("upload", strings.NewReader(stream)), 200, testLog(), nil)
		assert.True(t, IsDecode(err), body)
	}
}

func TestAggregateFeedsMeter(t *testing.T) {
	var seen []string
	meter := NewMeter("req-1", "upload", func(p Progress) {
		seen = append(seen, p.Message)
	})
	frames := &countingFrames{frames: []envelope.Envelope[string]{ok("1/3"), ok("2/3"), ok("3/3")}}

	_, err := Aggregate(frames, 200, testLog(), meter)
	require.NoError(t, err)

	assert.Equal(t, []string{"1/3", "2/3", "3/3"}, seen)
	assert.Equal(t, 3, meter.Snapshot().Frames)
}
