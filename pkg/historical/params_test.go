package historical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := map[string]int64{
		"2024-01-01 00:00:00":            1704067200000000000,
		"2024-01-01T00:00:00":            1704067200000000000,
		"2024-01-01":                     1704067200000000000,
		"2024-01-01T00:00:00Z":           1704067200000000000,
		"2024-01-01T02:00:00+02:00":      1704067200000000000,
		"2024-01-01 00:00:00.5":          1704067200500000000,
		"2024-01-03 23:00:00":            1704322800000000000,
		"  2024-01-01T00:00:00.000001Z ": 1704067200000001000,
	}
	for in, want := range cases {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestNewRetrieveParams(t *testing.T) {
	p, err := NewRetrieveParams([]string{"HE.n.0", "ZC.n.0"}, "2024-01-01 00:00:00", "2024-01-03 23:00:00", "bbo-1m", "Futures")
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"symbols": ["HE.n.0", "ZC.n.0"],
		"start_ts": 1704067200000000000,
		"end_ts": 1704322800000000000,
		"schema": "bbo-1m",
		"dataset": "Futures"
	}`, string(raw))
}

func TestRetrieveParamsValidate(t *testing.T) {
	valid := RetrieveParams{Symbols: []string{"AAPL"}, StartTs: 1, EndTs: 2, Schema: "mbp-1"}
	require.NoError(t, valid.Validate())

	noSymbols := valid
	noSymbols.Symbols = nil
	assert.ErrorIs(t, noSymbols.Validate(), ErrInvalidParams)

	blank := valid
	blank.Symbols = []string{" "}
	assert.ErrorIs(t, blank.Validate(), ErrInvalidParams)

	backwards := valid
	backwards.StartTs, backwards.EndTs = 2, 1
	assert.ErrorIs(t, backwards.Validate(), ErrInvalidParams)

	noSchema := valid
	noSchema.Schema = ""
	assert.ErrorIs(t, noSchema.Validate(), ErrInvalidParams)
}
