package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankJSONRoundTrip(t *testing.T) {
	for _, r := range []Rank{RankCurious, RankBeliever, RankMaxi, RankUltra} {
		raw, err := json.Marshal(struct {
			Rank Rank `json:"rank"`
		}{r})
		require.NoError(t, err)

		var back struct {
			Rank Rank `json:"rank"`
		}
		require.NoError(t, json.Unmarshal(raw, &back), "decode %s", raw)
		assert.Equal(t, r, back.Rank)
	}
	assert.JSONEq(t, `"Ultra"`, mustJSON(t, RankUltra))
}

func TestRankRejectsUnknownLabel(t *testing.T) {
	var r Rank
	assert.Error(t, r.UnmarshalText([]byte("Legend")))
}

func TestBankValidate(t *testing.T) {
	assert.ErrorIs(t, Bank{}.Validate(), ErrEmptyBank)
	assert.ErrorIs(t, Bank{Questions: []Question{{ID: 1}}}.Validate(), ErrNoOptions)
	assert.ErrorIs(t, Bank{Questions: []Question{{ID: 1, Options: []Option{{Points: -1}}}}}.Validate(), ErrNegativePoints)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
