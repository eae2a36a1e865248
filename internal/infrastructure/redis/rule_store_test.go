package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinIncrementSelectsBandByAmount(t *testing.T) {
	store := &RedisRuleStore{rules: defaultRules()}

	cases := []struct {
		amount int64
		want   int64
	}{
		{0, 5000},
		{99999, 5000},
		{100000, 10000}, // band bounds are exclusive
		{499999, 10000},
		{500000, 25000},
		{10000000, 25000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, store.MinIncrement(tc.amount), "amount %d", tc.amount)
	}
}

func TestMinIncrementFallsBackToOne(t *testing.T) {
	// No rules loaded at all.
	empty := &RedisRuleStore{}
	assert.Equal(t, int64(1), empty.MinIncrement(100000))

	// A band with a zero increment must not stall the auction.
	broken := &RedisRuleStore{rules: &IncrementRules{
		Bands: []IncrementBand{{UpTo: 0, Increment: 0}},
	}}
	assert.Equal(t, int64(1), broken.MinIncrement(100000))
}

func TestDefaultRulesCoverAllAmounts(t *testing.T) {
	rules := defaultRules()
	last := rules.Bands[len(rules.Bands)-1]
	assert.Zero(t, last.UpTo, "final band must be unbounded")
	for _, band := range rules.Bands {
		assert.Greater(t, band.Increment, int64(0))
	}
}
