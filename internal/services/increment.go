package services

import "auction-engine/internal/domain"

// StaticIncrementPolicy applies a single configured minimum increment.
// Production wiring swaps in the redis-backed band rules.
type StaticIncrementPolicy struct {
	step int64
}

var _ domain.IncrementPolicy = (*StaticIncrementPolicy)(nil)

func NewStaticIncrementPolicy(step int64) *StaticIncrementPolicy {
	if step < 1 {
		step = 1
	}
	return &StaticIncrementPolicy{step: step}
}

func (p *StaticIncrementPolicy) MinIncrement(currentAmount int64) int64 {
	return p.step
}
