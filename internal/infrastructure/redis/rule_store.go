package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/go-redis/redis/v8"

	"auction-engine/internal/domain"
)

const ruleKey = "bid_increment_rules"

// IncrementRules maps price bands to minimum bid increments.
type IncrementRules struct {
	Bands []IncrementBand `json:"bands"`
}

type IncrementBand struct {
	// UpTo is the exclusive upper bound of the band; 0 means unbounded.
	UpTo      int64 `json:"up_to"`
	Increment int64 `json:"increment"`
}

// RedisRuleStore loads price-band increment rules from redis and serves
// them as the engine's increment policy. Rules are fetched once at
// startup; missing rules are seeded with defaults.
type RedisRuleStore struct {
	client *redis.Client
	mu     sync.RWMutex
	rules  *IncrementRules
}

var _ domain.IncrementPolicy = (*RedisRuleStore)(nil)

func NewRedisRuleStore(client *redis.Client) *RedisRuleStore {
	return &RedisRuleStore{client: client}
}

func (s *RedisRuleStore) LoadRules(ctx context.Context) error {
	data, err := s.client.Get(ctx, ruleKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.mu.Lock()
			s.rules = defaultRules()
			s.mu.Unlock()
			return s.saveRules(ctx)
		}
		return err
	}

	var rules IncrementRules
	if err := json.Unmarshal([]byte(data), &rules); err != nil {
		return err
	}

	s.mu.Lock()
	s.rules = &rules
	s.mu.Unlock()
	return nil
}

func (s *RedisRuleStore) saveRules(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.Marshal(s.rules)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	return s.client.Set(ctx, ruleKey, string(data), 0).Err()
}

// MinIncrement never returns less than 1, keeping accepted bid amounts
// strictly increasing regardless of stored rules.
func (s *RedisRuleStore) MinIncrement(currentAmount int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rules != nil {
		for _, band := range s.rules.Bands {
			if band.UpTo == 0 || currentAmount < band.UpTo {
				if band.Increment > 0 {
					return band.Increment
				}
				break
			}
		}
	}
	return 1
}

func defaultRules() *IncrementRules {
	return &IncrementRules{
		Bands: []IncrementBand{
			{UpTo: 100000, Increment: 5000},
			{UpTo: 500000, Increment: 10000},
			{UpTo: 0, Increment: 25000},
		},
	}
}
