// Package cache serves the hot remaining-by-type read path from Valkey.
// The cache is an optimization only: every sale, cancellation and quota
// change invalidates the event's entry, and a miss falls through to the
// sales ledger.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const remainingTTL = 30 * time.Second

type ValkeyClient struct {
	client *redis.Client
}

func NewValkeyClient(addr, password string) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb}, nil
}

func remainingKey(eventID int64) string {
	return fmt.Sprintf("remaining:%d", eventID)
}

// GetRemaining returns the cached remaining-by-type map for the event, or an
// error on a miss.
func (v *ValkeyClient) GetRemaining(ctx context.Context, eventID int64) (map[string]int, error) {
	raw, err := v.client.Get(ctx, remainingKey(eventID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("remaining not cached for event %d", eventID)
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	var remaining map[string]int
	if err := json.Unmarshal([]byte(raw), &remaining); err != nil {
		return nil, fmt.Errorf("invalid cached remaining: %w", err)
	}

	return remaining, nil
}

func (v *ValkeyClient) SetRemaining(ctx context.Context, eventID int64, remaining map[string]int) error {
	raw, err := json.Marshal(remaining)
	if err != nil {
		return fmt.Errorf("failed to marshal remaining: %w", err)
	}
	return v.client.Set(ctx, remainingKey(eventID), raw, remainingTTL).Err()
}

func (v *ValkeyClient) InvalidateRemaining(ctx context.Context, eventID int64) error {
	return v.client.Del(ctx, remainingKey(eventID)).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
