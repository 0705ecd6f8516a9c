// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dropsink

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// RedisPusher abstracts the minimal Redis surface a Publisher needs: append
// to a capped list. Implementations may wrap *redis.Client or any equivalent.
type RedisPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) (int64, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
}

// RedisPublisher pushes each Event, JSON-encoded, onto a Redis list, trimming
// it to maxLen so an unattended consumer never lets the list grow unbounded.
// Unlike the scheduler's own state, this list is pure audit trail: losing it
// (e.g. a Redis restart) never affects admission or fairness.
type RedisPublisher struct {
	client RedisPusher
	key    string
	maxLen int64
}

// NewRedisPublisher returns a Publisher appending to listKey, capped at
// maxLen entries (0 means keep the default of 10000).
func NewRedisPublisher(client RedisPusher, listKey string, maxLen int64) *RedisPublisher {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisPublisher{client: client, key: listKey, maxLen: maxLen}
}

func (r *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("dropsink: marshal event: %w", err)
	}
	if _, err := r.client.RPush(ctx, r.key, b); err != nil {
		return fmt.Errorf("dropsink: redis rpush: %w", err)
	}
	return r.client.LTrim(ctx, r.key, -r.maxLen, -1)
}

// GoRedisPusher wraps a real *redis.Client as a RedisPusher.
type GoRedisPusher struct{ c *redis.Client }

// NewGoRedisPusher returns a RedisPusher backed by a go-redis client for
// addr; the client connects on first use, not here.
func NewGoRedisPusher(addr string) *GoRedisPusher {
	return &GoRedisPusher{c: redis.NewClient(&redis.Options{Addr: addr})}
}

func (g *GoRedisPusher) RPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return g.c.RPush(ctx, key, values...).Result()
}

func (g *GoRedisPusher) LTrim(ctx context.Context, key string, start, stop int64) error {
	return g.c.LTrim(ctx, key, start, stop).Err()
}

// LoggingRedisPusher is a dependency-free RedisPusher for demos and tests; it
// logs instead of talking to a real Redis.
type LoggingRedisPusher struct{}

func (LoggingRedisPusher) RPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	fmt.Printf("[redis-demo] RPUSH %s %v\n", key, values)
	return 1, nil
}

func (LoggingRedisPusher) LTrim(ctx context.Context, key string, start, stop int64) error {
	fmt.Printf("[redis-demo] LTRIM %s %d %d\n", key, start, stop)
	return nil
}
