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
	"errors"
	"fmt"

	"drrq/pkg/drrq"
)

// Options holds the knobs needed to build any of the supported adapters.
type Options struct {
	RedisAddr    string
	RedisListKey string
	RedisMaxLen  int64
	KafkaTopic   string
}

// Build constructs a drrq.DropSink for the named adapter:
//   - "", "mock": in-process logger (default)
//   - "redis": pushes JSON-encoded events onto a Redis list
//   - "kafka": produces JSON-encoded events to a Kafka topic
//   - "postgres": not wired; see DESIGN.md for why
//
// As with the rest of this package, none of these feed back into scheduler
// state — they only let an operator observe drops after the fact.
func Build(adapter string, opts Options) (drrq.DropSink, error) {
	switch adapter {
	case "", "mock":
		return NewPublisherSink(LoggingPublisher{}), nil
	case "redis":
		listKey := opts.RedisListKey
		if listKey == "" {
			listKey = "drrq:drops"
		}
		var pusher RedisPusher
		if opts.RedisAddr != "" {
			pusher = NewGoRedisPusher(opts.RedisAddr)
		} else {
			pusher = LoggingRedisPusher{}
		}
		return NewPublisherSink(NewRedisPublisher(pusher, listKey, opts.RedisMaxLen)), nil
	case "kafka":
		return NewPublisherSink(NewKafkaPublisher(LoggingKafkaProducer{}, opts.KafkaTopic)), nil
	case "postgres":
		return nil, errors.New("dropsink: postgres adapter is not wired; see DESIGN.md")
	default:
		return nil, fmt.Errorf("dropsink: unknown adapter: %s", adapter)
	}
}
