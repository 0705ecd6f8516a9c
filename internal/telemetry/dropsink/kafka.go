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
)

// KafkaProducer abstracts the minimal Kafka surface a Publisher needs.
// Implementations may wrap a real client (e.g. segmentio/kafka-go,
// confluent-kafka-go) or any equivalent.
type KafkaProducer interface {
	Produce(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// KafkaPublisher produces one JSON-enveloped message per Event to topic,
// keyed by the drop reason so a consumer can partition by reason if desired.
type KafkaPublisher struct {
	producer KafkaProducer
	topic    string
}

// NewKafkaPublisher returns a Publisher producing to topic via producer.
func NewKafkaPublisher(producer KafkaProducer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = "drrq-drops"
	}
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (k *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("dropsink: marshal event: %w", err)
	}
	return k.producer.Produce(ctx, k.topic, []byte(ev.Reason), value, nil)
}

// LoggingKafkaProducer is a dependency-free KafkaProducer for demos and
// tests; it logs instead of talking to a real broker.
type LoggingKafkaProducer struct{}

func (LoggingKafkaProducer) Produce(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	fmt.Printf("[kafka-demo] TOPIC=%s KEY=%s VALUE=%s\n", topic, string(key), string(value))
	return nil
}
