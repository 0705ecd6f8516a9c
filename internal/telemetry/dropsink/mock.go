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
	"fmt"
)

// LoggingPublisher is the default, dependency-free Publisher: it prints each
// Event to stdout. Useful for local runs of cmd/drrsim and for tests.
type LoggingPublisher struct{}

func (LoggingPublisher) Publish(ctx context.Context, ev Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	fmt.Printf("[dropsink] reason=%s size=%d proto=%d ts=%s\n",
		ev.Reason, ev.Size, ev.Proto, ev.Timestamp.Format("15:04:05.000"))
	return nil
}
