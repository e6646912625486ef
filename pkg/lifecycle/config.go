/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lifecycle

import (
	"fmt"
	"time"

	"github.com/srediag/plugin-lifecycle/pkg/events"
)

const (
	defaultEventBufferSize   = 64
	defaultInitRetryInterval = 50 * time.Millisecond
)

// Config holds coordinator tuning parameters.
type Config struct {
	// Dispatcher carries phase-change and error broadcasts. When nil the
	// coordinator creates and owns one, closing it during Destroy.
	Dispatcher *events.Dispatcher

	// EventBufferSize sizes the owned dispatcher's queue. Ignored when
	// Dispatcher is set.
	EventBufferSize int64

	// AsyncWorkers configures the owned dispatcher's fan-out pool. Ignored
	// when Dispatcher is set.
	AsyncWorkers int

	// InitMaxRetries retries a component's failing Init up to this many
	// extra attempts before the failure is reported. 0 disables retrying.
	// Retries run inside the component's sequential slot; no two
	// components ever initialize concurrently.
	InitMaxRetries uint64

	// InitRetryInterval is the constant delay between init retries.
	InitRetryInterval time.Duration
}

// DefaultConfig returns the default coordinator configuration.
func DefaultConfig() *Config {
	return &Config{
		EventBufferSize:   defaultEventBufferSize,
		InitRetryInterval: defaultInitRetryInterval,
	}
}

// VerifyConfig checks a Config for usable values.
func VerifyConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("lifecycle: config is nil")
	}
	if c.Dispatcher == nil && c.EventBufferSize <= 0 {
		return fmt.Errorf("lifecycle: event buffer size must be positive, got %d", c.EventBufferSize)
	}
	if c.AsyncWorkers < 0 {
		return fmt.Errorf("lifecycle: async workers must be non-negative, got %d", c.AsyncWorkers)
	}
	if c.InitMaxRetries > 0 && c.InitRetryInterval <= 0 {
		return fmt.Errorf("lifecycle: init retry interval must be positive when retries are enabled")
	}
	return nil
}
