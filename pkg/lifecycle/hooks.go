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
	"context"
	"fmt"
	"sort"
)

// HookPoint names an extension point in the coordinator's lifecycle.
type HookPoint string

const (
	BeforeInit    HookPoint = "beforeInit"
	AfterInit     HookPoint = "afterInit"
	BeforeReady   HookPoint = "beforeReady"
	AfterReady    HookPoint = "afterReady"
	BeforeDestroy HookPoint = "beforeDestroy"
	AfterDestroy  HookPoint = "afterDestroy"
	OnError       HookPoint = "onError"
)

// DefaultHookPriority is used by AddHook. Lower priorities run first.
const DefaultHookPriority = 10

// HookEvent carries context to a hook invocation. Err and Context are set
// only for OnError hooks.
type HookEvent struct {
	Point   HookPoint
	Err     error
	Context string
}

// HookFunc is a lifecycle hook callback.
type HookFunc func(ctx context.Context, ev HookEvent) error

type hookEntry struct {
	fn       HookFunc
	priority int
}

type hookRegistry struct {
	hooks map[HookPoint][]hookEntry
}

func newHookRegistry() *hookRegistry {
	return &hookRegistry{hooks: make(map[HookPoint][]hookEntry)}
}

func validHookPoint(p HookPoint) bool {
	switch p {
	case BeforeInit, AfterInit, BeforeReady, AfterReady, BeforeDestroy, AfterDestroy, OnError:
		return true
	}
	return false
}

// add inserts a hook and keeps the list ascending by priority, stable on
// insertion order for ties.
func (r *hookRegistry) add(point HookPoint, fn HookFunc, priority int) error {
	if !validHookPoint(point) {
		return fmt.Errorf("%w: %q", ErrUnknownHookPoint, point)
	}
	if fn == nil {
		return fmt.Errorf("%w: point %q", ErrNilHook, point)
	}
	entries := append(r.hooks[point], hookEntry{fn: fn, priority: priority})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	r.hooks[point] = entries
	return nil
}

// snapshot returns the hook list for a point in execution order.
func (r *hookRegistry) snapshot(point HookPoint) []hookEntry {
	entries := r.hooks[point]
	out := make([]hookEntry, len(entries))
	copy(out, entries)
	return out
}

// reset empties every hook list.
func (r *hookRegistry) reset() {
	r.hooks = make(map[HookPoint][]hookEntry)
}
