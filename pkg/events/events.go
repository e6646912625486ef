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

// Package events provides the broadcast channel that carries lifecycle
// coordinator notifications to decoupled consumers.
package events

import "time"

// Event is any payload published on the dispatcher.
type Event interface{}

// PhaseChange is published on every coordinator phase transition.
type PhaseChange struct {
	Old string
	New string
}

// ErrorEvent is published when an error reaches the coordinator's error
// funnel. Phase is the phase at the time of publication.
type ErrorEvent struct {
	Err     error
	Context string
	Phase   string
}

// Component operation names carried by ComponentEvent.
const (
	OpInit    = "init"
	OpDestroy = "destroy"
	OpPause   = "pause"
	OpResume  = "resume"
)

// ComponentEvent is published after each component operation settles,
// whether it succeeded or not.
type ComponentEvent struct {
	Name     string
	Op       string
	Duration time.Duration
	Err      error
}

// Observer receives events published on a Dispatcher. Observers with a lower
// Priority are invoked first; ties keep subscription order.
type Observer interface {
	ID() string
	Priority() int
	OnEvent(Event)
}

type funcObserver struct {
	id       string
	priority int
	fn       func(Event)
}

func (o *funcObserver) ID() string       { return o.id }
func (o *funcObserver) Priority() int    { return o.priority }
func (o *funcObserver) OnEvent(ev Event) { o.fn(ev) }

// NewObserver wraps a plain function as an Observer.
func NewObserver(id string, priority int, fn func(Event)) Observer {
	return &funcObserver{id: id, priority: priority, fn: fn}
}
