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

package events

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	queuepkg "github.com/Workiva/go-datastructures/queue"
	"github.com/panjf2000/ants/v2"
)

var (
	// ErrDispatcherClosed is returned by Publish after Close.
	ErrDispatcherClosed = errors.New("events: dispatcher closed")
	// ErrObserverExists is returned by Subscribe for a duplicate observer ID.
	ErrObserverExists = errors.New("events: observer already subscribed")
)

// Config holds dispatcher tuning parameters.
type Config struct {
	// BufferSize is the size hint for the pending-event queue.
	BufferSize int64
	// AsyncWorkers > 0 fans each observer callback out to a worker pool.
	// With 0 workers, observers run in priority order on the dispatch
	// goroutine and delivery order is preserved across observers.
	AsyncWorkers int
}

// DefaultConfig returns a dispatcher Config with sane defaults.
func DefaultConfig() Config {
	return Config{BufferSize: 64}
}

// Dispatcher is an in-process publish/subscribe channel. Events are buffered
// in a queue and drained by a single goroutine, so publication order is
// delivery order.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer

	buf    *queuepkg.Queue
	pool   *ants.Pool
	closed atomic.Bool
	panics atomic.Uint64
	wg     sync.WaitGroup
}

type stopSentinel struct{}

// NewDispatcher creates a started Dispatcher.
func NewDispatcher(conf Config) (*Dispatcher, error) {
	if conf.BufferSize <= 0 {
		return nil, fmt.Errorf("events: buffer size must be positive, got %d", conf.BufferSize)
	}
	if conf.AsyncWorkers < 0 {
		return nil, fmt.Errorf("events: async workers must be non-negative, got %d", conf.AsyncWorkers)
	}
	d := &Dispatcher{buf: queuepkg.New(conf.BufferSize)}
	if conf.AsyncWorkers > 0 {
		pool, err := ants.NewPool(conf.AsyncWorkers)
		if err != nil {
			return nil, fmt.Errorf("events: create worker pool: %w", err)
		}
		d.pool = pool
	}
	d.wg.Add(1)
	go d.loop()
	return d, nil
}

// Subscribe registers an observer. Observers are ordered by ascending
// Priority, stable on subscription order for ties.
func (d *Dispatcher) Subscribe(o Observer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.observers {
		if existing.ID() == o.ID() {
			return fmt.Errorf("%w: %s", ErrObserverExists, o.ID())
		}
	}
	d.observers = append(d.observers, o)
	sort.SliceStable(d.observers, func(i, j int) bool {
		return d.observers[i].Priority() < d.observers[j].Priority()
	})
	return nil
}

// Unsubscribe removes the observer with the given ID, reporting whether it
// was subscribed.
func (d *Dispatcher) Unsubscribe(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, o := range d.observers {
		if o.ID() == id {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Observers returns a snapshot of the subscribed observers in delivery order.
func (d *Dispatcher) Observers() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Observer, len(d.observers))
	copy(out, d.observers)
	return out
}

// Publish enqueues an event for delivery.
func (d *Dispatcher) Publish(ev Event) error {
	if d.closed.Load() {
		return ErrDispatcherClosed
	}
	return d.buf.Put(ev)
}

// Panics reports the number of observer panics recovered so far.
func (d *Dispatcher) Panics() uint64 {
	return d.panics.Load()
}

// Close drains events already published, stops the dispatch goroutine and
// releases the worker pool. Close is idempotent.
func (d *Dispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	// The sentinel lands behind every prior publication, so pending events
	// are delivered before the loop exits.
	if err := d.buf.Put(stopSentinel{}); err != nil {
		return err
	}
	d.wg.Wait()
	d.buf.Dispose()
	if d.pool != nil {
		d.pool.Release()
	}
	return nil
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for {
		items, err := d.buf.Get(1)
		if err != nil || len(items) == 0 {
			return
		}
		if _, stop := items[0].(stopSentinel); stop {
			return
		}
		d.fanout(items[0])
	}
}

func (d *Dispatcher) fanout(ev Event) {
	for _, o := range d.Observers() {
		if d.pool == nil {
			d.deliver(o, ev)
			continue
		}
		o := o
		if err := d.pool.Submit(func() { d.deliver(o, ev) }); err != nil {
			// Pool released mid-flight; deliver inline rather than drop.
			d.deliver(o, ev)
		}
	}
}

func (d *Dispatcher) deliver(o Observer, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.panics.Add(1)
		}
	}()
	o.OnEvent(ev)
}
