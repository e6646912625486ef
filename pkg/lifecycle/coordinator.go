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

// Package lifecycle sequences initialization and teardown of named,
// interdependent components through an explicit phase state machine, with
// prioritized hooks and a broadcast channel for phase transitions.
package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/multierr"

	"github.com/srediag/plugin-lifecycle/api"
	"github.com/srediag/plugin-lifecycle/pkg/events"
)

// RegisterOptions control how a component is registered.
type RegisterOptions struct {
	// Dependencies lists component names that must initialize first.
	Dependencies []string

	// Priority orders independent components during initialization; lower
	// values initialize first, ties keep registration order. Dependency
	// edges always dominate priority.
	Priority int

	// Optional marks a component whose init failure is reported and
	// skipped instead of failing the whole initialization.
	Optional bool

	// Replace permits overwriting an existing registration under the same
	// name. Without it, duplicate names are rejected.
	Replace bool
}

type component struct {
	name         string
	instance     interface{}
	dependencies []string
	priority     int
	required     bool
	initialized  bool
}

// Coordinator owns the phase state machine and drives component
// initialization and teardown. All mutation happens through its methods; the
// registry and current phase are never exposed for external mutation.
type Coordinator struct {
	mu    sync.Mutex
	phase atomic.Int32

	conf       *Config
	components cmap.ConcurrentMap[string, *component]
	order      []string // registration order
	hooks      *hookRegistry
	cleanup    []func() error

	dispatcher    *events.Dispatcher
	ownDispatcher bool
}

// New creates a Coordinator in the UNINITIALIZED phase. A nil conf uses
// DefaultConfig.
func New(conf *Config) (*Coordinator, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := VerifyConfig(conf); err != nil {
		return nil, err
	}
	c := &Coordinator{
		conf:       conf,
		components: cmap.New[*component](),
		hooks:      newHookRegistry(),
		dispatcher: conf.Dispatcher,
	}
	if c.dispatcher == nil {
		d, err := events.NewDispatcher(events.Config{
			BufferSize:   conf.EventBufferSize,
			AsyncWorkers: conf.AsyncWorkers,
		})
		if err != nil {
			return nil, err
		}
		c.dispatcher = d
		c.ownDispatcher = true
	}
	return c, nil
}

// CurrentPhase returns the coordinator's current phase.
func (c *Coordinator) CurrentPhase() Phase {
	return Phase(c.phase.Load())
}

// Dispatcher returns the broadcast channel carrying PhaseChange, ErrorEvent
// and ComponentEvent payloads.
func (c *Coordinator) Dispatcher() *events.Dispatcher {
	return c.dispatcher
}

// Register stores a component record under a unique name. Duplicate names
// are rejected unless opts.Replace is set.
func (c *Coordinator) Register(name string, instance interface{}, opts *RegisterOptions) error {
	if instance == nil {
		return fmt.Errorf("%w: %q", ErrNilInstance, name)
	}
	if opts == nil {
		opts = &RegisterOptions{}
	}
	comp := &component{
		name:         name,
		instance:     instance,
		dependencies: append([]string(nil), opts.Dependencies...),
		priority:     opts.Priority,
		required:     !opts.Optional,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.components.Get(name); exists {
		if !opts.Replace {
			return fmt.Errorf("%w: %q", ErrComponentExists, name)
		}
		c.components.Set(name, comp)
		internalLogger.infof("component %q re-registered", name)
		return nil
	}
	c.components.Set(name, comp)
	c.order = append(c.order, name)
	internalLogger.debugf("component %q registered, deps=%v priority=%d", name, comp.dependencies, comp.priority)
	return nil
}

// AddHook registers a hook at the default priority.
func (c *Coordinator) AddHook(point HookPoint, fn HookFunc) error {
	return c.AddHookPriority(point, fn, DefaultHookPriority)
}

// AddHookPriority registers a hook at an explicit priority. Lower priorities
// run first; ties keep insertion order.
func (c *Coordinator) AddHookPriority(point HookPoint, fn HookFunc, priority int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hooks.add(point, fn, priority)
}

// RegisterCleanup appends a teardown task. Tasks run exactly once during
// Destroy, in registration order, independent of component ordering.
func (c *Coordinator) RegisterCleanup(fn func() error) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanup = append(c.cleanup, fn)
}

// Init drives the coordinator from UNINITIALIZED to ACTIVE: BeforeInit
// hooks, dependency-ordered sequential component initialization, AfterInit
// hooks, then the ready transition. Callable exactly once.
func (c *Coordinator) Init(ctx context.Context) error {
	c.mu.Lock()
	if p := c.CurrentPhase(); p != PhaseUninitialized {
		c.mu.Unlock()
		return fmt.Errorf("%w (phase %s)", ErrAlreadyInitialized, p)
	}
	c.setPhaseLocked(PhaseInitializing)
	c.mu.Unlock()

	c.runHooks(ctx, BeforeInit)

	if err := c.initComponents(ctx); err != nil {
		return c.handleError(ctx, err, "init")
	}

	c.mu.Lock()
	c.setPhaseLocked(PhaseInitialized)
	c.mu.Unlock()
	c.runHooks(ctx, AfterInit)

	return c.ready(ctx)
}

// ready runs BeforeReady hooks, enters READY, runs AfterReady hooks and
// settles in ACTIVE.
func (c *Coordinator) ready(ctx context.Context) error {
	c.runHooks(ctx, BeforeReady)
	c.mu.Lock()
	c.setPhaseLocked(PhaseReady)
	c.mu.Unlock()
	c.runHooks(ctx, AfterReady)
	c.mu.Lock()
	c.setPhaseLocked(PhaseActive)
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) initComponents(ctx context.Context) error {
	c.mu.Lock()
	roots := make([]string, len(c.order))
	copy(roots, c.order)
	c.mu.Unlock()

	// Independent components initialize by ascending priority; the stable
	// sort keeps registration order for ties.
	byPriority := func(name string) int {
		if comp, ok := c.components.Get(name); ok {
			return comp.priority
		}
		return 0
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return byPriority(roots[i]) < byPriority(roots[j])
	})

	deps := make(map[string][]string, len(roots))
	for _, name := range roots {
		if comp, ok := c.components.Get(name); ok {
			deps[name] = comp.dependencies
		}
	}

	order, err := resolveOrder(roots, deps)
	if err != nil {
		return err
	}

	for _, name := range order {
		comp, ok := c.components.Get(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownComponent, name)
		}
		if comp.initialized {
			internalLogger.debugf("component %q already initialized, skipping", name)
			continue
		}

		start := time.Now()
		initErr := c.initComponent(ctx, comp)
		c.publish(events.ComponentEvent{
			Name:     name,
			Op:       events.OpInit,
			Duration: time.Since(start),
			Err:      initErr,
		})
		if initErr != nil {
			wrapped := fmt.Errorf("init component %q: %w", name, initErr)
			if comp.required {
				return wrapped
			}
			internalLogger.warnf("optional component %q failed to initialize: %v", name, initErr)
			c.publish(events.ErrorEvent{Err: wrapped, Context: "init", Phase: c.CurrentPhase().String()})
			continue
		}
		comp.initialized = true
		internalLogger.debugf("component %q initialized in %s", name, time.Since(start))
	}
	return nil
}

func (c *Coordinator) initComponent(ctx context.Context, comp *component) error {
	ini, ok := comp.instance.(api.Initializer)
	if !ok {
		return nil
	}
	op := func() error { return ini.Init(ctx) }
	if c.conf.InitMaxRetries == 0 {
		return op()
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.conf.InitRetryInterval),
			c.conf.InitMaxRetries,
		), ctx)
	return backoff.Retry(op, policy)
}

// Pause moves ACTIVE to PAUSED and invokes the optional Pause capability on
// every registered component in registration order. A no-op in any other
// phase. Individual component failures are isolated and reported.
func (c *Coordinator) Pause(ctx context.Context) error {
	c.mu.Lock()
	if c.CurrentPhase() != PhaseActive {
		c.mu.Unlock()
		return nil
	}
	c.setPhaseLocked(PhasePaused)
	names := make([]string, len(c.order))
	copy(names, c.order)
	c.mu.Unlock()

	c.eachComponent(ctx, names, events.OpPause)
	return nil
}

// Resume moves PAUSED back to ACTIVE and invokes the optional Resume
// capability on every registered component in registration order. A no-op in
// any other phase.
func (c *Coordinator) Resume(ctx context.Context) error {
	c.mu.Lock()
	if c.CurrentPhase() != PhasePaused {
		c.mu.Unlock()
		return nil
	}
	c.setPhaseLocked(PhaseActive)
	names := make([]string, len(c.order))
	copy(names, c.order)
	c.mu.Unlock()

	c.eachComponent(ctx, names, events.OpResume)
	return nil
}

func (c *Coordinator) eachComponent(ctx context.Context, names []string, op string) {
	for _, name := range names {
		comp, ok := c.components.Get(name)
		if !ok {
			continue
		}
		var err error
		start := time.Now()
		switch op {
		case events.OpPause:
			if p, has := comp.instance.(api.Pauser); has {
				err = p.Pause(ctx)
			} else {
				continue
			}
		case events.OpResume:
			if r, has := comp.instance.(api.Resumer); has {
				err = r.Resume(ctx)
			} else {
				continue
			}
		}
		c.publish(events.ComponentEvent{Name: name, Op: op, Duration: time.Since(start), Err: err})
		if err != nil {
			wrapped := fmt.Errorf("%s component %q: %w", op, name, err)
			internalLogger.warnf("%v", wrapped)
			c.publish(events.ErrorEvent{Err: wrapped, Context: op, Phase: c.CurrentPhase().String()})
		}
	}
}

// Destroy tears components down in strict reverse registration order, runs
// every cleanup task, clears the registry and hook lists, and settles in the
// terminal DESTROYED phase. Once DESTROYED, further calls return nil
// immediately. Cleanup task failures never skip later tasks; they are
// aggregated into one combined error returned after everything ran.
func (c *Coordinator) Destroy(ctx context.Context) error {
	c.mu.Lock()
	if c.CurrentPhase() == PhaseDestroyed {
		c.mu.Unlock()
		return nil
	}
	c.setPhaseLocked(PhaseDestroying)
	names := make([]string, len(c.order))
	copy(names, c.order)
	c.mu.Unlock()

	c.runHooks(ctx, BeforeDestroy)

	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		comp, ok := c.components.Get(name)
		if !ok || !comp.initialized {
			continue
		}
		var err error
		start := time.Now()
		if d, has := comp.instance.(api.Destroyer); has {
			err = d.Destroy(ctx)
		}
		c.publish(events.ComponentEvent{Name: name, Op: events.OpDestroy, Duration: time.Since(start), Err: err})
		if err != nil {
			return c.handleError(ctx, fmt.Errorf("failed to destroy component %q: %w", name, err), "destroy")
		}
		comp.initialized = false
	}

	var aggregate error
	c.mu.Lock()
	tasks := c.cleanup
	c.cleanup = nil
	c.mu.Unlock()
	for i, task := range tasks {
		if err := runCleanupTask(task); err != nil {
			internalLogger.warnf("cleanup task %d failed: %v", i, err)
			aggregate = multierr.Append(aggregate, err)
		}
	}

	c.mu.Lock()
	after := c.hooks.snapshot(AfterDestroy)
	c.components.Clear()
	c.order = nil
	c.hooks.reset()
	c.setPhaseLocked(PhaseDestroyed)
	c.mu.Unlock()

	// DESTROYED is terminal, so hook failures here are reported without a
	// phase change.
	for _, entry := range after {
		if err := entry.fn(ctx, HookEvent{Point: AfterDestroy}); err != nil {
			internalLogger.warnf("afterDestroy hook failed: %v", err)
			c.publish(events.ErrorEvent{Err: err, Context: "hook:afterDestroy", Phase: PhaseDestroyed.String()})
		}
	}

	if c.ownDispatcher {
		if err := c.dispatcher.Close(); err != nil {
			internalLogger.warnf("dispatcher close failed: %v", err)
		}
	}

	if aggregate != nil {
		return fmt.Errorf("lifecycle: cleanup failed: %w", aggregate)
	}
	return nil
}

func runCleanupTask(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cleanup task panicked: %v", r)
		}
	}()
	return task()
}

// handleError funnels an error: ERROR phase, OnError hooks, an ErrorEvent
// broadcast, then the error is handed back to the caller, never swallowed.
func (c *Coordinator) handleError(ctx context.Context, err error, errCtx string) error {
	c.mu.Lock()
	c.setPhaseLocked(PhaseError)
	entries := c.hooks.snapshot(OnError)
	c.mu.Unlock()

	for _, entry := range entries {
		if hookErr := entry.fn(ctx, HookEvent{Point: OnError, Err: err, Context: errCtx}); hookErr != nil {
			internalLogger.warnf("onError hook failed: %v", hookErr)
		}
	}

	c.publish(events.ErrorEvent{Err: err, Context: errCtx, Phase: PhaseError.String()})
	internalLogger.errorf("context=%s error=%v", errCtx, err)
	return err
}

// runHooks executes a hook point best-effort: a failing hook is funneled
// through handleError and does not stop its siblings.
func (c *Coordinator) runHooks(ctx context.Context, point HookPoint) {
	c.mu.Lock()
	entries := c.hooks.snapshot(point)
	c.mu.Unlock()
	for _, entry := range entries {
		if err := entry.fn(ctx, HookEvent{Point: point}); err != nil {
			_ = c.handleError(ctx, fmt.Errorf("hook %s: %w", point, err), "hook:"+string(point))
		}
	}
}

// setPhaseLocked transitions the phase and broadcasts the change. Caller
// holds c.mu.
func (c *Coordinator) setPhaseLocked(next Phase) {
	old := Phase(c.phase.Swap(int32(next)))
	if old == next {
		return
	}
	internalLogger.infof("phase %s -> %s", old, next)
	c.publish(events.PhaseChange{Old: old.String(), New: next.String()})
}

func (c *Coordinator) publish(ev events.Event) {
	if err := c.dispatcher.Publish(ev); err != nil {
		internalLogger.debugf("event dropped: %v", err)
	}
}
