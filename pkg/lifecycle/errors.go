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

import "errors"

var (
	// ErrAlreadyInitialized is returned by Init when the coordinator has
	// left the UNINITIALIZED phase.
	ErrAlreadyInitialized = errors.New("lifecycle: coordinator already initialized")

	// ErrComponentExists is returned by Register for a duplicate name
	// without the Replace option.
	ErrComponentExists = errors.New("lifecycle: component already registered")

	// ErrUnknownComponent is returned when a dependency names a component
	// that is not registered at initialization time.
	ErrUnknownComponent = errors.New("lifecycle: component not registered")

	// ErrCircularDependency is returned when the dependency graph contains
	// a cycle.
	ErrCircularDependency = errors.New("lifecycle: circular dependency")

	// ErrUnknownHookPoint is returned by AddHook for an unrecognized hook
	// point.
	ErrUnknownHookPoint = errors.New("lifecycle: unknown hook point")

	// ErrNilHook is returned by AddHook for a nil callback.
	ErrNilHook = errors.New("lifecycle: nil hook callback")

	// ErrNilInstance is returned by Register for a nil component instance.
	ErrNilInstance = errors.New("lifecycle: nil component instance")
)
