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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHook(context.Context, HookEvent) error { return nil }

func TestHookRegistryValidation(t *testing.T) {
	r := newHookRegistry()
	require.ErrorIs(t, r.add("bogus", noopHook, 10), ErrUnknownHookPoint)
	require.ErrorIs(t, r.add(BeforeInit, nil, 10), ErrNilHook)
	require.NoError(t, r.add(BeforeInit, noopHook, 10))
}

func TestHookRegistryPriorityStableOrder(t *testing.T) {
	r := newHookRegistry()
	var order []string
	mk := func(tag string) HookFunc {
		return func(context.Context, HookEvent) error {
			order = append(order, tag)
			return nil
		}
	}
	require.NoError(t, r.add(AfterInit, mk("p30"), 30))
	require.NoError(t, r.add(AfterInit, mk("p10-first"), 10))
	require.NoError(t, r.add(AfterInit, mk("p20"), 20))
	require.NoError(t, r.add(AfterInit, mk("p10-second"), 10))

	for _, e := range r.snapshot(AfterInit) {
		require.NoError(t, e.fn(context.Background(), HookEvent{}))
	}
	assert.Equal(t, []string{"p10-first", "p10-second", "p20", "p30"}, order)
}

func TestHookRegistryReset(t *testing.T) {
	r := newHookRegistry()
	require.NoError(t, r.add(OnError, noopHook, 10))
	r.reset()
	assert.Empty(t, r.snapshot(OnError))
}
