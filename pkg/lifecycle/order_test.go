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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestResolveOrderPlacesDependenciesFirst(t *testing.T) {
	// diamond: D depends on B and C, both depend on A
	roots := []string{"D", "B", "C", "A"}
	deps := map[string][]string{
		"D": {"B", "C"},
		"B": {"A"},
		"C": {"A"},
	}

	order, err := resolveOrder(roots, deps)
	require.NoError(t, err)
	require.Len(t, order, 4)

	seen := make(map[string]int)
	for _, name := range order {
		seen[name]++
	}
	for _, name := range roots {
		assert.Equal(t, 1, seen[name], "name %q should appear exactly once", name)
	}
	for name, dd := range deps {
		for _, dep := range dd {
			assert.Less(t, indexOf(order, dep), indexOf(order, name),
				"dependency %q must come before %q", dep, name)
		}
	}
}

func TestResolveOrderDisconnectedGraph(t *testing.T) {
	order, err := resolveOrder([]string{"x", "y", "z"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, order)
}

func TestResolveOrderIncludesUnlistedDependencies(t *testing.T) {
	order, err := resolveOrder([]string{"a"}, map[string][]string{"a": {"ghost"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost", "a"}, order)
}

func TestResolveOrderDetectsCycle(t *testing.T) {
	_, err := resolveOrder([]string{"A", "B"}, map[string][]string{
		"A": {"B"},
		"B": {"A"},
	})
	require.ErrorIs(t, err, ErrCircularDependency)
}

func TestResolveOrderSelfCycle(t *testing.T) {
	_, err := resolveOrder([]string{"A"}, map[string][]string{"A": {"A"}})
	require.ErrorIs(t, err, ErrCircularDependency)
}
