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

import "fmt"

const (
	markUnvisited = iota
	markVisiting
	markVisited
)

// resolveOrder computes a dependency-respecting order: a depth-first
// postorder over roots, recursing into declared dependencies first. A
// back-edge (revisiting a name currently being visited) is a circular
// dependency and aborts the sort. Names reachable only as dependencies are
// included too; whether they are actually registered is checked later, at
// initialization time.
func resolveOrder(roots []string, deps map[string][]string) ([]string, error) {
	marks := make(map[string]int, len(roots))
	order := make([]string, 0, len(roots))

	var visit func(name string) error
	visit = func(name string) error {
		switch marks[name] {
		case markVisited:
			return nil
		case markVisiting:
			return fmt.Errorf("%w: %q", ErrCircularDependency, name)
		}
		marks[name] = markVisiting
		for _, dep := range deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[name] = markVisited
		order = append(order, name)
		return nil
	}

	for _, name := range roots {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
