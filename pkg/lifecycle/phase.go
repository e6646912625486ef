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

// Phase is one discrete state in the coordinator's lifecycle state machine.
//
//	UNINITIALIZED --init--> INITIALIZING --success--> INITIALIZED --> READY --> ACTIVE
//	INITIALIZING --failure--> ERROR
//	ACTIVE <--resume-- PAUSED <--pause-- ACTIVE
//	any --destroy--> DESTROYING --> DESTROYED (terminal)
//	any --unhandled error--> ERROR
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseInitialized
	PhaseReady
	PhaseActive
	PhasePaused
	PhaseDestroying
	PhaseDestroyed
	PhaseError
)

var phaseNames = []string{
	"UNINITIALIZED",
	"INITIALIZING",
	"INITIALIZED",
	"READY",
	"ACTIVE",
	"PAUSED",
	"DESTROYING",
	"DESTROYED",
	"ERROR",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}
