// Package health exposes liveness and readiness endpoints for a lifecycle
// coordinator.
package health

import (
	"fmt"

	"github.com/heptiolabs/healthcheck"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/srediag/plugin-lifecycle/pkg/lifecycle"
)

// PhaseReporter reports the coordinator's current phase.
type PhaseReporter interface {
	CurrentPhase() lifecycle.Phase
}

// Config holds health handler thresholds.
type Config struct {
	// MaxGoroutines fails liveness above this count. 0 disables the check.
	MaxGoroutines int
	// MinAvailableMemory fails liveness when the host has fewer available
	// bytes. 0 disables the check.
	MinAvailableMemory uint64
}

// DefaultConfig returns the default health thresholds.
func DefaultConfig() Config {
	return Config{
		MaxGoroutines:      10000,
		MinAvailableMemory: 64 << 20,
	}
}

// NewHandler builds a healthcheck.Handler whose readiness tracks the
// coordinator phase: ready only while ACTIVE.
func NewHandler(r PhaseReporter, conf Config) healthcheck.Handler {
	h := healthcheck.NewHandler()
	if conf.MaxGoroutines > 0 {
		h.AddLivenessCheck("goroutine-count", healthcheck.GoroutineCountCheck(conf.MaxGoroutines))
	}
	if conf.MinAvailableMemory > 0 {
		h.AddLivenessCheck("memory-headroom", MemoryHeadroomCheck(conf.MinAvailableMemory))
	}
	h.AddReadinessCheck("coordinator-active", func() error {
		if p := r.CurrentPhase(); p != lifecycle.PhaseActive {
			return fmt.Errorf("coordinator not active, phase %s", p)
		}
		return nil
	})
	return h
}

// MemoryHeadroomCheck fails when host available memory drops below min.
func MemoryHeadroomCheck(min uint64) healthcheck.Check {
	return func() error {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return err
		}
		if vm.Available < min {
			return fmt.Errorf("available memory %d below threshold %d", vm.Available, min)
		}
		return nil
	}
}
