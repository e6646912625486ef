package health

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/plugin-lifecycle/pkg/lifecycle"
)

type fakeReporter struct {
	phase lifecycle.Phase
}

func (f *fakeReporter) CurrentPhase() lifecycle.Phase { return f.phase }

func TestReadinessTracksPhase(t *testing.T) {
	reporter := &fakeReporter{phase: lifecycle.PhaseInitializing}
	handler := NewHandler(reporter, Config{})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusServiceUnavailable, rw.Code)

	reporter.phase = lifecycle.PhaseActive
	rw = httptest.NewRecorder()
	handler.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
}

func TestLivenessWithDefaults(t *testing.T) {
	handler := NewHandler(&fakeReporter{phase: lifecycle.PhaseActive}, DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
}

func TestMemoryHeadroomCheck(t *testing.T) {
	require.NoError(t, MemoryHeadroomCheck(1)())
	require.Error(t, MemoryHeadroomCheck(math.MaxUint64)())
}
