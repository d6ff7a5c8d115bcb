package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCalculation(t *testing.T) {
	m := New()
	m.ObserveCalculation("sap", "", 2*time.Millisecond)
	m.ObserveCalculation("sap", "input", time.Millisecond)
	m.ObserveCalculation("der", "", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("sap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("der")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationErrorsTotal.WithLabelValues("sap", "input")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CalculationErrorsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(m.CalculationDurationSeconds))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveCalculation("fee", "", time.Millisecond)

	path := filepath.Join(t.TempDir(), "sap_calc.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `sap_calc_calculations_total{variant="fee"} 1`)
}
