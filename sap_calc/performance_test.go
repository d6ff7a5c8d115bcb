package sap_calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hForPSR is the uniform heat transfer coefficient giving the wanted PSR for output_kw.
func hForPSR(output_kw, psr float64) MonthlySeries {
	return Uniform(output_kw * 1000 / (psr * 24.2))
}

func TestPlantSizeRatio(t *testing.T) {
	psr, err := PlantSizeRatio(8, Uniform(200))
	require.NoError(t, err)
	assert.InDelta(t, 8000/(200*24.2), psr, 1e-12)

	_, err = PlantSizeRatio(8, MonthlySeries{})
	assert.ErrorIs(t, err, ErrInput)
}

func TestPerformanceInterpolation(t *testing.T) {
	ds, err := testTables(t).Performance("HP-100001")
	require.NoError(t, err)

	effy, err := ds.SpaceEfficiency(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 240, effy, 1e-9)

	effy, err = ds.SpaceEfficiency(0.65)
	require.NoError(t, err)
	assert.InDelta(t, 255, effy, 1e-9)

	n16, n9, err := ds.LongerHeatingDays(0.35)
	require.NoError(t, err)
	assert.InDelta(t, 40, n16, 1e-9)
	assert.InDelta(t, 70, n9, 1e-9)
}

func TestPerformanceOutOfRange(t *testing.T) {
	ds, err := testTables(t).Performance("HP-100001")
	require.NoError(t, err)

	for _, psr := range []float64{0.1, 2.01} {
		_, err := ds.SpaceEfficiency(psr)
		assert.ErrorIs(t, err, ErrPSROutOfRange)
		assert.ErrorIs(t, err, ErrInput)
	}

	_, err = NewPerformanceRatedSystem(ds, testGas(), hForPSR(ds.OutputKW, 5))
	assert.ErrorIs(t, err, ErrPSROutOfRange)
}

func TestPerformanceHeatPump(t *testing.T) {
	ds, err := testTables(t).Performance("HP-100001")
	require.NoError(t, err)
	s, err := NewPerformanceRatedSystem(ds, testGas(), hForPSR(ds.OutputKW, 0.8))
	require.NoError(t, err)

	assert.Equal(t, KindPerformanceHeatPump, s.Kind())
	assert.InDelta(t, 0.8, s.PSR(), 1e-9)
	space, err := s.SpaceHeatEfficiency(HeatDemand{}, NoAdjustment)
	require.NoError(t, err)
	assert.InDelta(t, 270, space[0], 1e-9)

	water, err := s.WaterHeatEfficiency(HeatDemand{}, Adjustment{SpaceMult: 1, WaterMult: 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 180*0.9, water[0], 1e-9)

	n16, n9 := s.LongerHeatingDays()
	assert.InDelta(t, 0, n16, 1e-9)
	assert.InDelta(t, 10, n9, 1e-9)
}

func TestPerformanceMicroCHP(t *testing.T) {
	ds, err := testTables(t).Performance("CHP-200001")
	require.NoError(t, err)
	s, err := NewPerformanceRatedSystem(ds, testGas(), hForPSR(ds.OutputKW, 1.0))
	require.NoError(t, err)

	assert.Equal(t, KindMicroCHP, s.Kind())
	assert.InDelta(t, 13, s.ElectricalEfficiency(), 1e-9)

	q := HeatDemand{Space: MonthlySeries{1000}, Water: Uniform(200)}
	water, err := s.WaterHeatEfficiency(q, NoAdjustment)
	require.NoError(t, err)
	assert.InDelta(t, 1200/(1000/82.0+200/71.0), water[0], 1e-9)
	assert.InDelta(t, 71, water[6], 1e-9)
}

func TestPerformanceDatasetValidation(t *testing.T) {
	_, err := newPerformanceDataset("x", "x", KindPerformanceHeatPump, 5, 150, []performancePointRow{{PSR: 1}})
	assert.ErrorIs(t, err, ErrInput)

	_, err = newPerformanceDataset("x", "x", KindPerformanceHeatPump, 5, 150, []performancePointRow{{PSR: 1}, {PSR: 1}})
	assert.ErrorIs(t, err, ErrInput)

	_, err = testTables(t).Performance("missing")
	assert.ErrorIs(t, err, ErrInput)
}
