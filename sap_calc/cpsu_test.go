package sap_calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPSUTemperatureFactor(t *testing.T) {
	store := StoreInput{Volume: 110, Temperature: 85}
	assert.Equal(t, 1.08, cpsuTemperatureFactor(store, false))
	assert.InDelta(t, 1.08*0.81, cpsuTemperatureFactor(store, true), 1e-12)

	store.OutsideCupboard = true
	assert.InDelta(t, 1.08*1.1, cpsuTemperatureFactor(store, false), 1e-12)

	store = StoreInput{Volume: 110, Temperature: 85, MeasuredLoss: ptr(1.2)}
	assert.Equal(t, 0.89, cpsuTemperatureFactor(store, false))
}

func TestNewCPSUSystem(t *testing.T) {
	base := NewStandardSystem(KindElectricCPSU, "cpsu", testGas(), 100, 100, SystemProperties{})
	_, err := NewCPSUSystem(base, StoreInput{Volume: 0, Temperature: 85})
	assert.ErrorIs(t, err, ErrInput)
	_, err = NewCPSUSystem(base, StoreInput{Volume: 110, Temperature: 48})
	assert.ErrorIs(t, err, ErrInput)

	c, err := NewCPSUSystem(base, StoreInput{Volume: 110, Temperature: 85})
	require.NoError(t, err)
	assert.InDelta(t, 0.1456*110*37, c.Capacity(), 1e-9)
}

func TestCPSUOnPeakZeroInSummer(t *testing.T) {
	h := Uniform(250)
	t_mean := Uniform(19)
	t_ext := MonthlySeries{4, 5, 7, 9, 12, 15, 17, 17, 14, 11, 7, 5}
	e_water := Uniform(180)
	gain := Uniform(500)
	q_heat := MonthlySeries{1500, 1200, 1000, 600, 300, 200, 150, 150, 250, 700, 1100, 1400}

	for _, c_max := range []float64{0, 2, 6, 40, 400} {
		f := cpsuOnPeakFractions(c_max, h, t_mean, t_ext, e_water, gain, q_heat)
		for m := range f {
			if IsSummerMonth(m) {
				assert.Zero(t, f[m], "c_max %g month %d", c_max, m)
			} else {
				assert.GreaterOrEqual(t, f[m], 0.0)
				assert.LessOrEqual(t, f[m], 1.0)
			}
		}
	}
}

func TestCPSUOnPeakDegenerateTemperature(t *testing.T) {
	// Tmin == Text: the on-peak energy takes its limit 0.024 h nm
	h := Uniform(100)
	t_ext := Uniform(5)
	t_mean := Uniform(5)
	f := cpsuOnPeakFractions(0, h, t_mean, t_ext, MonthlySeries{}, MonthlySeries{}, Uniform(1000))
	assert.InDelta(t, 0.024*100*31/1000, f[0], 1e-9)
}

func TestCPSUDwelling(t *testing.T) {
	in := sampleInput()
	in.MainHeating = MainHeatingInput{
		SystemCode:  192,
		Fuel:        30,
		ControlCode: 2104,
		CPSU:        &StoreInput{Volume: 110, Temperature: 85, InsulationType: "factory", InsulationMM: 50},
	}
	in.ElectricityTariff = 34
	in.Water = WaterInput{Code: WaterCodeFromMain1}

	d := NewDwelling(in)
	tables := testTables(t)
	require.NoError(t, RunFullCalculation(d, tables))

	cpsu, ok := d.Main1.(*CPSUSystem)
	require.True(t, ok)
	assert.Equal(t, 1.08, d.WaterOutput.StorageTemperatureFactor)
	assert.Positive(t, d.WaterOutput.StorageLoss[0])

	f, err := cpsu.OnPeakFraction(d)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, f, 0.0)
	assert.LessOrEqual(t, f, 1.0)

	price, err := cpsu.FuelPrice(d)
	require.NoError(t, err)
	tariff := d.Fuels.Tariff
	assert.InDelta(t, tariff.Price(f), price, 1e-9)
}

func TestCPSUOnPeakNeedsDemand(t *testing.T) {
	base := NewStandardSystem(KindElectricCPSU, "cpsu", &SimpleFuel{code: 30, is_electric: true}, 100, 100, SystemProperties{})
	c, err := NewCPSUSystem(base, StoreInput{Volume: 110, Temperature: 85})
	require.NoError(t, err)
	_, err = c.OnPeakFraction(NewDwelling(sampleInput()))
	assert.ErrorIs(t, err, ErrAssertion)
}
