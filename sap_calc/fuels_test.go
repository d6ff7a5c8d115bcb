package sap_calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuelLookup(t *testing.T) {
	ft := testTables(t).Fuels

	gas, err := ft.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "mains gas", gas.Name())
	assert.True(t, gas.IsMainsGas())
	assert.False(t, gas.IsElectric())
	assert.Equal(t, 3.48, gas.Price(0))
	assert.Equal(t, 3.48, gas.Price(1))

	// tariff codes resolve to the tariff, not the high-rate fuel
	f, err := ft.Lookup(32)
	require.NoError(t, err)
	tariff, ok := f.(*ElectricityTariff)
	require.True(t, ok)
	assert.Equal(t, TariffSevenHour, tariff.Kind())

	_, err = ft.Lookup(999)
	assert.ErrorIs(t, err, ErrInput)
	_, err = ft.Tariff(1)
	assert.ErrorIs(t, err, ErrInput)

	exported, err := ft.Exported()
	require.NoError(t, err)
	assert.Equal(t, ExportedElectricityCode, exported.Code())

	codes := ft.Codes()
	assert.IsIncreasing(t, codes)
	assert.Contains(t, codes, 60)
}

func TestTariffPrice(t *testing.T) {
	tariff, err := testTables(t).Fuels.Tariff(32)
	require.NoError(t, err)

	assert.Equal(t, 15.29, tariff.Price(1))
	assert.Equal(t, 5.50, tariff.Price(0))
	assert.InDelta(t, 0.9*15.29+0.1*5.50, tariff.Price(0.9), 1e-12)
	assert.Equal(t, 15.0, tariff.StandingCharge())
	assert.Equal(t, 32, tariff.OnPeak().Code())
	assert.Equal(t, 31, tariff.OffPeak().Code())

	std, err := testTables(t).Fuels.Tariff(StandardTariffCode)
	require.NoError(t, err)
	assert.InDelta(t, std.Price(1), std.Price(0.3), 1e-12)
}

func TestLivePrices(t *testing.T) {
	t.Cleanup(func() { SetPreferLivePrices(false) })
	ft := testTables(t).Fuels
	live := ft.WithLivePrices(map[int]float64{1: 5.0, 31: 4.0})

	gas, err := live.Lookup(1)
	require.NoError(t, err)
	tariff, err := live.Tariff(32)
	require.NoError(t, err)

	SetPreferLivePrices(false)
	assert.Equal(t, 3.48, gas.Price(1))
	assert.Equal(t, 5.50, tariff.Price(0))

	SetPreferLivePrices(true)
	assert.True(t, PreferLivePrices())
	assert.Equal(t, 5.0, gas.Price(1))
	assert.Equal(t, 4.0, tariff.Price(0))
	assert.Equal(t, 15.29, tariff.Price(1), "no live price for the high rate")

	// the canonical table is untouched
	orig, err := ft.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, 3.48, orig.Price(1))
}

func TestLivePricesFlowIntoCalculation(t *testing.T) {
	t.Cleanup(func() { SetPreferLivePrices(false) })
	tables := testTables(t)
	live := tables.WithFuels(tables.Fuels.WithLivePrices(map[int]float64{1: 6.96}))
	assert.NotSame(t, tables.Fuels, live.Fuels)

	SetPreferLivePrices(true)
	base := NewDwelling(sampleInput())
	require.NoError(t, RunFullCalculation(base, tables))
	dear := NewDwelling(sampleInput())
	require.NoError(t, RunFullCalculation(dear, live))

	h0 := base.FuelUse.Get(UseHeatingMain)
	h1 := dear.FuelUse.Get(UseHeatingMain)
	assert.InDelta(t, h0.Energy, h1.Energy, 1e-9)
	assert.InDelta(t, 2*h0.Cost, h1.Cost, 1e-9)
	assert.Less(t, dear.Ratings.SAPRating, base.Ratings.SAPRating)
}
