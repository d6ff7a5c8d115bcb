package sap_calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type peakStub struct {
	kind SystemKind
	fuel Fuel
}

func (p peakStub) Kind() SystemKind { return p.kind }
func (p peakStub) Fuel() Fuel       { return p.fuel }

func tariffOf(t *testing.T, code int) *ElectricityTariff {
	t.Helper()
	tariff, err := testTables(t).Fuels.Tariff(code)
	require.NoError(t, err)
	return tariff
}

func TestOnPeakDispatchCoversEveryKind(t *testing.T) {
	for _, code := range []int{30, 32, 34, 35} {
		tariff := tariffOf(t, code)
		for k := SystemKind(0); k < numSystemKinds; k++ {
			f, err := onPeakFraction(peakStub{k, tariff}, nil)
			switch k {
			case KindElectricCPSU, KindCommunity:
				// no store data / not billable on a tariff
				assert.ErrorIs(t, err, ErrAssertion, "%s on %s", k, tariff.Kind())
			default:
				require.NoError(t, err, "%s on %s", k, tariff.Kind())
				assert.GreaterOrEqual(t, f, 0.0)
				assert.LessOrEqual(t, f, 1.0)
			}
		}
	}

	_, err := onPeakFraction(peakStub{numSystemKinds, tariffOf(t, 30)}, nil)
	assert.ErrorIs(t, err, ErrAssertion)
	_, err = onPeakFraction(peakStub{KindRegularBoiler, nil}, nil)
	assert.ErrorIs(t, err, ErrAssertion)
}

func TestOnPeakFractions(t *testing.T) {
	seven := tariffOf(t, 32)
	ten := tariffOf(t, 34)
	standard := tariffOf(t, 30)

	tests := []struct {
		kind SystemKind
		fuel Fuel
		want float64
	}{
		{KindOffPeakDirect, seven, 0},
		{KindIntegratedStorage, seven, 0.2},
		{KindIntegratedStorage, ten, 0.5},
		{KindStorageHeater, seven, 0},
		{KindElectricBoiler, seven, 0.9},
		{KindElectricBoiler, ten, 0.5},
		{KindElectricBoiler, standard, 1},
		{KindPerformanceHeatPump, ten, 0.8},
		{KindMicroCHP, standard, 0.8},
		{KindHeatPump, seven, 0.6},
		{KindDirectElectric, seven, 1},
		{KindDirectElectric, ten, 0.5},
		{KindElectricImmersion, standard, 1},
		{KindRegularBoiler, testGas(), 1},
		{KindCommunity, testGas(), 1},
	}
	for _, tt := range tests {
		f, err := onPeakFraction(peakStub{tt.kind, tt.fuel}, nil)
		require.NoError(t, err, tt.kind.String())
		assert.Equal(t, tt.want, f, "%s on %s", tt.kind, tt.fuel.Name())
	}
}

func TestOtherUsesOnPeakFraction(t *testing.T) {
	assert.Equal(t, 0.90, otherUsesOnPeakFraction(TariffSevenHour))
	assert.Equal(t, 0.80, otherUsesOnPeakFraction(TariffTenHour))
	assert.Equal(t, 1.0, otherUsesOnPeakFraction(TariffStandard))
}
