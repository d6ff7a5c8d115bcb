package sap_calc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := DefaultTables()
	require.NoError(t, err)
	return tables
}

func ptr[T any](v T) *T { return &v }

// sampleInput is a semi-detached house with a condensing gas boiler and a cylinder.
func sampleInput() *DwellingInput {
	return &DwellingInput{
		Name:                 "sample",
		TotalFloorArea:       85,
		Volume:               212,
		LivingAreaFraction:   0.3,
		Region:               0,
		ThermalMassParameter: 250,
		FabricHeatLoss:       140,
		Ventilation: VentilationInput{
			Type:         "natural",
			Infiltration: 0.6,
		},
		InternalGains:        Uniform(420),
		ReducedInternalGains: Uniform(360),
		SolarGains:           MonthlySeries{90, 160, 250, 350, 430, 440, 420, 370, 290, 190, 110, 75},
		LightingEnergy:       380,
		ApplianceEnergy:      2600,
		CookingEnergy:        420,
		MainHeating: MainHeatingInput{
			SystemCode:  101,
			Fuel:        1,
			ControlCode: 2106,
		},
		Water: WaterInput{
			Code: WaterCodeFromMain1,
			Cylinder: &StoreInput{
				Volume:         150,
				InsulationType: "factory",
				InsulationMM:   50,
			},
			PipeworkInsulatedFraction: 1,
		},
	}
}

// resolvedDwelling runs the resolver over in.
func resolvedDwelling(t *testing.T, in *DwellingInput) *Dwelling {
	t.Helper()
	d := NewDwelling(in)
	require.NoError(t, ResolveConfiguration(d, testTables(t)))
	return d
}
