package sap_calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyCostFactor(t *testing.T) {
	assert.InDelta(t, 0.42*650/(85+45), EnergyCostFactor(650, 85), 1e-12)
	assert.Zero(t, EnergyCostFactor(0, 85))
}

func TestSAPRating(t *testing.T) {
	assert.Equal(t, 100.0, SAPRating(0))
	assert.InDelta(t, 100-13.95*2, SAPRating(2), 1e-12)
	assert.InDelta(t, 117-121*math.Log10(4), SAPRating(4), 1e-12)
	// the two branches nearly meet at the threshold
	assert.InDelta(t, SAPRating(3.5-1e-9), SAPRating(3.5), 0.2)
	assert.Negative(t, SAPRating(100))
}

func TestBand(t *testing.T) {
	tests := []struct {
		sap  int
		band string
	}{
		{120, "A"}, {92, "A"}, {91, "B"}, {81, "B"}, {80, "C"}, {69, "C"}, {68, "D"},
		{55, "D"}, {54, "E"}, {39, "E"}, {38, "F"}, {21, "F"}, {20, "G"}, {1, "G"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, Band(tt.sap), "sap %d", tt.sap)
	}
}

func TestCalculateRatings(t *testing.T) {
	d := fullCalculation(t, sampleInput())
	r := d.Ratings
	fu := d.FuelUse

	assert.InDelta(t, EnergyCostFactor(fu.TotalCost, 85), r.ECF, 1e-12)
	assert.Equal(t, SAPRating(r.ECF), r.SAPRating)
	assert.Equal(t, int(math.Round(r.SAPRating)), r.SAPInteger)
	assert.Equal(t, Band(r.SAPInteger), r.Band)
	assert.InDelta(t, fu.Regulated.Emissions/85, r.CO2PerM2, 1e-12)
	assert.InDelta(t, fu.Regulated.PrimaryEnergy/85, r.PEPerM2, 1e-12)
	assert.InDelta(t, d.Demand.HeatRequired.Sum()/85, r.FEE, 1e-12)

	assert.Greater(t, r.SAPInteger, 40)
	assert.Less(t, r.SAPInteger, 100)
}

func TestRatingsFloorAtOne(t *testing.T) {
	d := &Dwelling{
		Input:   &DwellingInput{TotalFloorArea: 10},
		Demand:  &Demand{},
		FuelUse: &FuelUse{TotalCost: 1e6},
	}
	require.NoError(t, calculateRatings(d, nil))
	assert.Equal(t, 1, d.Ratings.SAPInteger)
	assert.Equal(t, "G", d.Ratings.Band)

	d.Input.TotalFloorArea = 0
	assert.ErrorIs(t, calculateRatings(d, nil), ErrInput)
}
