package sap_calc

import (
	"math"
)

// **** Ratings ****

const (
	energyCostDeflator = 0.42
	ecfThreshold       = 3.5
)

type Ratings struct {
	ECF        float64 `json:"ecf"` // energy cost factor
	SAPRating  float64 `json:"sap_rating"`
	SAPInteger int     `json:"sap_integer"`
	Band       string  `json:"band"`

	CO2PerM2 float64 `json:"co2_per_m2"` // kg/m2/yr
	PEPerM2  float64 `json:"pe_per_m2"`  // kWh/m2/yr
	FEE      float64 `json:"fee"`        // space heating requirement, kWh/m2/yr
}

// EnergyCostFactor is 0.42 x cost / (TFA + 45).
func EnergyCostFactor(total_cost, tfa float64) float64 {
	return energyCostDeflator * total_cost / (tfa + 45)
}

// SAPRating maps an energy cost factor to the continuous SAP scale.
func SAPRating(ecf float64) float64 {
	if ecf >= ecfThreshold {
		return 117 - 121*math.Log10(ecf)
	}
	return 100 - 13.95*ecf
}

// Band is the letter band of a rounded SAP rating.
func Band(sap int) string {
	switch {
	case sap >= 92:
		return "A"
	case sap >= 81:
		return "B"
	case sap >= 69:
		return "C"
	case sap >= 55:
		return "D"
	case sap >= 39:
		return "E"
	case sap >= 21:
		return "F"
	default:
		return "G"
	}
}

func calculateRatings(d *Dwelling, _ *Tables) error {
	tfa := d.Input.TotalFloorArea
	if tfa <= 0 {
		return inputErrorf("total floor area must be positive, got %g", tfa)
	}
	fu := d.FuelUse

	r := &Ratings{ECF: EnergyCostFactor(fu.TotalCost, tfa)}
	r.SAPRating = SAPRating(r.ECF)
	r.SAPInteger = max(1, int(math.Round(r.SAPRating)))
	r.Band = Band(r.SAPInteger)

	r.CO2PerM2 = fu.Regulated.Emissions / tfa
	r.PEPerM2 = fu.Regulated.PrimaryEnergy / tfa
	r.FEE = d.Demand.HeatRequired.Sum() / tfa

	d.Ratings = r
	return nil
}
