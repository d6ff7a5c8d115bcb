package sap_calc

import (
	"math"
)

// **** Hot water ****

// monthly hot water use factors (Table 1c)
var hotWaterUseFactor = MonthlySeries{1.10, 1.06, 1.02, 0.98, 0.94, 0.90, 0.90, 0.94, 0.98, 1.02, 1.06, 1.10}

// temperature rise of hot water drawn off, K (Table 1d)
var hotWaterTemperatureRise = MonthlySeries{41.2, 41.4, 40.1, 37.6, 36.4, 33.9, 30.4, 33.4, 33.5, 36.3, 39.4, 39.9}

const distributionLossFraction = 0.15

type Occupancy struct {
	N                float64       // assumed occupants
	DailyVolume      float64       // Vd,average, litres/day
	MonthlyVolume    MonthlySeries // litres/day
	EnergyContent    MonthlySeries // kWh/month
	DistributionLoss MonthlySeries // kWh/month
}

// Occupants is the assumed number of occupants for a floor area, m2.
func Occupants(tfa float64) float64 {
	if tfa <= 13.9 {
		return 1
	}
	x := tfa - 13.9
	return 1 + 1.76*(1-math.Exp(-0.000349*x*x)) + 0.0013*x
}

func resolveOccupancy(d *Dwelling, _ *Tables) error {
	in := d.Input
	if in.TotalFloorArea <= 0 {
		return inputErrorf("total floor area must be positive, got %g", in.TotalFloorArea)
	}
	o := &Occupancy{N: Occupants(in.TotalFloorArea)}
	o.DailyVolume = 25*o.N + 36
	if in.LowWaterUse {
		o.DailyVolume *= 0.95
	}
	for m := range o.MonthlyVolume {
		o.MonthlyVolume[m] = hotWaterUseFactor[m] * o.DailyVolume
		o.EnergyContent[m] = 4.190 * o.MonthlyVolume[m] * DaysInMonth[m] * hotWaterTemperatureRise[m] / 3600
	}
	o.DistributionLoss = o.EnergyContent.Scale(distributionLossFraction)
	d.Occupancy = o
	return nil
}

//---------------------------------------------------------------------------------------------------//

type WaterOutput struct {
	StorageLoss MonthlySeries // kWh/month
	PrimaryLoss MonthlySeries
	CombiLoss   MonthlySeries
	Output      MonthlySeries // heat the water system must supply, kWh/month
	Gains       MonthlySeries // W

	StorageTemperatureFactor float64
	SummerImmersion          bool
	KeepHotElectric          bool
}

// cylinderLossFactor is the daily loss per litre of a cylinder, kWh/litre/day.
func cylinderLossFactor(store StoreInput) float64 {
	t := store.InsulationMM
	if store.InsulationType == "jacket" {
		return 0.005 + 1.76/(t+12.8)
	}
	return 0.005 + 0.55/(t+4.0)
}

func volumeFactor(v float64) float64 {
	return math.Pow(120/v, 1.0/3.0)
}

// dailyStoreLoss is the store loss before the temperature factor, kWh/day.
func dailyStoreLoss(store StoreInput) float64 {
	if store.MeasuredLoss != nil {
		return *store.MeasuredLoss
	}
	return store.Volume * cylinderLossFactor(store) * volumeFactor(store.Volume)
}

/*
cylinderTemperatureFactor is the temperature factor of a hot water cylinder.

	0.60; x1.3 without a cylinder thermostat; x0.9 with separate timing of the hot water.
*/
func cylinderTemperatureFactor(has_cylinderstat, separate_timer bool) float64 {
	f := 0.60
	if !has_cylinderstat {
		f *= 1.3
	}
	if separate_timer {
		f *= 0.9
	}
	return f
}

// primaryHours is the daily hours the primary circuit is hot.
func primaryHours(has_cylinderstat, separate_timer bool) float64 {
	switch {
	case has_cylinderstat && separate_timer:
		return 3
	case has_cylinderstat:
		return 5
	default:
		return 11
	}
}

func resolveWaterStorage(d *Dwelling, t *Tables) error {
	in := d.Input
	ws := d.Water
	occ := d.Occupancy
	out := &WaterOutput{}

	props := ws.System.Properties()
	out.SummerImmersion = props.SummerImmersion
	out.KeepHotElectric = props.KeepHotElec

	if !ws.Terminal {
		var has_cylinderstat, separate_timer bool
		separate_timer = in.Water.SeparateTimer
		if rec, ok := waterControl(d, t); ok {
			has_cylinderstat = rec.HasCylinderstat
			separate_timer = separate_timer || rec.SeparateWaterTimer
		}

		kind := ws.System.Kind()
		var daily float64
		switch {
		case kind == KindElectricCPSU || kind == KindGasCPSU:
			store := in.MainHeating.CPSU
			if c, ok := ws.System.(*CPSUSystem); ok {
				s := c.Store()
				store = &s
			}
			if store == nil {
				return inputErrorf("CPSU hot water needs store data")
			}
			out.StorageTemperatureFactor = cpsuTemperatureFactor(*store, separate_timer)
			daily = dailyStoreLoss(*store) * out.StorageTemperatureFactor
		case in.Water.Cylinder != nil:
			if in.Water.Cylinder.Volume <= 0 {
				return inputErrorf("cylinder volume must be positive, got %g", in.Water.Cylinder.Volume)
			}
			out.StorageTemperatureFactor = cylinderTemperatureFactor(has_cylinderstat, separate_timer)
			daily = dailyStoreLoss(*in.Water.Cylinder) * out.StorageTemperatureFactor
		}

		has_primary := in.Water.Cylinder != nil && (kind == KindRegularBoiler || kind.IsHeatPump() ||
			kind == KindMicroCHP || kind == KindElectricBoiler)
		p := in.Water.PipeworkInsulatedFraction
		h := primaryHours(has_cylinderstat, separate_timer)

		fu := math.Min(occ.DailyVolume/100, 1)

		for m := range out.Output {
			nm := DaysInMonth[m]
			out.StorageLoss[m] = daily * nm
			if has_primary {
				out.PrimaryLoss[m] = nm * 14 * ((0.0091*p+0.0245*(1-p))*h + 0.0263)
			}
			if kind == KindCombiBoiler && in.Water.Cylinder == nil {
				switch in.MainHeating.KeepHot {
				case "gas", "electric":
					out.CombiLoss[m] = 900 * nm / 365
				default:
					out.CombiLoss[m] = 600 * fu * nm / 365
				}
			}
		}
	}

	for m := range out.Output {
		e := occ.EnergyContent[m]
		losses := occ.DistributionLoss[m] + out.StorageLoss[m] + out.PrimaryLoss[m]
		out.Output[m] = math.Max(0, 0.85*e+losses+out.CombiLoss[m]-in.Water.Reductions[m])

		gain := 0.25*(0.85*e+out.CombiLoss[m]) + 0.8*losses
		out.Gains[m] = gain * 1000 / (24 * DaysInMonth[m])
	}

	d.WaterOutput = out
	return nil
}

// waterControl is the control record of the main system that heats the water, if any.
func waterControl(d *Dwelling, t *Tables) (ControlRecord, bool) {
	var code int
	switch d.Water.Source {
	case WaterFromMain1:
		code = d.Input.MainHeating.ControlCode
	case WaterFromMain2:
		code = d.Input.MainHeating2.ControlCode
	default:
		return ControlRecord{}, false
	}
	rec, err := t.Control(code)
	if err != nil {
		return ControlRecord{}, false
	}
	return rec, true
}
