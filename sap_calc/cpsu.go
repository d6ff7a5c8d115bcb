package sap_calc

import (
	"math"
)

// **** CPSU ****
// Combined primary storage unit: a thermal store charged mainly off-peak.

type CPSUSystem struct {
	*StandardSystem
	store StoreInput
}

func NewCPSUSystem(base *StandardSystem, store StoreInput) (*CPSUSystem, error) {
	if store.Volume <= 0 {
		return nil, inputErrorf("CPSU store volume must be positive, got %g", store.Volume)
	}
	if store.Temperature <= 48 {
		return nil, inputErrorf("CPSU store temperature must exceed 48C, got %g", store.Temperature)
	}
	return &CPSUSystem{StandardSystem: base, store: store}, nil
}

func (c *CPSUSystem) Store() StoreInput { return c.store }

// Capacity is Cmax, kWh.
func (c *CPSUSystem) Capacity() float64 {
	return 0.1456 * c.store.Volume * (c.store.Temperature - 48)
}

func (c *CPSUSystem) OnPeakFraction(d *Dwelling) (float64, error) {
	return onPeakFraction(c, d)
}

func (c *CPSUSystem) FuelPrice(d *Dwelling) (float64, error) {
	f, err := c.OnPeakFraction(d)
	if err != nil {
		return 0, err
	}
	return c.fuel.Price(f), nil
}

func (c *CPSUSystem) computeOnPeakFraction(d *Dwelling) (float64, error) {
	if d == nil || d.Demand == nil || d.Ventilation == nil || d.Occupancy == nil || d.Climate == nil {
		return 0, assertionErrorf("CPSU on-peak fraction needs demand results")
	}
	dm := d.Demand
	total := dm.HeatRequired.Add(d.Occupancy.EnergyContent)
	f := cpsuOnPeakFractions(
		c.Capacity(),
		d.Ventilation.H,
		dm.MeanTemperature,
		d.Climate.TExternal,
		d.Occupancy.EnergyContent,
		dm.UsefulGain,
		dm.HeatRequired,
	)
	if total.Sum() == 0 {
		return 0, nil
	}
	return f.Dot(total) / total.Sum(), nil
}

/*
cpsuOnPeakFractions computes the monthly on-peak fraction of a CPSU.

	Args:
	    c_max: store capacity, kWh
	    h: heat transfer coefficient, W/K
	    t_mean: mean internal temperature, C
	    t_ext: external temperature, C
	    e_water: hot water energy content, kWh/month
	    useful_gain: useful gains, W
	    q_heat: space heating requirement, kWh/month

	Returns:
	    the fraction in [0, 1]; 0 in the summer months and where there is no demand
*/
func cpsuOnPeakFractions(c_max float64, h, t_mean, t_ext, e_water, useful_gain, q_heat MonthlySeries) MonthlySeries {
	var f MonthlySeries
	for m := range f {
		if IsSummerMonth(m) || h[m] == 0 {
			continue
		}
		nm := DaysInMonth[m]
		t_min := (h[m]*t_mean[m] - 1000*c_max/24 + 1000*e_water[m]/(24*nm) - useful_gain[m]) / h[m]

		dt := t_min - t_ext[m]
		var e_on float64
		if math.Abs(dt) < 1e-3 {
			e_on = 0.024 * h[m] * nm
		} else {
			e_on = 0.024 * h[m] * nm * dt / (1 - math.Exp(-dt))
		}

		demand := q_heat[m] + e_water[m]
		if demand == 0 {
			continue
		}
		f[m] = math.Min(math.Max(e_on/demand, 0), 1)
	}
	return f
}

/*
StoreTemperatureFactor is the temperature factor applied to a CPSU store loss.

	1.08, or 0.89 when the loss was measured; x0.81 with separate timing of the hot water;
	x1.1 when the store is outside an airing cupboard.
*/
func (c *CPSUSystem) StoreTemperatureFactor(separate_timer bool) float64 {
	return cpsuTemperatureFactor(c.store, separate_timer)
}

func cpsuTemperatureFactor(store StoreInput, separate_timer bool) float64 {
	f := 1.08
	if store.MeasuredLoss != nil {
		f = 0.89
	}
	if separate_timer {
		f *= 0.81
	}
	if store.OutsideCupboard {
		f *= 1.1
	}
	return f
}
