package sap_calc

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// **** Community heating ****
// A heat network fed by one or more boilers (any fuel) and at most one CHP plant.

// HeatSource is one plant of a heat network.
type HeatSource struct {
	Fuel        Fuel
	Fraction    float64 // share of the heat supplied
	Efficiency  float64 // %, total (heat + power) efficiency for CHP
	IsCHP       bool
	HeatToPower float64 // CHP only
}

// HeatEfficiency is the heat-only efficiency of the source, %.
func (s HeatSource) HeatEfficiency() float64 {
	if s.IsCHP {
		return s.Efficiency * s.HeatToPower / (1 + s.HeatToPower)
	}
	return s.Efficiency
}

type CommunityHeating struct {
	systemBase
	sources                  []HeatSource
	chp                      *HeatSource
	charging_factor          float64
	distribution_loss_factor float64
	boiler_effy              float64
}

const fractionTolerance = 1e-6

/*
NewCommunityHeating validates and aggregates the heat sources of a network.

	Args:
	    sources: the plants, fractions summing to 1
	    charging_factor: heat charging factor, 0 = 1
	    distribution_loss_factor: distribution loss factor, 0 = 1

	Returns:
	    ErrAssertion for more than one CHP plant or fractions not summing to 1,
	    ErrInput for non-positive efficiencies or heat-to-power ratios.
*/
func NewCommunityHeating(name string, sources []HeatSource, charging_factor, distribution_loss_factor float64) (*CommunityHeating, error) {
	if len(sources) == 0 {
		return nil, inputErrorf("community heating %q has no heat sources", name)
	}

	c := &CommunityHeating{
		systemBase: systemBase{
			kind: KindCommunity,
			name: name,
			props: SystemProperties{
				IsCommunity:    true,
				Responsiveness: 1,
			},
		},
		sources:                  sources,
		charging_factor:          charging_factor,
		distribution_loss_factor: distribution_loss_factor,
	}
	if c.charging_factor == 0 {
		c.charging_factor = 1
	}
	if c.distribution_loss_factor == 0 {
		c.distribution_loss_factor = 1
	}

	var total float64
	var fractions, effys []float64
	for i := range sources {
		s := &sources[i]
		if s.Fuel == nil {
			return nil, inputErrorf("community heat source %d has no fuel", i)
		}
		if s.Efficiency <= 0 {
			return nil, inputErrorf("community heat source %d efficiency must be positive, got %g", i, s.Efficiency)
		}
		total += s.Fraction
		if s.IsCHP {
			if c.chp != nil {
				return nil, assertionErrorf("community heating %q has more than one CHP source", name)
			}
			if s.HeatToPower <= 0 {
				return nil, inputErrorf("CHP heat-to-power ratio must be positive, got %g", s.HeatToPower)
			}
			c.chp = s
			continue
		}
		if c.fuel == nil {
			c.fuel = s.Fuel
		}
		fractions = append(fractions, s.Fraction)
		effys = append(effys, s.Efficiency)
	}
	if math.Abs(total-1) > fractionTolerance {
		return nil, assertionErrorf("community heat source fractions sum to %g", total)
	}
	if c.fuel == nil {
		c.fuel = c.chp.Fuel
	}

	// Σf / Σ(f/e)
	if len(fractions) > 0 {
		c.boiler_effy = stat.HarmonicMean(effys, fractions)
	}
	return c, nil
}

func (c *CommunityHeating) BoilerEfficiency() float64 { return c.boiler_effy }
func (c *CommunityHeating) HasCHP() bool              { return c.chp != nil }

// CHPFraction is the share of the network heat supplied by CHP.
func (c *CommunityHeating) CHPFraction() float64 {
	if c.chp == nil {
		return 0
	}
	return c.chp.Fraction
}

func (c *CommunityHeating) HeatToPower() float64 {
	if c.chp == nil {
		return 0
	}
	return c.chp.HeatToPower
}

// CHPElectricityCredit is the electricity (kWh, negative) generated by the CHP plant while
// supplying heat_from_plant kWh of network heat.
func (c *CommunityHeating) CHPElectricityCredit(heat_from_plant float64) float64 {
	if c.chp == nil {
		return 0
	}
	return -heat_from_plant * c.chp.Fraction / c.chp.HeatToPower
}

// Efficiency is the value reported for both space and water heating. The plant
// efficiencies are carried by the emission and primary energy factors instead.
func (c *CommunityHeating) Efficiency() float64 {
	return 100 / (c.charging_factor * c.distribution_loss_factor)
}

func (c *CommunityHeating) SpaceHeatEfficiency(HeatDemand, Adjustment) (MonthlySeries, error) {
	return Uniform(c.Efficiency()), nil
}

func (c *CommunityHeating) WaterHeatEfficiency(HeatDemand, Adjustment) (MonthlySeries, error) {
	return Uniform(c.Efficiency()), nil
}

// blend is the fraction-weighted (CO2, primary energy, price) of the network, per kWh of
// heat leaving the plant.
func (c *CommunityHeating) blend() (co2, pe, price float64) {
	n := len(c.sources)
	factors := mat.NewDense(3, n, nil)
	weights := mat.NewVecDense(n, nil)
	for i, s := range c.sources {
		e := s.HeatEfficiency()
		factors.Set(0, i, s.Fuel.CO2Factor()*100/e)
		factors.Set(1, i, s.Fuel.PrimaryEnergyFactor()*100/e)
		factors.Set(2, i, s.Fuel.Price(1))
		weights.SetVec(i, s.Fraction)
	}
	var r mat.VecDense
	r.MulVec(factors, weights)
	return r.AtVec(0), r.AtVec(1), r.AtVec(2)
}

func (c *CommunityHeating) CO2Factor() float64 {
	co2, _, _ := c.blend()
	return co2
}

func (c *CommunityHeating) PrimaryEnergyFactor() float64 {
	_, pe, _ := c.blend()
	return pe
}

func (c *CommunityHeating) FuelPrice(*Dwelling) (float64, error) {
	_, _, price := c.blend()
	return price, nil
}

// newCommunityFromInput resolves the fuel codes of a community heating description.
func newCommunityFromInput(name string, in *CommunityInput, fuels *FuelTable) (*CommunityHeating, error) {
	sources := make([]HeatSource, 0, len(in.Sources))
	for _, s := range in.Sources {
		f, err := fuels.Lookup(s.Fuel)
		if err != nil {
			return nil, err
		}
		sources = append(sources, HeatSource{
			Fuel:        f,
			Fraction:    s.Fraction,
			Efficiency:  s.Efficiency,
			IsCHP:       s.IsCHP,
			HeatToPower: s.HeatToPower,
		})
	}
	return NewCommunityHeating(name, sources, in.ChargingFactor, in.DistributionLossFactor)
}
