package sap_calc

// **** Fuel accounting ****

// EnergySubtotal is the annual energy (kWh), primary energy (kWh), emissions (kg CO2) and
// cost (£) of one end use.
type EnergySubtotal struct {
	Energy        float64 `json:"energy"`
	PrimaryEnergy float64 `json:"primary_energy"`
	Emissions     float64 `json:"emissions"`
	Cost          float64 `json:"cost"`
}

// NewEnergySubtotal prices energy (kWh) at price (p/kWh) with the given factors.
func NewEnergySubtotal(energy, price, co2, pe float64) EnergySubtotal {
	return EnergySubtotal{
		Energy:        energy,
		PrimaryEnergy: energy * pe,
		Emissions:     energy * co2,
		Cost:          energy * price / 100,
	}
}

func (s EnergySubtotal) Add(o EnergySubtotal) EnergySubtotal {
	return EnergySubtotal{
		Energy:        s.Energy + o.Energy,
		PrimaryEnergy: s.PrimaryEnergy + o.PrimaryEnergy,
		Emissions:     s.Emissions + o.Emissions,
		Cost:          s.Cost + o.Cost,
	}
}

// EndUse labels a subtotal.
type EndUse string

const (
	UseHeatingMain           EndUse = "heating_main"
	UseHeatingMain2          EndUse = "heating_main_2"
	UseHeatingSecondary      EndUse = "heating_secondary"
	UseWater                 EndUse = "water"
	UseWaterSummerImmersion  EndUse = "water_summer_immersion"
	UseWaterKeepHot          EndUse = "water_keep_hot"
	UsePumpsFans             EndUse = "pumps_fans"
	UseLighting              EndUse = "lighting"
	UseCooling               EndUse = "cooling"
	UseMechVentFans          EndUse = "mech_vent_fans"
	UseAppliances            EndUse = "appliances"
	UseCooking               EndUse = "cooking"
	UsePV                    EndUse = "pv"
	UseWind                  EndUse = "wind"
	UseHydro                 EndUse = "hydro"
	UseCHPGeneration         EndUse = "chp_generation"
	UseCommunityElecCredit   EndUse = "community_elec_credit"
	UseCommunityDistribution EndUse = "community_distribution"
	UseNegativeEmissions     EndUse = "negative_emissions_correction"
)

// Regulated is false for cooking, mechanical ventilation fans and appliances.
func (u EndUse) Regulated() bool {
	switch u {
	case UseCooking, UseMechVentFans, UseAppliances:
		return false
	}
	return true
}

type FuelUse struct {
	Subtotals map[EndUse]EnergySubtotal `json:"subtotals"`
	Order     []EndUse                  `json:"order"`

	Regulated   EnergySubtotal `json:"regulated"`
	Unregulated EnergySubtotal `json:"unregulated"`
	Offset      EnergySubtotal `json:"offset"` // end uses with negative energy
	Total       EnergySubtotal `json:"total"`

	StandingCharges float64 `json:"standing_charges"`
	// regulated cost plus standing charges, £
	TotalCost float64 `json:"total_cost"`
}

func newFuelUse() *FuelUse {
	return &FuelUse{Subtotals: map[EndUse]EnergySubtotal{}}
}

// Add records a subtotal. A label seen twice accumulates.
func (fu *FuelUse) Add(u EndUse, s EnergySubtotal) {
	if _, ok := fu.Subtotals[u]; !ok {
		fu.Order = append(fu.Order, u)
	}
	fu.Subtotals[u] = fu.Subtotals[u].Add(s)

	if u.Regulated() {
		fu.Regulated = fu.Regulated.Add(s)
	} else {
		fu.Unregulated = fu.Unregulated.Add(s)
	}
	if s.Energy < 0 {
		fu.Offset = fu.Offset.Add(s)
	}
	fu.Total = fu.Total.Add(s)
}

func (fu *FuelUse) Get(u EndUse) EnergySubtotal {
	return fu.Subtotals[u]
}

//---------------------------------------------------------------------------------------------------//

func systemSubtotal(d *Dwelling, s HeatingSystem, energy float64) (EnergySubtotal, error) {
	price, err := s.FuelPrice(d)
	if err != nil {
		return EnergySubtotal{}, err
	}
	return NewEnergySubtotal(energy, price, s.CO2Factor(), s.PrimaryEnergyFactor()), nil
}

func fuelSubtotal(f Fuel, on_peak, energy float64) EnergySubtotal {
	return NewEnergySubtotal(energy, f.Price(on_peak), f.CO2Factor(), f.PrimaryEnergyFactor())
}

/*
calculateFuelUse turns the delivered energy of every end use into subtotals.

	Generation (PV, wind, hydro, micro-CHP) is entered as negative energy valued at the
	exported electricity fuel. Community heating adds the CHP electricity credit and the
	distribution pumping electricity; when the network's emissions net negative a
	correction cancels them.
*/
func calculateFuelUse(d *Dwelling, t *Tables) error {
	in := d.Input
	dm := d.Demand
	fu := newFuelUse()

	tariff := d.Fuels.Tariff
	other := otherUsesOnPeakFraction(tariff.Kind())
	exported, err := t.Fuels.Exported()
	if err != nil {
		return err
	}

	type systemUse struct {
		use    EndUse
		system HeatingSystem
		energy float64
	}
	uses := []systemUse{{UseHeatingMain, d.Main1, dm.FuelMain1.Sum()}}
	if d.HasMain2() {
		uses = append(uses, systemUse{UseHeatingMain2, d.Main2, dm.FuelMain2.Sum()})
	}
	if d.HasSecondary() {
		uses = append(uses, systemUse{UseHeatingSecondary, d.Secondary, dm.FuelSecondary.Sum()})
	}
	uses = append(uses, systemUse{UseWater, d.Water.System, dm.WaterFuel.Sum()})

	for _, u := range uses {
		s, err := systemSubtotal(d, u.system, u.energy)
		if err != nil {
			return err
		}
		fu.Add(u.use, s)
	}

	if e := dm.WaterSummerImmersion.Sum(); e > 0 {
		fu.Add(UseWaterSummerImmersion, fuelSubtotal(tariff, tariffDefault(tariff.Kind()), e))
	}
	if e := dm.WaterKeepHot.Sum(); e > 0 {
		fu.Add(UseWaterKeepHot, fuelSubtotal(tariff, other, e))
	}

	fu.Add(UsePumpsFans, fuelSubtotal(tariff, other, d.PumpsFans.Electricity))
	fu.Add(UseLighting, fuelSubtotal(tariff, other, in.LightingEnergy))
	if in.CoolingEnergy > 0 {
		fu.Add(UseCooling, fuelSubtotal(tariff, other, in.CoolingEnergy))
	}
	if d.PumpsFans.MechVentFans > 0 {
		fu.Add(UseMechVentFans, fuelSubtotal(tariff, other, d.PumpsFans.MechVentFans))
	}
	fu.Add(UseAppliances, fuelSubtotal(tariff, other, in.ApplianceEnergy))
	fu.Add(UseCooking, fuelSubtotal(tariff, other, in.CookingEnergy))

	for _, g := range []struct {
		use    EndUse
		energy float64
	}{
		{UsePV, in.PVGeneration},
		{UseWind, in.WindGeneration},
		{UseHydro, in.HydroGeneration},
		{UseCHPGeneration, microCHPGeneration(d)},
	} {
		if g.energy > 0 {
			fu.Add(g.use, fuelSubtotal(exported, 1, -g.energy))
		}
	}

	addCommunity(d, t.Community, fu)

	fu.StandingCharges = d.StandingCharges
	fu.TotalCost = fu.Regulated.Cost + fu.StandingCharges
	d.FuelUse = fu
	return nil
}

// microCHPGeneration is the electricity generated by performance-rated micro-CHP, kWh/yr.
func microCHPGeneration(d *Dwelling) float64 {
	dm := d.Demand
	var gen float64
	check := func(s HeatingSystem, fuel float64) {
		if p, ok := s.(*PerformanceRatedSystem); ok && p.Kind() == KindMicroCHP {
			gen += fuel * p.ElectricalEfficiency() / 100
		}
	}
	check(d.Main1, dm.FuelMain1.Sum())
	if d.HasMain2() {
		check(d.Main2, dm.FuelMain2.Sum())
	}
	check(d.Water.System, dm.WaterFuel.Sum())
	return gen
}

func addCommunity(d *Dwelling, k CommunityConstants, fu *FuelUse) {
	dm := d.Demand
	type network struct {
		c    *CommunityHeating
		heat float64 // kWh leaving the plant
	}
	var networks []network
	var net float64

	if c, ok := d.Main1.(*CommunityHeating); ok {
		networks = append(networks, network{c, dm.FuelMain1.Sum()})
		net += fu.Get(UseHeatingMain).Emissions
	}
	if c, ok := d.Water.System.(*CommunityHeating); ok {
		networks = append(networks, network{c, dm.WaterFuel.Sum()})
		net += fu.Get(UseWater).Emissions
	}
	if len(networks) == 0 {
		return
	}

	var credit, distribution float64
	for _, n := range networks {
		credit += n.c.CHPElectricityCredit(n.heat)
		distribution += k.DistributionElecFraction * n.heat
	}
	if credit != 0 {
		s := EnergySubtotal{
			Energy:        credit,
			PrimaryEnergy: credit * k.CHPCreditPE,
			Emissions:     credit * k.CHPCreditCO2,
			Cost:          credit * k.CHPCreditPrice / 100,
		}
		fu.Add(UseCommunityElecCredit, s)
		net += s.Emissions
	}
	s := EnergySubtotal{
		Energy:        distribution,
		PrimaryEnergy: distribution * k.DistributionElecPE,
		Emissions:     distribution * k.DistributionElecCO2,
		Cost:          distribution * k.DistributionElecPrice / 100,
	}
	fu.Add(UseCommunityDistribution, s)
	net += s.Emissions

	if net < 0 {
		fu.Add(UseNegativeEmissions, EnergySubtotal{Emissions: -net})
	}
}
