package sap_calc

// **** Ventilation ****

type VentilationType int

const (
	VentNatural VentilationType = iota
	VentMEVCentralised
	VentMEVDecentralised
	VentBalanced // balanced without heat recovery
	VentMVHR
	VentPIVOutside // positive input ventilation from outside
)

func (v VentilationType) String() string {
	return [...]string{"natural", "mev_centralised", "mev_decentralised", "balanced", "mvhr", "piv_outside"}[v]
}

func VentilationTypeFromString(s string) (VentilationType, bool) {
	v, ok := map[string]VentilationType{
		"natural":           VentNatural,
		"mev_centralised":   VentMEVCentralised,
		"mev_decentralised": VentMEVDecentralised,
		"balanced":          VentBalanced,
		"mvhr":              VentMVHR,
		"piv_outside":       VentPIVOutside,
	}[s]
	return v, ok
}

func (v VentilationType) IsMechanical() bool {
	return v != VentNatural
}

const (
	defaultMechanicalRate   = 0.5 // ach
	defaultSpecificFanPower = 0.8 // W/(l/s)
)

type Ventilation struct {
	Type         VentilationType
	Infiltration MonthlySeries // wind adjusted, ach
	EffectiveACH MonthlySeries
	HeatLoss     MonthlySeries // ventilation heat loss, W/K
	H            MonthlySeries // heat transfer coefficient, W/K
	HLP          MonthlySeries // heat loss parameter, W/m2K

	MechanicalRate   float64
	SpecificFanPower float64
}

/*
effectiveAirChange is the monthly effective air change rate, ach.

	Args:
	    v: ventilation type
	    n_inf: wind-adjusted infiltration, ach
	    n_mech: mechanical system throughput, ach
	    eta: heat recovery efficiency, 0-1 (MVHR only)
*/
func effectiveAirChange(v VentilationType, n_inf, n_mech, eta float64) float64 {
	switch v {
	case VentMVHR:
		return n_inf + n_mech*(1-eta)
	case VentBalanced:
		return n_inf + n_mech
	case VentMEVCentralised, VentMEVDecentralised, VentPIVOutside:
		if n_inf < 0.5*n_mech {
			return n_mech
		}
		return n_inf + 0.5*n_mech
	default:
		if n_inf >= 1 {
			return n_inf
		}
		return 0.5 + 0.5*n_inf*n_inf
	}
}

func resolveVentilation(d *Dwelling, _ *Tables) error {
	in := d.Input
	vt, ok := VentilationTypeFromString(in.Ventilation.Type)
	if !ok {
		return inputErrorf("unknown ventilation type %q", in.Ventilation.Type)
	}
	if in.Volume <= 0 || in.TotalFloorArea <= 0 {
		return inputErrorf("volume and floor area must be positive")
	}
	if vt == VentMVHR && (in.Ventilation.HeatRecoveryEfficiency < 0 || in.Ventilation.HeatRecoveryEfficiency > 100) {
		return inputErrorf("heat recovery efficiency %g outside 0-100", in.Ventilation.HeatRecoveryEfficiency)
	}

	v := &Ventilation{
		Type:             vt,
		MechanicalRate:   in.Ventilation.MechanicalRate,
		SpecificFanPower: in.Ventilation.SpecificFanPower,
	}
	if vt.IsMechanical() {
		if v.MechanicalRate == 0 {
			v.MechanicalRate = defaultMechanicalRate
		}
		if v.SpecificFanPower == 0 {
			v.SpecificFanPower = defaultSpecificFanPower
		}
	} else {
		v.MechanicalRate = 0
		v.SpecificFanPower = 0
	}
	eta := in.Ventilation.HeatRecoveryEfficiency / 100

	for m := range v.H {
		v.Infiltration[m] = in.Ventilation.Infiltration * d.Climate.WindSpeed[m] / 4
		v.EffectiveACH[m] = effectiveAirChange(vt, v.Infiltration[m], v.MechanicalRate, eta)
		v.HeatLoss[m] = 0.33 * v.EffectiveACH[m] * in.Volume
		v.H[m] = in.FabricHeatLoss + v.HeatLoss[m]
		v.HLP[m] = v.H[m] / in.TotalFloorArea
	}

	d.Ventilation = v
	return nil
}
