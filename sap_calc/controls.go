package sap_calc

// **** Controls, pumps and fans, responsiveness, standing charges ****

type Controls struct {
	Main1 ControlRecord
	Main2 ControlRecord // zero when there is no main system 2

	Adjust1     Adjustment
	Adjust2     Adjustment
	WaterAdjust Adjustment

	// added to the mean internal temperature, K
	TemperatureAdjustment float64
}

// ControlType2 is the control type governing the rest of the dwelling when main system 2
// heats a separate area.
func (c *Controls) ControlType2() int {
	if c.Main2.Code != 0 {
		return c.Main2.ControlType
	}
	return c.Main1.ControlType
}

func resolveControls(d *Dwelling, t *Tables) error {
	in := d.Input
	c := &Controls{Adjust1: NoAdjustment, Adjust2: NoAdjustment, WaterAdjust: NoAdjustment}

	rec1, err := t.Control(in.MainHeating.ControlCode)
	if err != nil {
		return err
	}
	c.Main1 = rec1
	c.Adjust1 = efficiencyAdjustment(t, d.Main1, &in.MainHeating, rec1, d.Water.Source == WaterFromMain1 && in.Water.Cylinder != nil)

	if d.HasMain2() {
		rec2, err := t.Control(in.MainHeating2.ControlCode)
		if err != nil {
			return err
		}
		c.Main2 = rec2
		c.Adjust2 = efficiencyAdjustment(t, d.Main2, in.MainHeating2, rec2, d.Water.Source == WaterFromMain2 && in.Water.Cylinder != nil)
	}

	switch d.Water.Source {
	case WaterFromMain1:
		c.WaterAdjust = c.Adjust1
	case WaterFromMain2:
		c.WaterAdjust = c.Adjust2
	}

	c.TemperatureAdjustment = rec1.TempAdjustment + in.TemperatureAdjustment
	d.Controls = c
	return nil
}

/*
efficiencyAdjustment combines the rows of the four adjustment tables that apply to a
main system.

	boiler_interlock:   wet boilers without interlock, or without a cylinder thermostat
	condensing_emitter: condensing boilers with underfloor emitters or a compensator
	heat_pump_emitter:  heat pumps, by emitter type
	heat_pump_control:  heat pumps without interlock, or without a cylinder thermostat
*/
func efficiencyAdjustment(t *Tables, s HeatingSystem, in *MainHeatingInput, rec ControlRecord, heats_cylinder bool) Adjustment {
	adj := NoAdjustment
	apply := func(table AdjustmentTable, key string) {
		if a, ok := t.Adjustment(table, key); ok {
			adj = adj.Then(a)
		}
	}

	kind := s.Kind()
	switch {
	case kind.IsBoiler():
		if !rec.HasInterlock {
			apply(AdjBoilerInterlock, "no_interlock")
		} else if heats_cylinder && !rec.HasCylinderstat {
			apply(AdjBoilerInterlock, "no_cylinderstat")
		}
		if s.Properties().Condensing {
			if in.Emitter == "underfloor" {
				apply(AdjCondensingEmitter, "underfloor")
			}
			if in.Compensator != "" {
				apply(AdjCondensingEmitter, in.Compensator)
			}
		}
	case kind.IsHeatPump():
		emitter := in.Emitter
		if emitter == "" {
			emitter = "radiators"
		}
		apply(AdjHeatPumpEmitter, emitter)
		if !rec.HasInterlock {
			apply(AdjHeatPumpControl, "no_interlock")
		} else if heats_cylinder && !rec.HasCylinderstat {
			apply(AdjHeatPumpControl, "no_cylinderstat")
		}
	}
	return adj
}

//---------------------------------------------------------------------------------------------------//

// annual electricity of pumps and fans, kWh/yr
const (
	chPumpEnergy         = 120
	oilPumpEnergy        = 100
	flueFanEnergy        = 45
	warmAirFanPerVolume  = 0.6 // kWh/m3
	mechVentEnergyFactor = 1.22
)

// gains of pumps in the heating season, W
const (
	chPumpGain  = 10
	oilPumpGain = 10
)

type PumpsFans struct {
	Electricity  float64       // regulated pumps and fans, kWh/yr
	MechVentFans float64       // kWh/yr
	Gains        MonthlySeries // W
}

func resolvePumpsFans(d *Dwelling, _ *Tables) error {
	pf := &PumpsFans{}
	var pump_gain float64

	for _, s := range []HeatingSystem{d.Main1, d.Main2, d.Secondary} {
		if s == nil {
			continue
		}
		p := s.Properties()
		if p.HasCHPump {
			pf.Electricity += chPumpEnergy
			pump_gain += chPumpGain
		}
		if p.HasOilPump {
			pf.Electricity += oilPumpEnergy
			pump_gain += oilPumpGain
		}
		if p.HasFlueFan {
			pf.Electricity += flueFanEnergy
		}
		if p.HasWarmAirFan {
			pf.Electricity += warmAirFanPerVolume * d.Input.Volume
		}
	}

	v := d.Ventilation
	if v.Type.IsMechanical() {
		pf.MechVentFans = v.SpecificFanPower * mechVentEnergyFactor * d.Input.Volume
	}

	for m := range pf.Gains {
		if !IsSummerMonth(m) {
			pf.Gains[m] = pump_gain
		}
	}
	d.PumpsFans = pf
	return nil
}

// resolveResponsiveness weights each system's responsiveness by its share of the heat.
func resolveResponsiveness(d *Dwelling, _ *Tables) error {
	fr := d.Fractions
	r := fr.Main1Share() * d.Main1.Properties().Responsiveness
	if d.HasMain2() {
		r += fr.Main2Share() * d.Main2.Properties().Responsiveness
	}
	if d.HasSecondary() {
		r += fr.Secondary * d.Secondary.Properties().Responsiveness
	}
	d.Responsiveness = r
	return nil
}

// resolveStandingCharges adds the standing charge of each distinct fuel in use, £/yr.
func resolveStandingCharges(d *Dwelling, _ *Tables) error {
	seen := map[int]bool{}
	var total float64
	add := func(f Fuel) {
		if f == nil || seen[f.Code()] {
			return
		}
		seen[f.Code()] = true
		total += f.StandingCharge()
	}

	for _, s := range []HeatingSystem{d.Main1, d.Main2, d.Secondary, d.Water.System} {
		if s != nil {
			add(s.Fuel())
		}
	}
	d.StandingCharges = total
	return nil
}
