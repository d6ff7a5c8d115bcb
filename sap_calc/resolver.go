package sap_calc

import (
	"errors"
	"time"
)

// **** Configuration resolver ****
// An ordered pipeline of named stages over one Dwelling. Each stage declares the fields
// it reads and writes; ValidatePipeline checks the order before anything runs.

type Stage struct {
	Name   string
	Reads  []Field
	Writes []Field
	Run    func(d *Dwelling, t *Tables) error
}

/*
ValidatePipeline checks that every field a stage reads is written by an earlier stage
(or is listed in given) and that no field is written by two stages.

	Returns:
	    ErrAssertion naming every violation
*/
func ValidatePipeline(stages []Stage, given ...Field) error {
	var written [numFields]bool
	for _, f := range given {
		written[f] = true
	}
	var errs []error
	for _, s := range stages {
		for _, f := range s.Reads {
			if !written[f] {
				errs = append(errs, assertionErrorf("stage %s reads %s before it is written", s.Name, f))
			}
		}
		for _, f := range s.Writes {
			if written[f] {
				errs = append(errs, assertionErrorf("stage %s writes %s a second time", s.Name, f))
			}
			written[f] = true
		}
	}
	return errors.Join(errs...)
}

// runStages runs the stages whose outputs are not yet present. A stage whose inputs are
// missing is an assertion failure.
func runStages(d *Dwelling, t *Tables, stages []Stage) error {
	for _, s := range stages {
		if len(s.Writes) > 0 && allWritten(d, s.Writes) {
			continue
		}
		for _, f := range s.Reads {
			if !d.Has(f) {
				return &StageError{Stage: s.Name, Err: assertionErrorf("%s not yet written", f)}
			}
		}

		start := time.Now()
		if err := s.Run(d, t); err != nil {
			return &StageError{Stage: s.Name, Err: err}
		}
		d.markWritten(s.Writes...)
		logger.Debug("stage", "name", s.Name, "dwelling", d.Input.Name, "elapsed", time.Since(start))
	}
	return nil
}

func allWritten(d *Dwelling, fs []Field) bool {
	for _, f := range fs {
		if !d.Has(f) {
			return false
		}
	}
	return true
}

// ResolverStages lists the configuration stages in dependency order.
func ResolverStages() []Stage {
	return []Stage{
		{Name: "fuels", Writes: []Field{FieldFuels}, Run: resolveFuels},
		{Name: "occupancy", Writes: []Field{FieldOccupancy}, Run: resolveOccupancy},
		{Name: "climate", Writes: []Field{FieldClimate}, Run: resolveClimate},
		{Name: "ventilation", Reads: []Field{FieldClimate}, Writes: []Field{FieldVentilation}, Run: resolveVentilation},
		{Name: "main_system_1", Reads: []Field{FieldFuels, FieldVentilation}, Writes: []Field{FieldMain1}, Run: resolveMainSystem1},
		{Name: "main_system_2", Reads: []Field{FieldFuels, FieldVentilation, FieldMain1}, Writes: []Field{FieldMain2}, Run: resolveMainSystem2},
		{Name: "secondary_system", Reads: []Field{FieldFuels, FieldMain1}, Writes: []Field{FieldSecondary}, Run: resolveSecondarySystem},
		{Name: "heat_fractions", Reads: []Field{FieldMain1, FieldMain2, FieldSecondary}, Writes: []Field{FieldFractions}, Run: resolveHeatFractions},
		{Name: "water_system", Reads: []Field{FieldFuels, FieldMain1, FieldMain2, FieldSecondary}, Writes: []Field{FieldWaterSystem}, Run: resolveWaterSystem},
		{Name: "water_storage", Reads: []Field{FieldOccupancy, FieldWaterSystem}, Writes: []Field{FieldWaterOutput}, Run: resolveWaterStorage},
		{Name: "controls", Reads: []Field{FieldMain1, FieldMain2, FieldWaterSystem}, Writes: []Field{FieldControls}, Run: resolveControls},
		{Name: "pumps_fans", Reads: []Field{FieldMain1, FieldMain2, FieldSecondary, FieldVentilation}, Writes: []Field{FieldPumpsFans}, Run: resolvePumpsFans},
		{Name: "responsiveness", Reads: []Field{FieldMain1, FieldMain2, FieldSecondary, FieldFractions}, Writes: []Field{FieldResponsiveness}, Run: resolveResponsiveness},
		{Name: "standing_charges", Reads: []Field{FieldFuels, FieldMain1, FieldMain2, FieldSecondary, FieldWaterSystem}, Writes: []Field{FieldStandingCharges}, Run: resolveStandingCharges},
	}
}

//---------------------------------------------------------------------------------------------------//

// ResolvedFuels are the fuels named by the input, with electricity normalised to the
// dwelling's tariff. nil means the slot has no fuel of its own.
type ResolvedFuels struct {
	Tariff    *ElectricityTariff
	Main1     Fuel
	Main2     Fuel
	Secondary Fuel
	Water     Fuel
}

func resolveFuels(d *Dwelling, t *Tables) error {
	in := d.Input
	code := in.ElectricityTariff
	if code == 0 {
		code = StandardTariffCode
	}
	tariff, err := t.Fuels.Tariff(code)
	if err != nil {
		return err
	}

	rf := &ResolvedFuels{Tariff: tariff}
	resolve := func(code int) (Fuel, error) {
		if code == 0 {
			return nil, nil
		}
		f, err := t.Fuels.Lookup(code)
		if err != nil {
			return nil, err
		}
		// electricity is billed on the dwelling's tariff
		if f.IsElectric() {
			return tariff, nil
		}
		return f, nil
	}

	var errs []error
	if rf.Main1, err = resolve(in.MainHeating.Fuel); err != nil {
		errs = append(errs, err)
	}
	if in.MainHeating2 != nil {
		if rf.Main2, err = resolve(in.MainHeating2.Fuel); err != nil {
			errs = append(errs, err)
		}
	}
	if in.Secondary != nil {
		if rf.Secondary, err = resolve(in.Secondary.Fuel); err != nil {
			errs = append(errs, err)
		}
	}
	if rf.Water, err = resolve(in.Water.Fuel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	d.Fuels = rf
	return nil
}

func resolveClimate(d *Dwelling, t *Tables) error {
	r, err := t.Region(d.Input.Region)
	if err != nil {
		return err
	}
	d.Climate = &r
	return nil
}

//---------------------------------------------------------------------------------------------------//

// main heating systems

func resolveMainSystem1(d *Dwelling, t *Tables) error {
	in := &d.Input.MainHeating
	if in.Community != nil {
		c, err := newCommunityFromInput("community heating", in.Community, t.Fuels)
		if err != nil {
			return err
		}
		d.Main1 = c
		return nil
	}
	s, err := newMainSystem(in, d.Fuels.Main1, d, t, true)
	if err != nil {
		return err
	}
	d.Main1 = s
	return nil
}

// resolveMainSystem2 only ever builds from a performance dataset or a table code.
func resolveMainSystem2(d *Dwelling, t *Tables) error {
	in := d.Input.MainHeating2
	if in == nil {
		return nil
	}
	if in.Community != nil || in.CPSU != nil {
		return inputErrorf("main heating 2 cannot be community heating or a CPSU")
	}
	s, err := newMainSystem(in, d.Fuels.Main2, d, t, false)
	if err != nil {
		return err
	}
	d.Main2 = s
	return nil
}

func newMainSystem(in *MainHeatingInput, fuel Fuel, d *Dwelling, t *Tables, allow_cpsu bool) (HeatingSystem, error) {
	if fuel == nil {
		return nil, inputErrorf("main heating has no fuel")
	}

	if in.PerformanceID != "" {
		ds, err := t.Performance(in.PerformanceID)
		if err != nil {
			return nil, err
		}
		return NewPerformanceRatedSystem(ds, fuel, d.Ventilation.H)
	}

	if in.SystemCode == 0 {
		return nil, inputErrorf("main heating needs a system code, performance id or community description")
	}
	rec, err := t.System(in.SystemCode)
	if err != nil {
		return nil, err
	}
	if in.WinterEfficiency != nil {
		rec.WinterEffy = *in.WinterEfficiency
	}
	if in.SummerEfficiency != nil {
		rec.SummerEffy = *in.SummerEfficiency
	}
	s := NewSystemFromRecord(rec, fuel)
	s.props.KeepHotElec = in.KeepHot == "electric"

	switch rec.Kind {
	case KindElectricCPSU:
		if !allow_cpsu {
			return nil, inputErrorf("main heating 2 cannot be a CPSU")
		}
		if in.CPSU == nil {
			return nil, inputErrorf("electric CPSU %d needs store data", rec.Code)
		}
		return NewCPSUSystem(s, *in.CPSU)
	case KindCommunity, KindWaterOnly, KindElectricImmersion:
		return nil, inputErrorf("system code %d (%s) cannot be a main heating system", rec.Code, rec.Kind)
	}
	return s, nil
}

//---------------------------------------------------------------------------------------------------//

// DefaultSecondaryCode is the secondary heater assumed when one is required but not named.
const DefaultSecondaryCode = 693

/*
resolveSecondarySystem creates a secondary system when

	(a) the input names one,
	(b) main system 1 is a storage or off-peak kind that requires one, or
	(c) the input forces one.
*/
func resolveSecondarySystem(d *Dwelling, t *Tables) error {
	in := d.Input
	switch {
	case in.Secondary != nil:
		rec, err := t.System(in.Secondary.SystemCode)
		if err != nil {
			return err
		}
		if rec.Kind != KindRoomHeater && rec.Kind != KindDirectElectric {
			return inputErrorf("system code %d (%s) cannot be a secondary heater", rec.Code, rec.Kind)
		}
		fuel := d.Fuels.Secondary
		if fuel == nil {
			return inputErrorf("secondary heating has no fuel")
		}
		d.Secondary = NewSecondarySystem(rec, fuel)
	case d.Main1.Kind().RequiresSecondary() || in.ForceSecondary:
		rec, err := t.System(DefaultSecondaryCode)
		if err != nil {
			return err
		}
		d.Secondary = NewSecondarySystem(rec, d.Fuels.Tariff)
	}
	return nil
}

// HeatFractions split the space heating requirement between the systems.
type HeatFractions struct {
	Secondary float64 // of the total
	Main      float64 // of the total, 1 - Secondary
	Main2     float64 // of the main heat
}

func (f HeatFractions) Main1Share() float64 { return f.Main * (1 - f.Main2) }
func (f HeatFractions) Main2Share() float64 { return f.Main * f.Main2 }

func resolveHeatFractions(d *Dwelling, _ *Tables) error {
	in := d.Input
	var fr HeatFractions
	if d.HasSecondary() {
		fr.Secondary = d.Main1.Properties().DefaultSecondaryFraction
		if in.SecondaryFraction != nil {
			fr.Secondary = *in.SecondaryFraction
		}
		if fr.Secondary < 0 || fr.Secondary > 1 {
			return inputErrorf("secondary fraction %g outside 0-1", fr.Secondary)
		}
	}
	fr.Main = 1 - fr.Secondary
	if d.HasMain2() {
		fr.Main2 = in.MainHeating2Fraction
		if fr.Main2 <= 0 || fr.Main2 >= 1 {
			return inputErrorf("main heating 2 fraction %g outside (0, 1)", fr.Main2)
		}
	}
	d.Fractions = &fr
	return nil
}

//---------------------------------------------------------------------------------------------------//

// WaterSource is how the dwelling's hot water is provided.
type WaterSource int

const (
	WaterFromTable WaterSource = iota
	WaterFromMain1
	WaterFromMain2
	WaterFromSecondary
	WaterCommunity
	WaterAssumedImmersion
)

func (s WaterSource) String() string {
	return [...]string{"water_heater", "main_1", "main_2", "secondary", "community", "assumed_immersion"}[s]
}

// water heating codes with a special meaning; any other code is a water heater table entry
const (
	WaterCodeFromMain1     = 901
	WaterCodeFromSecondary = 902
	WaterCodeFromMain2     = 914
	WaterCodeCommunity     = 950
	WaterCodeNone          = 999

	assumedImmersionCode = 903
)

type WaterSystem struct {
	Source WaterSource
	System HeatingSystem

	// Terminal is set when no water system exists and an immersion heater is assumed:
	// storage and primary losses are not configured.
	Terminal bool
}

func resolveWaterSystem(d *Dwelling, t *Tables) error {
	w := d.Input.Water
	ws := &WaterSystem{}

	switch w.Code {
	case WaterCodeFromMain1:
		ws.Source, ws.System = WaterFromMain1, d.Main1
	case WaterCodeFromMain2:
		if !d.HasMain2() {
			return inputErrorf("water heating from main system 2 but there is none")
		}
		ws.Source, ws.System = WaterFromMain2, d.Main2
	case WaterCodeFromSecondary:
		if !d.HasSecondary() {
			return inputErrorf("water heating from the secondary system but there is none")
		}
		ws.Source, ws.System = WaterFromSecondary, d.Secondary
	case WaterCodeCommunity:
		if w.Community == nil {
			return inputErrorf("community hot water needs a community description")
		}
		c, err := newCommunityFromInput("community hot water", w.Community, t.Fuels)
		if err != nil {
			return err
		}
		ws.Source, ws.System = WaterCommunity, c
	case WaterCodeNone:
		rec, err := t.WaterHeater(assumedImmersionCode)
		if err != nil {
			return err
		}
		ws.Source = WaterAssumedImmersion
		ws.System = NewWaterOnlySystem(rec.Kind, rec.Name, d.Fuels.Tariff, rec.Effy, SystemProperties{TableCode: rec.Code})
		ws.Terminal = true
	default:
		rec, err := t.WaterHeater(w.Code)
		if err != nil {
			return inputErrorf("unknown water heating code %d", w.Code)
		}
		fuel := d.Fuels.Water
		if fuel == nil {
			if !rec.IsElectric && rec.Kind != KindElectricImmersion {
				return inputErrorf("water heater %d has no fuel", rec.Code)
			}
			fuel = d.Fuels.Tariff
		}
		ws.Source = WaterFromTable
		ws.System = NewWaterOnlySystem(rec.Kind, rec.Name, fuel, rec.Effy, SystemProperties{
			TableCode:       rec.Code,
			SummerImmersion: rec.SummerImmersion,
		})
	}

	d.Water = ws
	return nil
}
