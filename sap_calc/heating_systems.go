package sap_calc

// **** Heating systems ****
// One capability set (HeatingSystem) over a closed set of technology kinds.

// SystemKind is the technology of a heating system.
type SystemKind int

const (
	KindRegularBoiler SystemKind = iota
	KindCombiBoiler
	KindGasCPSU
	KindElectricBoiler
	KindElectricCPSU
	KindStorageHeater
	KindIntegratedStorage
	KindOffPeakDirect
	KindDirectElectric
	KindHeatPump
	KindPerformanceHeatPump
	KindMicroCHP
	KindWarmAir
	KindRoomHeater
	KindCommunity
	KindWaterOnly
	KindElectricImmersion

	numSystemKinds
)

var systemKindNames = [...]string{
	"regular_boiler",
	"combi_boiler",
	"gas_cpsu",
	"electric_boiler",
	"electric_cpsu",
	"storage_heater",
	"integrated_storage",
	"off_peak_direct",
	"direct_electric",
	"heat_pump",
	"performance_heat_pump",
	"micro_chp",
	"warm_air",
	"room_heater",
	"community",
	"water_only",
	"electric_immersion",
}

func (k SystemKind) String() string {
	if k < 0 || k >= numSystemKinds {
		return "unknown"
	}
	return systemKindNames[k]
}

func SystemKindFromString(s string) (SystemKind, bool) {
	for i, n := range systemKindNames {
		if n == s {
			return SystemKind(i), true
		}
	}
	return 0, false
}

// IsBoiler reports whether the kind is a wet boiler whose controls use the boiler tables.
func (k SystemKind) IsBoiler() bool {
	return k == KindRegularBoiler || k == KindCombiBoiler || k == KindGasCPSU
}

// IsHeatPump covers table and performance-rated heat pumps.
func (k SystemKind) IsHeatPump() bool {
	return k == KindHeatPump || k == KindPerformanceHeatPump
}

// RequiresSecondary reports whether the standard mandates a secondary heater for the kind.
func (k SystemKind) RequiresSecondary() bool {
	return k == KindStorageHeater || k == KindIntegratedStorage || k == KindOffPeakDirect
}

//---------------------------------------------------------------------------------------------------//

// Adjustment is the control-dependent correction of a system's efficiencies, in
// percentage points (Adj) and as factors (Mult).
type Adjustment struct {
	SpaceAdj  float64
	SpaceMult float64
	WaterAdj  float64
	WaterMult float64
}

var NoAdjustment = Adjustment{SpaceMult: 1, WaterMult: 1}

// Then applies b after a: additive parts add, multiplicative parts multiply.
func (a Adjustment) Then(b Adjustment) Adjustment {
	return Adjustment{
		SpaceAdj:  a.SpaceAdj + b.SpaceAdj,
		SpaceMult: a.SpaceMult * b.SpaceMult,
		WaterAdj:  a.WaterAdj + b.WaterAdj,
		WaterMult: a.WaterMult * b.WaterMult,
	}
}

// HeatDemand is the monthly useful heat (kWh) a system must deliver.
type HeatDemand struct {
	Space MonthlySeries
	Water MonthlySeries
}

// SystemProperties are the flags and defaults carried by a system.
type SystemProperties struct {
	TableCode                int
	HasCHPump                bool
	HasFlueFan               bool
	HasWarmAirFan            bool
	HasOilPump               bool
	IsCommunity              bool
	SummerImmersion          bool
	KeepHotElec              bool
	Condensing               bool
	DefaultSecondaryFraction float64
	Responsiveness           float64
}

// HeatingSystem is the common contract of every heating technology.
type HeatingSystem interface {
	Kind() SystemKind
	Name() string
	Fuel() Fuel
	Properties() SystemProperties

	// efficiencies in %, per month
	SpaceHeatEfficiency(q HeatDemand, adj Adjustment) (MonthlySeries, error)
	WaterHeatEfficiency(q HeatDemand, adj Adjustment) (MonthlySeries, error)

	FuelPrice(d *Dwelling) (float64, error)
	CO2Factor() float64
	PrimaryEnergyFactor() float64
	OnPeakFraction(d *Dwelling) (float64, error)
}

//---------------------------------------------------------------------------------------------------//

type systemBase struct {
	kind  SystemKind
	name  string
	fuel  Fuel
	props SystemProperties
}

func (b *systemBase) Kind() SystemKind             { return b.kind }
func (b *systemBase) Name() string                 { return b.name }
func (b *systemBase) Fuel() Fuel                   { return b.fuel }
func (b *systemBase) Properties() SystemProperties { return b.props }
func (b *systemBase) CO2Factor() float64           { return b.fuel.CO2Factor() }
func (b *systemBase) PrimaryEnergyFactor() float64 { return b.fuel.PrimaryEnergyFactor() }

func (b *systemBase) OnPeakFraction(d *Dwelling) (float64, error) {
	return onPeakFraction(b, d)
}

func (b *systemBase) FuelPrice(d *Dwelling) (float64, error) {
	f, err := b.OnPeakFraction(d)
	if err != nil {
		return 0, err
	}
	return b.fuel.Price(f), nil
}

// summerImmersion forces 100% in the summer months: the summer demand is met by a
// separately accounted immersion heater.
func summerImmersion(effy MonthlySeries, props SystemProperties) MonthlySeries {
	if props.SummerImmersion {
		for _, m := range SummerMonths {
			effy[m] = 100
		}
	}
	return effy
}

/*
blendWaterEfficiency weights winter and summer efficiency by the month's space and water
demand:

	effy[m] = (Qs + Qw) / (Qs/winter + Qw/summer)

A month with no demand is treated as 100% efficient.
*/
func blendWaterEfficiency(q HeatDemand, winter MonthlySeries, summer float64) MonthlySeries {
	var effy MonthlySeries
	for m := range effy {
		qs, qw := q.Space[m], q.Water[m]
		var divisor float64
		if qs != 0 {
			divisor += qs / winter[m]
		}
		if qw != 0 {
			divisor += qw / summer
		}
		if divisor != 0 {
			effy[m] = (qs + qw) / divisor
		} else {
			effy[m] = 100
		}
	}
	return effy
}

//---------------------------------------------------------------------------------------------------//

// StandardSystem is a system driven by a static winter/summer efficiency pair: boilers,
// table heat pumps, electric systems, warm air.
type StandardSystem struct {
	systemBase
	winter_effy float64
	summer_effy float64
}

func NewStandardSystem(kind SystemKind, name string, fuel Fuel, winter, summer float64, props SystemProperties) *StandardSystem {
	return &StandardSystem{
		systemBase:  systemBase{kind: kind, name: name, fuel: fuel, props: props},
		winter_effy: winter,
		summer_effy: summer,
	}
}

// NewSystemFromRecord builds a standard system from a Table 4a row.
func NewSystemFromRecord(rec SystemRecord, fuel Fuel) *StandardSystem {
	return NewStandardSystem(rec.Kind, rec.Name, fuel, rec.WinterEffy, rec.SummerEffy, SystemProperties{
		TableCode:                rec.Code,
		HasCHPump:                rec.HasCHPump,
		HasFlueFan:               rec.HasFlueFan,
		HasWarmAirFan:            rec.HasWarmAirFan,
		HasOilPump:               rec.HasOilPump,
		SummerImmersion:          rec.SummerImmersion,
		Condensing:               rec.Condensing,
		DefaultSecondaryFraction: rec.DefaultSecondaryFraction,
		Responsiveness:           rec.Responsiveness,
	})
}

func (s *StandardSystem) WinterEfficiency() float64 { return s.winter_effy }
func (s *StandardSystem) SummerEfficiency() float64 { return s.summer_effy }

func (s *StandardSystem) SpaceHeatEfficiency(_ HeatDemand, adj Adjustment) (MonthlySeries, error) {
	return Uniform((s.winter_effy + adj.SpaceAdj) * adj.SpaceMult), nil
}

func (s *StandardSystem) WaterHeatEfficiency(q HeatDemand, adj Adjustment) (MonthlySeries, error) {
	winter := (s.winter_effy + adj.WaterAdj) * adj.WaterMult
	summer := (s.summer_effy + adj.WaterAdj) * adj.WaterMult
	return summerImmersion(blendWaterEfficiency(q, Uniform(winter), summer), s.props), nil
}

//---------------------------------------------------------------------------------------------------//

// WaterOnlySystem is a dedicated water heater with no space heating capability.
type WaterOnlySystem struct {
	systemBase
	effy float64
}

func NewWaterOnlySystem(kind SystemKind, name string, fuel Fuel, effy float64, props SystemProperties) *WaterOnlySystem {
	return &WaterOnlySystem{
		systemBase: systemBase{kind: kind, name: name, fuel: fuel, props: props},
		effy:       effy,
	}
}

func (w *WaterOnlySystem) SpaceHeatEfficiency(HeatDemand, Adjustment) (MonthlySeries, error) {
	return MonthlySeries{}, inputErrorf("%s provides no space heating", w.name)
}

func (w *WaterOnlySystem) WaterHeatEfficiency(_ HeatDemand, adj Adjustment) (MonthlySeries, error) {
	return summerImmersion(Uniform((w.effy+adj.WaterAdj)*adj.WaterMult), w.props), nil
}

//---------------------------------------------------------------------------------------------------//

// SecondarySystem is a room heater with one efficiency for space and water heating.
type SecondarySystem struct {
	systemBase
	effy float64
}

func NewSecondarySystem(rec SystemRecord, fuel Fuel) *SecondarySystem {
	return &SecondarySystem{
		systemBase: systemBase{
			kind: rec.Kind,
			name: rec.Name,
			fuel: fuel,
			props: SystemProperties{
				TableCode:      rec.Code,
				HasFlueFan:     rec.HasFlueFan,
				Responsiveness: rec.Responsiveness,
			},
		},
		effy: rec.WinterEffy,
	}
}

func (s *SecondarySystem) SpaceHeatEfficiency(HeatDemand, Adjustment) (MonthlySeries, error) {
	return Uniform(s.effy), nil
}

func (s *SecondarySystem) WaterHeatEfficiency(HeatDemand, Adjustment) (MonthlySeries, error) {
	return summerImmersion(Uniform(s.effy), s.props), nil
}
