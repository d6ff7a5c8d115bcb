package sap_calc

import (
	"sort"
	"sync/atomic"
)

// Fuel is the reference data for one fuel code: unit price (p/kWh), CO2 factor
// (kg/kWh), primary energy factor and annual standing charge (£).
type Fuel interface {
	Code() int
	Name() string
	Price(on_peak_fraction float64) float64
	CO2Factor() float64
	PrimaryEnergyFactor() float64
	StandingCharge() float64
	IsElectric() bool
	IsMainsGas() bool
}

// preferLivePrices is process-wide configuration. Set it before any calculation starts.
var preferLivePrices atomic.Bool

// SetPreferLivePrices selects whether price lookups prefer the live price overlay
// over the canonical table.
func SetPreferLivePrices(prefer bool) {
	preferLivePrices.Store(prefer)
}

func PreferLivePrices() bool {
	return preferLivePrices.Load()
}

//---------------------------------------------------------------------------------------------------//

// SimpleFuel is a single-rate fuel.
type SimpleFuel struct {
	code            int
	name            string
	price           float64
	co2             float64
	pe              float64
	standing_charge float64
	is_electric     bool
	is_mains_gas    bool
	is_community    bool

	// live price overlay, nil when no live source is attached
	live *float64
}

func (f *SimpleFuel) Code() int    { return f.code }
func (f *SimpleFuel) Name() string { return f.name }

// Price ignores the on-peak fraction: a single-rate fuel has one price.
func (f *SimpleFuel) Price(_ float64) float64 {
	if f.live != nil && PreferLivePrices() {
		return *f.live
	}
	return f.price
}

func (f *SimpleFuel) CO2Factor() float64           { return f.co2 }
func (f *SimpleFuel) PrimaryEnergyFactor() float64 { return f.pe }
func (f *SimpleFuel) StandingCharge() float64      { return f.standing_charge }
func (f *SimpleFuel) IsElectric() bool             { return f.is_electric }
func (f *SimpleFuel) IsMainsGas() bool             { return f.is_mains_gas }
func (f *SimpleFuel) IsCommunity() bool            { return f.is_community }

// fuel codes with a fixed role
const (
	StandardTariffCode      = 30
	ExportedElectricityCode = 60
)

//---------------------------------------------------------------------------------------------------//

// TariffKind is the electricity tariff structure.
type TariffKind int

const (
	TariffStandard TariffKind = iota
	TariffSevenHour
	TariffTenHour
	TariffTwentyFourHour
)

func (k TariffKind) String() string {
	return [...]string{"standard", "7-hour", "10-hour", "24-hour"}[k]
}

func TariffKindFromString(s string) (TariffKind, bool) {
	k, ok := map[string]TariffKind{
		"standard": TariffStandard,
		"7-hour":   TariffSevenHour,
		"10-hour":  TariffTenHour,
		"24-hour":  TariffTwentyFourHour,
	}[s]
	return k, ok
}

// ElectricityTariff blends an on-peak and an off-peak fuel by the on-peak fraction.
type ElectricityTariff struct {
	code     int
	name     string
	kind     TariffKind
	on_peak  *SimpleFuel
	off_peak *SimpleFuel
}

func (t *ElectricityTariff) Code() int        { return t.code }
func (t *ElectricityTariff) Name() string     { return t.name }
func (t *ElectricityTariff) Kind() TariffKind { return t.kind }

func (t *ElectricityTariff) OnPeak() Fuel  { return t.on_peak }
func (t *ElectricityTariff) OffPeak() Fuel { return t.off_peak }

func (t *ElectricityTariff) Price(on_peak_fraction float64) float64 {
	return t.on_peak.Price(1)*on_peak_fraction + t.off_peak.Price(0)*(1-on_peak_fraction)
}

func (t *ElectricityTariff) CO2Factor() float64           { return t.on_peak.co2 }
func (t *ElectricityTariff) PrimaryEnergyFactor() float64 { return t.on_peak.pe }
func (t *ElectricityTariff) StandingCharge() float64      { return t.on_peak.standing_charge }
func (t *ElectricityTariff) IsElectric() bool             { return true }
func (t *ElectricityTariff) IsMainsGas() bool             { return false }

//---------------------------------------------------------------------------------------------------//

// FuelTable resolves fuel and tariff codes. It is read-only once built.
type FuelTable struct {
	fuels   map[int]*SimpleFuel
	tariffs map[int]*ElectricityTariff

	// code of the fuel used to value electricity displaced by on-site generation
	exported_code int
}

// Lookup returns the fuel for a code. Tariff codes take precedence over plain fuel codes.
func (ft *FuelTable) Lookup(code int) (Fuel, error) {
	if t, ok := ft.tariffs[code]; ok {
		return t, nil
	}
	if f, ok := ft.fuels[code]; ok {
		return f, nil
	}
	return nil, inputErrorf("fuel code %d not found", code)
}

func (ft *FuelTable) Tariff(code int) (*ElectricityTariff, error) {
	t, ok := ft.tariffs[code]
	if !ok {
		return nil, inputErrorf("electricity tariff %d not found", code)
	}
	return t, nil
}

// Exported is the fuel used to value electricity generated on site (PV, wind, hydro, CHP).
func (ft *FuelTable) Exported() (Fuel, error) {
	return ft.Lookup(ft.exported_code)
}

// Codes lists every plain fuel code, ascending.
func (ft *FuelTable) Codes() []int {
	codes := make([]int, 0, len(ft.fuels))
	for c := range ft.fuels {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// WithLivePrices returns a copy of the table whose fuels carry the given live prices
// (p/kWh keyed by fuel code). Codes without a live price keep the canonical price.
func (ft *FuelTable) WithLivePrices(live map[int]float64) *FuelTable {
	fuels := make(map[int]*SimpleFuel, len(ft.fuels))
	for code, f := range ft.fuels {
		c := *f
		c.live = nil
		if p, ok := live[code]; ok {
			p := p
			c.live = &p
		}
		fuels[code] = &c
	}
	tariffs := make(map[int]*ElectricityTariff, len(ft.tariffs))
	for code, t := range ft.tariffs {
		tariffs[code] = &ElectricityTariff{
			code:     t.code,
			name:     t.name,
			kind:     t.kind,
			on_peak:  fuels[t.on_peak.code],
			off_peak: fuels[t.off_peak.code],
		}
	}
	return &FuelTable{fuels: fuels, tariffs: tariffs, exported_code: ft.exported_code}
}
