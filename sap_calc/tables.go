package sap_calc

// **** Reference tables ****
// Fuel prices and factors, heating system defaults, water heaters, controls, efficiency
// adjustments, regional climate and performance (PCDF) datasets.

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/gocarina/gocsv"
)

//go:embed data/*.csv
var embeddedTables embed.FS

type fuelRow struct {
	Code           int     `csv:"code"`
	Name           string  `csv:"name"`
	Price          float64 `csv:"price"`
	CO2            float64 `csv:"co2"`
	PE             float64 `csv:"pe"`
	StandingCharge float64 `csv:"standing_charge"`
	IsElectric     bool    `csv:"is_electric"`
	IsMainsGas     bool    `csv:"is_mains_gas"`
	IsCommunity    bool    `csv:"is_community"`
}

type tariffRow struct {
	Code        int    `csv:"code"`
	Name        string `csv:"name"`
	Kind        string `csv:"kind"`
	OnPeakCode  int    `csv:"on_peak_code"`
	OffPeakCode int    `csv:"off_peak_code"`
}

// SystemRecord is one row of the heating system defaults table (SAP Table 4a).
type SystemRecord struct {
	Code                     int        `csv:"code"`
	Name                     string     `csv:"name"`
	KindName                 string     `csv:"kind"`
	WinterEffy               float64    `csv:"winter_effy"`
	SummerEffy               float64    `csv:"summer_effy"`
	Responsiveness           float64    `csv:"responsiveness"`
	HasCHPump                bool       `csv:"has_ch_pump"`
	HasFlueFan               bool       `csv:"has_flue_fan"`
	HasWarmAirFan            bool       `csv:"has_warm_air_fan"`
	HasOilPump               bool       `csv:"has_oil_pump"`
	SummerImmersion          bool       `csv:"summer_immersion"`
	Condensing               bool       `csv:"condensing"`
	DefaultSecondaryFraction float64    `csv:"default_secondary_fraction"`
	Kind                     SystemKind `csv:"-"`
}

// WaterHeaterRecord is one row of the dedicated water heater table.
type WaterHeaterRecord struct {
	Code            int        `csv:"code"`
	Name            string     `csv:"name"`
	KindName        string     `csv:"kind"`
	Effy            float64    `csv:"effy"`
	SummerImmersion bool       `csv:"summer_immersion"`
	IsElectric      bool       `csv:"is_electric"`
	Kind            SystemKind `csv:"-"`
}

// ControlRecord is one row of the heating controls table (SAP Table 4e).
type ControlRecord struct {
	Code               int     `csv:"code"`
	Name               string  `csv:"name"`
	ControlType        int     `csv:"control_type"`
	TempAdjustment     float64 `csv:"temp_adjustment"`
	HasInterlock       bool    `csv:"has_interlock"`
	HasCylinderstat    bool    `csv:"has_cylinderstat"`
	SeparateWaterTimer bool    `csv:"separate_water_timer"`
	DelayedStart       bool    `csv:"delayed_start"`
}

type adjustmentRow struct {
	Table     string  `csv:"table"`
	Key       string  `csv:"key"`
	SpaceAdj  float64 `csv:"space_adj"`
	SpaceMult float64 `csv:"space_mult"`
	WaterAdj  float64 `csv:"water_adj"`
	WaterMult float64 `csv:"water_mult"`
}

type regionRow struct {
	Region    int     `csv:"region"`
	Month     int     `csv:"month"`
	TExt      float64 `csv:"t_ext"`
	WindSpeed float64 `csv:"wind_speed"`
}

// RegionClimate holds the monthly external temperature and wind speed of a climate region.
type RegionClimate struct {
	Region    int
	TExternal MonthlySeries
	WindSpeed MonthlySeries
}

//---------------------------------------------------------------------------------------------------//

// AdjustmentTable names one of the control-dependent efficiency adjustment tables.
type AdjustmentTable int

const (
	AdjBoilerInterlock AdjustmentTable = iota
	AdjCondensingEmitter
	AdjHeatPumpEmitter
	AdjHeatPumpControl
)

func (t AdjustmentTable) String() string {
	return [...]string{"boiler_interlock", "condensing_emitter", "heat_pump_emitter", "heat_pump_control"}[t]
}

func AdjustmentTableFromString(s string) (AdjustmentTable, bool) {
	t, ok := map[string]AdjustmentTable{
		"boiler_interlock":   AdjBoilerInterlock,
		"condensing_emitter": AdjCondensingEmitter,
		"heat_pump_emitter":  AdjHeatPumpEmitter,
		"heat_pump_control":  AdjHeatPumpControl,
	}[s]
	return t, ok
}

//---------------------------------------------------------------------------------------------------//

// CommunityConstants are the fixed factors applied to community heating electricity.
type CommunityConstants struct {
	DistributionElecFraction float64 // pumping electricity per unit of heat delivered
	DistributionElecCO2      float64
	DistributionElecPE       float64
	DistributionElecPrice    float64
	CHPCreditCO2             float64 // electricity displaced by community CHP
	CHPCreditPE              float64
	CHPCreditPrice           float64
}

var DefaultCommunityConstants = CommunityConstants{
	DistributionElecFraction: 0.01,
	DistributionElecCO2:      0.519,
	DistributionElecPE:       3.07,
	DistributionElecPrice:    0,
	CHPCreditCO2:             0.519,
	CHPCreditPE:              2.92,
	CHPCreditPrice:           0,
}

//---------------------------------------------------------------------------------------------------//

// Tables is the reference data consulted by the calculation. Read-only after loading and
// safe to share between calculations.
type Tables struct {
	Fuels     *FuelTable
	Community CommunityConstants

	systems       map[int]SystemRecord
	water_heaters map[int]WaterHeaterRecord
	controls      map[int]ControlRecord
	adjustments   map[AdjustmentTable]map[string]Adjustment
	regions       map[int]RegionClimate
	performance   map[string]*PerformanceDataset
}

// WithFuels returns a shallow copy of the tables using ft for fuel lookups.
func (t *Tables) WithFuels(ft *FuelTable) *Tables {
	c := *t
	c.Fuels = ft
	return &c
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *Tables
	defaultTablesErr  error
)

// DefaultTables loads the embedded tables once.
func DefaultTables() (*Tables, error) {
	defaultTablesOnce.Do(func() {
		sub, err := fs.Sub(embeddedTables, "data")
		if err != nil {
			defaultTablesErr = err
			return
		}
		defaultTables, defaultTablesErr = LoadTables(sub)
	})
	return defaultTables, defaultTablesErr
}

// LoadTablesDir loads the tables from CSV files in a directory.
func LoadTablesDir(dir string) (*Tables, error) {
	return LoadTables(os.DirFS(dir))
}

/*
LoadTables reads every reference table from fsys.

	Files:
	    fuels.csv, tariffs.csv, systems.csv, water_heaters.csv, controls.csv,
	    adjustments.csv, regions.csv, performance_systems.csv, performance_points.csv
*/
func LoadTables(fsys fs.FS) (*Tables, error) {
	fuels, err := loadFuelTable(fsys)
	if err != nil {
		return nil, err
	}

	t := &Tables{
		Fuels:         fuels,
		Community:     DefaultCommunityConstants,
		systems:       map[int]SystemRecord{},
		water_heaters: map[int]WaterHeaterRecord{},
		controls:      map[int]ControlRecord{},
		adjustments:   map[AdjustmentTable]map[string]Adjustment{},
		regions:       map[int]RegionClimate{},
	}

	systems, err := readCSV[SystemRecord](fsys, "systems.csv")
	if err != nil {
		return nil, err
	}
	for _, s := range systems {
		kind, ok := SystemKindFromString(s.KindName)
		if !ok {
			return nil, inputErrorf("systems.csv: code %d has unknown kind %q", s.Code, s.KindName)
		}
		s.Kind = kind
		t.systems[s.Code] = s
	}

	heaters, err := readCSV[WaterHeaterRecord](fsys, "water_heaters.csv")
	if err != nil {
		return nil, err
	}
	for _, w := range heaters {
		kind, ok := SystemKindFromString(w.KindName)
		if !ok || (kind != KindWaterOnly && kind != KindElectricImmersion) {
			return nil, inputErrorf("water_heaters.csv: code %d has unknown kind %q", w.Code, w.KindName)
		}
		w.Kind = kind
		t.water_heaters[w.Code] = w
	}

	controls, err := readCSV[ControlRecord](fsys, "controls.csv")
	if err != nil {
		return nil, err
	}
	for _, c := range controls {
		if c.ControlType < 1 || c.ControlType > 3 {
			return nil, inputErrorf("controls.csv: code %d has control type %d", c.Code, c.ControlType)
		}
		t.controls[c.Code] = c
	}

	adjustments, err := readCSV[adjustmentRow](fsys, "adjustments.csv")
	if err != nil {
		return nil, err
	}
	for _, a := range adjustments {
		name, ok := AdjustmentTableFromString(a.Table)
		if !ok {
			return nil, inputErrorf("adjustments.csv: unknown table %q", a.Table)
		}
		if t.adjustments[name] == nil {
			t.adjustments[name] = map[string]Adjustment{}
		}
		t.adjustments[name][a.Key] = Adjustment{
			SpaceAdj:  a.SpaceAdj,
			SpaceMult: a.SpaceMult,
			WaterAdj:  a.WaterAdj,
			WaterMult: a.WaterMult,
		}
	}

	regions, err := readCSV[regionRow](fsys, "regions.csv")
	if err != nil {
		return nil, err
	}
	seen := map[int]int{}
	for _, r := range regions {
		if r.Month < 1 || r.Month > 12 {
			return nil, inputErrorf("regions.csv: region %d has month %d", r.Region, r.Month)
		}
		rc := t.regions[r.Region]
		rc.Region = r.Region
		rc.TExternal[r.Month-1] = r.TExt
		rc.WindSpeed[r.Month-1] = r.WindSpeed
		t.regions[r.Region] = rc
		seen[r.Region]++
	}
	for region, n := range seen {
		if n != 12 {
			return nil, inputErrorf("regions.csv: region %d has %d months", region, n)
		}
	}

	t.performance, err = loadPerformanceDatasets(fsys)
	if err != nil {
		return nil, err
	}

	return t, nil
}

func loadFuelTable(fsys fs.FS) (*FuelTable, error) {
	rows, err := readCSV[fuelRow](fsys, "fuels.csv")
	if err != nil {
		return nil, err
	}
	ft := &FuelTable{
		fuels:         make(map[int]*SimpleFuel, len(rows)),
		tariffs:       map[int]*ElectricityTariff{},
		exported_code: ExportedElectricityCode,
	}
	for _, r := range rows {
		ft.fuels[r.Code] = &SimpleFuel{
			code:            r.Code,
			name:            r.Name,
			price:           r.Price,
			co2:             r.CO2,
			pe:              r.PE,
			standing_charge: r.StandingCharge,
			is_electric:     r.IsElectric,
			is_mains_gas:    r.IsMainsGas,
			is_community:    r.IsCommunity,
		}
	}

	tariffs, err := readCSV[tariffRow](fsys, "tariffs.csv")
	if err != nil {
		return nil, err
	}
	for _, r := range tariffs {
		kind, ok := TariffKindFromString(r.Kind)
		if !ok {
			return nil, inputErrorf("tariffs.csv: tariff %d has unknown kind %q", r.Code, r.Kind)
		}
		on, ok := ft.fuels[r.OnPeakCode]
		if !ok || !on.is_electric {
			return nil, inputErrorf("tariffs.csv: tariff %d on-peak fuel %d is not an electricity fuel", r.Code, r.OnPeakCode)
		}
		off, ok := ft.fuels[r.OffPeakCode]
		if !ok || !off.is_electric {
			return nil, inputErrorf("tariffs.csv: tariff %d off-peak fuel %d is not an electricity fuel", r.Code, r.OffPeakCode)
		}
		ft.tariffs[r.Code] = &ElectricityTariff{
			code:     r.Code,
			name:     r.Name,
			kind:     kind,
			on_peak:  on,
			off_peak: off,
		}
	}
	if _, ok := ft.fuels[ft.exported_code]; !ok {
		return nil, inputErrorf("fuels.csv: exported electricity fuel %d missing", ft.exported_code)
	}
	return ft, nil
}

func readCSV[T any](fsys fs.FS, name string) ([]T, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", name, err)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse table %s: %w", name, err)
	}
	return rows, nil
}

//---------------------------------------------------------------------------------------------------//

func (t *Tables) System(code int) (SystemRecord, error) {
	s, ok := t.systems[code]
	if !ok {
		return SystemRecord{}, inputErrorf("heating system code %d not found", code)
	}
	return s, nil
}

func (t *Tables) WaterHeater(code int) (WaterHeaterRecord, error) {
	w, ok := t.water_heaters[code]
	if !ok {
		return WaterHeaterRecord{}, inputErrorf("water heater code %d not found", code)
	}
	return w, nil
}

func (t *Tables) Control(code int) (ControlRecord, error) {
	c, ok := t.controls[code]
	if !ok {
		return ControlRecord{}, inputErrorf("control code %d not found", code)
	}
	return c, nil
}

// Adjustment looks up one row of a named efficiency adjustment table. A missing key is
// not an error: it means no adjustment applies.
func (t *Tables) Adjustment(table AdjustmentTable, key string) (Adjustment, bool) {
	a, ok := t.adjustments[table][key]
	return a, ok
}

func (t *Tables) Region(region int) (RegionClimate, error) {
	r, ok := t.regions[region]
	if !ok {
		return RegionClimate{}, inputErrorf("climate region %d not found", region)
	}
	return r, nil
}

func (t *Tables) Performance(id string) (*PerformanceDataset, error) {
	p, ok := t.performance[id]
	if !ok {
		return nil, inputErrorf("performance dataset %q not found", id)
	}
	return p, nil
}
