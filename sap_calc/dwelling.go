package sap_calc

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// **** Dwelling input ****
// Outputs of the geometry, lighting, solar and ventilation sub-calculations arrive here as
// plain fields; the core reads them and never recomputes them.

type DwellingInput struct {
	Name                 string  `json:"name"`
	TotalFloorArea       float64 `json:"total_floor_area"`       // TFA, m2
	Volume               float64 `json:"volume"`                 // m3
	LivingAreaFraction   float64 `json:"living_area_fraction"`   // fLA
	Region               int     `json:"region"`                 // climate region
	ThermalMassParameter float64 `json:"thermal_mass_parameter"` // TMP, kJ/m2K
	FabricHeatLoss       float64 `json:"fabric_heat_loss"`       // W/K, including thermal bridges

	Ventilation VentilationInput `json:"ventilation"`

	InternalGains        MonthlySeries `json:"internal_gains"`         // W, excluding pumps/fans and water heating
	ReducedInternalGains MonthlySeries `json:"reduced_internal_gains"` // W, used by DER/TER/FEE
	SolarGains           MonthlySeries `json:"solar_gains"`            // W

	// annual energy of the end uses calculated outside the core, kWh/yr
	LightingEnergy  float64 `json:"lighting_energy"`
	ApplianceEnergy float64 `json:"appliance_energy"`
	CookingEnergy   float64 `json:"cooking_energy"`
	CoolingEnergy   float64 `json:"cooling_energy"`
	PVGeneration    float64 `json:"pv_generation"`
	WindGeneration  float64 `json:"wind_generation"`
	HydroGeneration float64 `json:"hydro_generation"`

	ElectricityTariff int  `json:"electricity_tariff"` // tariff code, 0 = standard tariff
	LowWaterUse       bool `json:"low_water_use"`

	MainHeating          MainHeatingInput  `json:"main_heating"`
	MainHeating2         *MainHeatingInput `json:"main_heating_2,omitempty"`
	MainHeating2Fraction float64           `json:"main_heating_2_fraction"`
	Main2SeparateArea    bool              `json:"main_heating_2_separate_area"`

	Secondary         *SecondaryInput `json:"secondary_heating,omitempty"`
	SecondaryFraction *float64        `json:"secondary_fraction,omitempty"` // overrides the system default
	ForceSecondary    bool            `json:"force_secondary"`

	Water WaterInput `json:"water_heating"`

	RangeCookerFactor     float64 `json:"range_cooker_factor"`    // 0 = 1
	TemperatureAdjustment float64 `json:"temperature_adjustment"` // added to the control adjustment, K
}

type VentilationInput struct {
	Type                   string  `json:"type"`
	Infiltration           float64 `json:"infiltration"`             // ach before wind adjustment
	MechanicalRate         float64 `json:"mechanical_rate"`          // ach, 0 = 0.5
	HeatRecoveryEfficiency float64 `json:"heat_recovery_efficiency"` // %
	SpecificFanPower       float64 `json:"specific_fan_power"`       // W/(l/s)
}

type MainHeatingInput struct {
	SystemCode    int    `json:"system_code"`
	PerformanceID string `json:"performance_id,omitempty"`
	Fuel          int    `json:"fuel"`
	ControlCode   int    `json:"control_code"`

	// efficiency overrides (e.g. from a product database), %
	WinterEfficiency *float64 `json:"winter_efficiency,omitempty"`
	SummerEfficiency *float64 `json:"summer_efficiency,omitempty"`

	Emitter     string `json:"emitter"`     // radiators, underfloor, fan_coil, high_temp_radiators
	Compensator string `json:"compensator"` // weather_compensator, load_compensator

	KeepHot string `json:"keep_hot"` // combi keep-hot: "", none, gas, electric

	CPSU      *StoreInput     `json:"cpsu,omitempty"`
	Community *CommunityInput `json:"community,omitempty"`
}

type SecondaryInput struct {
	SystemCode int `json:"system_code"`
	Fuel       int `json:"fuel"`
}

type WaterInput struct {
	Code      int             `json:"code"`
	Fuel      int             `json:"fuel"`
	Cylinder  *StoreInput     `json:"cylinder,omitempty"`
	Community *CommunityInput `json:"community,omitempty"`

	SeparateTimer bool `json:"separate_timer"`

	// primary pipework
	PipeworkInsulatedFraction float64 `json:"pipework_insulated_fraction"`

	// solar water heating, WWHR and FGHR savings, kWh/month (positive)
	Reductions MonthlySeries `json:"reductions"`
}

// StoreInput describes a hot water cylinder, thermal store or CPSU store.
type StoreInput struct {
	Volume          float64  `json:"volume"`      // litres
	Temperature     float64  `json:"temperature"` // Tw, C
	MeasuredLoss    *float64 `json:"measured_loss,omitempty"`
	InsulationType  string   `json:"insulation_type"` // factory, jacket
	InsulationMM    float64  `json:"insulation_mm"`
	OutsideCupboard bool     `json:"outside_airing_cupboard"`
}

type CommunityInput struct {
	Sources                []HeatSourceInput `json:"sources"`
	ChargingFactor         float64           `json:"charging_factor"`
	DistributionLossFactor float64           `json:"distribution_loss_factor"`
}

type HeatSourceInput struct {
	Fuel        int     `json:"fuel"`
	Fraction    float64 `json:"fraction"`
	Efficiency  float64 `json:"efficiency"` // %, total efficiency for CHP
	IsCHP       bool    `json:"is_chp"`
	HeatToPower float64 `json:"heat_to_power"`
}

// LoadDwellingInput reads a dwelling from a JSON file path or an http(s) URL.
func LoadDwellingInput(path string) (*DwellingInput, error) {
	var r io.Reader
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := http.Get(path)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", path, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var in DwellingInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, inputErrorf("decode dwelling %s: %v", path, err)
	}
	return &in, nil
}

// Clone deep-copies the input so variants never share state.
func (in *DwellingInput) Clone() (*DwellingInput, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var c DwellingInput
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

//---------------------------------------------------------------------------------------------------//

// Field names one derived part of a Dwelling. Stages declare the fields they read and write.
type Field int

const (
	FieldFuels Field = iota
	FieldOccupancy
	FieldClimate
	FieldVentilation
	FieldMain1
	FieldMain2
	FieldSecondary
	FieldFractions
	FieldWaterSystem
	FieldWaterOutput
	FieldControls
	FieldPumpsFans
	FieldResponsiveness
	FieldStandingCharges
	FieldDemand
	FieldFuelUse
	FieldRatings

	numFields
)

func (f Field) String() string {
	return [...]string{
		"fuels", "occupancy", "climate", "ventilation", "main_1", "main_2", "secondary",
		"fractions", "water_system", "water_output", "controls", "pumps_fans",
		"responsiveness", "standing_charges", "demand", "fuel_use", "ratings",
	}[f]
}

// **** Dwelling ****

// Dwelling carries one dwelling through one calculation: the read-only input and the
// outputs of every stage. A Dwelling belongs to a single calculation run.
type Dwelling struct {
	Input *DwellingInput

	// true for the DER, TER and FEE variants
	ReducedGains bool

	Fuels           *ResolvedFuels
	Occupancy       *Occupancy
	Climate         *RegionClimate
	Ventilation     *Ventilation
	Main1           HeatingSystem
	Main2           HeatingSystem
	Secondary       HeatingSystem
	Fractions       *HeatFractions
	Water           *WaterSystem
	WaterOutput     *WaterOutput
	Controls        *Controls
	PumpsFans       *PumpsFans
	Responsiveness  float64
	StandingCharges float64
	Demand          *Demand
	FuelUse         *FuelUse
	Ratings         *Ratings

	written [numFields]bool
}

func NewDwelling(in *DwellingInput) *Dwelling {
	return &Dwelling{Input: in}
}

func (d *Dwelling) Has(f Field) bool {
	return d.written[f]
}

func (d *Dwelling) markWritten(fs ...Field) {
	for _, f := range fs {
		d.written[f] = true
	}
}

// Written lists the fields set so far, in declaration order.
func (d *Dwelling) Written() []Field {
	var r []Field
	for f := Field(0); f < numFields; f++ {
		if d.written[f] {
			r = append(r, f)
		}
	}
	return r
}

// HasMain2 is true when a second main system was resolved.
func (d *Dwelling) HasMain2() bool {
	return d.Main2 != nil
}

func (d *Dwelling) HasSecondary() bool {
	return d.Secondary != nil
}

func (d *Dwelling) rangeCookerFactor() float64 {
	if d.Input.RangeCookerFactor == 0 {
		return 1
	}
	return d.Input.RangeCookerFactor
}

func (d *Dwelling) internalGains() MonthlySeries {
	if d.ReducedGains {
		return d.Input.ReducedInternalGains
	}
	return d.Input.InternalGains
}
