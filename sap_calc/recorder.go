package sap_calc

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/goccy/go-json"
)

// MonthlyRecord is one row of the monthly results file.
type MonthlyRecord struct {
	Month             int     `csv:"month"`
	Days              float64 `csv:"days"`
	TExternal         float64 `csv:"t_external"` // C
	H                 float64 `csv:"h"`          // W/K
	Gains             float64 `csv:"gains"`      // W
	LivingTemperature float64 `csv:"t_living"`   // C
	RestTemperature   float64 `csv:"t_rest"`     // C
	MeanTemperature   float64 `csv:"t_mean"`     // C
	Loss              float64 `csv:"loss"`       // W
	Utilisation       float64 `csv:"utilisation"`
	UsefulGain        float64 `csv:"useful_gain"`       // W
	HeatRequired      float64 `csv:"heat_required"`     // kWh
	SpaceMain1        float64 `csv:"space_main_1"`      // kWh
	SpaceMain2        float64 `csv:"space_main_2"`      // kWh
	SpaceSecondary    float64 `csv:"space_secondary"`   // kWh
	EffyMain1         float64 `csv:"effy_main_1"`       // %
	EffyMain2         float64 `csv:"effy_main_2"`       // %
	EffySecondary     float64 `csv:"effy_secondary"`    // %
	EffyWater         float64 `csv:"effy_water"`        // %
	FuelMain1         float64 `csv:"fuel_main_1"`       // kWh
	FuelMain2         float64 `csv:"fuel_main_2"`       // kWh
	FuelSecondary     float64 `csv:"fuel_secondary"`    // kWh
	WaterEnergy       float64 `csv:"water_energy"`      // energy content, kWh
	WaterOutput       float64 `csv:"water_output"`      // kWh
	WaterFuel         float64 `csv:"water_fuel"`        // kWh
	WaterImmersion    float64 `csv:"water_immersion"`   // kWh
	WaterKeepHot      float64 `csv:"water_keep_hot"`    // kWh
	LongerHeating16   float64 `csv:"longer_heating_16"` // days
	LongerHeating9    float64 `csv:"longer_heating_9"`  // days
}

// Summary is the scalar result of one variant.
type Summary struct {
	Variant       string `json:"variant"`
	CalculationID string `json:"calculation_id"`
	Dwelling      string `json:"dwelling"`
	ElapsedMS     int64  `json:"elapsed_ms"`

	Occupants      float64 `json:"occupants"`
	Responsiveness float64 `json:"responsiveness"`

	SpaceHeating float64 `json:"space_heating"` // kWh/yr
	WaterHeating float64 `json:"water_heating"` // kWh/yr

	FuelUse *FuelUse `json:"fuel_use,omitempty"`
	Ratings *Ratings `json:"ratings,omitempty"`
}

// Recorder collects the results of one variant for export.
type Recorder struct {
	rows    []MonthlyRecord
	summary Summary
}

func NewRecorder(r *VariantResult) *Recorder {
	d := r.Dwelling
	rec := &Recorder{
		summary: Summary{
			Variant:       r.Variant.String(),
			CalculationID: r.CalculationID.String(),
			Dwelling:      d.Input.Name,
			ElapsedMS:     r.Elapsed.Milliseconds(),
			FuelUse:       d.FuelUse,
			Ratings:       d.Ratings,
		},
	}
	if d.Occupancy != nil {
		rec.summary.Occupants = d.Occupancy.N
	}
	rec.summary.Responsiveness = d.Responsiveness

	dm := d.Demand
	if dm == nil {
		return rec
	}
	rec.summary.SpaceHeating = dm.HeatRequired.Sum()
	rec.summary.WaterHeating = d.WaterOutput.Output.Sum()

	rec.rows = make([]MonthlyRecord, 12)
	for m := range rec.rows {
		rec.rows[m] = MonthlyRecord{
			Month:             m + 1,
			Days:              DaysInMonth[m],
			TExternal:         d.Climate.TExternal[m],
			H:                 d.Ventilation.H[m],
			Gains:             dm.Gains[m],
			LivingTemperature: dm.LivingTemperature[m],
			RestTemperature:   dm.RestTemperature[m],
			MeanTemperature:   dm.MeanTemperature[m],
			Loss:              dm.Loss[m],
			Utilisation:       dm.Utilisation[m],
			UsefulGain:        dm.UsefulGain[m],
			HeatRequired:      dm.HeatRequired[m],
			SpaceMain1:        dm.SpaceMain1[m],
			SpaceMain2:        dm.SpaceMain2[m],
			SpaceSecondary:    dm.SpaceSecondary[m],
			EffyMain1:         dm.EffyMain1[m],
			EffyMain2:         dm.EffyMain2[m],
			EffySecondary:     dm.EffySecondary[m],
			EffyWater:         dm.EffyWater[m],
			FuelMain1:         dm.FuelMain1[m],
			FuelMain2:         dm.FuelMain2[m],
			FuelSecondary:     dm.FuelSecondary[m],
			WaterEnergy:       d.Occupancy.EnergyContent[m],
			WaterOutput:       d.WaterOutput.Output[m],
			WaterFuel:         dm.WaterFuel[m],
			WaterImmersion:    dm.WaterSummerImmersion[m],
			WaterKeepHot:      dm.WaterKeepHot[m],
			LongerHeating16:   dm.LongerHeating16[m],
			LongerHeating9:    dm.LongerHeating9[m],
		}
	}
	return rec
}

func (r *Recorder) Rows() []MonthlyRecord {
	return r.rows
}

func (r *Recorder) Summary() Summary {
	return r.summary
}

// ExportMonthly writes the monthly rows as CSV with a header line.
func (r *Recorder) ExportMonthly(w io.Writer) error {
	return gocsv.Marshal(r.rows, w)
}

// ExportSummary writes the summary as indented JSON.
func (r *Recorder) ExportSummary(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.summary)
}
