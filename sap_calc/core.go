package sap_calc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// **** Entry operations ****

// DemandStages run the monthly energy balance over a resolved configuration.
func DemandStages() []Stage {
	return []Stage{
		{
			Name: "demand",
			Reads: []Field{
				FieldClimate, FieldVentilation, FieldMain1, FieldMain2, FieldSecondary, FieldFractions,
				FieldWaterSystem, FieldWaterOutput, FieldControls, FieldPumpsFans, FieldResponsiveness,
			},
			Writes: []Field{FieldDemand},
			Run:    calculateDemand,
		},
	}
}

// FuelUseStages account the delivered energy and derive the ratings.
func FuelUseStages() []Stage {
	return []Stage{
		{Name: "fuel_use", Reads: []Field{FieldFuels, FieldDemand, FieldPumpsFans, FieldStandingCharges}, Writes: []Field{FieldFuelUse}, Run: calculateFuelUse},
		{Name: "ratings", Reads: []Field{FieldDemand, FieldFuelUse}, Writes: []Field{FieldRatings}, Run: calculateRatings},
	}
}

// AllStages is the full pipeline in order.
func AllStages() []Stage {
	stages := ResolverStages()
	stages = append(stages, DemandStages()...)
	return append(stages, FuelUseStages()...)
}

// ResolveConfiguration runs the resolver stages over d.
func ResolveConfiguration(d *Dwelling, t *Tables) error {
	return runStages(d, t, ResolverStages())
}

// RunDemandCalculation resolves the configuration if needed and runs the energy balance.
func RunDemandCalculation(d *Dwelling, t *Tables) error {
	if err := ResolveConfiguration(d, t); err != nil {
		return err
	}
	return runStages(d, t, DemandStages())
}

// RunFullCalculation runs every stage through fuel accounting and ratings.
func RunFullCalculation(d *Dwelling, t *Tables) error {
	if err := RunDemandCalculation(d, t); err != nil {
		return err
	}
	return runStages(d, t, FuelUseStages())
}

//---------------------------------------------------------------------------------------------------//

// Variant is one of the calculations run over a dwelling description.
type Variant int

const (
	VariantSAP Variant = iota // rating
	VariantFEE                // fabric energy efficiency
	VariantDER                // dwelling emission rate
	VariantTER                // target emission rate, notional dwelling
)

func (v Variant) String() string {
	return [...]string{"sap", "fee", "der", "ter"}[v]
}

func VariantFromString(s string) (Variant, error) {
	switch s {
	case "sap":
		return VariantSAP, nil
	case "fee":
		return VariantFEE, nil
	case "der":
		return VariantDER, nil
	case "ter":
		return VariantTER, nil
	}
	return 0, inputErrorf("unknown variant %q", s)
}

// reference systems of the fabric energy efficiency calculation
const (
	feeSystemCode  = 104 // condensing gas combi
	feeFuelCode    = 1   // mains gas
	feeControlCode = 2106
)

// feeInput replaces the heating and hot water systems with the fixed reference systems.
func feeInput(in *DwellingInput) {
	in.MainHeating = MainHeatingInput{SystemCode: feeSystemCode, Fuel: feeFuelCode, ControlCode: feeControlCode}
	in.MainHeating2 = nil
	in.MainHeating2Fraction = 0
	in.Main2SeparateArea = false
	in.Secondary = nil
	in.SecondaryFraction = nil
	in.ForceSecondary = false
	in.Water = WaterInput{Code: WaterCodeFromMain1, Reductions: in.Water.Reductions}
}

type VariantResult struct {
	Variant       Variant
	CalculationID uuid.UUID
	Dwelling      *Dwelling
	Elapsed       time.Duration
}

// Ratings is nil for the FEE variant, which stops after the energy balance.
func (r *VariantResult) Ratings() *Ratings {
	return r.Dwelling.Ratings
}

/*
CalculateVariants runs each variant over its own deep copy of the input, one after
another.

	Args:
	    in: the dwelling
	    notional: the notional dwelling, required only by the TER variant
	    t: reference tables
	    variants: the variants to run, in order

	Returns:
	    one result per variant; the first failure aborts the remaining variants
*/
func CalculateVariants(in, notional *DwellingInput, t *Tables, variants ...Variant) ([]VariantResult, error) {
	results := make([]VariantResult, 0, len(variants))
	for _, v := range variants {
		r, err := calculateVariant(in, notional, t, v)
		if err != nil {
			return results, fmt.Errorf("variant %s: %w", v, err)
		}
		results = append(results, r)
	}
	return results, nil
}

func calculateVariant(in, notional *DwellingInput, t *Tables, v Variant) (VariantResult, error) {
	src := in
	if v == VariantTER {
		if notional == nil {
			return VariantResult{}, inputErrorf("TER needs a notional dwelling")
		}
		src = notional
	}
	c, err := src.Clone()
	if err != nil {
		return VariantResult{}, err
	}
	if v == VariantFEE {
		feeInput(c)
	}

	d := NewDwelling(c)
	d.ReducedGains = v != VariantSAP
	r := VariantResult{Variant: v, CalculationID: uuid.New(), Dwelling: d}

	logger.Info("calculation start", "variant", v, "id", r.CalculationID, "dwelling", c.Name)
	start := time.Now()
	if v == VariantFEE {
		err = RunDemandCalculation(d, t)
	} else {
		err = RunFullCalculation(d, t)
	}
	r.Elapsed = time.Since(start)
	if err != nil {
		logger.Error("calculation failed", "variant", v, "id", r.CalculationID, "err", err)
		return r, err
	}
	logger.Info("calculation end", "variant", v, "id", r.CalculationID, "elapsed", r.Elapsed)
	return r, nil
}

//---------------------------------------------------------------------------------------------------//

type Options struct {
	InputPath    string // JSON file path or http(s) URL
	NotionalPath string // notional dwelling for TER
	OutputDir    string // results are written only when set
	Tables       *Tables
	Variants     []Variant

	// Observe is called once per variant with its outcome.
	Observe func(v Variant, err error, elapsed time.Duration)
}

/*
Run reads a dwelling, calculates the requested variants and saves the results.

	Files written to OutputDir per variant:
	    result_monthly_<variant>.csv: monthly series
	    result_<variant>.json: ratings, fuel use and annual totals
*/
func Run(opts Options) ([]VariantResult, error) {
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return nil, err
		}
	}

	logger.Info("load dwelling", "path", opts.InputPath)
	in, err := LoadDwellingInput(opts.InputPath)
	if err != nil {
		return nil, err
	}
	var notional *DwellingInput
	if opts.NotionalPath != "" {
		if notional, err = LoadDwellingInput(opts.NotionalPath); err != nil {
			return nil, err
		}
	}

	t := opts.Tables
	if t == nil {
		if t, err = DefaultTables(); err != nil {
			return nil, err
		}
	}

	variants := opts.Variants
	if len(variants) == 0 {
		variants = []Variant{VariantSAP}
	}

	var results []VariantResult
	for _, v := range variants {
		r, err := calculateVariant(in, notional, t, v)
		if opts.Observe != nil {
			opts.Observe(v, err, r.Elapsed)
		}
		if err != nil {
			return results, fmt.Errorf("variant %s: %w", v, err)
		}
		results = append(results, r)
	}

	if opts.OutputDir != "" {
		var errs []error
		for i := range results {
			errs = append(errs, saveResult(opts.OutputDir, &results[i]))
		}
		if err := errors.Join(errs...); err != nil {
			return results, err
		}
	}
	return results, nil
}

func saveResult(dir string, r *VariantResult) error {
	rec := NewRecorder(r)

	monthly := filepath.Join(dir, fmt.Sprintf("result_monthly_%s.csv", r.Variant))
	logger.Info("save monthly results", "path", monthly)
	f, err := os.Create(monthly)
	if err != nil {
		return err
	}
	if err := rec.ExportMonthly(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	summary := filepath.Join(dir, fmt.Sprintf("result_%s.json", r.Variant))
	logger.Info("save summary", "path", summary)
	g, err := os.Create(summary)
	if err != nil {
		return err
	}
	if err := rec.ExportSummary(g); err != nil {
		g.Close()
		return err
	}
	return g.Close()
}
