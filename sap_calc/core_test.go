package sap_calc

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantFromString(t *testing.T) {
	for _, v := range []Variant{VariantSAP, VariantFEE, VariantDER, VariantTER} {
		got, err := VariantFromString(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	_, err := VariantFromString("epc")
	assert.ErrorIs(t, err, ErrInput)
}

func TestRunFullCalculation(t *testing.T) {
	d := fullCalculation(t, sampleInput())
	for f := Field(0); f < numFields; f++ {
		assert.True(t, d.Has(f), f.String())
	}
	assert.NotNil(t, d.Ratings)
	assert.Positive(t, d.FuelUse.TotalCost)
}

func TestCalculateVariants(t *testing.T) {
	in := sampleInput()
	in.MainHeating2 = &MainHeatingInput{SystemCode: 691, Fuel: 30, ControlCode: 2601}
	in.MainHeating2Fraction = 0.2

	results, err := CalculateVariants(in, nil, testTables(t), VariantSAP, VariantDER, VariantFEE)
	require.NoError(t, err)
	require.Len(t, results, 3)

	sap, der, fee := results[0], results[1], results[2]
	assert.Equal(t, VariantSAP, sap.Variant)
	assert.NotEqual(t, uuid.Nil, sap.CalculationID)
	assert.NotEqual(t, sap.CalculationID, der.CalculationID)

	// each variant works on its own copy
	assert.NotSame(t, in, sap.Dwelling.Input)
	assert.NotSame(t, sap.Dwelling.Input, der.Dwelling.Input)
	assert.Equal(t, 0.2, in.MainHeating2Fraction)

	assert.False(t, sap.Dwelling.ReducedGains)
	assert.True(t, der.Dwelling.ReducedGains)
	assert.Greater(t, der.Dwelling.Demand.HeatRequired.Sum(), sap.Dwelling.Demand.HeatRequired.Sum())
	require.NotNil(t, der.Ratings())

	// FEE replaces the systems and stops after the energy balance
	assert.Nil(t, fee.Ratings())
	assert.Nil(t, fee.Dwelling.FuelUse)
	assert.False(t, fee.Dwelling.HasMain2())
	assert.Equal(t, KindCombiBoiler, fee.Dwelling.Main1.Kind())
	assert.Equal(t, WaterFromMain1, fee.Dwelling.Water.Source)
	require.NotNil(t, in.MainHeating2)
	assert.Equal(t, 101, in.MainHeating.SystemCode)
}

func TestCalculateVariantsTER(t *testing.T) {
	_, err := CalculateVariants(sampleInput(), nil, testTables(t), VariantTER)
	assert.ErrorIs(t, err, ErrInput)

	notional := sampleInput()
	notional.Name = "notional"
	notional.FabricHeatLoss = 100
	results, err := CalculateVariants(sampleInput(), notional, testTables(t), VariantDER, VariantTER)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "notional", results[1].Dwelling.Input.Name)
	assert.Less(t, results[1].Ratings().CO2PerM2, results[0].Ratings().CO2PerM2)
}

func TestCalculateVariantsStopsAtFailure(t *testing.T) {
	in := sampleInput()
	in.Region = 99
	results, err := CalculateVariants(in, nil, testTables(t), VariantSAP, VariantDER)
	assert.ErrorIs(t, err, ErrInput)
	assert.Contains(t, err.Error(), "variant sap")
	assert.Empty(t, results)
	assert.Equal(t, "input", ErrorClass(err))
}

func writeInput(t *testing.T, dir, name string, in *DwellingInput) string {
	t.Helper()
	b, err := json.Marshal(in)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	var observed []Variant
	results, err := Run(Options{
		InputPath: writeInput(t, dir, "house.json", sampleInput()),
		OutputDir: out,
		Variants:  []Variant{VariantSAP, VariantFEE},
		Observe: func(v Variant, err error, elapsed time.Duration) {
			assert.NoError(t, err)
			assert.Positive(t, elapsed)
			observed = append(observed, v)
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []Variant{VariantSAP, VariantFEE}, observed)

	f, err := os.Open(filepath.Join(out, "result_monthly_sap.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 13)
	assert.Equal(t, "month", rows[0][0])
	assert.Equal(t, "12", rows[12][0])

	b, err := os.ReadFile(filepath.Join(out, "result_sap.json"))
	require.NoError(t, err)
	var s Summary
	require.NoError(t, json.Unmarshal(b, &s))
	assert.Equal(t, "sap", s.Variant)
	assert.Equal(t, "sample", s.Dwelling)
	assert.Equal(t, results[0].CalculationID.String(), s.CalculationID)
	require.NotNil(t, s.Ratings)
	assert.Equal(t, results[0].Ratings().SAPInteger, s.Ratings.SAPInteger)

	b, err = os.ReadFile(filepath.Join(out, "result_fee.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "ratings")
}

func TestRunDefaultsAndErrors(t *testing.T) {
	dir := t.TempDir()
	results, err := Run(Options{InputPath: writeInput(t, dir, "house.json", sampleInput())})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, VariantSAP, results[0].Variant)

	_, err = Run(Options{InputPath: filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	_, err = Run(Options{InputPath: filepath.Join(dir, "broken.json")})
	assert.ErrorIs(t, err, ErrInput)

	var failed []string
	in := sampleInput()
	in.Ventilation.Type = "chimney"
	_, err = Run(Options{
		InputPath: writeInput(t, dir, "bad.json", in),
		Observe: func(_ Variant, err error, _ time.Duration) {
			failed = append(failed, ErrorClass(err))
		},
	})
	assert.ErrorIs(t, err, ErrInput)
	assert.Equal(t, []string{"input"}, failed)
}

func TestRecorder(t *testing.T) {
	results, err := CalculateVariants(sampleInput(), nil, testTables(t), VariantSAP)
	require.NoError(t, err)
	r := results[0]
	rec := NewRecorder(&r)

	rows := rec.Rows()
	require.Len(t, rows, 12)
	d := r.Dwelling
	for m, row := range rows {
		assert.Equal(t, m+1, row.Month)
		assert.Equal(t, d.Demand.HeatRequired[m], row.HeatRequired)
		assert.Equal(t, d.Climate.TExternal[m], row.TExternal)
	}
	s := rec.Summary()
	assert.InDelta(t, d.Demand.HeatRequired.Sum(), s.SpaceHeating, 1e-9)
	assert.Equal(t, d.Occupancy.N, s.Occupants)

	var buf bytes.Buffer
	require.NoError(t, rec.ExportMonthly(&buf))
	assert.Contains(t, buf.String(), "heat_required")

	buf.Reset()
	require.NoError(t, rec.ExportSummary(&buf))
	assert.Contains(t, buf.String(), "\"band\"")

	// a failed calculation still yields a summary
	empty := NewRecorder(&VariantResult{Variant: VariantSAP, Dwelling: NewDwelling(sampleInput())})
	assert.Empty(t, empty.Rows())
	assert.Zero(t, empty.Summary().SpaceHeating)
}

func TestErrorClass(t *testing.T) {
	assert.Equal(t, "", ErrorClass(nil))
	assert.Equal(t, "input", ErrorClass(inputErrorf("x")))
	assert.Equal(t, "calculation", ErrorClass(&StageError{Stage: "demand", Err: calculationErrorf("x")}))
	assert.Equal(t, "assertion", ErrorClass(assertionErrorf("x")))
	assert.Equal(t, "other", ErrorClass(os.ErrNotExist))
}
