package sap_calc

import (
	"fmt"
	"io/fs"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// **** Performance-rated systems ****
// Heat pumps and micro-CHP whose efficiency is interpolated over the plant size ratio (PSR)
// from a certified performance dataset.

type performanceSystemRow struct {
	ID        string  `csv:"id"`
	Name      string  `csv:"name"`
	Kind      string  `csv:"kind"`
	OutputKW  float64 `csv:"output_kw"`
	WaterEffy float64 `csv:"water_effy"`
}

type performancePointRow struct {
	ID         string  `csv:"id"`
	PSR        float64 `csv:"psr"`
	SpaceEffy  float64 `csv:"space_effy"`
	SummerEffy float64 `csv:"summer_effy"`
	ElecEffy   float64 `csv:"elec_effy"`
	N24_16     float64 `csv:"n24_16"`
	N24_9      float64 `csv:"n24_9"`
}

// PerformanceDataset is the tabulated performance of one certified product.
type PerformanceDataset struct {
	ID        string
	Name      string
	Kind      SystemKind // KindPerformanceHeatPump or KindMicroCHP
	OutputKW  float64
	WaterEffy float64

	psr_min float64
	psr_max float64

	space_effy  interp.PiecewiseLinear
	summer_effy interp.PiecewiseLinear
	elec_effy   interp.PiecewiseLinear
	n24_16      interp.PiecewiseLinear
	n24_9       interp.PiecewiseLinear
}

func performanceKindFromString(s string) (SystemKind, bool) {
	k, ok := map[string]SystemKind{
		"heat_pump": KindPerformanceHeatPump,
		"micro_chp": KindMicroCHP,
	}[s]
	return k, ok
}

func loadPerformanceDatasets(fsys fs.FS) (map[string]*PerformanceDataset, error) {
	systems, err := readCSV[performanceSystemRow](fsys, "performance_systems.csv")
	if err != nil {
		return nil, err
	}
	points, err := readCSV[performancePointRow](fsys, "performance_points.csv")
	if err != nil {
		return nil, err
	}

	by_id := map[string][]performancePointRow{}
	for _, p := range points {
		by_id[p.ID] = append(by_id[p.ID], p)
	}

	datasets := make(map[string]*PerformanceDataset, len(systems))
	for _, s := range systems {
		kind, ok := performanceKindFromString(s.Kind)
		if !ok {
			return nil, inputErrorf("performance_systems.csv: %s has unknown kind %q", s.ID, s.Kind)
		}
		ds, err := newPerformanceDataset(s.ID, s.Name, kind, s.OutputKW, s.WaterEffy, by_id[s.ID])
		if err != nil {
			return nil, err
		}
		datasets[s.ID] = ds
	}
	return datasets, nil
}

// newPerformanceDataset fits the interpolants. It needs at least two points with distinct PSR.
func newPerformanceDataset(id, name string, kind SystemKind, output_kw, water_effy float64, points []performancePointRow) (*PerformanceDataset, error) {
	if len(points) < 2 {
		return nil, inputErrorf("performance dataset %s needs at least two points, has %d", id, len(points))
	}
	pts := append([]performancePointRow(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].PSR < pts[j].PSR })

	n := len(pts)
	psr := make([]float64, n)
	space := make([]float64, n)
	summer := make([]float64, n)
	elec := make([]float64, n)
	n16 := make([]float64, n)
	n9 := make([]float64, n)
	for i, p := range pts {
		if i > 0 && p.PSR == pts[i-1].PSR {
			return nil, inputErrorf("performance dataset %s repeats PSR %g", id, p.PSR)
		}
		psr[i] = p.PSR
		space[i] = p.SpaceEffy
		summer[i] = p.SummerEffy
		elec[i] = p.ElecEffy
		n16[i] = p.N24_16
		n9[i] = p.N24_9
	}

	ds := &PerformanceDataset{
		ID:        id,
		Name:      name,
		Kind:      kind,
		OutputKW:  output_kw,
		WaterEffy: water_effy,
		psr_min:   psr[0],
		psr_max:   psr[n-1],
	}
	for _, f := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{
		{&ds.space_effy, space},
		{&ds.summer_effy, summer},
		{&ds.elec_effy, elec},
		{&ds.n24_16, n16},
		{&ds.n24_9, n9},
	} {
		if err := f.pl.Fit(psr, f.ys); err != nil {
			return nil, inputErrorf("performance dataset %s: %v", id, err)
		}
	}
	return ds, nil
}

func (ds *PerformanceDataset) checkRange(psr float64) error {
	if psr < ds.psr_min || psr > ds.psr_max {
		return fmt.Errorf("%w: PSR %.3f outside %.3f-%.3f for %s", ErrPSROutOfRange, psr, ds.psr_min, ds.psr_max, ds.ID)
	}
	return nil
}

func (ds *PerformanceDataset) SpaceEfficiency(psr float64) (float64, error) {
	if err := ds.checkRange(psr); err != nil {
		return 0, err
	}
	return ds.space_effy.Predict(psr), nil
}

func (ds *PerformanceDataset) SummerEfficiency(psr float64) (float64, error) {
	if err := ds.checkRange(psr); err != nil {
		return 0, err
	}
	return ds.summer_effy.Predict(psr), nil
}

// ElectricalEfficiency is electricity generated per unit of fuel, % (micro-CHP).
func (ds *PerformanceDataset) ElectricalEfficiency(psr float64) (float64, error) {
	if err := ds.checkRange(psr); err != nil {
		return 0, err
	}
	return ds.elec_effy.Predict(psr), nil
}

// LongerHeatingDays returns the annual number of days with 16 and 24 hours of heating an
// undersized heat pump needs.
func (ds *PerformanceDataset) LongerHeatingDays(psr float64) (n24_16, n24_9 float64, err error) {
	if err := ds.checkRange(psr); err != nil {
		return 0, 0, err
	}
	return ds.n24_16.Predict(psr), ds.n24_9.Predict(psr), nil
}

//---------------------------------------------------------------------------------------------------//

// PlantSizeRatio is PSR = output kW x 1000 / (mean h x 24.2).
func PlantSizeRatio(output_kw float64, h MonthlySeries) (float64, error) {
	mean_h := h.Sum() / 12
	if mean_h <= 0 {
		return 0, inputErrorf("heat transfer coefficient must be positive, got %g", mean_h)
	}
	return output_kw * 1000 / (mean_h * 24.2), nil
}

type PerformanceRatedSystem struct {
	systemBase
	dataset *PerformanceDataset

	psr         float64
	space_effy  float64
	summer_effy float64
	elec_effy   float64
	n24_16      float64
	n24_9       float64
}

// NewPerformanceRatedSystem evaluates the dataset at the dwelling's PSR.
func NewPerformanceRatedSystem(ds *PerformanceDataset, fuel Fuel, h MonthlySeries) (*PerformanceRatedSystem, error) {
	psr, err := PlantSizeRatio(ds.OutputKW, h)
	if err != nil {
		return nil, err
	}
	s := &PerformanceRatedSystem{
		systemBase: systemBase{
			kind: ds.Kind,
			name: ds.Name,
			fuel: fuel,
			props: SystemProperties{
				HasCHPump:      true,
				Responsiveness: 1,
			},
		},
		dataset: ds,
		psr:     psr,
	}
	if s.space_effy, err = ds.SpaceEfficiency(psr); err != nil {
		return nil, err
	}
	switch ds.Kind {
	case KindMicroCHP:
		if s.summer_effy, err = ds.SummerEfficiency(psr); err != nil {
			return nil, err
		}
		if s.elec_effy, err = ds.ElectricalEfficiency(psr); err != nil {
			return nil, err
		}
	case KindPerformanceHeatPump:
		if s.n24_16, s.n24_9, err = ds.LongerHeatingDays(psr); err != nil {
			return nil, err
		}
	default:
		return nil, assertionErrorf("performance dataset %s has kind %s", ds.ID, ds.Kind)
	}
	return s, nil
}

func (s *PerformanceRatedSystem) PSR() float64                 { return s.psr }
func (s *PerformanceRatedSystem) Dataset() *PerformanceDataset { return s.dataset }

// LongerHeatingDays returns (N24,16, N24,9) at the system's PSR.
func (s *PerformanceRatedSystem) LongerHeatingDays() (float64, float64) {
	return s.n24_16, s.n24_9
}

// ElectricalEfficiency is the micro-CHP electricity generated per unit of fuel, %.
func (s *PerformanceRatedSystem) ElectricalEfficiency() float64 { return s.elec_effy }

func (s *PerformanceRatedSystem) SpaceHeatEfficiency(_ HeatDemand, adj Adjustment) (MonthlySeries, error) {
	return Uniform((s.space_effy + adj.SpaceAdj) * adj.SpaceMult), nil
}

func (s *PerformanceRatedSystem) WaterHeatEfficiency(q HeatDemand, adj Adjustment) (MonthlySeries, error) {
	if s.kind == KindMicroCHP {
		winter := (s.space_effy + adj.WaterAdj) * adj.WaterMult
		summer := (s.summer_effy + adj.WaterAdj) * adj.WaterMult
		return blendWaterEfficiency(q, Uniform(winter), summer), nil
	}
	if s.dataset.WaterEffy <= 0 {
		return MonthlySeries{}, inputErrorf("%s has no water heating efficiency", s.name)
	}
	return Uniform((s.dataset.WaterEffy + adj.WaterAdj) * adj.WaterMult), nil
}
