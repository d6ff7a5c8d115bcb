package sap_calc

import (
	"math"
)

// **** Monthly energy balance ****

// heating temperature of the living area, C
const livingAreaTemperature = 21.0

// hours of the heating-off periods per day
type offPeriods struct {
	weekday []float64
	weekend []float64
}

var (
	offPeriodsStandard = offPeriods{weekday: []float64{7, 8}, weekend: []float64{8}}
	offPeriodsZoned    = offPeriods{weekday: []float64{9, 8}, weekend: []float64{9, 8}}
)

func restOffPeriods(control_type int) offPeriods {
	if control_type == 3 {
		return offPeriodsZoned
	}
	return offPeriodsStandard
}

// restHeatingTemperature is Th2 for a control type, C.
func restHeatingTemperature(control_type int, hlp float64) float64 {
	if control_type == 1 {
		return livingAreaTemperature - 0.5*hlp
	}
	return livingAreaTemperature - hlp + hlp*hlp/12
}

// longerHeatingOrder is the order in which longer heating days are allocated to months.
var longerHeatingOrder = [12]int{0, 11, 1, 2, 10, 3, 9, 4, 8, 5, 7, 6}

// weekend and weekday days of each month
var (
	weekendDays = DaysInMonth.Scale(2.0 / 7)
	weekdayDays = DaysInMonth.Scale(5.0 / 7)
)

// allocateDays spreads an annual day count over the months in longerHeatingOrder, filling
// each month up to its capacity before moving to the next. Days beyond the annual
// capacity are dropped.
func allocateDays(annual float64, capacity MonthlySeries) MonthlySeries {
	var days MonthlySeries
	remaining := annual
	for _, m := range longerHeatingOrder {
		if remaining <= 0 {
			break
		}
		days[m] = math.Min(remaining, capacity[m])
		remaining -= days[m]
	}
	return days
}

/*
UtilisationFactor is the fraction of gains usefully offsetting heat loss.

	Args:
	    gamma: gains / loss
	    a: 1 + tau/15

	gamma <= 0 gives 1; gamma == 1 uses the limit a/(a+1).
*/
func UtilisationFactor(gamma, a float64) float64 {
	switch {
	case gamma <= 0:
		return 1
	case gamma == 1:
		return a / (a + 1)
	case math.IsInf(gamma, 1):
		return 0
	default:
		return (1 - math.Pow(gamma, a)) / (1 - math.Pow(gamma, a+1))
	}
}

func utilisation(gains, loss, a float64) float64 {
	if loss == 0 {
		if gains > 0 {
			return 0
		}
		return 1
	}
	return UtilisationFactor(gains/loss, a)
}

// offPeriodDrop is the temperature reduction u caused by one heating-off period, K.
func offPeriodDrop(t_off, th, tsc, tc float64) float64 {
	if t_off <= tc {
		return 0.5 * t_off * t_off * (th - tsc) / (24 * tc)
	}
	return (th - tsc) * (t_off - 0.5*tc) / 24
}

// zoneConditions are the per-month quantities shared by both zones.
type zoneConditions struct {
	te  float64 // external temperature
	h   float64 // heat transfer coefficient, W/K
	g   float64 // gains, W
	tau float64
	a   float64
	r   float64 // responsiveness
	nm  float64

	// days of 24-hour heating replacing weekend (16-hour) and weekday (9-hour) days
	n24_16 float64
	n24_9  float64
}

func (z zoneConditions) dayTemperature(th, tsc, tc float64, offs []float64) float64 {
	t := th
	for _, t_off := range offs {
		t -= offPeriodDrop(t_off, th, tsc, tc)
	}
	return t
}

/*
meanZoneTemperature is the monthly mean temperature of a zone heated to th.

	The no-heat temperature Tsc is blended with th by responsiveness; weekdays and weekends
	are weighted 5/2. Longer heating days are held at th all day: N24,16 of them come out
	of the weekend days and N24,9 out of the weekdays.
*/
func (z zoneConditions) meanZoneTemperature(th float64, offs offPeriods) float64 {
	eta := utilisation(z.g, z.h*(th-z.te), z.a)
	tc := 4 + 0.25*z.tau
	tsc := (1-z.r)*(th-2) + z.r*(z.te+eta*z.g/z.h)

	weekday := z.dayTemperature(th, tsc, tc, offs.weekday)
	weekend := z.dayTemperature(th, tsc, tc, offs.weekend)
	if z.n24_16 == 0 && z.n24_9 == 0 {
		return (5*weekday + 2*weekend) / 7
	}

	n_weekend := z.nm * 2 / 7
	n_weekday := z.nm * 5 / 7
	n16 := math.Min(z.n24_16, n_weekend)
	n9 := math.Min(z.n24_9, n_weekday)
	return ((n16+n9)*th + (n_weekend-n16)*weekend + (n_weekday-n9)*weekday) / z.nm
}

//---------------------------------------------------------------------------------------------------//

type Demand struct {
	Gains             MonthlySeries // W
	LivingTemperature MonthlySeries // C
	RestTemperature   MonthlySeries
	MeanTemperature   MonthlySeries
	Loss              MonthlySeries // W
	Utilisation       MonthlySeries
	UsefulGain        MonthlySeries // W
	HeatRequired      MonthlySeries // kWh/month

	// days of 24-hour heating replacing weekend and weekday days
	LongerHeating16 MonthlySeries
	LongerHeating9  MonthlySeries

	// useful space heat by system, kWh/month
	SpaceMain1     MonthlySeries
	SpaceMain2     MonthlySeries
	SpaceSecondary MonthlySeries

	// efficiencies, %
	EffyMain1     MonthlySeries
	EffyMain2     MonthlySeries
	EffySecondary MonthlySeries
	EffyWater     MonthlySeries

	// delivered energy, kWh/month
	FuelMain1            MonthlySeries
	FuelMain2            MonthlySeries
	FuelSecondary        MonthlySeries
	WaterFuel            MonthlySeries
	WaterKeepHot         MonthlySeries
	WaterSummerImmersion MonthlySeries
}

// longerHeatingDays is the annual (N24,16, N24,9) of the performance-rated heat pumps.
func longerHeatingDays(d *Dwelling) (n16, n9 float64) {
	for _, s := range []HeatingSystem{d.Main1, d.Main2} {
		if p, ok := s.(*PerformanceRatedSystem); ok && p.Kind() == KindPerformanceHeatPump {
			a, b := p.LongerHeatingDays()
			n16 = math.Max(n16, a)
			n9 = math.Max(n9, b)
		}
	}
	return n16, n9
}

func calculateDemand(d *Dwelling, _ *Tables) error {
	in := d.Input
	v := d.Ventilation
	c := d.Controls
	dm := &Demand{}

	if in.LivingAreaFraction < 0 || in.LivingAreaFraction > 1 {
		return inputErrorf("living area fraction %g outside 0-1", in.LivingAreaFraction)
	}
	if in.ThermalMassParameter <= 0 {
		return inputErrorf("thermal mass parameter must be positive, got %g", in.ThermalMassParameter)
	}

	dm.Gains = d.internalGains().Add(in.SolarGains).Add(d.PumpsFans.Gains).Add(d.WaterOutput.Gains)

	n16, n9 := longerHeatingDays(d)
	dm.LongerHeating16 = allocateDays(n16, weekendDays)
	dm.LongerHeating9 = allocateDays(n9, weekdayDays)

	// share of the rest of the dwelling heated by main system 2
	var x2 float64
	if d.HasMain2() && in.Main2SeparateArea && in.LivingAreaFraction < 1 {
		x2 = math.Min(1, in.MainHeating2Fraction/(1-in.LivingAreaFraction))
	}

	rcf := d.rangeCookerFactor()
	f_la := in.LivingAreaFraction

	for m := range dm.HeatRequired {
		h := v.H[m]
		hlp := v.HLP[m]
		if h <= 0 || hlp <= 0 {
			return calculationErrorf("heat transfer coefficient not positive in month %d", m+1)
		}
		tau := in.ThermalMassParameter / (3.6 * hlp)
		z := zoneConditions{
			te:     d.Climate.TExternal[m],
			h:      h,
			g:      dm.Gains[m],
			tau:    tau,
			a:      1 + tau/15,
			r:      d.Responsiveness,
			nm:     DaysInMonth[m],
			n24_16: dm.LongerHeating16[m],
			n24_9:  dm.LongerHeating9[m],
		}

		t1 := z.meanZoneTemperature(livingAreaTemperature, offPeriodsStandard)

		ct1 := c.Main1.ControlType
		t2 := z.meanZoneTemperature(restHeatingTemperature(ct1, hlp), restOffPeriods(ct1))
		if x2 > 0 {
			ct2 := c.ControlType2()
			t2_sys2 := z.meanZoneTemperature(restHeatingTemperature(ct2, hlp), restOffPeriods(ct2))
			t2 = (1-x2)*t2 + x2*t2_sys2
		}

		t := f_la*t1 + (1-f_la)*t2 + c.TemperatureAdjustment
		dm.LivingTemperature[m] = t1
		dm.RestTemperature[m] = t2
		dm.MeanTemperature[m] = t

		loss := h * (t - z.te)
		eta := utilisation(z.g, loss, z.a)
		useful := eta * z.g
		q := rcf * 0.024 * (loss - useful) * z.nm

		if IsSummerMonth(m) {
			continue
		}
		dm.Loss[m] = loss
		dm.Utilisation[m] = eta
		dm.UsefulGain[m] = useful
		dm.HeatRequired[m] = math.Max(0, q)
	}

	if err := splitSpaceHeat(d, dm); err != nil {
		return err
	}
	if err := waterFuel(d, dm); err != nil {
		return err
	}

	d.Demand = dm
	return nil
}

// fuelFor is 100 x demand / efficiency, month by month.
func fuelFor(demand, effy MonthlySeries) MonthlySeries {
	return demand.Scale(100).Div(effy)
}

// splitSpaceHeat apportions the heat requirement to the systems and converts it to fuel.
func splitSpaceHeat(d *Dwelling, dm *Demand) error {
	fr := d.Fractions
	c := d.Controls
	water := d.WaterOutput.Output

	dm.SpaceMain1 = dm.HeatRequired.Scale(fr.Main1Share())
	dm.SpaceMain2 = dm.HeatRequired.Scale(fr.Main2Share())
	dm.SpaceSecondary = dm.HeatRequired.Scale(fr.Secondary)

	var err error
	q1 := HeatDemand{Space: dm.SpaceMain1}
	if d.Water.Source == WaterFromMain1 {
		q1.Water = water
	}
	if dm.EffyMain1, err = d.Main1.SpaceHeatEfficiency(q1, c.Adjust1); err != nil {
		return err
	}
	dm.FuelMain1 = fuelFor(dm.SpaceMain1, dm.EffyMain1)

	if d.HasMain2() {
		q2 := HeatDemand{Space: dm.SpaceMain2}
		if d.Water.Source == WaterFromMain2 {
			q2.Water = water
		}
		if dm.EffyMain2, err = d.Main2.SpaceHeatEfficiency(q2, c.Adjust2); err != nil {
			return err
		}
		dm.FuelMain2 = fuelFor(dm.SpaceMain2, dm.EffyMain2)
	}

	if d.HasSecondary() {
		qs := HeatDemand{Space: dm.SpaceSecondary}
		if dm.EffySecondary, err = d.Secondary.SpaceHeatEfficiency(qs, NoAdjustment); err != nil {
			return err
		}
		dm.FuelSecondary = fuelFor(dm.SpaceSecondary, dm.EffySecondary)
	}
	return nil
}

// waterFuel converts the water heat output to delivered energy.
func waterFuel(d *Dwelling, dm *Demand) error {
	wo := d.WaterOutput
	q := HeatDemand{Water: wo.Output}
	switch d.Water.Source {
	case WaterFromMain1:
		q.Space = dm.SpaceMain1
	case WaterFromMain2:
		q.Space = dm.SpaceMain2
	case WaterFromSecondary:
		q.Space = dm.SpaceSecondary
	}

	effy, err := d.Water.System.WaterHeatEfficiency(q, d.Controls.WaterAdjust)
	if err != nil {
		return err
	}
	dm.EffyWater = effy

	output := wo.Output
	if wo.KeepHotElectric {
		// the keep-hot loss is billed as electricity
		dm.WaterKeepHot = wo.CombiLoss
		output = output.Sub(wo.CombiLoss).Map(func(_ int, v float64) float64 { return math.Max(0, v) })
	}
	dm.WaterFuel = fuelFor(output, effy)

	if wo.SummerImmersion {
		for _, m := range SummerMonths {
			dm.WaterSummerImmersion[m] = output[m]
			dm.WaterFuel[m] = 0
		}
	}
	return nil
}
