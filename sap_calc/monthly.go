package sap_calc

import (
	"gonum.org/v1/gonum/floats"
)

// MonthlySeries holds one value per calendar month, January = 0 ... December = 11.
type MonthlySeries [12]float64

// days in month, nm
var DaysInMonth = MonthlySeries{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// summer months (June - September). No space heating is modelled in these months.
var SummerMonths = [4]int{5, 6, 7, 8}

func IsSummerMonth(m int) bool {
	return m >= SummerMonths[0] && m <= SummerMonths[len(SummerMonths)-1]
}

// Uniform returns a series holding v in every month.
func Uniform(v float64) MonthlySeries {
	var s MonthlySeries
	for m := range s {
		s[m] = v
	}
	return s
}

// FromAnnual spreads an annual total over the year in proportion to the days in each month.
func FromAnnual(total float64) MonthlySeries {
	s := DaysInMonth
	floats.Scale(total/365.0, s[:])
	return s
}

func (s MonthlySeries) Sum() float64 {
	return floats.Sum(s[:])
}

func (s MonthlySeries) Scale(c float64) MonthlySeries {
	var r MonthlySeries
	floats.ScaleTo(r[:], c, s[:])
	return r
}

func (s MonthlySeries) Add(t MonthlySeries) MonthlySeries {
	var r MonthlySeries
	floats.AddTo(r[:], s[:], t[:])
	return r
}

func (s MonthlySeries) Sub(t MonthlySeries) MonthlySeries {
	var r MonthlySeries
	floats.SubTo(r[:], s[:], t[:])
	return r
}

func (s MonthlySeries) Mul(t MonthlySeries) MonthlySeries {
	var r MonthlySeries
	floats.MulTo(r[:], s[:], t[:])
	return r
}

// Div divides element-wise, yielding 0 where the divisor is 0.
func (s MonthlySeries) Div(t MonthlySeries) MonthlySeries {
	var r MonthlySeries
	for m := range s {
		if t[m] != 0 {
			r[m] = s[m] / t[m]
		}
	}
	return r
}

func (s MonthlySeries) Map(f func(m int, v float64) float64) MonthlySeries {
	var r MonthlySeries
	for m, v := range s {
		r[m] = f(m, v)
	}
	return r
}

// ZeroSummer returns a copy with the four summer months set to 0.
func (s MonthlySeries) ZeroSummer() MonthlySeries {
	for _, m := range SummerMonths {
		s[m] = 0
	}
	return s
}

// Dot is Σ s[m]*t[m].
func (s MonthlySeries) Dot(t MonthlySeries) float64 {
	return floats.Dot(s[:], t[:])
}
