// Package monthly implements the fixed 12-slot time series used by every
// sheet, statement and projection in the planner.
package monthly

import (
	"encoding/json"
	"fmt"
)

// Month indexes the fixed calendar (Jan = 0 ... Dec = 11).
type Month int

const (
	Jan Month = iota
	Feb
	Mar
	Apr
	May
	Jun
	Jul
	Aug
	Sep
	Oct
	Nov
	Dec
)

// Count is the number of slots in every series.
const Count = 12

// keys are the persisted month identifiers, in calendar order.
var keys = [Count]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Months lists the calendar in order.
var Months = [Count]Month{Jan, Feb, Mar, Apr, May, Jun, Jul, Aug, Sep, Oct, Nov, Dec}

// Key returns the persisted key ("jan" ... "dez").
func (m Month) Key() string {
	if m < Jan || m > Dec {
		return ""
	}
	return keys[m]
}

func (m Month) String() string { return m.Key() }

// ParseMonth resolves a persisted key back to a Month.
func ParseMonth(key string) (Month, error) {
	for i, k := range keys {
		if k == key {
			return Month(i), nil
		}
	}
	return 0, fmt.Errorf("unknown month key %q", key)
}

// MonthlyData holds one optional value per month. A nil slot means the value
// was never entered, which is distinct from an entered zero.
type MonthlyData [Count]*float64

// Ptr returns a pointer to v, handy for literals.
func Ptr(v float64) *float64 { return &v }

// Of builds a series from up to 12 values starting in January.
func Of(values ...float64) MonthlyData {
	var d MonthlyData
	for i, v := range values {
		if i >= Count {
			break
		}
		d[i] = Ptr(v)
	}
	return d
}

// Flat builds a series with the same value in every month.
func Flat(v float64) MonthlyData {
	var d MonthlyData
	for i := range d {
		d[i] = Ptr(v)
	}
	return d
}

// Full builds a fully-present series from fn.
func Full(fn func(m Month) float64) MonthlyData {
	var d MonthlyData
	for _, m := range Months {
		d[m] = Ptr(fn(m))
	}
	return d
}

// Value returns the month's value, treating absent as 0.
func (d MonthlyData) Value(m Month) float64 {
	if m < Jan || m > Dec || d[m] == nil {
		return 0
	}
	return *d[m]
}

// Has reports whether the month was entered.
func (d MonthlyData) Has(m Month) bool {
	return m >= Jan && m <= Dec && d[m] != nil
}

// Set stores v in month m.
func (d *MonthlyData) Set(m Month, v float64) {
	if m < Jan || m > Dec {
		return
	}
	d[m] = Ptr(v)
}

// Clear marks month m as not entered.
func (d *MonthlyData) Clear(m Month) {
	if m < Jan || m > Dec {
		return
	}
	d[m] = nil
}

// Clone returns a deep copy; the result shares no pointers with d.
func (d MonthlyData) Clone() MonthlyData {
	var out MonthlyData
	for i, v := range d {
		if v != nil {
			out[i] = Ptr(*v)
		}
	}
	return out
}

// Scale multiplies every entered month by factor. Absent months stay absent.
func (d MonthlyData) Scale(factor float64) MonthlyData {
	var out MonthlyData
	for i, v := range d {
		if v != nil {
			out[i] = Ptr(*v * factor)
		}
	}
	return out
}

// Add sums series month by month into a fully-present series.
func Add(series ...MonthlyData) MonthlyData {
	return Full(func(m Month) float64 {
		total := 0.0
		for _, s := range series {
			total += s.Value(m)
		}
		return total
	})
}

// Sub returns a - b month by month.
func Sub(a, b MonthlyData) MonthlyData {
	return Full(func(m Month) float64 { return a.Value(m) - b.Value(m) })
}

// Map applies fn to every month of d, producing a fully-present series.
func (d MonthlyData) Map(fn func(m Month, v float64) float64) MonthlyData {
	return Full(func(m Month) float64 { return fn(m, d.Value(m)) })
}

// MarshalJSON writes the series as {"jan": 1, ...}; absent months are omitted.
func (d MonthlyData) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, Count)
	for i, v := range d {
		if v != nil {
			out[keys[i]] = *v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts an object keyed by month; null values are treated as
// not entered and unknown keys are rejected.
func (d *MonthlyData) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("monthly data: %w", err)
	}
	var out MonthlyData
	for k, v := range raw {
		m, err := ParseMonth(k)
		if err != nil {
			return err
		}
		if v != nil {
			out[m] = Ptr(*v)
		}
	}
	*d = out
	return nil
}
