package monthly

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy selects how an annual total is spread across months.
type Policy string

const (
	PolicyLinear      Policy = "linear"      // total/12 each month
	PolicyProgressive Policy = "progressive" // month i weighted by i
	PolicySeasonal    Policy = "seasonal"    // proportional to a reference series
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLinear, PolicyProgressive, PolicySeasonal:
		return Policy(s), nil
	case "even":
		return PolicyLinear, nil
	}
	return "", fmt.Errorf("unknown distribution policy %q", s)
}

// progressiveDenominator is 12*13, twice the arithmetic series 1..12.
var progressiveDenominator = decimal.NewFromInt(Count * (Count + 1))

// Distribute spreads total across the 12 months under policy. The weights
// are applied in decimal arithmetic and December absorbs the rounding
// residue, so the months always add back to total. Seasonal falls back to
// linear when the reference sums to 0; unknown policies behave as linear.
func Distribute(total float64, policy Policy, reference MonthlyData) MonthlyData {
	t := decimal.NewFromFloat(total)
	weights := linearWeights()

	switch policy {
	case PolicyProgressive:
		for i := range weights {
			weights[i] = decimal.NewFromInt(int64(2 * (i + 1))).Div(progressiveDenominator)
		}
	case PolicySeasonal:
		refTotal := decimal.Zero
		for _, m := range Months {
			refTotal = refTotal.Add(decimal.NewFromFloat(reference.Value(m)))
		}
		if !refTotal.IsZero() {
			for _, m := range Months {
				weights[m] = decimal.NewFromFloat(reference.Value(m)).Div(refTotal)
			}
		}
	}

	var out MonthlyData
	allocated := decimal.Zero
	for _, m := range Months[:Count-1] {
		v := t.Mul(weights[m])
		allocated = allocated.Add(v)
		out[m] = Ptr(v.InexactFloat64())
	}
	out[Dec] = Ptr(t.Sub(allocated).InexactFloat64())
	return out
}

func linearWeights() [Count]decimal.Decimal {
	var w [Count]decimal.Decimal
	twelfth := decimal.NewFromInt(1).Div(decimal.NewFromInt(Count))
	for i := range w {
		w[i] = twelfth
	}
	return w
}
