package monthly

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSumTreatsAbsentAsZero(t *testing.T) {
	var empty MonthlyData
	if got := Sum(empty); got != 0 {
		t.Errorf("Expected 0 for empty series, got %v", got)
	}

	d := Of(100, 200)
	d.Set(Dec, 50)
	if got := Sum(d); got != 350 {
		t.Errorf("Expected 350, got %v", got)
	}
}

func TestAverageCountsOnlyEnteredMonths(t *testing.T) {
	var d MonthlyData
	d.Set(Jan, 0)
	if got := Average(d); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}

	// jan=0 entered, feb absent, mar=30 -> 30/2
	d.Set(Mar, 30)
	if got := Average(d); got != 15 {
		t.Errorf("Expected 15 (denominator 2), got %v", got)
	}

	var none MonthlyData
	if got := Average(none); got != 0 {
		t.Errorf("Expected 0 with no entries, got %v", got)
	}
}

func TestLastNonZero(t *testing.T) {
	d := Of(10, 11, 12, 13)
	d.Set(Nov, 0)
	d.Set(Dec, 0)
	if got := LastNonZero(d); got != 13 {
		t.Errorf("Expected 13 (April headcount), got %v", got)
	}

	zeros := Flat(0)
	if got := LastNonZero(zeros); got != 0 {
		t.Errorf("Expected fallback to December 0, got %v", got)
	}
}

func TestScaleKeepsAbsentMonths(t *testing.T) {
	d := Of(1000)
	scaled := d.Scale(1.25)
	if scaled.Value(Jan) != 1250 {
		t.Errorf("Expected 1250, got %v", scaled.Value(Jan))
	}
	if scaled.Has(Feb) {
		t.Errorf("Expected February to stay absent")
	}
	// source untouched
	if d.Value(Jan) != 1000 {
		t.Errorf("Scale mutated its receiver")
	}
}

func TestJSONRoundTripUsesMonthKeys(t *testing.T) {
	d := Of(1, 2)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"fev":2,"jan":1}` {
		t.Errorf("Unexpected encoding %s", raw)
	}

	var back MonthlyData
	if err := json.Unmarshal([]byte(`{"jan":5,"dez":null}`), &back); err != nil {
		t.Fatal(err)
	}
	if back.Value(Jan) != 5 || back.Has(Dec) {
		t.Errorf("Unexpected decode %+v", back)
	}

	if err := json.Unmarshal([]byte(`{"janeiro":1}`), &back); err == nil {
		t.Errorf("Expected unknown month key to be rejected")
	}
}

func TestDistributeSumsToTotal(t *testing.T) {
	const total = 120000.0
	ref := Of(1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3)

	cases := []struct {
		policy Policy
		ref    MonthlyData
	}{
		{PolicyLinear, MonthlyData{}},
		{PolicyProgressive, MonthlyData{}},
		{PolicySeasonal, ref},
	}
	for _, tc := range cases {
		got := Sum(Distribute(total, tc.policy, tc.ref))
		if math.Abs(got-total) > 1e-6 {
			t.Errorf("%s: expected %v, got %v", tc.policy, total, got)
		}
	}
}

func TestDistributeShapes(t *testing.T) {
	linear := Distribute(1200, PolicyLinear, MonthlyData{})
	if math.Abs(linear.Value(Mar)-100) > 1e-9 {
		t.Errorf("Expected 100 per month, got %v", linear.Value(Mar))
	}

	// value[i] = total * 2*i / (12*13)
	prog := Distribute(156, PolicyProgressive, MonthlyData{})
	if math.Abs(prog.Value(Jan)-2) > 1e-9 {
		t.Errorf("Expected January 2, got %v", prog.Value(Jan))
	}
	if math.Abs(prog.Value(Dec)-24) > 1e-9 {
		t.Errorf("Expected December 24, got %v", prog.Value(Dec))
	}

	seasonal := Distribute(1000, PolicySeasonal, Of(1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3))
	if math.Abs(seasonal.Value(Jan)-250) > 1e-9 || math.Abs(seasonal.Value(Dec)-750) > 1e-9 {
		t.Errorf("Unexpected seasonal spread jan=%v dez=%v", seasonal.Value(Jan), seasonal.Value(Dec))
	}

	fallback := Distribute(1200, PolicySeasonal, Flat(0))
	for _, m := range Months {
		if math.Abs(fallback.Value(m)-100) > 1e-9 {
			t.Errorf("Expected linear fallback in %s, got %v", m, fallback.Value(m))
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"":             0,
		"abc":          0,
		"1000":         1000,
		"R$ 1.234,56":  1234.56,
		"$1,234.56":    1234.56,
		"12,5":         12.5,
		"1.234.567":    1234567,
		"-300":         -300,
		"(250,00)":     -250,
		"15%":          15,
		" 7 ":          7,
		"R$ 10.000,00": 10000,
		"R$ 1.500":     1500,
		"R$ 12.000":    12000,
		"1.500":        1500,
		"1.5":          1.5,
		"12.50":        12.5,
		"0.125":        0.125,
		"-2.500":       -2500,
		"1234.567":     1234.567,
	}
	for in, want := range cases {
		if got := ParseNumber(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("ParseNumber(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("set")
	if err != nil || m != Sep {
		t.Errorf("Expected Sep, got %v (%v)", m, err)
	}
	if _, err := ParseMonth("sep"); err == nil {
		t.Errorf("Expected error for english key")
	}
}
