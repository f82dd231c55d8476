package monthly

// Sum totals the entered months. An empty series sums to 0.
func Sum(d MonthlyData) float64 {
	total := 0.0
	for _, v := range d {
		if v != nil {
			total += *v
		}
	}
	return total
}

// Average divides the sum by the number of entered months. Entered zeros
// count toward the denominator; absent months do not.
func Average(d MonthlyData) float64 {
	total := 0.0
	count := 0
	for _, v := range d {
		if v != nil {
			total += *v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// LastNonZero scans December back to January and returns the first entered,
// non-zero value. Stock metrics such as headcount use it as the period-end
// balance. Falls back to December's value (0 when absent).
func LastNonZero(d MonthlyData) float64 {
	for i := Count - 1; i >= 0; i-- {
		if d[i] != nil && *d[i] != 0 {
			return *d[i]
		}
	}
	return d.Value(Dec)
}
