package strategic

// Bowman's clock positions.
const (
	PositionNoFrills        = "No Frills"
	PositionLowPrice        = "Low Price"
	PositionHybrid          = "Hybrid"
	PositionDifferentiation = "Differentiation"
	PositionFocusedDiff     = "Focused Differentiation"
	PositionRiskyHighMargin = "Risky High Margins"
	PositionMonopolyPricing = "Monopoly Pricing"
	PositionLossOfShare     = "Loss of Market Share"
)

type level int

const (
	low level = iota
	mid
	high
)

// levelOf buckets a 1..5 rating.
func levelOf(v float64) level {
	switch {
	case v < 2.5:
		return low
	case v > 3.5:
		return high
	}
	return mid
}

// BowmanPosition names the clock position for a price and perceived value,
// both rated 1..5.
func BowmanPosition(price, perceivedValue float64) string {
	p, v := levelOf(price), levelOf(perceivedValue)
	switch {
	case p == low && v == low:
		return PositionNoFrills
	case p == low && v == mid:
		return PositionLowPrice
	case p == low && v == high, p == mid && v == mid:
		return PositionHybrid
	case p == mid && v == high:
		return PositionDifferentiation
	case p == high && v == high:
		return PositionFocusedDiff
	case p == high && v == mid:
		return PositionRiskyHighMargin
	case p == high && v == low:
		return PositionMonopolyPricing
	}
	return PositionLossOfShare
}
