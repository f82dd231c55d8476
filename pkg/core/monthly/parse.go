package monthly

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer(
	"R$", "",
	"US$", "",
	"$", "",
	"€", "",
	"%", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
)

// ParseNumber coerces user-entered text into a number. It accepts currency
// symbols, pt-BR formatting ("1.234,56") and en formatting ("1,234.56").
// A lone dot followed by exactly three digits ("1.500") is pt-BR grouping;
// any other lone dot ("1.5", "12.50", "0.125") is a decimal point.
// Anything that still fails to parse, including empty text, becomes 0.
func ParseNumber(text string) float64 {
	s := currencyStripper.Replace(strings.TrimSpace(text))
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1, lastDot >= 0 && isGroup(s, lastDot):
		// 1.234.567 and 1.500 are pt-BR thousands groupings
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64()
}

// isGroup reports whether the dot at i separates a thousands group: three
// digits follow it and a non-zero integer part of at most three digits
// precedes it.
func isGroup(s string, i int) bool {
	head := strings.TrimPrefix(s[:i], "-")
	if head == "" || head == "0" || len(head) > 3 {
		return false
	}
	digits := s[i+1:]
	if len(digits) != 3 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
