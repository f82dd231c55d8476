// Package importer reads spreadsheet rows pasted from the clipboard into the
// fixed lines of a FinancialSheet.
package importer

import (
	"strings"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/models"
)

// label maps a localized row label fragment to a sheet line. Order matters:
// the first fragment contained in the row label wins.
type label struct {
	fragment string
	line     models.LineKey
}

var labels = []label{
	{"receita bruta", models.LineGrossRevenue},
	{"faturamento", models.LineGrossRevenue},
	{"impostos", models.LineTaxes},
	{"deduções", models.LineTaxes},
	{"folha", models.LinePayroll},
	{"salários", models.LinePayroll},
	{"aluguel", models.LineRent},
	{"despesas operacionais", models.LineOpex},
	{"opex", models.LineOpex},
	{"marketing", models.LineFixedMarketing},
	{"administrativ", models.LineAdmin},
	{"cmv", models.LineCOGS},
	{"custo da mercadoria", models.LineCOGS},
	{"comiss", models.LineCommissions},
	{"frete", models.LineFreight},
}

// Result is the outcome of parsing one paste.
type Result struct {
	// Lines holds the parsed series per recognized line, in first-seen order.
	Lines   map[models.LineKey]monthly.MonthlyData `json:"lines"`
	Order   []models.LineKey                       `json:"order"`
	Ignored int                                    `json:"ignored"`
}

// Match returns the line a row label refers to.
func Match(rowLabel string) (models.LineKey, bool) {
	l := strings.ToLower(strings.TrimSpace(rowLabel))
	if l == "" {
		return "", false
	}
	for _, entry := range labels {
		if strings.Contains(l, entry.fragment) {
			return entry.line, true
		}
	}
	return "", false
}

// ParseTSV parses tab-separated text. Column 0 is the label, columns 1..12
// are January..December. Empty cells stay absent; any other unparseable
// cell becomes 0. Rows with an unknown label are skipped.
func ParseTSV(text string) Result {
	res := Result{Lines: make(map[models.LineKey]monthly.MonthlyData)}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for _, row := range strings.Split(text, "\n") {
		if strings.TrimSpace(row) == "" {
			continue
		}
		cols := strings.Split(row, "\t")
		line, ok := Match(cols[0])
		if !ok {
			res.Ignored++
			continue
		}

		series, seen := res.Lines[line]
		if !seen {
			res.Order = append(res.Order, line)
		}
		for i, cell := range cols[1:] {
			if i >= monthly.Count {
				break
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			series.Set(monthly.Month(i), monthly.ParseNumber(cell))
		}
		res.Lines[line] = series
	}
	return res
}

// Apply writes the parsed months into sheet. Only fixed lines are touched
// and only months present in the paste overwrite existing values.
func (r Result) Apply(sheet *models.FinancialSheet) error {
	for _, key := range r.Order {
		row, err := sheet.Line(key)
		if err != nil {
			return err
		}
		series := r.Lines[key]
		for _, m := range monthly.Months {
			if series.Has(m) {
				row.Values.Set(m, series.Value(m))
			}
		}
	}
	return nil
}
