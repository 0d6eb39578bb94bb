// Package report builds the tabular breakdowns of a cost mapping.
package report

import (
	"encoding/csv"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/amelie/internal/costmodel"
)

// Currency is the unit every amount is expressed in.
const Currency = "EUR"

// Column headers of a breakdown table.
const (
	HeaderCategory = "Category"
	HeaderCost     = "Cost (" + Currency + ")"
	TotalLabel     = "Total"
)

// Row is one line of a breakdown table.
type Row struct {
	Category string
	Cost     decimal.Decimal
	Total    bool
}

// Formatted returns the cost with thousands separators.
func (r Row) Formatted() string {
	return FormatAmount(r.Cost)
}

// Table returns one row per category followed by a Total row.
func Table(m costmodel.CostMapping) []Row {
	items := m.Items()
	rows := make([]Row, 0, len(items)+1)
	for _, it := range items {
		rows = append(rows, Row{Category: it.Category, Cost: it.Amount})
	}
	return append(rows, Row{Category: TotalLabel, Cost: m.Total(), Total: true})
}

// WriteCSV writes Table(m) with a header line. Amounts are written as exact
// decimals, without separators.
func WriteCSV(w io.Writer, m costmodel.CostMapping) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{HeaderCategory, HeaderCost}); err != nil {
		return err
	}
	for _, r := range Table(m) {
		if err := cw.Write([]string{r.Category, r.Cost.String()}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatAmount renders an amount rounded to cents with thousands separators.
func FormatAmount(d decimal.Decimal) string {
	return humanize.CommafWithDigits(d.Round(2).InexactFloat64(), 2)
}

// FormatEUR is FormatAmount followed by the currency code.
func FormatEUR(d decimal.Decimal) string {
	return FormatAmount(d) + " " + Currency
}
