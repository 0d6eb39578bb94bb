// Package assumptions writes the modelling assumptions shown next to a
// scenario, as Markdown and as rendered HTML.
package assumptions

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"

	"github.com/Simplici0/amelie/internal/costmodel"
)

var general = []string{
	"Pilot project sized for 10 kg BM per batch.",
	"No infrastructure costs.",
	"Process: BM pre-treatment (drying), microwave-assisted thermal treatment, leaching in water, " +
		"precipitation for lithium recovery, secondary drying, leaching in acid (malic acid and hydrogen peroxide), " +
		"additional precipitation for Co, Ni, and Mn recovery, and wastewater treatment.",
	"Energy cost calculated dynamically based on kWh per machine.",
	"Labor includes one operator per batch.",
	"Maintenance and disposal are estimated.",
	"Microwave-assisted thermal treatment considered (source: Aznar, p. 57).",
	"Use of ascorbic/malic acid for leaching based on AMELIE project results (source: Gaeta, p. 30).",
}

var specific = map[string][]string{
	costmodel.ScenarioLower: {
		"Reduced energy consumption due to optimized operations.",
		"15% reduction in energy costs.",
		"5% reduction in labor costs.",
	},
	costmodel.ScenarioBase: {
		"Standard energy consumption and costs.",
		"No change to labor costs.",
	},
	costmodel.ScenarioUpper: {
		"Increased energy consumption due to inefficiencies.",
		"25% increase in energy costs.",
		"10% increase in labor costs.",
	},
}

const noSpecific = "No specific assumptions provided for this scenario."

// Markdown returns the general assumptions followed by the ones specific
// to sc. Scenario notes take precedence over the built-in texts. A line
// naming the fluctuation range is added only when sc sets one.
func Markdown(sc costmodel.Scenario) string {
	var b strings.Builder

	b.WriteString("### General Assumptions:\n\n")
	for i, line := range general {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	fmt.Fprintf(&b, "%d. Cost fluctuations are calculated based on the following ranges:\n", len(general)+1)
	writeRange(&b, "Lower Range", costmodel.RangeLower)
	b.WriteString("   - **Base Range**:\n")
	b.WriteString("     - No fluctuations applied.\n")
	writeRange(&b, "Upper Range", costmodel.RangeUpper)

	notes := sc.Notes
	if len(notes) == 0 {
		notes = specific[sc.Name]
	}
	if sc.Range != costmodel.RangeNone {
		notes = append(slices.Clip(notes), string(sc.Range)+" range of cost fluctuations applied.")
	}

	b.WriteString("\n")
	if len(notes) == 0 {
		b.WriteString("### Specific Assumptions:\n\n")
		b.WriteString("- " + noSpecific + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "### Specific Assumptions for %s:\n\n", sc.Name)
	for _, n := range notes {
		b.WriteString("- " + n + "\n")
	}
	return b.String()
}

// HTML renders Markdown(sc) to HTML. goldmark escapes raw HTML by default,
// so user supplied notes are safe to embed.
func HTML(sc costmodel.Scenario) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(sc)), &buf); err != nil {
		return "", fmt.Errorf("render assumptions for %q: %w", sc.Name, err)
	}
	return template.HTML(buf.String()), nil
}

func writeRange(b *strings.Builder, title string, r costmodel.Range) {
	fmt.Fprintf(b, "   - **%s**:\n", title)
	for _, f := range costmodel.Fluctuations() {
		fmt.Fprintf(b, "     - %s: %s%%\n", f.Category, signed(f.Percent(r)))
	}
}

func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}
