package costmodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Range selects one column of the fluctuation table.
type Range string

const (
	RangeNone  Range = ""
	RangeLower Range = "Lower"
	RangeBase  Range = "Base"
	RangeUpper Range = "Upper"
)

// ParseRange accepts the range names case-insensitively. An empty string
// yields RangeNone.
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RangeNone, nil
	case "lower":
		return RangeLower, nil
	case "base":
		return RangeBase, nil
	case "upper":
		return RangeUpper, nil
	default:
		return RangeNone, fmt.Errorf("%w: unknown fluctuation range %q", ErrInvalidScenario, s)
	}
}

// Adjustment is a single category change. Its unit depends on where it is
// used: an absolute amount for CapEx, a percentage for OpEx.
type Adjustment struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

// Scenario is a named set of adjustments applied on top of a snapshot.
type Scenario struct {
	Name string `json:"name"`

	// CapExDeltas are added to the current CapEx amount. Missing categories
	// are created starting from zero.
	CapExDeltas []Adjustment `json:"capex_deltas"`

	// OpExPercentDeltas multiply the OpEx amount by 1 + pct/100.
	OpExPercentDeltas []Adjustment `json:"opex_percent_deltas"`

	// EnergyVariation, when valid, multiplies OpEx "Energy" by 1 + v/100 on
	// top of any percentage delta targeting it.
	EnergyVariation decimal.NullDecimal `json:"energy_variation"`

	Range Range    `json:"range,omitempty"`
	Notes []string `json:"notes,omitempty"`
}

// Validate checks the fields Apply cannot recover from.
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if _, err := ParseRange(string(s.Range)); err != nil {
		return err
	}
	for _, adj := range s.CapExDeltas {
		if adj.Category == "" {
			return fmt.Errorf("%w: capex delta without category", ErrInvalidScenario)
		}
	}
	for _, adj := range s.OpExPercentDeltas {
		if adj.Category == "" {
			return fmt.Errorf("%w: opex delta without category", ErrInvalidScenario)
		}
	}
	return nil
}

// EnergyVariationOf is a convenience for literal scenario definitions.
func EnergyVariationOf(pct float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(pct))
}

// Deltas turns a literal category map into adjustments ordered by the
// provided category list first, then any remaining keys in sorted order.
func Deltas(order []string, values map[string]float64) []Adjustment {
	out := make([]Adjustment, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, c := range order {
		v, ok := values[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, Adjustment{Category: c, Value: decimal.NewFromFloat(v)})
	}
	rest := make([]string, 0, len(values))
	for c := range values {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	for _, c := range rest {
		out = append(out, Adjustment{Category: c, Value: decimal.NewFromFloat(values[c])})
	}
	return out
}
