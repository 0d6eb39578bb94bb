package costmodel

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EnergyCategory is the OpEx line targeted by a scenario's energy variation.
const EnergyCategory = "Energy"

var hundred = decimal.NewFromInt(100)

// Snapshot is an immutable pair of cost mappings.
type Snapshot struct {
	CapEx CostMapping `json:"capex"`
	OpEx  CostMapping `json:"opex"`
}

// Totals holds the summed CapEx (one-time) and OpEx (per batch).
type Totals struct {
	CapEx decimal.Decimal `json:"capex"`
	OpEx  decimal.Decimal `json:"opex"`
}

// Totals sums both mappings.
func (s Snapshot) Totals() Totals {
	return Totals{CapEx: s.CapEx.Total(), OpEx: s.OpEx.Total()}
}

// Equal reports whether both mappings of s and other are equal.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.CapEx.Equal(other.CapEx) && s.OpEx.Equal(other.OpEx)
}

// Apply returns a new snapshot with sc applied to s. s itself is never
// modified, so a failed application leaves the caller's state intact.
//
// Steps run in order: CapEx deltas, OpEx percentage deltas, fluctuation
// range, energy variation. A percentage delta or energy variation that
// targets a missing OpEx category fails with ErrCategoryNotFound.
func Apply(s Snapshot, sc Scenario) (Snapshot, error) {
	if err := sc.Validate(); err != nil {
		return s, err
	}

	capex := s.CapEx.clone()
	for _, adj := range sc.CapExDeltas {
		current, _ := capex.Get(adj.Category)
		capex.set(adj.Category, current.Add(adj.Value))
	}

	opex := s.OpEx.clone()
	for _, adj := range sc.OpExPercentDeltas {
		if err := scalePercent(&opex, adj.Category, adj.Value); err != nil {
			return s, fmt.Errorf("scenario %q opex delta: %w", sc.Name, err)
		}
	}

	if r, _ := ParseRange(string(sc.Range)); r != RangeNone {
		for _, f := range Fluctuations() {
			if _, ok := opex.Get(f.Category); !ok {
				continue
			}
			_ = scalePercent(&opex, f.Category, f.Percent(r))
		}
	}

	if sc.EnergyVariation.Valid {
		if err := scalePercent(&opex, EnergyCategory, sc.EnergyVariation.Decimal); err != nil {
			return s, fmt.Errorf("scenario %q energy variation: %w", sc.Name, err)
		}
	}

	return Snapshot{CapEx: capex, OpEx: opex}, nil
}

func scalePercent(m *CostMapping, category string, pct decimal.Decimal) error {
	current, ok := m.Get(category)
	if !ok {
		return fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	factor := decimal.NewFromInt(1).Add(pct.Div(hundred))
	m.set(category, current.Mul(factor))
	return nil
}
