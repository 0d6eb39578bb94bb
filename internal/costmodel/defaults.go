package costmodel

import "github.com/shopspring/decimal"

// Built-in scenario names.
const (
	ScenarioLower = "Lower Utility Costs"
	ScenarioBase  = "Base Utility Costs"
	ScenarioUpper = "Upper Utility Costs"
)

// Fluctuation is one row of the cost fluctuation table, in percent.
type Fluctuation struct {
	Category string
	Lower    decimal.Decimal
	Base     decimal.Decimal
	Upper    decimal.Decimal
}

// Percent returns the column selected by r. RangeNone yields zero.
func (f Fluctuation) Percent(r Range) decimal.Decimal {
	switch r {
	case RangeLower:
		return f.Lower
	case RangeBase:
		return f.Base
	case RangeUpper:
		return f.Upper
	default:
		return decimal.Zero
	}
}

func fluctuation(category string, lower, upper int64) Fluctuation {
	return Fluctuation{
		Category: category,
		Lower:    decimal.NewFromInt(lower),
		Base:     decimal.Zero,
		Upper:    decimal.NewFromInt(upper),
	}
}

// Fluctuations returns the pilot plant's cost fluctuation ranges. Some rows
// name categories that the default OpEx mapping does not carry; they are
// skipped when a range is applied.
func Fluctuations() []Fluctuation {
	return []Fluctuation{
		fluctuation("Reagents", -20, 20),
		fluctuation("Energy", -15, 25),
		fluctuation("Labor", -5, 10),
		fluctuation("Maintenance", -10, 15),
		fluctuation("Disposal", -10, 10),
		fluctuation("Microwave Energy", -10, 15),
		fluctuation("Ascorbic Acid", -15, 20),
		fluctuation("Wastewater Treatment", -5, 10),
	}
}

func item(category string, amount float64) Item {
	return Item{Category: category, Amount: decimal.NewFromFloat(amount)}
}

// DefaultCapEx is the equipment cost of the 10 kg BM pilot line, in EUR.
func DefaultCapEx() CostMapping {
	m, _ := NewCostMapping(
		item("Leaching Reactor", 20000),
		item("Press Filter", 15000),
		item("Precipitation Reactor", 18000),
		item("Solvent Extraction Unit", 30000),
		item("Microwave Thermal Treatment Unit", 25000),
		item("Pre-treatment Dryer", 15000),
		item("Secondary Dryer", 12000),
		item("Wastewater Treatment Unit", 18000),
	)
	return m
}

// DefaultOpEx is the per-batch operating cost, in EUR.
func DefaultOpEx() CostMapping {
	m, _ := NewCostMapping(
		item("Reagents", 90),
		item("Energy", 44),
		item("Labor", 80),
		item("Maintenance", 20),
		item("Disposal", 12.5),
		item("Microwave Energy", 6.0),
		item("Drying Energy (Pre-treatment)", 3.5),
		item("Drying Energy (Secondary)", 2.5),
		item("Malic Acid", 8.0),
		item("Hydrogen Peroxide", 4.0),
		item("Lithium Precipitation Reagents", 5.0),
		item("Co/Ni/Mn Precipitation Reagents", 7.0),
		item("Wastewater Treatment Chemicals", 6.0),
	)
	return m
}

// DefaultBaseline pairs DefaultCapEx and DefaultOpEx.
func DefaultBaseline() Snapshot {
	return Snapshot{CapEx: DefaultCapEx(), OpEx: DefaultOpEx()}
}

// DefaultScenarios returns the Lower, Base and Upper utility cost scenarios.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:              ScenarioLower,
			OpExPercentDeltas: Deltas(nil, map[string]float64{"Labor": -5}),
			EnergyVariation:   EnergyVariationOf(-15),
		},
		{
			Name:            ScenarioBase,
			EnergyVariation: EnergyVariationOf(0),
		},
		{
			Name:              ScenarioUpper,
			OpExPercentDeltas: Deltas(nil, map[string]float64{"Labor": 10}),
			EnergyVariation:   EnergyVariationOf(25),
		},
	}
}
