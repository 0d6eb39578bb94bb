package costmodel

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func equalAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func mustGet(t *testing.T, m CostMapping, category string) decimal.Decimal {
	t.Helper()
	v, ok := m.Get(category)
	if !ok {
		t.Fatalf("category %q missing", category)
	}
	return v
}

func TestTotals_SeedValues(t *testing.T) {
	totals := DefaultBaseline().Totals()

	equalAmount(t, "capex total", totals.CapEx, "153000")
	equalAmount(t, "opex total", totals.OpEx, "288.5")
}

func TestApply_BaseScenarioIsNoop(t *testing.T) {
	m := NewDefaultModel()

	got, err := m.ApplyScenario(ScenarioBase)
	if err != nil {
		t.Fatalf("ApplyScenario: %v", err)
	}
	if !got.Equal(DefaultBaseline()) {
		t.Fatalf("base scenario changed the model: %+v", got)
	}
	equalAmount(t, "capex total", m.Totals().CapEx, "153000")
	equalAmount(t, "opex total", m.Totals().OpEx, "288.5")
}

func TestApply_LaborPercentDelta(t *testing.T) {
	base := DefaultBaseline()
	sc := Scenario{Name: "labor", OpExPercentDeltas: Deltas(nil, map[string]float64{"Labor": -5})}

	got, err := Apply(base, sc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	equalAmount(t, "labor", mustGet(t, got.OpEx, "Labor"), "76")
	for _, it := range base.OpEx.Items() {
		if it.Category == "Labor" {
			continue
		}
		equalAmount(t, it.Category, mustGet(t, got.OpEx, it.Category), it.Amount.String())
	}
	if !got.CapEx.Equal(base.CapEx) {
		t.Fatalf("capex changed by an opex-only scenario")
	}
}

func TestApplyScenario_Compounds(t *testing.T) {
	m := NewModel(DefaultBaseline())
	if err := m.AddScenario(Scenario{Name: "labor", OpExPercentDeltas: Deltas(nil, map[string]float64{"Labor": -5})}); err != nil {
		t.Fatalf("AddScenario: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := m.ApplyScenario("labor"); err != nil {
			t.Fatalf("ApplyScenario (iteration=%d): %v", i, err)
		}
	}

	equalAmount(t, "labor", mustGet(t, m.Snapshot().OpEx, "Labor"), "72.2")
}

func TestPreview_DoesNotCompound(t *testing.T) {
	m := NewDefaultModel()

	for i := 0; i < 3; i++ {
		got, err := m.Preview(ScenarioLower)
		if err != nil {
			t.Fatalf("Preview: %v", err)
		}
		equalAmount(t, "labor", mustGet(t, got.OpEx, "Labor"), "76")
	}
	if !m.Snapshot().Equal(DefaultBaseline()) {
		t.Fatalf("Preview mutated the current snapshot")
	}
}

func TestApply_CapExDelta(t *testing.T) {
	base := DefaultBaseline()
	sc := Scenario{Name: "reactor", CapExDeltas: Deltas(nil, map[string]float64{"Leaching Reactor": 5000})}

	got, err := Apply(base, sc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	equalAmount(t, "leaching reactor", mustGet(t, got.CapEx, "Leaching Reactor"), "25000")
	diff := got.Totals().CapEx.Sub(base.Totals().CapEx)
	equalAmount(t, "capex total delta", diff, "5000")
}

func TestApply_CapExDeltaCreatesCategory(t *testing.T) {
	sc := Scenario{Name: "new", CapExDeltas: Deltas(nil, map[string]float64{"Glovebox": 7500})}

	got, err := Apply(DefaultBaseline(), sc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	equalAmount(t, "glovebox", mustGet(t, got.CapEx, "Glovebox"), "7500")
	cats := got.CapEx.Categories()
	if cats[len(cats)-1] != "Glovebox" {
		t.Fatalf("new category should be appended last, got %v", cats)
	}
}

func TestApplyScenario_UnknownName(t *testing.T) {
	m := NewDefaultModel()

	_, err := m.ApplyScenario("nonexistent")
	if !errors.Is(err, ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
	if !m.Snapshot().Equal(DefaultBaseline()) {
		t.Fatalf("model changed after unknown scenario")
	}
}

func TestApply_MissingOpExCategoryIsAtomic(t *testing.T) {
	m := NewModel(DefaultBaseline())
	sc := Scenario{
		Name:              "broken",
		CapExDeltas:       Deltas(nil, map[string]float64{"Press Filter": 1000}),
		OpExPercentDeltas: Deltas([]string{"Labor", "Ascorbic Acid"}, map[string]float64{"Labor": 10, "Ascorbic Acid": 5}),
	}
	if err := m.AddScenario(sc); err != nil {
		t.Fatalf("AddScenario: %v", err)
	}

	_, err := m.ApplyScenario("broken")
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if !m.Snapshot().Equal(DefaultBaseline()) {
		t.Fatalf("failed application must leave the model unchanged")
	}
}

func TestApply_EnergyVariationStacksOnPercentDelta(t *testing.T) {
	sc := Scenario{
		Name:              "energy",
		OpExPercentDeltas: Deltas(nil, map[string]float64{"Energy": 25}),
		EnergyVariation:   EnergyVariationOf(25),
	}

	got, err := Apply(DefaultBaseline(), sc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	equalAmount(t, "energy", mustGet(t, got.OpEx, "Energy"), "68.75")
}

func TestApply_EnergyVariationWithoutEnergyCategory(t *testing.T) {
	opex, err := NewCostMapping(Item{Category: "Labor", Amount: decimal.NewFromInt(80)})
	if err != nil {
		t.Fatalf("NewCostMapping: %v", err)
	}

	_, err = Apply(Snapshot{OpEx: opex}, Scenario{Name: "e", EnergyVariation: EnergyVariationOf(10)})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDefaultScenarios_LowerAndUpper(t *testing.T) {
	m := NewDefaultModel()

	lower, err := m.Preview(ScenarioLower)
	if err != nil {
		t.Fatalf("Preview lower: %v", err)
	}
	equalAmount(t, "lower labor", mustGet(t, lower.OpEx, "Labor"), "76")
	equalAmount(t, "lower energy", mustGet(t, lower.OpEx, "Energy"), "37.4")

	upper, err := m.Preview(ScenarioUpper)
	if err != nil {
		t.Fatalf("Preview upper: %v", err)
	}
	equalAmount(t, "upper labor", mustGet(t, upper.OpEx, "Labor"), "88")
	equalAmount(t, "upper energy", mustGet(t, upper.OpEx, "Energy"), "55")
}

func TestApply_UpperRangeSkipsAbsentCategories(t *testing.T) {
	got, err := Apply(DefaultBaseline(), Scenario{Name: "range", Range: RangeUpper})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	equalAmount(t, "reagents", mustGet(t, got.OpEx, "Reagents"), "108")
	equalAmount(t, "energy", mustGet(t, got.OpEx, "Energy"), "55")
	equalAmount(t, "labor", mustGet(t, got.OpEx, "Labor"), "88")
	equalAmount(t, "maintenance", mustGet(t, got.OpEx, "Maintenance"), "23")
	equalAmount(t, "disposal", mustGet(t, got.OpEx, "Disposal"), "13.75")
	equalAmount(t, "microwave energy", mustGet(t, got.OpEx, "Microwave Energy"), "6.9")
	equalAmount(t, "malic acid", mustGet(t, got.OpEx, "Malic Acid"), "8")
	if _, ok := got.OpEx.Get("Ascorbic Acid"); ok {
		t.Fatalf("range must not create categories")
	}
}

func TestAddScenario_Overwrites(t *testing.T) {
	m := NewDefaultModel()
	if err := m.AddScenario(Scenario{Name: ScenarioBase, OpExPercentDeltas: Deltas(nil, map[string]float64{"Labor": 50})}); err != nil {
		t.Fatalf("AddScenario: %v", err)
	}

	names := m.ScenarioNames()
	if len(names) != 3 || names[1] != ScenarioBase {
		t.Fatalf("overwrite should keep position, got %v", names)
	}
	got, err := m.Preview(ScenarioBase)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	equalAmount(t, "labor", mustGet(t, got.OpEx, "Labor"), "120")
}

func TestAddScenario_RejectsInvalid(t *testing.T) {
	m := NewModel(DefaultBaseline())

	if err := m.AddScenario(Scenario{Name: "  "}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario for blank name, got %v", err)
	}
	if err := m.AddScenario(Scenario{Name: "x", Range: "Sideways"}); !errors.Is(err, ErrInvalidScenario) {
		t.Fatalf("expected ErrInvalidScenario for unknown range, got %v", err)
	}
}

func TestModel_ResetRestoresBaseline(t *testing.T) {
	m := NewDefaultModel()
	if _, err := m.ApplyScenario(ScenarioUpper); err != nil {
		t.Fatalf("ApplyScenario: %v", err)
	}
	m.Reset()

	if !m.Snapshot().Equal(DefaultBaseline()) {
		t.Fatalf("Reset did not restore the baseline")
	}
}

func TestModel_ConcurrentApplySerializes(t *testing.T) {
	m := NewModel(DefaultBaseline())
	_ = m.AddScenario(Scenario{Name: "capex", CapExDeltas: Deltas(nil, map[string]float64{"Press Filter": 10})})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.ApplyScenario("capex")
		}()
	}
	wg.Wait()

	equalAmount(t, "press filter", mustGet(t, m.Snapshot().CapEx, "Press Filter"), "15500")
}

func TestNewCostMapping_RejectsDuplicates(t *testing.T) {
	_, err := NewCostMapping(
		Item{Category: "Labor", Amount: decimal.NewFromInt(1)},
		Item{Category: "Labor", Amount: decimal.NewFromInt(2)},
	)
	if !errors.Is(err, ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}
}

func TestCostMapping_JSONKeepsOrder(t *testing.T) {
	raw, err := json.Marshal(DefaultCapEx())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded CostMapping
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(DefaultCapEx()) {
		t.Fatalf("decoded mapping differs: %v", decoded.Categories())
	}
}

func TestParseRange(t *testing.T) {
	cases := map[string]Range{"": RangeNone, "lower": RangeLower, " Base ": RangeBase, "UPPER": RangeUpper}
	for in, want := range cases {
		got, err := ParseRange(in)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRange(%q) = %q, want %q", in, got, want)
		}
	}
}
