package costmodel

import (
	"fmt"
	"sync"
)

// Model is the shared, stateful calculator. It keeps the baseline it was
// built from, a current snapshot that ApplyScenario advances in place, and
// the registered scenarios. All methods are safe for concurrent use.
type Model struct {
	mu        sync.Mutex
	baseline  Snapshot
	current   Snapshot
	scenarios map[string]Scenario
	order     []string
}

// NewModel returns a model whose current snapshot equals baseline.
func NewModel(baseline Snapshot) *Model {
	return &Model{
		baseline:  baseline,
		current:   baseline,
		scenarios: make(map[string]Scenario),
	}
}

// NewDefaultModel returns the pilot plant model with the built-in scenarios.
func NewDefaultModel() *Model {
	m := NewModel(DefaultBaseline())
	for _, sc := range DefaultScenarios() {
		_ = m.AddScenario(sc)
	}
	return m
}

// AddScenario registers sc, replacing any scenario with the same name. A
// replaced scenario keeps its original position in Scenarios.
func (m *Model) AddScenario(sc Scenario) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenarios[sc.Name]; !ok {
		m.order = append(m.order, sc.Name)
	}
	m.scenarios[sc.Name] = sc
	return nil
}

// Scenario returns the scenario registered under name.
func (m *Model) Scenario(name string) (Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(name)
}

// Scenarios lists registered scenarios in registration order.
func (m *Model) Scenarios() []Scenario {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Scenario, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.scenarios[name])
	}
	return out
}

// ScenarioNames lists registered names in registration order.
func (m *Model) ScenarioNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Totals sums the current snapshot.
func (m *Model) Totals() Totals {
	return m.Snapshot().Totals()
}

// Snapshot returns the current snapshot.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Baseline returns the snapshot the model was built from.
func (m *Model) Baseline() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline
}

// ApplyScenario applies the named scenario to the current snapshot and
// stores the result. Applying twice compounds. On error the current
// snapshot is unchanged.
func (m *Model) ApplyScenario(name string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sc, err := m.lookup(name)
	if err != nil {
		return m.current, err
	}
	next, err := Apply(m.current, sc)
	if err != nil {
		return m.current, err
	}
	m.current = next
	return next, nil
}

// Preview applies the named scenario to the baseline without touching the
// current snapshot.
func (m *Model) Preview(name string) (Snapshot, error) {
	m.mu.Lock()
	sc, err := m.lookup(name)
	baseline := m.baseline
	m.mu.Unlock()
	if err != nil {
		return baseline, err
	}
	return Apply(baseline, sc)
}

// Reset restores the current snapshot to the baseline.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.baseline
}

func (m *Model) lookup(name string) (Scenario, error) {
	sc, ok := m.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
	}
	return sc, nil
}
