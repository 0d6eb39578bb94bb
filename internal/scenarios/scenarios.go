// Package scenarios loads additional scenario definitions from YAML.
//
//	scenarios:
//	  - name: Reactor upgrade
//	    capex:
//	      Leaching Reactor: 5000
//	    opex_percent:
//	      Labor: -5
//	    energy_variation: 10
//	    range: Upper
//	    notes:
//	      - Larger reactor shell.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/amelie/internal/costmodel"
)

// File is the on-disk shape of a scenario definitions file.
type File struct {
	Scenarios []Definition `yaml:"scenarios"`
}

// Definition is one scenario as written in YAML or sent to the JSON API. Percentages are plain
// numbers (-5 means -5%).
type Definition struct {
	Name            string             `yaml:"name" json:"name"`
	CapEx           map[string]float64 `yaml:"capex" json:"capex"`
	OpExPercent     map[string]float64 `yaml:"opex_percent" json:"opex_percent"`
	EnergyVariation *float64           `yaml:"energy_variation" json:"energy_variation"`
	Range           string             `yaml:"range" json:"range"`
	Notes           []string           `yaml:"notes" json:"notes"`
}

// Load reads and converts the scenarios defined in path.
func Load(path string) ([]costmodel.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios file: %w", err)
	}
	out, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Parse converts YAML scenario definitions. Category order follows the
// built-in CapEx and OpEx order, with unknown categories appended sorted.
func Parse(raw []byte) ([]costmodel.Scenario, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios yaml: %w", err)
	}

	seen := make(map[string]bool, len(f.Scenarios))
	out := make([]costmodel.Scenario, 0, len(f.Scenarios))
	for i, d := range f.Scenarios {
		sc, err := d.ToScenario()
		if err != nil {
			return nil, fmt.Errorf("scenario #%d: %w", i+1, err)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("scenario #%d: duplicate name %q", i+1, sc.Name)
		}
		seen[sc.Name] = true
		out = append(out, sc)
	}
	return out, nil
}

// ToScenario validates d and returns the model scenario.
func (d Definition) ToScenario() (costmodel.Scenario, error) {
	r, err := costmodel.ParseRange(d.Range)
	if err != nil {
		return costmodel.Scenario{}, err
	}
	sc := costmodel.Scenario{
		Name:              d.Name,
		CapExDeltas:       costmodel.Deltas(costmodel.DefaultCapEx().Categories(), d.CapEx),
		OpExPercentDeltas: costmodel.Deltas(costmodel.DefaultOpEx().Categories(), d.OpExPercent),
		Range:             r,
		Notes:             d.Notes,
	}
	if d.EnergyVariation != nil {
		sc.EnergyVariation = costmodel.EnergyVariationOf(*d.EnergyVariation)
	}
	if err := sc.Validate(); err != nil {
		return costmodel.Scenario{}, err
	}
	return sc, nil
}
