package costmodel

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is one category line of a cost mapping.
type Item struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// CostMapping is an ordered category to amount mapping. The zero value is an
// empty mapping. Values are never mutated once handed out; scenario
// application works on clones.
type CostMapping struct {
	items []Item
	index map[string]int
}

// NewCostMapping builds a mapping preserving the order of items.
func NewCostMapping(items ...Item) (CostMapping, error) {
	m := CostMapping{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if _, ok := m.index[it.Category]; ok {
			return CostMapping{}, fmt.Errorf("%w: %q", ErrDuplicateCategory, it.Category)
		}
		m.set(it.Category, it.Amount)
	}
	return m, nil
}

// Len returns the number of categories.
func (m CostMapping) Len() int {
	return len(m.items)
}

// Items returns a copy of the lines in insertion order.
func (m CostMapping) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Categories returns the category names in insertion order.
func (m CostMapping) Categories() []string {
	out := make([]string, len(m.items))
	for i, it := range m.items {
		out[i] = it.Category
	}
	return out
}

// Get returns the amount recorded for category.
func (m CostMapping) Get(category string) (decimal.Decimal, bool) {
	i, ok := m.index[category]
	if !ok {
		return decimal.Zero, false
	}
	return m.items[i].Amount, true
}

// Total sums every amount of the mapping.
func (m CostMapping) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range m.items {
		total = total.Add(it.Amount)
	}
	return total
}

// Equal reports whether both mappings hold the same categories, in the same
// order, with numerically equal amounts.
func (m CostMapping) Equal(other CostMapping) bool {
	if len(m.items) != len(other.items) {
		return false
	}
	for i, it := range m.items {
		o := other.items[i]
		if it.Category != o.Category || !it.Amount.Equal(o.Amount) {
			return false
		}
	}
	return true
}

func (m CostMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Items())
}

func (m *CostMapping) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	parsed, err := NewCostMapping(items...)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m CostMapping) clone() CostMapping {
	out := CostMapping{
		items: make([]Item, len(m.items)),
		index: make(map[string]int, len(m.items)),
	}
	copy(out.items, m.items)
	for k, v := range m.index {
		out.index[k] = v
	}
	return out
}

// set overwrites an existing category in place or appends a new one.
func (m *CostMapping) set(category string, amount decimal.Decimal) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[category]; ok {
		m.items[i].Amount = amount
		return
	}
	m.index[category] = len(m.items)
	m.items = append(m.items, Item{Category: category, Amount: amount})
}
