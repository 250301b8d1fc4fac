// Package item owns the adventure inventory: an ordered list of items where
// names are not unique (multiple stacks of the same item may coexist).
// Reducer operations return new slices and never mutate their input.
package item

// Quality grades an item from junk to artifact.
type Quality string

const (
	QualityPoor      Quality = "Poor"
	QualityCommon    Quality = "Common"
	QualityUncommon  Quality = "Uncommon"
	QualityRare      Quality = "Rare"
	QualityEpic      Quality = "Epic"
	QualityLegendary Quality = "Legendary"
)

var validQualities = map[Quality]bool{
	QualityPoor:      true,
	QualityCommon:    true,
	QualityUncommon:  true,
	QualityRare:      true,
	QualityEpic:      true,
	QualityLegendary: true,
}

// DefaultWeight is assumed when an item arrives without one.
const DefaultWeight = 1

// Item is a single inventory entry.
type Item struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Quality       Quality `json:"quality"`
	Weight        float64 `json:"weight"`
	Durability    *int    `json:"durability,omitempty"`
	MagicalEffect string  `json:"magical_effect,omitempty"`
}

// Normalize returns the item with every optional field defaulted: unknown or
// empty quality becomes Common, a non-positive weight becomes the default.
func (it Item) Normalize() Item {
	if !validQualities[it.Quality] {
		it.Quality = QualityCommon
	}
	if it.Weight <= 0 {
		it.Weight = DefaultWeight
	}
	return it
}

// StarterItems is the inventory seeded at the start of a fresh adventure.
func StarterItems() []Item {
	return []Item{
		{Name: "Torch", Description: "A pitch-soaked brand, good for an hour of light.", Quality: QualityCommon, Weight: 1},
		{Name: "Waterskin", Description: "A leather skin, full for now.", Quality: QualityCommon, Weight: 2},
		{Name: "Crusty Bread", Description: "Dense and dependable.", Quality: QualityPoor, Weight: 0.5},
		{Name: "Rope (50ft)", Description: "Hemp rope, slightly frayed at one end.", Quality: QualityCommon, Weight: 5},
	}
}
