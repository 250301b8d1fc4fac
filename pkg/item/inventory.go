package item

import (
	"log/slog"
	"strings"
)

// Add appends a normalized item to a copy of the inventory.
func Add(inv []Item, it Item) []Item {
	out := clone(inv)
	return append(out, it.Normalize())
}

// Remove removes up to quantity occurrences of name, scanning from the end
// of the list toward the start so the most recently added stacks go first.
// Names match case-insensitively: they arrive from narrator output, which
// does not keep casing stable. It returns the new inventory and the number
// actually removed; fewer than requested is a shortfall, not a failure.
func Remove(inv []Item, name string, quantity int) ([]Item, int) {
	if quantity < 1 {
		quantity = 1
	}
	out := clone(inv)
	removed := 0
	for i := len(out) - 1; i >= 0 && removed < quantity; i-- {
		if strings.EqualFold(out[i].Name, name) {
			out = append(out[:i], out[i+1:]...)
			removed++
		}
	}
	return out, removed
}

// Update merges the patch into every item whose name matches, ignoring
// case. All stacks of that name receive the same update.
func Update(inv []Item, name string, patch Patch) []Item {
	out := clone(inv)
	for i := range out {
		if strings.EqualFold(out[i].Name, name) {
			out[i] = patch.Apply(out[i])
		}
	}
	return out
}

// Patch is a partial item update. Nil fields are left alone.
type Patch struct {
	Description   *string  `json:"description,omitempty"`
	Quality       *Quality `json:"quality,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Durability    *int     `json:"durability,omitempty"`
	MagicalEffect *string  `json:"magical_effect,omitempty"`
}

// Apply merges the patch over the item and re-normalizes the result.
func (p Patch) Apply(it Item) Item {
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Quality != nil {
		it.Quality = *p.Quality
	}
	if p.Weight != nil {
		it.Weight = *p.Weight
	}
	if p.Durability != nil {
		it.Durability = p.Durability
	}
	if p.MagicalEffect != nil {
		it.MagicalEffect = *p.MagicalEffect
	}
	return it.Normalize()
}

// ReplaceAll swaps the whole inventory for a normalized copy of items.
func ReplaceAll(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		out = append(out, it.Normalize())
	}
	return out
}

// ApplyCrafting removes the first occurrence of each consumed name (ignoring
// case), then appends the produced item if there is one. An absent
// ingredient is logged and skipped rather than failing the craft.
func ApplyCrafting(inv []Item, consumedNames []string, produced *Item, logger *slog.Logger) []Item {
	out := clone(inv)
	for _, name := range consumedNames {
		found := false
		for i := range out {
			if strings.EqualFold(out[i].Name, name) {
				out = append(out[:i], out[i+1:]...)
				found = true
				break
			}
		}
		if !found && logger != nil {
			logger.Warn("Crafting consumed an item not in inventory", "item", name)
		}
	}
	if produced != nil && produced.Name != "" {
		out = append(out, produced.Normalize())
	}
	return out
}

// TotalWeight sums the carried weight of the inventory.
func TotalWeight(inv []Item) float64 {
	var w float64
	for _, it := range inv {
		w += it.Weight
	}
	return w
}

// Names returns the item names in inventory order, including duplicates.
func Names(inv []Item) []string {
	names := make([]string, len(inv))
	for i, it := range inv {
		names[i] = it.Name
	}
	return names
}

func clone(inv []Item) []Item {
	out := make([]Item, len(inv))
	copy(out, inv)
	return out
}
