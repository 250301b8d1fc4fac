package item

import (
	"reflect"
	"testing"
)

func TestAddThenRemoveRoundTrip(t *testing.T) {
	inv := []Item{{Name: "Torch", Quality: QualityCommon, Weight: 1}}

	added := Add(inv, Item{Name: "Lantern"})
	if len(added) != 2 {
		t.Fatalf("len = %d, want 2", len(added))
	}

	got, removed := Remove(added, "Lantern", 1)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if !reflect.DeepEqual(got, inv) {
		t.Errorf("add then remove did not restore inventory:\ngot:  %v\nwant: %v", got, inv)
	}
}

func TestAdd_NormalizesDefaults(t *testing.T) {
	inv := Add(nil, Item{Name: "Mystery Orb", Quality: "Shiny", Weight: -2})
	if inv[0].Quality != QualityCommon {
		t.Errorf("quality = %q, want defaulted to Common", inv[0].Quality)
	}
	if inv[0].Weight != DefaultWeight {
		t.Errorf("weight = %v, want default %d", inv[0].Weight, DefaultWeight)
	}
}

func TestRemove_MostRecentFirst(t *testing.T) {
	// Two stacks named Torch, added A then B; removal takes B.
	a := Item{Name: "Torch", Description: "stack A", Quality: QualityCommon, Weight: 1}
	b := Item{Name: "Torch", Description: "stack B", Quality: QualityCommon, Weight: 1}
	inv := Add(Add(nil, a), b)

	got, removed := Remove(inv, "Torch", 1)
	if removed != 1 || len(got) != 1 {
		t.Fatalf("removed=%d len=%d, want 1 and 1", removed, len(got))
	}
	if got[0].Description != "stack A" {
		t.Errorf("remaining stack = %q, want stack A (most recent removed first)", got[0].Description)
	}
}

func TestRemove_Shortfall(t *testing.T) {
	inv := Add(Add(nil, Item{Name: "Arrow"}), Item{Name: "Arrow"})

	got, removed := Remove(inv, "Arrow", 5)
	if removed != 2 {
		t.Errorf("removed = %d, want all 2 available", removed)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}

	got, removed = Remove(got, "Arrow", 1)
	if removed != 0 || len(got) != 0 {
		t.Errorf("removing from empty inventory: removed=%d len=%d", removed, len(got))
	}
}

func TestRemove_CaseInsensitive(t *testing.T) {
	// Narrator output does not keep casing stable; "torch" must remove Torch.
	inv := []Item{{Name: "Torch", Quality: QualityCommon, Weight: 1}}

	got, removed := Remove(inv, "torch", 1)
	if removed != 1 || len(got) != 0 {
		t.Errorf("removed=%d len=%d, want 1 and 0", removed, len(got))
	}

	got = ApplyCrafting(inv, []string{"TORCH"}, nil, nil)
	if len(got) != 0 {
		t.Errorf("crafting did not consume case-variant name: %v", got)
	}

	q := QualityRare
	got = Update(inv, "tOrCh", Patch{Quality: &q})
	if got[0].Quality != QualityRare {
		t.Errorf("update missed case-variant name: %v", got[0])
	}
}

func TestRemove_DoesNotMutateInput(t *testing.T) {
	inv := Add(Add(nil, Item{Name: "Coin"}), Item{Name: "Coin"})
	before := len(inv)
	Remove(inv, "Coin", 2)
	if len(inv) != before {
		t.Error("Remove mutated its input")
	}
}

func TestUpdate_AllStacks(t *testing.T) {
	inv := ReplaceAll([]Item{
		{Name: "Torch"},
		{Name: "Rope"},
		{Name: "Torch"},
	})

	effect := "Burns blue in the presence of ghosts"
	q := QualityRare
	got := Update(inv, "Torch", Patch{MagicalEffect: &effect, Quality: &q})

	for i, it := range got {
		if it.Name == "Torch" {
			if it.MagicalEffect != effect || it.Quality != QualityRare {
				t.Errorf("stack %d not updated: %+v", i, it)
			}
		} else if it.MagicalEffect != "" {
			t.Errorf("non-matching item updated: %+v", it)
		}
	}
}

func TestReplaceAll_DropsNamelessAndNormalizes(t *testing.T) {
	got := ReplaceAll([]Item{{Name: ""}, {Name: "Gem", Weight: 0}})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Weight != DefaultWeight || got[0].Quality != QualityCommon {
		t.Errorf("item not normalized: %+v", got[0])
	}
}

func TestApplyCrafting(t *testing.T) {
	inv := ReplaceAll([]Item{
		{Name: "Stick"},
		{Name: "Cloth"},
		{Name: "Oil Flask"},
	})

	tests := []struct {
		name      string
		consumed  []string
		produced  *Item
		wantNames []string
	}{
		{
			name:      "consume and produce",
			consumed:  []string{"Stick", "Cloth", "Oil Flask"},
			produced:  &Item{Name: "Torch"},
			wantNames: []string{"Torch"},
		},
		{
			name:      "absent ingredient skipped",
			consumed:  []string{"Stick", "Dragon Scale"},
			produced:  &Item{Name: "Odd Wand"},
			wantNames: []string{"Cloth", "Oil Flask", "Odd Wand"},
		},
		{
			name:      "failed craft produces nothing",
			consumed:  []string{"Cloth"},
			produced:  nil,
			wantNames: []string{"Stick", "Oil Flask"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyCrafting(inv, tt.consumed, tt.produced, nil)
			if !reflect.DeepEqual(Names(got), tt.wantNames) {
				t.Errorf("names = %v, want %v", Names(got), tt.wantNames)
			}
		})
	}
}

func TestApplyCrafting_ConsumesFirstOccurrence(t *testing.T) {
	inv := ReplaceAll([]Item{{Name: "Torch", Description: "old"}, {Name: "Torch", Description: "new"}})
	got := ApplyCrafting(inv, []string{"Torch"}, nil, nil)
	if len(got) != 1 || got[0].Description != "new" {
		t.Errorf("crafting should consume the first stack, got %v", got)
	}
}

func TestTotalWeight(t *testing.T) {
	inv := ReplaceAll([]Item{{Name: "Rope", Weight: 5}, {Name: "Feather", Weight: 0.5}})
	if w := TotalWeight(inv); w != 5.5 {
		t.Errorf("weight = %v, want 5.5", w)
	}
}
