package domain

import (
	"encoding/json"
	"fmt"
)

// BuildList is the build being assembled: at most one part per slot.
// It is a copy-on-write value; every mutator returns a new BuildList and
// leaves the receiver untouched.
type BuildList struct {
	parts map[Category]Part
}

// NewBuildList returns an empty build.
func NewBuildList() BuildList {
	return BuildList{}
}

// AddPart returns a copy of the build with the category slot set to part.
func (b BuildList) AddPart(category Category, part Part) (BuildList, error) {
	if !category.Valid() {
		return b, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	next := make(map[Category]Part, len(b.parts)+1)
	for c, p := range b.parts {
		next[c] = p
	}
	next[category] = part
	return BuildList{parts: next}, nil
}

// Clear returns an empty build.
func (b BuildList) Clear() BuildList {
	return BuildList{}
}

// Part returns the part selected for category.
func (b BuildList) Part(category Category) (Part, bool) {
	p, ok := b.parts[category]
	return p, ok
}

// Has reports whether category has a selection.
func (b BuildList) Has(category Category) bool {
	_, ok := b.parts[category]
	return ok
}

// Len returns the number of filled slots.
func (b BuildList) Len() int { return len(b.parts) }

// SelectedPart pairs a slot with its selection.
type SelectedPart struct {
	Category Category
	Part     Part
}

// Parts lists filled slots in display order.
func (b BuildList) Parts() []SelectedPart {
	out := make([]SelectedPart, 0, len(b.parts))
	for _, c := range categoryOrder {
		if p, ok := b.parts[c]; ok {
			out = append(out, SelectedPart{Category: c, Part: p})
		}
	}
	return out
}

// TotalPrice sums the prices of all selected parts. Parts without a usable
// price contribute zero.
func (b BuildList) TotalPrice() float64 {
	var total float64
	for _, p := range b.parts {
		if p.Price > 0 {
			total += p.Price
		}
	}
	return total
}

type buildListJSON struct {
	Parts      map[Category]*Part `json:"parts"`
	TotalPrice float64            `json:"total_price"`
}

// MarshalJSON renders every slot, null when empty, plus the derived total.
func (b BuildList) MarshalJSON() ([]byte, error) {
	out := buildListJSON{Parts: make(map[Category]*Part, len(categoryOrder)), TotalPrice: b.TotalPrice()}
	for _, c := range categoryOrder {
		if p, ok := b.parts[c]; ok {
			cp := p
			out.Parts[c] = &cp
		} else {
			out.Parts[c] = nil
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a build; total_price is ignored and recomputed.
func (b *BuildList) UnmarshalJSON(data []byte) error {
	var in buildListJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	next := BuildList{}
	for c, p := range in.Parts {
		if p == nil {
			continue
		}
		var err error
		if next, err = next.AddPart(c, *p); err != nil {
			return err
		}
	}
	*b = next
	return nil
}
