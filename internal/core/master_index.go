package core

import "rigsmith/pkg/domain"

type indexEntry struct {
	keys KeywordSet
	spec domain.MasterSpec
}

// MasterSpecIndex maps normalized reference names to canonical chip specs,
// per reference-bearing category. Entries keep reference-table order so that
// matching is deterministic; a later reference with the same key replaces the
// earlier value in place.
type MasterSpecIndex struct {
	entries map[domain.Category][]indexEntry
	byKey   map[domain.Category]map[string]int
}

// NewMasterSpecIndex builds the index from the reference tables. References
// whose name normalizes to no keywords are skipped; an empty set would be a
// subset of every listing.
func NewMasterSpecIndex(refs map[domain.Category][]domain.MasterSpec) *MasterSpecIndex {
	idx := &MasterSpecIndex{
		entries: make(map[domain.Category][]indexEntry),
		byKey:   make(map[domain.Category]map[string]int),
	}
	for _, category := range domain.ReferenceCategories() {
		for _, spec := range refs[category] {
			idx.add(category, spec)
		}
	}
	return idx
}

func (idx *MasterSpecIndex) add(category domain.Category, spec domain.MasterSpec) {
	keys := Keywords(spec.Name)
	if keys.Empty() {
		return
	}
	lookup, ok := idx.byKey[category]
	if !ok {
		lookup = make(map[string]int)
		idx.byKey[category] = lookup
	}
	if pos, dup := lookup[keys.Key()]; dup {
		idx.entries[category][pos].spec = spec
		return
	}
	lookup[keys.Key()] = len(idx.entries[category])
	idx.entries[category] = append(idx.entries[category], indexEntry{keys: keys, spec: spec})
}

// Len returns the number of distinct reference keys held for category.
func (idx *MasterSpecIndex) Len(category domain.Category) int {
	if idx == nil {
		return 0
	}
	return len(idx.entries[category])
}

// Find returns the reference record identifying a listing. The chipset is
// preferred over the listing name when present.
func (idx *MasterSpecIndex) Find(category domain.Category, name, chipset string) (domain.MasterSpec, bool) {
	if idx == nil {
		return domain.MasterSpec{}, false
	}
	entries := idx.entries[category]
	if len(entries) == 0 {
		return domain.MasterSpec{}, false
	}
	term := chipset
	if term == "" {
		term = name
	}
	words := Keywords(term)
	if words.Empty() {
		return domain.MasterSpec{}, false
	}

	// The reference identifies the part; the listing may carry extra words.
	for _, e := range entries {
		if e.keys.SubsetOf(words) {
			return e.spec, true
		}
	}

	for _, e := range entries {
		if containsAll(words, e.keys) {
			return e.spec, true
		}
	}
	return domain.MasterSpec{}, false
}

// containsAll checks membership token by token without relying on the
// ordering walk used by SubsetOf.
func containsAll(words, keys KeywordSet) bool {
	for _, k := range keys {
		if !words.Contains(k) {
			return false
		}
	}
	return true
}
