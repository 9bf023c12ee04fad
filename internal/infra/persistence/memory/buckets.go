package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"rigsmith/pkg/domain"
)

const (
	partsPrefix = "parts/"
	refsPrefix  = "refs/"
)

// Bucket is one JSON payload row: "parts/<category>" or "refs/<category>".
type Bucket struct {
	Name    string
	Payload []byte
}

// BucketNames lists every bucket a snapshot encodes to, in write order.
func BucketNames() []string {
	names := make([]string, 0, 8)
	for _, c := range domain.Categories() {
		names = append(names, partsPrefix+string(c))
	}
	for _, c := range domain.ReferenceCategories() {
		names = append(names, refsPrefix+string(c))
	}
	return names
}

// EncodeSnapshot renders snapshot as one bucket per category and reference
// table. Empty categories are written as empty arrays so a reload does not
// resurrect an older payload.
func EncodeSnapshot(snapshot domain.Snapshot) ([]Bucket, error) {
	var out []Bucket
	for _, c := range domain.Categories() {
		parts := snapshot.Parts[c]
		if parts == nil {
			parts = []domain.Part{}
		}
		b, err := json.Marshal(parts)
		if err != nil {
			return nil, fmt.Errorf("encode %s%s: %w", partsPrefix, c, err)
		}
		out = append(out, Bucket{Name: partsPrefix + string(c), Payload: b})
	}
	for _, c := range domain.ReferenceCategories() {
		refs := snapshot.References[c]
		if refs == nil {
			refs = []domain.MasterSpec{}
		}
		b, err := json.Marshal(refs)
		if err != nil {
			return nil, fmt.Errorf("encode %s%s: %w", refsPrefix, c, err)
		}
		out = append(out, Bucket{Name: refsPrefix + string(c), Payload: b})
	}
	return out, nil
}

// DecodeSnapshot rebuilds a snapshot from bucket rows. Unknown buckets are
// ignored so older binaries can read newer databases.
func DecodeSnapshot(buckets []Bucket) (domain.Snapshot, error) {
	snapshot := domain.NewSnapshot()
	for _, b := range buckets {
		if len(b.Payload) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(b.Name, partsPrefix):
			c := domain.Category(strings.TrimPrefix(b.Name, partsPrefix))
			if !c.Valid() {
				continue
			}
			var parts []domain.Part
			if err := json.Unmarshal(b.Payload, &parts); err != nil {
				return domain.Snapshot{}, fmt.Errorf("decode %s: %w", b.Name, err)
			}
			snapshot.Parts[c] = parts
		case strings.HasPrefix(b.Name, refsPrefix):
			c := domain.Category(strings.TrimPrefix(b.Name, refsPrefix))
			if _, ok := c.ReferenceDataset(); !ok {
				continue
			}
			var refs []domain.MasterSpec
			if err := json.Unmarshal(b.Payload, &refs); err != nil {
				return domain.Snapshot{}, fmt.Errorf("decode %s: %w", b.Name, err)
			}
			snapshot.References[c] = refs
		}
	}
	return snapshot, nil
}
