package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuildListAddPartIsCopyOnWrite(t *testing.T) {
	empty := NewBuildList()
	withCPU, err := empty.AddPart(CategoryCPU, Part{Name: "Ryzen 5 7600", Price: 3_000_000})
	if err != nil {
		t.Fatalf("add cpu: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("receiver mutated: %d parts", empty.Len())
	}
	replaced, err := withCPU.AddPart(CategoryCPU, Part{Name: "Ryzen 7 7700", Price: 4_500_000})
	if err != nil {
		t.Fatalf("replace cpu: %v", err)
	}
	if p, _ := withCPU.Part(CategoryCPU); p.Name != "Ryzen 5 7600" {
		t.Fatalf("upsert leaked into previous value: %s", p.Name)
	}
	if p, _ := replaced.Part(CategoryCPU); p.Name != "Ryzen 7 7700" {
		t.Fatalf("expected replacement, got %s", p.Name)
	}
	if replaced.Len() != 1 {
		t.Fatalf("expected single slot, got %d", replaced.Len())
	}
}

func TestBuildListRejectsUnknownCategory(t *testing.T) {
	_, err := NewBuildList().AddPart(Category("fan"), Part{Name: "x"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestBuildListTotalPriceIgnoresMissingPrices(t *testing.T) {
	b := NewBuildList()
	b, _ = b.AddPart(CategoryCPU, Part{Name: "cpu", Price: 2_500_000})
	b, _ = b.AddPart(CategoryGPU, Part{Name: "gpu", Price: 6_000_000.5})
	b, _ = b.AddPart(CategoryCase, Part{Name: "case"})
	if got := b.TotalPrice(); got != 8_500_000.5 {
		t.Fatalf("total price = %v", got)
	}
	if got := b.Clear().TotalPrice(); got != 0 {
		t.Fatalf("cleared total = %v", got)
	}
}

func TestBuildListPartsInSlotOrder(t *testing.T) {
	b := NewBuildList()
	b, _ = b.AddPart(CategoryCase, Part{Name: "case"})
	b, _ = b.AddPart(CategoryCPU, Part{Name: "cpu"})
	b, _ = b.AddPart(CategoryRAM, Part{Name: "ram"})
	parts := b.Parts()
	want := []Category{CategoryCPU, CategoryRAM, CategoryCase}
	if len(parts) != len(want) {
		t.Fatalf("parts = %+v", parts)
	}
	for i, c := range want {
		if parts[i].Category != c {
			t.Fatalf("slot %d = %s, want %s", i, parts[i].Category, c)
		}
	}
}

func TestBuildListJSONRoundTripRecomputesTotal(t *testing.T) {
	b := NewBuildList()
	b, _ = b.AddPart(CategoryPSU, Part{Name: "psu", Price: 900_000, Wattage: IntPtr(650)})
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	slots, _ := raw["parts"].(map[string]any)
	if len(slots) != 6 || slots["cpu"] != nil {
		t.Fatalf("expected six slots with empty cpu, got %v", slots)
	}
	tampered := []byte(`{"parts":{"psu":{"name":"psu","price":900000,"wattage":650}},"total_price":1}`)
	var restored BuildList
	if err := json.Unmarshal(tampered, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.TotalPrice() != 900_000 {
		t.Fatalf("total not recomputed: %v", restored.TotalPrice())
	}
	if p, _ := restored.Part(CategoryPSU); p.WattageValue() != 650 {
		t.Fatalf("wattage lost: %+v", p)
	}
}
