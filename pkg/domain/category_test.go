package domain

import (
	"errors"
	"testing"
)

func TestParseCategoryAliases(t *testing.T) {
	cases := map[string]Category{
		"cpu":          CategoryCPU,
		"Video-Card":   CategoryGPU,
		" mobo ":       CategoryMotherboard,
		"memory":       CategoryRAM,
		"power-supply": CategoryPSU,
		"case":         CategoryCase,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseCategory("cooler"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategoryDatasets(t *testing.T) {
	if CategoryGPU.Dataset() != "video-card" || CategoryRAM.Dataset() != "memory" {
		t.Fatalf("unexpected dataset names")
	}
	if name, ok := CategoryCPU.ReferenceDataset(); !ok || name != "master_cpu_database" {
		t.Fatalf("cpu reference = %q %v", name, ok)
	}
	if _, ok := CategoryPSU.ReferenceDataset(); ok {
		t.Fatalf("psu should not have a reference table")
	}
}

func TestParsePurpose(t *testing.T) {
	p, err := ParsePurpose("Gaming")
	if err != nil || p != PurposeGaming {
		t.Fatalf("parse gaming: %v %v", p, err)
	}
	prof, _ := PurposeWorkstation.Profile()
	if prof.CPU != 0.35 || prof.RAM != 0.20 {
		t.Fatalf("workstation profile = %+v", prof)
	}
	if _, err := ParsePurpose("office"); !errors.Is(err, ErrUnknownPurpose) {
		t.Fatalf("expected ErrUnknownPurpose, got %v", err)
	}
}

func TestMasterSpecApplyCopiesOnlyCarriedFields(t *testing.T) {
	ref := MasterSpec{Name: "Ryzen 5 7600", Socket: StringPtr("AM5"), TDP: IntPtr(65)}
	part := Part{Name: "AMD Ryzen 5 7600 Box", Socket: "AM4", MemorySupport: StringPtr("DDR4")}
	got := ref.Apply(part, []Field{FieldSocket, FieldMemorySupport, FieldTDP})
	if got.Socket != "AM5" || got.TDP != 65 {
		t.Fatalf("fields not copied: %+v", got)
	}
	if got.MemorySupportValue() != "DDR4" {
		t.Fatalf("field absent on reference must be left as-is: %q", got.MemorySupportValue())
	}
	if part.Socket != "AM4" {
		t.Fatalf("input mutated")
	}
}
