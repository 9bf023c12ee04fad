package core

import (
	"reflect"
	"testing"

	"rigsmith/pkg/domain"
)

func TestKeywordsDropsNoiseAndSorts(t *testing.T) {
	got := Keywords("NVIDIA GeForce RTX 4060 8GB RTX")
	want := KeywordSet{"4060", "8gb", "rtx"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keywords = %v, want %v", got, want)
	}
	if !Keywords("AMD Intel GB").Empty() {
		t.Fatalf("expected noise-only term to produce an empty set")
	}
	if Keywords("Ryzen 5 7600").Key() != Keywords("7600 ryzen 5").Key() {
		t.Fatalf("expected order-independent keys")
	}
}

func TestKeywordsUnicodeTokens(t *testing.T) {
	got := Keywords("Radeon RX 7900 XTX Édition Spéciale")
	want := KeywordSet{"7900", "rx", "spéciale", "xtx", "édition"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keywords = %v, want %v", got, want)
	}
}

func TestKeywordSetSubsetOf(t *testing.T) {
	ref := Keywords("Ryzen 5 7600")
	listing := Keywords("AMD Ryzen 5 7600 Box Processor")
	if !ref.SubsetOf(listing) {
		t.Fatalf("expected %v to be a subset of %v", ref, listing)
	}
	if listing.SubsetOf(ref) {
		t.Fatalf("longer listing must not be a subset of the reference")
	}
	if Keywords("Ryzen 5 7600X").SubsetOf(listing) {
		t.Fatalf("7600x must not match a 7600 listing")
	}
}

func TestMasterSpecIndexFind(t *testing.T) {
	refs := map[domain.Category][]domain.MasterSpec{
		domain.CategoryGPU: {
			{Name: "GeForce RTX 4060", TDP: domain.IntPtr(115)},
			{Name: "Radeon RX 7800 XT", TDP: domain.IntPtr(263)},
			{Name: "AMD", TDP: domain.IntPtr(1)},
		},
		domain.CategoryCPU: {
			{Name: "Ryzen 5 7600", Socket: domain.StringPtr("AM5")},
			{Name: "7600 Ryzen 5", Socket: domain.StringPtr("AM5+")},
		},
	}
	idx := NewMasterSpecIndex(refs)

	if idx.Len(domain.CategoryGPU) != 2 {
		t.Fatalf("expected noise-only reference to be skipped, got %d entries", idx.Len(domain.CategoryGPU))
	}
	if idx.Len(domain.CategoryCPU) != 1 {
		t.Fatalf("expected duplicate keys to collapse, got %d entries", idx.Len(domain.CategoryCPU))
	}

	spec, ok := idx.Find(domain.CategoryGPU, "Sapphire Pulse", "Radeon RX 7800 XT")
	if !ok || *spec.TDP != 263 {
		t.Fatalf("expected chipset match for 7800 XT, got %+v ok=%v", spec, ok)
	}
	spec, ok = idx.Find(domain.CategoryGPU, "MSI Ventus 2X RTX 4060 OC", "")
	if !ok || *spec.TDP != 115 {
		t.Fatalf("expected name match for 4060, got %+v ok=%v", spec, ok)
	}
	spec, ok = idx.Find(domain.CategoryCPU, "AMD Ryzen 5 7600 Tray", "")
	if !ok || *spec.Socket != "AM5+" {
		t.Fatalf("expected later duplicate to replace value, got %+v ok=%v", spec, ok)
	}
	if _, ok := idx.Find(domain.CategoryGPU, "Arc A770", ""); ok {
		t.Fatalf("unexpected match for unknown chip")
	}
	if _, ok := idx.Find(domain.CategoryRAM, "anything", ""); ok {
		t.Fatalf("non-reference category must never match")
	}
	var nilIdx *MasterSpecIndex
	if _, ok := nilIdx.Find(domain.CategoryCPU, "Ryzen 5 7600", ""); ok {
		t.Fatalf("nil index must not match")
	}
}
