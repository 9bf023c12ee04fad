package core

import (
	"testing"

	"rigsmith/pkg/domain"
)

func cpuPart(name string, price float64, socket, support string, tdp int) domain.Part {
	p := domain.Part{Name: name, Price: price, Socket: socket, TDP: tdp}
	if support != "" {
		p.MemorySupport = domain.StringPtr(support)
	}
	return p
}

func boardPart(name string, price float64, socket string) domain.Part {
	return domain.Part{Name: name, Price: price, Socket: socket}
}

func ramPart(name string, price float64, gen, mhz int) domain.Part {
	return domain.Part{Name: name, Price: price, Speed: &domain.RAMSpeed{Generation: gen, FrequencyMHz: mhz}, Modules: domain.IntPtr(2)}
}

func gpuPart(name string, price float64, chipset string, tdp int) domain.Part {
	return domain.Part{Name: name, Price: price, Chipset: chipset, TDP: tdp}
}

func psuPart(name string, price float64, wattage int) domain.Part {
	return domain.Part{Name: name, Price: price, Wattage: domain.IntPtr(wattage)}
}

func mustBuild(t *testing.T, parts map[domain.Category]domain.Part) domain.BuildList {
	t.Helper()
	build := domain.NewBuildList()
	for _, category := range domain.Categories() {
		p, ok := parts[category]
		if !ok {
			continue
		}
		var err error
		if build, err = build.AddPart(category, p); err != nil {
			t.Fatalf("add %s: %v", category, err)
		}
	}
	return build
}

// fixtureSnapshot is a small catalogue exercising every allocation step.
func fixtureSnapshot() domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Parts[domain.CategoryCPU] = []domain.Part{
		cpuPart("AMD Ryzen 5 5600X", 1_800_000, "AM4", "DDR4", 65),
		cpuPart("AMD Ryzen 5 7600", 2_900_000, "AM5", "DDR5", 65),
		cpuPart("Intel Core i5-12400F", 2_000_000, "LGA 1700", "DDR4, DDR5", 65),
		cpuPart("AMD Ryzen 9 7950X", 9_000_000, "AM5", "DDR5", 170),
	}
	snap.Parts[domain.CategoryMotherboard] = []domain.Part{
		boardPart("MSI B550 Tomahawk", 2_000_000, "AM4"),
		boardPart("ASUS B650 Prime", 2_200_000, "AM5"),
		boardPart("Gigabyte B660M", 1_900_000, "LGA1700"),
	}
	snap.Parts[domain.CategoryRAM] = []domain.Part{
		ramPart("Corsair Vengeance LPX 16GB", 900_000, 4, 3200),
		ramPart("Kingston Fury Beast 32GB", 1_800_000, 5, 6000),
		ramPart("G.Skill Flare X5 16GB", 1_200_000, 5, 5600),
	}
	snap.Parts[domain.CategoryGPU] = []domain.Part{
		gpuPart("MSI Ventus RTX 4060", 5_000_000, "GeForce RTX 4060", 115),
		gpuPart("Sapphire Pulse RX 7800 XT", 9_000_000, "Radeon RX 7800 XT", 263),
	}
	snap.Parts[domain.CategoryPSU] = []domain.Part{
		psuPart("Cooler Master MWE 450", 700_000, 450),
		psuPart("Corsair RM650", 1_000_000, 650),
		psuPart("Seasonic Focus 850", 1_500_000, 850),
	}
	snap.Parts[domain.CategoryCase] = []domain.Part{
		{Name: "NZXT H5 Flow", Price: 1_000_000},
		{Name: "Deepcool CC560", Price: 600_000},
	}
	return snap
}
