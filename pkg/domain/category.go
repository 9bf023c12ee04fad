package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category identifies one of the fixed build slots.
type Category string

// Build slots in display order.
const (
	CategoryCPU         Category = "cpu"
	CategoryGPU         Category = "gpu"
	CategoryMotherboard Category = "motherboard"
	CategoryRAM         Category = "ram"
	CategoryPSU         Category = "psu"
	CategoryCase        Category = "case"
)

// ErrUnknownCategory is returned when a category name cannot be resolved.
var ErrUnknownCategory = errors.New("unknown part category")

var categoryOrder = []Category{
	CategoryCPU,
	CategoryGPU,
	CategoryMotherboard,
	CategoryRAM,
	CategoryPSU,
	CategoryCase,
}

// Dataset names as shipped by the catalogue exporters.
var categoryDatasets = map[Category]string{
	CategoryCPU:         "cpu",
	CategoryGPU:         "video-card",
	CategoryMotherboard: "motherboard",
	CategoryRAM:         "memory",
	CategoryPSU:         "power-supply",
	CategoryCase:        "case",
}

var referenceDatasets = map[Category]string{
	CategoryCPU: "master_cpu_database",
	CategoryGPU: "master_gpu_database",
}

var categoryAliases = map[string]Category{
	"cpu":          CategoryCPU,
	"gpu":          CategoryGPU,
	"video-card":   CategoryGPU,
	"mobo":         CategoryMotherboard,
	"motherboard":  CategoryMotherboard,
	"ram":          CategoryRAM,
	"memory":       CategoryRAM,
	"psu":          CategoryPSU,
	"power-supply": CategoryPSU,
	"case":         CategoryCase,
}

// Categories returns every build slot in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ReferenceCategories returns the categories backed by a master spec table.
func ReferenceCategories() []Category {
	return []Category{CategoryCPU, CategoryGPU}
}

// ParseCategory resolves a slot name or one of its aliases.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the six build slots.
func (c Category) Valid() bool {
	_, ok := categoryDatasets[c]
	return ok
}

// Dataset returns the catalogue dataset name for the category.
func (c Category) Dataset() string { return categoryDatasets[c] }

// ReferenceDataset returns the master spec dataset backing the category, if any.
func (c Category) ReferenceDataset() (string, bool) {
	name, ok := referenceDatasets[c]
	return name, ok
}
