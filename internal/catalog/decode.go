// Package catalog ingests the raw JSON datasets into a domain.Snapshot.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rigsmith/pkg/domain"
)

// Raw attribute keys used by the dataset exporters.
const (
	keyName          = "name"
	keyRefName       = "Name"
	keyPrice         = "price"
	keyChipset       = "chipset"
	keySocket        = "socket"
	keyPhysSocket    = "Physical - Socket"
	keyMemorySupport = "Architecture - Memory Support"
	keyCPUTDP        = "Performance - TDP"
	keyGPUTDP        = "Board Design - TDP"
	keyMemorySize    = "Memory - Memory Size"
	keyWattage       = "wattage"
	keySpeed         = "speed"
	keyModules       = "modules"
)

// ddr5Threshold splits bare RAM speeds into DDR4 and DDR5 kits.
const ddr5Threshold = 4000

type record map[string]any

// Decoder maps raw dataset records onto typed parts.
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder returns a decoder logging data-quality repairs to logger.
func NewDecoder(logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger}
}

func readRecords(r io.Reader) ([]record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out []record
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return out, nil
}

// DecodeParts reads a JSON array of listings for category.
func (d *Decoder) DecodeParts(category domain.Category, r io.Reader) ([]domain.Part, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	parts := make([]domain.Part, 0, len(records))
	for _, rec := range records {
		parts = append(parts, d.part(category, rec))
	}
	return parts, nil
}

func (d *Decoder) part(category domain.Category, rec record) domain.Part {
	p := domain.Part{
		Name:    rec.str(keyName),
		Price:   rec.floatVal(keyPrice),
		Chipset: rec.str(keyChipset),
	}
	if category == domain.CategoryCPU {
		p.Socket = firstNonEmpty(rec.str(keyPhysSocket), rec.str(keySocket))
	} else {
		p.Socket = firstNonEmpty(rec.str(keySocket), rec.str(keyPhysSocket))
	}
	if v, ok := rec.optStr(keyMemorySupport); ok {
		p.MemorySupport = &v
	}
	switch category {
	case domain.CategoryCPU:
		p.TDP = rec.intVal(keyCPUTDP)
	case domain.CategoryGPU:
		p.TDP = rec.intVal(keyGPUTDP)
		p.MemorySizeGB = rec.intVal(keyMemorySize)
	}
	if _, ok := rec[keyWattage]; ok {
		p.Wattage = domain.IntPtr(rec.intVal(keyWattage))
	}
	if raw, ok := rec[keySpeed]; ok {
		p.Speed = d.speed(p.Name, raw)
	}
	if raw, ok := rec[keyModules]; ok {
		p.Modules = domain.IntPtr(moduleCount(raw))
	}
	return p
}

// speed decodes a [generation, MHz] pair, repairing bare integers and nulls.
func (d *Decoder) speed(name string, raw any) *domain.RAMSpeed {
	switch v := raw.(type) {
	case nil:
		d.logger.Warn("repaired ram speed", zap.String("part", name), zap.String("from", "null"), zap.String("to", "[0, 0]"))
		return &domain.RAMSpeed{}
	case []any:
		s := &domain.RAMSpeed{}
		if len(v) > 0 {
			s.Generation = toInt(v[0])
		}
		if len(v) > 1 {
			s.FrequencyMHz = toInt(v[1])
		}
		return s
	default:
		mhz := toInt(v)
		gen := 4
		if mhz > ddr5Threshold {
			gen = 5
		}
		d.logger.Warn("repaired ram speed", zap.String("part", name),
			zap.Int("from", mhz), zap.String("to", fmt.Sprintf("[%d, %d]", gen, mhz)))
		return &domain.RAMSpeed{Generation: gen, FrequencyMHz: mhz}
	}
}

// moduleCount accepts a bare count or a [count, size] pair.
func moduleCount(raw any) int {
	if arr, ok := raw.([]any); ok {
		if len(arr) == 0 {
			return 0
		}
		return toInt(arr[0])
	}
	return toInt(raw)
}

// DecodeReferences reads a master spec table for category.
func (d *Decoder) DecodeReferences(category domain.Category, r io.Reader) ([]domain.MasterSpec, error) {
	if category != domain.CategoryCPU && category != domain.CategoryGPU {
		return nil, fmt.Errorf("%w: %q has no reference table", domain.ErrUnknownCategory, category)
	}
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.MasterSpec, 0, len(records))
	for _, rec := range records {
		ref := domain.MasterSpec{Name: firstNonEmpty(rec.str(keyRefName), rec.str(keyName))}
		if v, ok := rec.optStr(keyPhysSocket); ok {
			ref.Socket = &v
		}
		if v, ok := rec.optStr(keyMemorySupport); ok {
			ref.MemorySupport = &v
		}
		tdpKey := keyCPUTDP
		if category == domain.CategoryGPU {
			tdpKey = keyGPUTDP
		}
		if _, ok := rec[tdpKey]; ok {
			ref.TDP = domain.IntPtr(rec.intVal(tdpKey))
		}
		if _, ok := rec[keyMemorySize]; ok {
			ref.MemorySizeGB = domain.IntPtr(rec.intVal(keyMemorySize))
		}
		if v, ok := rec.optStr(keyChipset); ok {
			ref.Chipset = &v
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r record) str(key string) string {
	v, _ := r.optStr(key)
	return v
}

// optStr reports a string-valued key; null and non-string values are absent.
func (r record) optStr(key string) (string, bool) {
	raw, ok := r[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

func (r record) floatVal(key string) float64 { return toFloat(r[key]) }

func (r record) intVal(key string) int { return toInt(r[key]) }

func toInt(raw any) int {
	f := toFloat(raw)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// toFloat is total: anything unparseable is 0. Strings may carry a unit
// suffix such as "65 W" or "8 GB".
func toFloat(raw any) float64 {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case float64:
		return finite(v)
	case string:
		return finite(leadingNumber(v))
	}
	return 0
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && s[end] == '-')) {
		end++
	}
	if end == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
