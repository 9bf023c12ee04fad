package domain

import "strconv"

// RAMSpeed is the (generation, frequency) pair exposed by memory kits.
type RAMSpeed struct {
	Generation   int `json:"generation"`
	FrequencyMHz int `json:"frequency_mhz"`
}

// Part is one catalogue entry. Optional attributes that change how a rule
// applies are pointers so that "field absent" and "field present with a zero
// value" stay distinguishable.
type Part struct {
	Name          string    `json:"name"`
	Price         float64   `json:"price,omitempty"`
	Chipset       string    `json:"chipset,omitempty"`
	Socket        string    `json:"socket,omitempty"`
	MemorySupport *string   `json:"memory_support,omitempty"`
	TDP           int       `json:"tdp,omitempty"`
	Wattage       *int      `json:"wattage,omitempty"`
	Speed         *RAMSpeed `json:"speed,omitempty"`
	Modules       *int      `json:"modules,omitempty"`
	MemorySizeGB  int       `json:"memory_size_gb,omitempty"`
}

// HasSocket reports whether the part carries socket data.
func (p Part) HasSocket() bool { return p.Socket != "" }

// HasMemorySupport reports whether the part exposes a memory-support field.
func (p Part) HasMemorySupport() bool { return p.MemorySupport != nil }

// MemorySupportValue returns the memory-support text or "".
func (p Part) MemorySupportValue() string {
	if p.MemorySupport == nil {
		return ""
	}
	return *p.MemorySupport
}

// IsRAMShaped reports whether the part looks like a memory kit.
func (p Part) IsRAMShaped() bool { return p.Speed != nil && p.Modules != nil }

// HasWattage reports whether the part exposes a wattage field.
func (p Part) HasWattage() bool { return p.Wattage != nil }

// WattageValue returns the rated wattage, 0 when absent.
func (p Part) WattageValue() int {
	if p.Wattage == nil {
		return 0
	}
	return *p.Wattage
}

// RAMType renders the memory generation as "DDR<n>". Parts without speed
// data render as "DDR0".
func (p Part) RAMType() string {
	gen := 0
	if p.Speed != nil {
		gen = p.Speed.Generation
	}
	return "DDR" + strconv.Itoa(gen)
}

// Clone returns a deep copy so enriched records never alias raw input.
func (p Part) Clone() Part {
	out := p
	if p.MemorySupport != nil {
		v := *p.MemorySupport
		out.MemorySupport = &v
	}
	if p.Wattage != nil {
		v := *p.Wattage
		out.Wattage = &v
	}
	if p.Speed != nil {
		v := *p.Speed
		out.Speed = &v
	}
	if p.Modules != nil {
		v := *p.Modules
		out.Modules = &v
	}
	return out
}

// Field names a canonical attribute that enrichment can copy from a master spec.
type Field string

// Copyable master spec attributes.
const (
	FieldSocket        Field = "socket"
	FieldMemorySupport Field = "memory_support"
	FieldTDP           Field = "tdp"
	FieldMemorySize    Field = "memory_size"
	FieldChipset       Field = "chipset"
)

// MasterSpec is a canonical reference entry for a CPU or GPU chip.
type MasterSpec struct {
	Name          string  `json:"name"`
	Socket        *string `json:"socket,omitempty"`
	MemorySupport *string `json:"memory_support,omitempty"`
	TDP           *int    `json:"tdp,omitempty"`
	MemorySizeGB  *int    `json:"memory_size_gb,omitempty"`
	Chipset       *string `json:"chipset,omitempty"`
}

// Clone returns a deep copy of the reference record.
func (m MasterSpec) Clone() MasterSpec {
	out := m
	if m.Socket != nil {
		out.Socket = StringPtr(*m.Socket)
	}
	if m.MemorySupport != nil {
		out.MemorySupport = StringPtr(*m.MemorySupport)
	}
	if m.TDP != nil {
		out.TDP = IntPtr(*m.TDP)
	}
	if m.MemorySizeGB != nil {
		out.MemorySizeGB = IntPtr(*m.MemorySizeGB)
	}
	if m.Chipset != nil {
		out.Chipset = StringPtr(*m.Chipset)
	}
	return out
}

// Apply copies the listed fields the reference carries onto part, overwriting
// whatever part held before. Fields the reference lacks are left untouched.
func (m MasterSpec) Apply(part Part, fields []Field) Part {
	out := part.Clone()
	for _, f := range fields {
		switch f {
		case FieldSocket:
			if m.Socket != nil {
				out.Socket = *m.Socket
			}
		case FieldMemorySupport:
			if m.MemorySupport != nil {
				v := *m.MemorySupport
				out.MemorySupport = &v
			}
		case FieldTDP:
			if m.TDP != nil {
				out.TDP = *m.TDP
			}
		case FieldMemorySize:
			if m.MemorySizeGB != nil {
				out.MemorySizeGB = *m.MemorySizeGB
			}
		case FieldChipset:
			if m.Chipset != nil {
				out.Chipset = *m.Chipset
			}
		}
	}
	return out
}

// StringPtr and IntPtr are small helpers for building optional fields.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
