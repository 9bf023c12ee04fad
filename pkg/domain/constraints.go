package domain

import (
	"strconv"
	"strings"
)

// ConstraintSet is the set of compatibility filters implied by a partial
// build. A zero field means the constraint is absent.
type ConstraintSet struct {
	Socket         string `json:"socket,omitempty"`
	MemoryType     string `json:"memory_type,omitempty"`
	EstimatedPower int    `json:"estimated_power,omitempty"`
}

// HasSocket reports whether a socket constraint is active.
func (c ConstraintSet) HasSocket() bool { return c.Socket != "" }

// HasMemoryType reports whether a memory-type constraint is active.
func (c ConstraintSet) HasMemoryType() bool { return c.MemoryType != "" }

// HasEstimatedPower reports whether a power constraint is active.
func (c ConstraintSet) HasEstimatedPower() bool { return c.EstimatedPower > 0 }

// IsEmpty reports whether no constraint is active.
func (c ConstraintSet) IsEmpty() bool {
	return !c.HasSocket() && !c.HasMemoryType() && !c.HasEstimatedPower()
}

func (c ConstraintSet) String() string {
	if c.IsEmpty() {
		return "none"
	}
	parts := make([]string, 0, 3)
	if c.HasSocket() {
		parts = append(parts, "socket="+c.Socket)
	}
	if c.HasMemoryType() {
		parts = append(parts, "memory_type="+c.MemoryType)
	}
	if c.HasEstimatedPower() {
		parts = append(parts, "estimated_power="+strconv.Itoa(c.EstimatedPower)+"W")
	}
	return strings.Join(parts, " ")
}
