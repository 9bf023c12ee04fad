package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Purpose selects a budget split profile for automatic builds.
type Purpose string

// Supported purposes.
const (
	PurposeGaming      Purpose = "gaming"
	PurposeWorkstation Purpose = "workstation"
)

// ErrUnknownPurpose is returned for purposes without a split profile.
var ErrUnknownPurpose = errors.New("unknown build purpose")

// Profile holds the fraction of the total budget given to each allocation
// bucket. Other is later halved between the PSU and the case.
type Profile struct {
	CPU         float64
	GPU         float64
	Motherboard float64
	RAM         float64
	Other       float64
}

var profiles = map[Purpose]Profile{
	PurposeGaming:      {CPU: 0.20, GPU: 0.40, Motherboard: 0.15, RAM: 0.15, Other: 0.10},
	PurposeWorkstation: {CPU: 0.35, GPU: 0.20, Motherboard: 0.15, RAM: 0.20, Other: 0.10},
}

// ParsePurpose resolves a purpose name.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPurpose, s)
	}
	return p, nil
}

// Profile returns the split profile for the purpose.
func (p Purpose) Profile() (Profile, bool) {
	prof, ok := profiles[p]
	return prof, ok
}
