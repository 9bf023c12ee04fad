package blob

import memorystore "rigsmith/internal/infra/blob/memory"

// NewMemory returns an in-memory Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
