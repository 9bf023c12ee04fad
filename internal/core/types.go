package core

import "rigsmith/pkg/domain"

type (
	Category = domain.Category
	Snapshot = domain.Snapshot
)
