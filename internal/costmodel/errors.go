package costmodel

import "errors"

var (
	// ErrScenarioNotFound is returned when a scenario name is not registered.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrCategoryNotFound is returned when a percentage adjustment targets a
	// category missing from the mapping.
	ErrCategoryNotFound = errors.New("category not found")

	ErrDuplicateCategory = errors.New("duplicate category")

	ErrInvalidScenario = errors.New("invalid scenario")
)
