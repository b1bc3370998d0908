package domain

import "fmt"

// ValidationError reports a malformed or out-of-domain input value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MissingInputError reports that the selected formula needs a field the
// caller did not supply.
type MissingInputError struct {
	Field   string
	Formula string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Formula, e.Field)
}

// InvalidEnumError reports an unrecognized selector (sex, activity level,
// goal, formula or unit).
type InvalidEnumError struct {
	Kind  string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

// InfeasibleAllocationError reports that protein and fat alone already exceed
// the total energy value.
type InfeasibleAllocationError struct {
	VETKcal     float64
	ProteinKcal float64
	FatKcal     float64
}

func (e *InfeasibleAllocationError) Error() string {
	return fmt.Sprintf("protein (%.0f kcal) and fat (%.0f kcal) exceed total energy value (%.0f kcal)",
		e.ProteinKcal, e.FatKcal, e.VETKcal)
}
