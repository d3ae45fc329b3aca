package dataprocessing

import (
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// MissingColumns returns the required columns absent from header, in the
// order of domain.RequiredColumns.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, c := range domain.RequiredColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// ValidateColumns returns a SchemaError unless header holds every required
// column. Extra columns are ignored.
func ValidateColumns(header []string) error {
	if missing := MissingColumns(header); len(missing) > 0 {
		return apperrors.NewSchemaError(domain.RequiredColumns, missing)
	}
	return nil
}
