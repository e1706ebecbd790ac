package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an input table. It is
// always fatal to the stage that raised it: callers never receive partial
// results alongside one.
type SchemaError struct {
	Stage   string   // stage that rejected the table, e.g. "kpi"
	Missing []string // required columns not present
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Stage, strings.Join(e.Missing, ", "))
}

// NewSchemaError builds a SchemaError for a stage and its missing columns.
func NewSchemaError(stage string, missing []string) *SchemaError {
	return &SchemaError{Stage: stage, Missing: missing}
}
