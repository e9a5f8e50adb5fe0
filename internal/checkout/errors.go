package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAlreadyProcessing = errors.New("an order is already being placed")
	ErrNotReviewing      = errors.New("orders can only be placed from the review step")
	ErrNoNextStep        = errors.New("no further checkout step")
	ErrNoPreviousStep    = errors.New("no previous checkout step")
)

// ValidationError carries one message per invalid field, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
