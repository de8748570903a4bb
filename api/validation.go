package api

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// objectIDRegex matches 24-character lowercase hex identifiers.
var objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidationError collects per-field validation failures. It maps a field
// name to one or more human-readable messages.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return strings.Join(parts, ", ")
}

// Add appends a message for the given field.
func (e ValidationError) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validObjectID(s string) bool {
	return objectIDRegex.MatchString(s)
}
