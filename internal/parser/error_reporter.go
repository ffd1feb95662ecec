package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/models"
)

// ErrorReporter builds resolution errors with suggestions drawn from the
// known types
type ErrorReporter struct {
	universe *models.Universe
}

// NewErrorReporter creates a reporter over universe
func NewErrorReporter(universe *models.Universe) *ErrorReporter {
	return &ErrorReporter{universe: universe}
}

// UnknownType reports a reference that resolves to nothing
func (r *ErrorReporter) UnknownType(name string, loc errors.SourceLocation) error {
	err := errors.NewSyntaxError(fmt.Sprintf("unknown type %s", name)).WithLocation(loc)
	err.Token = name
	if similar := r.similarTypes(name); len(similar) > 0 {
		err.WithSuggestion("Did you mean " + strings.Join(similar, ", ") + "?")
	} else {
		err.WithSuggestion("Declare " + name + " in a .decor file or use a built-in type")
	}
	return err
}

// similarTypes returns up to three known names close to name
func (r *ErrorReporter) similarTypes(name string) []string {
	type candidate struct {
		name     string
		distance int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	consider := func(t *models.Type) {
		display := t.DisplayName()
		if seen[display] {
			return
		}
		seen[display] = true
		d := distance(strings.ToLower(name), strings.ToLower(display))
		if d <= len(name)/3+1 {
			candidates = append(candidates, candidate{display, d})
		}
	}
	for _, t := range models.Builtins() {
		consider(t)
	}
	for _, t := range r.universe.Types() {
		consider(t)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	var result []string
	for i := 0; i < len(candidates) && i < 3; i++ {
		result = append(result, candidates[i].name)
	}
	return result
}

// distance is the Levenshtein distance between a and b
func distance(a, b string) int {
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[len(b)]
}
