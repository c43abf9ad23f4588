package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	testCases := []struct {
		name     string
		pantry   string
		recipe   string
		expected bool
	}{
		{name: "identical names", pantry: "salt", recipe: "salt", expected: true},
		{name: "case is ignored", pantry: "Parmesan Cheese", recipe: "parmesan cheese", expected: true},
		{name: "pantry inside recipe", pantry: "chicken", recipe: "chicken breast", expected: true},
		{name: "recipe inside pantry", pantry: "eggs", recipe: "egg", expected: true},
		{name: "unrelated names", pantry: "flour", recipe: "sugar", expected: false},
		{name: "overlap without containment", pantry: "brown sugar", recipe: "sugar snap peas", expected: false},
		{name: "unscoped substring hazard", pantry: "lime", recipe: "limestone", expected: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Matches(tt.pantry, tt.recipe))
		})
	}
}

func TestMatchesIsSymmetric(t *testing.T) {
	names := []string{"", "egg", "Eggs", "chicken", "chicken breast", "lime", "LIMESTONE", "olive oil", "oil", "rice"}

	for _, a := range names {
		for _, b := range names {
			assert.Equal(t, Matches(a, b), Matches(b, a), "Matches(%q, %q) should be symmetric", a, b)
		}
	}
}
