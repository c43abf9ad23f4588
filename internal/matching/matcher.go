// Package matching scores a pantry against recipe ingredient lists and ranks the results.
//
// Everything here is pure: no storage, no logging, no shared state. The services package
// feeds it candidates and decides what to do with the ranked output.
package matching

import "strings"

// Matches reports whether a pantry ingredient and a recipe ingredient name the same thing.
// The comparison is case-insensitive and succeeds when either name contains the other,
// so "egg" matches "eggs" and "chicken" matches "chicken breast".
func Matches(pantryName, recipeName string) bool {
	return containsEither(strings.ToLower(pantryName), strings.ToLower(recipeName))
}

// containsEither expects both arguments already lower-cased
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
