// Package units canonicalizes ingredient quantities into grams, milliliters or piece counts.
// It is used to validate and display pantry and recipe quantities; matching never looks at it.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Base is one of the canonical units
type Base string

const (
	Grams       Base = "g"
	Milliliters Base = "ml"
	Pieces      Base = "piece"
)

var (
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrInvalidQuantity = errors.New("quantity must be a finite, non-negative number")
)

// Quantity is an amount expressed in a base unit
type Quantity struct {
	Value float64 `json:"value"`
	Unit  Base    `json:"unit"`
}

type conversion struct {
	base   Base
	factor float64
}

var conversions = map[string]conversion{
	// mass
	"mg":       {Grams, 0.001},
	"g":        {Grams, 1},
	"gram":     {Grams, 1},
	"kg":       {Grams, 1000},
	"kilogram": {Grams, 1000},
	"oz":       {Grams, 28.3495},
	"ounce":    {Grams, 28.3495},
	"lb":       {Grams, 453.592},
	"lbs":      {Grams, 453.592},
	"pound":    {Grams, 453.592},

	// volume
	"ml":         {Milliliters, 1},
	"milliliter": {Milliliters, 1},
	"millilitre": {Milliliters, 1},
	"cl":         {Milliliters, 10},
	"dl":         {Milliliters, 100},
	"l":          {Milliliters, 1000},
	"liter":      {Milliliters, 1000},
	"litre":      {Milliliters, 1000},
	"tsp":        {Milliliters, 4.92892},
	"teaspoon":   {Milliliters, 4.92892},
	"tbsp":       {Milliliters, 14.7868},
	"tablespoon": {Milliliters, 14.7868},
	"fl oz":      {Milliliters, 29.5735},
	"cup":        {Milliliters, 236.588},
	"pint":       {Milliliters, 473.176},
	"quart":      {Milliliters, 946.353},
	"gallon":     {Milliliters, 3785.41},

	// count
	"":      {Pieces, 1},
	"piece": {Pieces, 1},
	"pc":    {Pieces, 1},
	"pcs":   {Pieces, 1},
	"whole": {Pieces, 1},
	"clove": {Pieces, 1},
	"slice": {Pieces, 1},
	"can":   {Pieces, 1},
	"dozen": {Pieces, 12},
}

// canonicalUnit lower-cases, trims, drops a trailing period and folds simple plurals
func canonicalUnit(unit string) string {
	u := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), ".")
	if _, ok := conversions[u]; ok {
		return u
	}
	if strings.HasSuffix(u, "es") {
		if _, ok := conversions[u[:len(u)-2]]; ok {
			return u[:len(u)-2]
		}
	}
	if len(u) > 1 && strings.HasSuffix(u, "s") {
		return u[:len(u)-1]
	}
	return u
}

// Known reports whether unit can be normalized
func Known(unit string) bool {
	_, ok := conversions[canonicalUnit(unit)]
	return ok
}

// Normalize converts quantity in unit into its base unit. The value is rounded to 3 decimals.
func Normalize(quantity float64, unit string) (Quantity, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return Quantity{}, ErrInvalidQuantity
	}
	conv, ok := conversions[canonicalUnit(unit)]
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return Quantity{
		Value: math.Round(quantity*conv.factor*1000) / 1000,
		Unit:  conv.base,
	}, nil
}

// String renders the quantity for display, e.g. "250 g"
func (q Quantity) String() string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", q.Value), "0"), ".") + " " + string(q.Unit)
}
