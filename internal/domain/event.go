// Package domain contains the core data types for the meal calendar.
// This package has no dependencies on the transport or storage layers and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"slices"

	"github.com/google/uuid"
)

// MealType is the kind of meal an event represents.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealDrink     MealType = "drink"
	MealDateNight MealType = "date night"
)

// MealTypes lists every valid MealType in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack, MealDrink, MealDateNight}

// Valid reports whether m is one of MealTypes.
func (m MealType) Valid() bool {
	return slices.Contains(MealTypes, m)
}

// Protein is the categorical tag that drives an event's display color.
type Protein string

const (
	ProteinChicken    Protein = "chicken"
	ProteinBeef       Protein = "beef"
	ProteinPork       Protein = "pork"
	ProteinFish       Protein = "fish"
	ProteinVegetarian Protein = "vegetarian"
	ProteinTurkey     Protein = "turkey"
	ProteinLamb       Protein = "lamb"
	ProteinEgg        Protein = "egg"
	ProteinOther      Protein = "other"
)

// Proteins lists every known Protein in display order.
var Proteins = []Protein{
	ProteinChicken, ProteinBeef, ProteinPork, ProteinFish, ProteinVegetarian,
	ProteinTurkey, ProteinLamb, ProteinEgg, ProteinOther,
}

var proteinColors = map[Protein]string{
	ProteinChicken:    "#3b82f6",
	ProteinBeef:       "#dc2626",
	ProteinPork:       "#f97316",
	ProteinFish:       "#06b6d4",
	ProteinVegetarian: "#10b981",
	ProteinTurkey:     "#92400e",
	ProteinLamb:       "#7c3aed",
	ProteinEgg:        "#fbbf24",
	ProteinOther:      "#6b7280",
}

// Color returns the display color for p.
// Unrecognized proteins fall back to the color of ProteinOther.
func (p Protein) Color() string {
	if c, ok := proteinColors[p]; ok {
		return c
	}
	return proteinColors[ProteinOther]
}

// PresetTags are the tags offered as toggles in the event editor.
var PresetTags = []string{
	"Quick", "Healthy", "Comfort Food", "Date Night",
	"Budget Friendly", "Meal Prep", "Spicy", "Kid Friendly",
}

// MaxRating is the highest star rating an event can carry.
const MaxRating = 5

// Event is a single scheduled meal on a specific date and time.
//
// Date and Time are kept as zero-padded strings ("2006-01-02", "15:04"):
// views match dates by string equality and order same-day events by
// comparing Time lexicographically.
type Event struct {
	ID           uuid.UUID
	MealName     string
	MealType     MealType
	Time         string
	Date         string
	Protein      Protein
	Rating       int
	IsFavorite   bool
	HasLeftovers bool
	Tags         []string
	Notes        string
}

// Clone returns a copy of e that shares no backing storage with it.
func (e Event) Clone() Event {
	e.Tags = slices.Clone(e.Tags)
	return e
}

// Color is shorthand for e.Protein.Color().
func (e Event) Color() string {
	return e.Protein.Color()
}
