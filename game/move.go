package game

import "strings"

type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

func ParseCategory(s string) MoveCategory {
	return MoveCategory(strings.ToLower(strings.TrimSpace(s)))
}

type Move struct {
	ID        string
	Name      string
	Type      PokemonType
	BasePower int
	Category  MoveCategory
	// Disabled mirrors the request flag; only meaningful for our own moves.
	Disabled bool
}
