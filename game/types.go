package game

import "strings"

type PokemonType string

const (
	Normal   PokemonType = "Normal"
	Fire     PokemonType = "Fire"
	Water    PokemonType = "Water"
	Electric PokemonType = "Electric"
	Grass    PokemonType = "Grass"
	Ice      PokemonType = "Ice"
	Fighting PokemonType = "Fighting"
	Poison   PokemonType = "Poison"
	Ground   PokemonType = "Ground"
	Flying   PokemonType = "Flying"
	Psychic  PokemonType = "Psychic"
	Bug      PokemonType = "Bug"
	Rock     PokemonType = "Rock"
	Ghost    PokemonType = "Ghost"
	Dragon   PokemonType = "Dragon"
	Dark     PokemonType = "Dark"
	Steel    PokemonType = "Steel"
	Fairy    PokemonType = "Fairy"
	Stellar  PokemonType = "Stellar"
)

// ParseType accepts any capitalisation ("fire", "FIRE", "Fire").
func ParseType(s string) PokemonType {
	s = strings.TrimSpace(s)
	if s == "" || s == "???" {
		return ""
	}
	return PokemonType(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}

// TypeChart maps attacking type -> defending type -> multiplier. Missing
// entries are neutral.
type TypeChart map[PokemonType]map[PokemonType]float64

func (c TypeChart) multiplier(attacking, defending PokemonType) float64 {
	if defending == "" {
		return 1
	}
	if row, ok := c[attacking]; ok {
		if v, ok := row[defending]; ok {
			return v
		}
	}
	return 1
}

// DamageMultiplier returns the effectiveness of attacking against a defender
// with the given types. type2 may be empty for single-typed defenders.
func (c TypeChart) DamageMultiplier(attacking, type1, type2 PokemonType) float64 {
	return c.multiplier(attacking, type1) * c.multiplier(attacking, type2)
}
