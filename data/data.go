package data

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"showdown-agent/game"
)

type PokemonData struct {
	Name      string
	Types     []game.PokemonType
	BaseStats map[string]int
}

type RawPokemonData struct {
	Name      string         `json:"name"`
	Types     []string       `json:"types"`
	BaseStats map[string]int `json:"baseStats"`
}

type RawMoveData struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Power    int    `json:"basePower"`
	Category string `json:"category"`
}

// Store is the dex the parser consults when the protocol only gives names.
type Store struct {
	pokemon map[string]PokemonData
	moves   map[string]game.Move
	chart   game.TypeChart
}

func NewStore() *Store {
	return &Store{
		pokemon: make(map[string]PokemonData),
		moves:   make(map[string]game.Move),
		chart:   Gen9TypeChart(),
	}
}

func (s *Store) LoadPokemonData(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var rawData map[string]RawPokemonData
	if err := json.NewDecoder(file).Decode(&rawData); err != nil {
		return fmt.Errorf("decode pokedex %s: %w", path, err)
	}

	for id, p := range rawData {
		types := make([]game.PokemonType, 0, len(p.Types))
		for _, t := range p.Types {
			types = append(types, game.ParseType(t))
		}
		if id == "" {
			id = ToID(p.Name)
		}
		s.pokemon[ToID(id)] = PokemonData{
			Name:      p.Name,
			Types:     types,
			BaseStats: p.BaseStats,
		}
	}
	return nil
}

func (s *Store) LoadMoveData(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var rawData map[string]RawMoveData
	if err := json.NewDecoder(file).Decode(&rawData); err != nil {
		return fmt.Errorf("decode moves %s: %w", path, err)
	}

	for id, m := range rawData {
		if id == "" {
			id = ToID(m.Name)
		}
		s.moves[ToID(id)] = game.Move{
			ID:        ToID(id),
			Name:      m.Name,
			Type:      game.ParseType(m.Type),
			BasePower: m.Power,
			Category:  game.ParseCategory(m.Category),
		}
	}
	return nil
}

func (s *Store) PokemonCount() int { return len(s.pokemon) }

func (s *Store) MoveCount() int { return len(s.moves) }

func (s *Store) TypeChart() game.TypeChart {
	return s.chart
}

func (s *Store) Pokemon(name string) (PokemonData, bool) {
	p, ok := s.pokemon[ToID(name)]
	return p, ok
}

func (s *Store) PokemonTypes(name string) []game.PokemonType {
	if p, ok := s.Pokemon(name); ok {
		return append([]game.PokemonType(nil), p.Types...)
	}
	return nil
}

// Move returns a fresh copy of the dex entry so callers can attach it to a
// mon without sharing state. Unknown moves still yield a usable value.
func (s *Store) Move(name string) (*game.Move, error) {
	id := ToID(name)
	if m, ok := s.moves[id]; ok {
		return &m, nil
	}
	return &game.Move{ID: id, Name: name}, fmt.Errorf("move not found: %s", name)
}

// EstimateStats guesses level-scaled stats for a mon whose real spread is
// hidden: 31 IVs, 84 EVs, neutral nature.
func (s *Store) EstimateStats(name string, level int) map[string]int {
	p, ok := s.Pokemon(name)
	if !ok || len(p.BaseStats) == 0 {
		return nil
	}
	if level <= 0 {
		level = 100
	}
	stats := make(map[string]int, len(p.BaseStats))
	for stat, base := range p.BaseStats {
		v := (2*base + 31 + 21) * level / 100
		if stat == "hp" {
			stats[stat] = v + level + 10
		} else {
			stats[stat] = v + 5
		}
	}
	return stats
}

// ToID normalises a display name to a Showdown id: accents stripped, then
// only lower-case letters and digits kept ("Flabébé" -> "flabebe").
func ToID(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
