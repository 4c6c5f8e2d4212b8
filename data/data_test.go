package data

import (
	"testing"

	"showdown-agent/game"
)

func loadedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	if err := s.LoadPokemonData("pokedex.json"); err != nil {
		t.Fatalf("load pokedex: %v", err)
	}
	if err := s.LoadMoveData("moves.json"); err != nil {
		t.Fatalf("load moves: %v", err)
	}
	return s
}

func TestToID(t *testing.T) {
	cases := map[string]string{
		"Flabébé":    "flabebe",
		"Great Tusk": "greattusk",
		"U-turn":     "uturn",
		"Mr. Mime":   "mrmime",
		"Porygon-Z":  "porygonz",
		"focussash":  "focussash",
		"Farfetch’d": "farfetchd",
		"":           "",
	}
	for in, want := range cases {
		if got := ToID(in); got != want {
			t.Errorf("ToID(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestStoreLookups(t *testing.T) {
	s := loadedStore(t)

	types := s.PokemonTypes("Great Tusk")
	if len(types) != 2 || types[0] != game.Ground || types[1] != game.Fighting {
		t.Fatalf("Great Tusk types: got %v", types)
	}
	if types := s.PokemonTypes("Flabébé"); len(types) != 1 || types[0] != game.Fairy {
		t.Fatalf("Flabébé types: got %v", types)
	}
	if s.PokemonTypes("MissingNo") != nil {
		t.Fatalf("unknown species should have no types")
	}

	mv, err := s.Move("U-turn")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if mv.ID != "uturn" || mv.Type != game.Bug || mv.BasePower != 70 || mv.Category != game.CategoryPhysical {
		t.Fatalf("U-turn: got %+v", mv)
	}

	mv.BasePower = 1
	again, _ := s.Move("uturn")
	if again.BasePower != 70 {
		t.Fatalf("Move should hand out copies")
	}

	unknown, err := s.Move("Hyper Mega Beam")
	if err == nil || unknown.ID != "hypermegabeam" {
		t.Fatalf("unknown move: got %+v, %v", unknown, err)
	}
}

func TestEstimateStats(t *testing.T) {
	s := loadedStore(t)

	stats := s.EstimateStats("Pikachu", 100)
	// hp: (70+31+21)*1 + 110, spe: (180+52) + 5
	if stats["hp"] != 232 || stats["spe"] != 237 {
		t.Fatalf("Pikachu L100: got %v", stats)
	}
	stats = s.EstimateStats("Garchomp", 50)
	// atk: (260+52)*50/100 + 5
	if stats["atk"] != 161 {
		t.Fatalf("Garchomp L50 atk: got %d", stats["atk"])
	}
	if s.EstimateStats("MissingNo", 100) != nil {
		t.Fatalf("unknown species should have no stats")
	}
}

func TestGen9TypeChart(t *testing.T) {
	chart := Gen9TypeChart()
	cases := []struct {
		atk        game.PokemonType
		def1, def2 game.PokemonType
		want       float64
	}{
		{game.Electric, game.Water, game.Flying, 4},
		{game.Electric, game.Dragon, game.Ground, 0},
		{game.Ice, game.Dragon, game.Ground, 4},
		{game.Fighting, game.Ghost, "", 0},
		{game.Fire, game.Grass, game.Steel, 4},
		{game.Water, game.Water, game.Dragon, 0.25},
		{game.Normal, game.Normal, "", 1},
		{game.Dragon, game.Fairy, "", 0},
		{game.Poison, game.Steel, "", 0},
	}
	for _, tc := range cases {
		if got := chart.DamageMultiplier(tc.atk, tc.def1, tc.def2); got != tc.want {
			t.Errorf("%s vs %s/%s: got %v, want %v", tc.atk, tc.def1, tc.def2, got, tc.want)
		}
	}
	if len(chart) != 18 {
		t.Fatalf("expected 18 attacking types, got %d", len(chart))
	}
}
