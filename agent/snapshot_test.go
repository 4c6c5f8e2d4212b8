package agent

import (
	"reflect"
	"testing"

	"showdown-agent/game"
)

func TestBuildPokemonStateHPPercent(t *testing.T) {
	cases := []struct {
		hp, max, want int
	}{
		{0, 300, 0},
		{300, 300, 100},
		{29, 100, 29},
		{1, 3, 33},
		{299, 300, 99},
		{50, 0, 0},
	}
	for _, tc := range cases {
		p := game.NewPokemon("Pikachu")
		p.HP, p.MaxHP = tc.hp, tc.max
		if got := BuildPokemonState(p).HPPct; got != tc.want {
			t.Errorf("hp %d/%d: got %d%%, want %d%%", tc.hp, tc.max, got, tc.want)
		}
	}
}

func TestBuildPokemonStateAbsentOptionals(t *testing.T) {
	p := game.NewPokemon("Pikachu")
	p.Types = []game.PokemonType{game.Electric}
	p.HP, p.MaxHP = 50, 100

	s := BuildPokemonState(p)
	if s.HasStatus() || s.HasItem() || s.HasTeraType() {
		t.Fatalf("expected no status/item/tera, got %+v", s)
	}
	if len(s.RevealedMoves) != 0 {
		t.Fatalf("expected no moves, got %v", s.RevealedMoves)
	}
}

func TestBuildPokemonStateFields(t *testing.T) {
	p := game.NewPokemon("Pikachu")
	p.Types = []game.PokemonType{game.Electric}
	p.HP, p.MaxHP = 80, 100
	p.Status = game.StatusParalysis
	p.Item = "focussash"
	p.TeraType = game.Electric
	p.Boosts[game.BoostSpA] = 2
	p.Boosts[game.BoostSpe] = -1
	p.Boosts[game.BoostEvasion] = 1
	p.AddMove(&game.Move{ID: "thunder"})
	p.AddMove(&game.Move{ID: "reflect"})
	p.AddMove(&game.Move{ID: "thunder"})

	got := BuildPokemonState(p)
	want := PokemonState{
		Name:          "Pikachu",
		HPPct:         80,
		Types:         []string{"Electric"},
		Status:        "PAR",
		Boosts:        StatBoosts{SpA: 2, Spe: -1, Evasion: 1},
		RevealedMoves: []string{"thunder", "reflect"},
		Item:          "focussash",
		TeraType:      "Electric",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestBuildPokemonStateDoesNotMutate(t *testing.T) {
	p := game.NewPokemon("Pikachu")
	p.AddMove(&game.Move{ID: "thunder"})
	p.Boosts[game.BoostAtk] = 1

	s := BuildPokemonState(p)
	s.RevealedMoves[0] = "changed"
	s.Boosts.Atk = 6

	if p.Moves()[0].ID != "thunder" || p.Boosts[game.BoostAtk] != 1 {
		t.Fatalf("snapshot aliases the live mon")
	}
}

func newBattle() *game.Battle {
	b := game.NewBattle("battle-gen9randombattle-1")
	b.Role = "p1"
	b.Player("p1").Name = "me"
	b.Player("p2").Name = "them"
	return b
}

func TestBuildFieldStateAllowLists(t *testing.T) {
	b := newBattle()
	b.Turn = 4
	b.Weather = game.RainDance
	b.Fields[game.ElectricTerrain] = 2
	b.Fields[game.TrickRoom] = 3

	mine := b.Player("p1").SideConditions
	mine[game.Spikes] = 2
	mine[game.Reflect] = 3
	mine[game.Tailwind] = 4
	mine[game.Safeguard] = 1

	theirs := b.Player("p2").SideConditions
	theirs[game.StealthRock] = 1
	theirs[game.StickyWeb] = 1
	theirs[game.ToxicSpikes] = 2
	theirs[game.LightScreen] = 4
	theirs[game.AuroraVeil] = 1
	theirs[game.Mist] = 2

	fs := BuildFieldState(b)

	if fs.Weather != "RAINDANCE" {
		t.Errorf("weather: got %q", fs.Weather)
	}
	if fs.Terrain != "ELECTRIC_TERRAIN" {
		t.Errorf("terrain: got %q", fs.Terrain)
	}
	if want := map[string]int{"SPIKES": 2}; !reflect.DeepEqual(fs.HazardsMySide, want) {
		t.Errorf("my hazards: got %v, want %v", fs.HazardsMySide, want)
	}
	if want := map[string]int{"STEALTH_ROCK": 1, "STICKY_WEB": 1, "TOXIC_SPIKES": 2}; !reflect.DeepEqual(fs.HazardsOppSide, want) {
		t.Errorf("opp hazards: got %v, want %v", fs.HazardsOppSide, want)
	}
	if want := map[string]int{"REFLECT": 4}; !reflect.DeepEqual(fs.ScreensMySide, want) {
		t.Errorf("my screens: got %v, want %v", fs.ScreensMySide, want)
	}
	if want := map[string]int{"LIGHT_SCREEN": 5, "AURORA_VEIL": 2}; !reflect.DeepEqual(fs.ScreensOppSide, want) {
		t.Errorf("opp screens: got %v, want %v", fs.ScreensOppSide, want)
	}
}

func TestBuildFieldStateNeverLeaksOtherConditions(t *testing.T) {
	allowed := map[string]bool{
		"STEALTH_ROCK": true, "SPIKES": true, "TOXIC_SPIKES": true, "STICKY_WEB": true,
		"REFLECT": true, "LIGHT_SCREEN": true, "AURORA_VEIL": true,
	}
	b := newBattle()
	for sc := game.UnknownSideCondition; sc <= game.ToxicSpikes; sc++ {
		b.Player("p1").SideConditions[sc] = 1
		b.Player("p2").SideConditions[sc] = 1
	}
	fs := BuildFieldState(b)
	for _, m := range []map[string]int{fs.HazardsMySide, fs.HazardsOppSide, fs.ScreensMySide, fs.ScreensOppSide} {
		for k := range m {
			if !allowed[k] {
				t.Fatalf("unexpected condition %q in field state", k)
			}
		}
	}
	if len(fs.HazardsMySide) != 4 || len(fs.ScreensOppSide) != 3 {
		t.Fatalf("expected every allowed condition, got %v / %v", fs.HazardsMySide, fs.ScreensOppSide)
	}
}

func TestBuildFieldStateEmpty(t *testing.T) {
	fs := BuildFieldState(newBattle())
	if fs.Weather != "" || fs.Terrain != "" {
		t.Fatalf("expected no weather or terrain, got %+v", fs)
	}
}

func TestBuildBattleState(t *testing.T) {
	b := newBattle()
	b.Turn = 7

	me := b.Player("p1")
	pika, _ := me.Get("Pikachu")
	pika.Types = []game.PokemonType{game.Electric}
	pika.HP, pika.MaxHP = 100, 100
	pika.Stats["spa"], pika.Stats["spe"] = 130, 200
	pika.AddMove(thunderbolt())
	me.Active = pika
	me.TeamSize = 3

	opp := b.Player("p2")
	gyara, _ := opp.Get("Gyarados")
	gyara.Types = []game.PokemonType{game.Water, game.Flying}
	gyara.HP, gyara.MaxHP = 40, 100
	gyara.Stats["spd"], gyara.Stats["spe"] = 100, 150
	opp.Active = gyara
	fainted, _ := opp.Get("Ferrothorn")
	fainted.Fainted = true
	opp.TeamSize = 6

	state, ok := BuildBattleState(b, chart)
	if !ok {
		t.Fatalf("expected a battle state")
	}
	if state.Turn != 7 || !state.SpeedAdvantage {
		t.Errorf("turn/speed: got %d/%v", state.Turn, state.SpeedAdvantage)
	}
	if state.MyTeamRemaining != 3 || state.OppTeamRemaining != 5 {
		t.Errorf("remaining: got %d/%d, want 3/5", state.MyTeamRemaining, state.OppTeamRemaining)
	}
	if !state.CanKOOpp || state.OppCanKOMe {
		t.Errorf("ko flags: got %v/%v, want true/false", state.CanKOOpp, state.OppCanKOMe)
	}
	if state.MyActive.Name != "Pikachu" || state.OppActive.HPPct != 40 {
		t.Errorf("actives: got %+v / %+v", state.MyActive, state.OppActive)
	}
}

func TestBuildBattleStateTrickRoomAndParalysis(t *testing.T) {
	b := newBattle()
	mine, _ := b.Player("p1").Get("Ferrothorn")
	mine.Stats["spe"] = 40
	b.Player("p1").Active = mine
	theirs, _ := b.Player("p2").Get("Gengar")
	theirs.Stats["spe"] = 200
	b.Player("p2").Active = theirs

	state, _ := BuildBattleState(b, chart)
	if state.SpeedAdvantage {
		t.Fatalf("slower mon should not outspeed")
	}

	b.Fields[game.TrickRoom] = 0
	state, _ = BuildBattleState(b, chart)
	if !state.SpeedAdvantage {
		t.Fatalf("trick room should invert speed order")
	}
}

func TestBuildBattleStateNeedsBothActives(t *testing.T) {
	if _, ok := BuildBattleState(newBattle(), chart); ok {
		t.Fatalf("expected no state without actives")
	}
}
