package game

import "testing"

func TestTypeChartDamageMultiplier(t *testing.T) {
	chart := TypeChart{
		Electric: {Water: 2, Ground: 0, Dragon: 0.5},
		Ground:   {Flying: 0},
	}
	cases := []struct {
		atk        PokemonType
		def1, def2 PokemonType
		want       float64
	}{
		{Electric, Water, "", 2},
		{Electric, Water, Flying, 2},
		{Electric, Dragon, Ground, 0},
		{Electric, Dragon, "", 0.5},
		{Ground, Flying, Steel, 0},
		{Fire, Water, "", 1},
	}
	for _, tc := range cases {
		if got := chart.DamageMultiplier(tc.atk, tc.def1, tc.def2); got != tc.want {
			t.Errorf("%s vs %s/%s: got %v, want %v", tc.atk, tc.def1, tc.def2, got, tc.want)
		}
	}
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]PokemonType{"fire": Fire, "FAIRY": Fairy, " Water ": Water, "???": "", "": ""} {
		if got := ParseType(in); got != want {
			t.Errorf("ParseType(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestParseConditions(t *testing.T) {
	sides := map[string]SideCondition{
		"move: Stealth Rock": StealthRock,
		"Spikes":             Spikes,
		"move: Toxic Spikes": ToxicSpikes,
		"move: Sticky Web":   StickyWeb,
		"Reflect":            Reflect,
		"move: Light Screen": LightScreen,
		"move: Aurora Veil":  AuroraVeil,
		"move: Tailwind":     Tailwind,
		"Stealth Trap":       UnknownSideCondition,
	}
	for in, want := range sides {
		if got := ParseSideCondition(in); got != want {
			t.Errorf("ParseSideCondition(%q): got %v, want %v", in, got, want)
		}
	}
	if got := ParseWeather("RainDance"); got != RainDance {
		t.Errorf("weather: got %v", got)
	}
	if got := ParseField("move: Psychic Terrain"); got != PsychicTerrain || !got.IsTerrain() {
		t.Errorf("field: got %v", got)
	}
	if ParseField("move: Trick Room").IsTerrain() {
		t.Errorf("trick room is not a terrain")
	}
}

func TestPokemonMovesKeepRevealOrder(t *testing.T) {
	p := NewPokemon("Garchomp")
	p.AddMove(&Move{ID: "earthquake"})
	p.AddMove(&Move{ID: "dragonclaw"})
	first := p.AddMove(&Move{ID: "earthquake", BasePower: 1})

	if first.BasePower != 0 {
		t.Fatalf("re-adding a move should keep the original")
	}
	moves := p.Moves()
	if len(moves) != 2 || moves[0].ID != "earthquake" || moves[1].ID != "dragonclaw" {
		t.Fatalf("unexpected order: %+v", moves)
	}
}

func TestPokemonTeraTypes(t *testing.T) {
	p := NewPokemon("Pikachu")
	p.Types = []PokemonType{Electric}
	p.TeraType = Water
	if p.Type1() != Electric || p.Type2() != "" {
		t.Fatalf("before tera: %v/%v", p.Type1(), p.Type2())
	}
	p.Terastallized = true
	if !p.HasType(Water) || p.HasType(Electric) {
		t.Fatalf("after tera types should be [Water], got %v", p.CurrentTypes())
	}
}

func TestPokemonStellarTeraKeepsTypes(t *testing.T) {
	p := NewPokemon("Terapagos")
	p.Types = []PokemonType{Normal}
	p.TeraType = Stellar
	p.Terastallized = true
	if got := p.CurrentTypes(); len(got) != 1 || got[0] != Normal {
		t.Fatalf("stellar tera types: got %v, want [Normal]", got)
	}
	chart := TypeChart{Fighting: {Normal: 2}}
	if m := chart.DamageMultiplier(Fighting, p.Type1(), p.Type2()); m != 2 {
		t.Fatalf("fighting into stellar normal: got %v, want 2", m)
	}
}

func TestParseWeatherSnowscape(t *testing.T) {
	if w := ParseWeather("Snowscape"); w != Snowscape || w.String() != "SNOWSCAPE" {
		t.Fatalf("snowscape: got %v", w)
	}
	if w := ParseWeather("Snow"); w != Snow {
		t.Fatalf("snow: got %v", w)
	}
}

func TestBoostedStat(t *testing.T) {
	p := NewPokemon("Pikachu")
	p.Stats[BoostSpe] = 100
	for stage, want := range map[int]float64{0: 100, 1: 150, 2: 200, 6: 400, -1: 200.0 / 3, -2: 50, 8: 400} {
		p.Boosts[BoostSpe] = stage
		if got := p.BoostedStat(BoostSpe); got != want {
			t.Errorf("stage %d: got %v, want %v", stage, got, want)
		}
	}
}

func TestLegalOrders(t *testing.T) {
	b := NewBattle("battle-gen9randombattle-1")
	b.Role = "p1"
	b.Request = &Request{
		Active: []ActiveRequest{{
			Moves:           []MoveRequest{{ID: "thunderbolt"}, {ID: "reflect", Disabled: true}},
			CanTerastallize: "Electric",
		}},
		Side: SideRequest{ID: "p1", Pokemon: []PokemonRequest{
			{Ident: "p1: Pikachu", Condition: "100/100", Active: true},
			{Ident: "p1: Gengar", Condition: "10/100 par"},
		}},
	}

	var got []string
	for _, o := range b.LegalOrders() {
		got = append(got, o.Message())
	}
	want := []string{"/choose move 1", "/choose move 1 terastallize", "/choose switch 2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLegalOrdersTrappedAndForceSwitch(t *testing.T) {
	b := NewBattle("battle-x-1")
	b.Role = "p1"
	side := SideRequest{ID: "p1", Pokemon: []PokemonRequest{
		{Ident: "p1: A", Condition: "0 fnt", Active: true},
		{Ident: "p1: B", Condition: "100/100"},
	}}

	b.Request = &Request{Active: []ActiveRequest{{Moves: []MoveRequest{{ID: "tackle"}}, Trapped: true}}, Side: side}
	if n := len(b.AvailableSwitches()); n != 0 {
		t.Fatalf("trapped mon should not switch, got %d switches", n)
	}

	b.Request = &Request{ForceSwitch: []bool{true}, Side: side}
	if moves := b.AvailableMoves(); moves != nil {
		t.Fatalf("force switch should offer no moves, got %v", moves)
	}
	if sw := b.AvailableSwitches(); len(sw) != 1 || sw[0].Slot != 2 {
		t.Fatalf("expected switch to slot 2, got %+v", sw)
	}
}

func TestRemainingMons(t *testing.T) {
	p := NewPlayer("p2", "them")
	p.Get("A")
	b, _ := p.Get("B")
	b.Fainted = true
	if got := p.RemainingMons(); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	p.TeamSize = 6
	if got := p.RemainingMons(); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestSplitIdent(t *testing.T) {
	side, name, ok := SplitIdent("p2a: Mr. Mime: Galar")
	if !ok || side != "p2" || name != "Mr. Mime: Galar" {
		t.Fatalf("got %q %q %v", side, name, ok)
	}
	if _, _, ok := SplitIdent("garbage"); ok {
		t.Fatalf("expected failure")
	}
}
