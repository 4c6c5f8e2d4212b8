package agent

// StatBoosts holds stage modifiers, nominally -6..6.
type StatBoosts struct {
	Atk      int
	Def      int
	SpA      int
	SpD      int
	Spe      int
	Accuracy int
	Evasion  int
}

// PokemonState is a read-only summary of one combatant at decision time.
// Empty Status, Item and TeraType mean the value is absent.
type PokemonState struct {
	Name          string
	HPPct         int
	Types         []string
	Status        string
	Boosts        StatBoosts
	RevealedMoves []string
	Item          string
	TeraType      string
}

func (s PokemonState) HasStatus() bool   { return s.Status != "" }
func (s PokemonState) HasItem() bool     { return s.Item != "" }
func (s PokemonState) HasTeraType() bool { return s.TeraType != "" }

// FieldState summarises weather, terrain and both sides' hazards and
// screens. Hazards map to layers, screens to turns remaining.
type FieldState struct {
	Weather        string
	Terrain        string
	HazardsMySide  map[string]int
	HazardsOppSide map[string]int
	ScreensMySide  map[string]int
	ScreensOppSide map[string]int
}

type BattleState struct {
	Turn             int
	SpeedAdvantage   bool
	MyActive         PokemonState
	OppActive        PokemonState
	MyTeamRemaining  int
	OppTeamRemaining int
	Field            FieldState
	CanKOOpp         bool
	OppCanKOMe       bool
}
