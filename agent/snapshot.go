package agent

import (
	"showdown-agent/game"
)

var hazardConditions = map[game.SideCondition]struct{}{
	game.StealthRock: {},
	game.Spikes:      {},
	game.ToxicSpikes: {},
	game.StickyWeb:   {},
}

var screenConditions = map[game.SideCondition]struct{}{
	game.Reflect:     {},
	game.LightScreen: {},
	game.AuroraVeil:  {},
}

// screenDuration assumes no Light Clay.
const screenDuration = 5

func BuildPokemonState(mon *game.Pokemon) PokemonState {
	s := PokemonState{
		Name:   mon.Species,
		Boosts: buildBoosts(mon.Boosts),
		Item:   mon.Item,
	}
	if mon.MaxHP > 0 {
		s.HPPct = mon.HP * 100 / mon.MaxHP
	}
	for _, t := range mon.Types {
		s.Types = append(s.Types, string(t))
	}
	if mon.Status != "" {
		s.Status = mon.Status.Name()
	}
	for _, m := range mon.Moves() {
		s.RevealedMoves = append(s.RevealedMoves, m.ID)
	}
	if mon.TeraType != "" {
		s.TeraType = string(mon.TeraType)
	}
	return s
}

func buildBoosts(b map[string]int) StatBoosts {
	return StatBoosts{
		Atk:      b[game.BoostAtk],
		Def:      b[game.BoostDef],
		SpA:      b[game.BoostSpA],
		SpD:      b[game.BoostSpD],
		Spe:      b[game.BoostSpe],
		Accuracy: b[game.BoostAccuracy],
		Evasion:  b[game.BoostEvasion],
	}
}

func BuildFieldState(battle *game.Battle) FieldState {
	fs := FieldState{
		HazardsMySide:  hazards(battle.SideConditions()),
		HazardsOppSide: hazards(battle.OpponentSideConditions()),
		ScreensMySide:  screens(battle.SideConditions(), battle.Turn),
		ScreensOppSide: screens(battle.OpponentSideConditions(), battle.Turn),
	}
	if battle.Weather != game.UnknownWeather {
		fs.Weather = battle.Weather.String()
	}
	if terrain, ok := battle.Terrain(); ok {
		fs.Terrain = terrain.String()
	}
	return fs
}

func hazards(conds map[game.SideCondition]int) map[string]int {
	out := make(map[string]int)
	for sc, layers := range conds {
		if _, ok := hazardConditions[sc]; ok {
			out[sc.String()] = layers
		}
	}
	return out
}

func screens(conds map[game.SideCondition]int, turn int) map[string]int {
	out := make(map[string]int)
	for sc, started := range conds {
		if _, ok := screenConditions[sc]; !ok {
			continue
		}
		// still up, so at least one turn is left even past the nominal end
		out[sc.String()] = max(1, screenDuration-(turn-started))
	}
	return out
}

// BuildBattleState summarises the current turn. It returns false until both
// actives are known.
func BuildBattleState(battle *game.Battle, chart game.TypeChart) (BattleState, bool) {
	mine := battle.ActivePokemon()
	opp := battle.OpponentActivePokemon()
	if mine == nil || opp == nil {
		return BattleState{}, false
	}
	_, canKO := BestMoveAndKO(chart, mine, opp)
	_, oppCanKO := BestMoveAndKO(chart, opp, mine)
	return BattleState{
		Turn:             battle.Turn,
		SpeedAdvantage:   outspeeds(battle, mine, opp),
		MyActive:         BuildPokemonState(mine),
		OppActive:        BuildPokemonState(opp),
		MyTeamRemaining:  battle.Me().RemainingMons(),
		OppTeamRemaining: battle.Opponent().RemainingMons(),
		Field:            BuildFieldState(battle),
		CanKOOpp:         canKO,
		OppCanKOMe:       oppCanKO,
	}, true
}

func outspeeds(battle *game.Battle, mine, opp *game.Pokemon) bool {
	speed := func(p *game.Pokemon) float64 {
		s := p.BoostedStat(game.BoostSpe)
		if p.Status == game.StatusParalysis {
			s /= 2
		}
		return s
	}
	if _, trickRoom := battle.Fields[game.TrickRoom]; trickRoom {
		return speed(mine) < speed(opp)
	}
	return speed(mine) > speed(opp)
}
