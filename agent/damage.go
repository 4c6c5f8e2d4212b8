package agent

import "showdown-agent/game"

// MoveDamageEstimate is a rough expected damage for move used by atk on dfn.
// It ignores rolls, crits, items and abilities.
func MoveDamageEstimate(chart game.TypeChart, move *game.Move, atk, dfn *game.Pokemon) float64 {
	if move.BasePower == 0 || move.Category == game.CategoryStatus {
		return 0
	}

	var atkStat, defStat int
	switch move.Category {
	case game.CategoryPhysical:
		atkStat = atk.Stats["atk"]
		defStat = dfn.Stats["def"]
	case game.CategorySpecial:
		atkStat = atk.Stats["spa"]
		defStat = dfn.Stats["spd"]
	default:
		return 0
	}

	core := 0.84 * float64(move.BasePower) * (float64(atkStat) / float64(max(1, defStat)))
	stab := 1.0
	if atk.HasType(move.Type) {
		stab = 1.5
	}
	typeMod := chart.DamageMultiplier(move.Type, dfn.Type1(), dfn.Type2())

	return core * stab * typeMod
}

// BestMoveAndKO picks the attacker's known move with the highest estimate,
// keeping the earliest revealed on ties, and reports whether it reaches the
// defender's current HP.
func BestMoveAndKO(chart game.TypeChart, attacker, defender *game.Pokemon) (string, bool) {
	moves := attacker.Moves()
	if len(moves) == 0 {
		return "", false
	}
	bestID, bestDmg := moves[0].ID, MoveDamageEstimate(chart, moves[0], attacker, defender)
	for _, mv := range moves[1:] {
		if dmg := MoveDamageEstimate(chart, mv, attacker, defender); dmg > bestDmg {
			bestID, bestDmg = mv.ID, dmg
		}
	}
	return bestID, bestDmg >= float64(defender.HP)
}
