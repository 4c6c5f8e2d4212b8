package data

import "showdown-agent/game"

// Gen9TypeChart lists every non-neutral matchup.
func Gen9TypeChart() game.TypeChart {
	return game.TypeChart{
		game.Normal: {
			game.Rock: 0.5, game.Ghost: 0, game.Steel: 0.5,
		},
		game.Fire: {
			game.Fire: 0.5, game.Water: 0.5, game.Grass: 2, game.Ice: 2, game.Bug: 2, game.Rock: 0.5, game.Dragon: 0.5, game.Steel: 2,
		},
		game.Water: {
			game.Fire: 2, game.Water: 0.5, game.Grass: 0.5, game.Ground: 2, game.Rock: 2, game.Dragon: 0.5,
		},
		game.Electric: {
			game.Water: 2, game.Electric: 0.5, game.Grass: 0.5, game.Ground: 0, game.Flying: 2, game.Dragon: 0.5,
		},
		game.Grass: {
			game.Fire: 0.5, game.Water: 2, game.Grass: 0.5, game.Poison: 0.5, game.Ground: 2, game.Flying: 0.5, game.Bug: 0.5, game.Rock: 2, game.Dragon: 0.5, game.Steel: 0.5,
		},
		game.Ice: {
			game.Fire: 0.5, game.Water: 0.5, game.Grass: 2, game.Ice: 0.5, game.Ground: 2, game.Flying: 2, game.Dragon: 2, game.Steel: 0.5,
		},
		game.Fighting: {
			game.Normal: 2, game.Ice: 2, game.Poison: 0.5, game.Flying: 0.5, game.Psychic: 0.5, game.Bug: 0.5, game.Rock: 2, game.Ghost: 0, game.Dark: 2, game.Steel: 2, game.Fairy: 0.5,
		},
		game.Poison: {
			game.Grass: 2, game.Poison: 0.5, game.Ground: 0.5, game.Rock: 0.5, game.Ghost: 0.5, game.Steel: 0, game.Fairy: 2,
		},
		game.Ground: {
			game.Fire: 2, game.Electric: 2, game.Grass: 0.5, game.Poison: 2, game.Flying: 0, game.Bug: 0.5, game.Rock: 2, game.Steel: 2,
		},
		game.Flying: {
			game.Electric: 0.5, game.Grass: 2, game.Fighting: 2, game.Bug: 2, game.Rock: 0.5, game.Steel: 0.5,
		},
		game.Psychic: {
			game.Fighting: 2, game.Poison: 2, game.Psychic: 0.5, game.Dark: 0, game.Steel: 0.5,
		},
		game.Bug: {
			game.Fire: 0.5, game.Grass: 2, game.Fighting: 0.5, game.Poison: 0.5, game.Flying: 0.5, game.Psychic: 2, game.Ghost: 0.5, game.Dark: 2, game.Steel: 0.5, game.Fairy: 0.5,
		},
		game.Rock: {
			game.Fire: 2, game.Ice: 2, game.Fighting: 0.5, game.Ground: 0.5, game.Flying: 2, game.Bug: 2, game.Steel: 0.5,
		},
		game.Ghost: {
			game.Normal: 0, game.Psychic: 2, game.Ghost: 2, game.Dark: 0.5,
		},
		game.Dragon: {
			game.Dragon: 2, game.Steel: 0.5, game.Fairy: 0,
		},
		game.Dark: {
			game.Fighting: 0.5, game.Psychic: 2, game.Ghost: 2, game.Dark: 0.5, game.Fairy: 0.5,
		},
		game.Steel: {
			game.Fire: 0.5, game.Water: 0.5, game.Electric: 0.5, game.Ice: 2, game.Rock: 2, game.Steel: 0.5, game.Fairy: 2,
		},
		game.Fairy: {
			game.Fire: 0.5, game.Fighting: 2, game.Poison: 0.5, game.Dragon: 2, game.Dark: 2, game.Steel: 0.5,
		},
	}
}
