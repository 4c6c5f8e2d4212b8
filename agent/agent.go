package agent

import (
	"math/rand"

	"github.com/rs/zerolog"

	"showdown-agent/game"
)

// Agent decides one order per request. It currently plays a uniformly
// random legal order; the estimators in this package are not consulted.
type Agent struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

func New(seed int64, logger zerolog.Logger) *Agent {
	return &Agent{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger.With().Str("component", "agent").Logger(),
	}
}

func (a *Agent) ChooseMove(battle *game.Battle) game.Order {
	return a.chooseRandomMove(battle)
}

func (a *Agent) chooseRandomMove(battle *game.Battle) game.Order {
	orders := battle.LegalOrders()
	if len(orders) == 0 {
		a.logger.Debug().Str("battle", battle.Tag).Msg("no legal orders, sending default")
		return game.DefaultOrder
	}
	order := orders[a.rng.Intn(len(orders))]
	a.logger.Debug().
		Str("battle", battle.Tag).
		Int("turn", battle.Turn).
		Int("options", len(orders)).
		Stringer("order", order).
		Msg("order chosen")
	return order
}
