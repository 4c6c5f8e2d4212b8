package spectate

import (
	"sync"

	"github.com/rs/zerolog"

	"showdown-agent/agent"
)

type Update struct {
	Battle string
	HTML   string
}

// Hub fans out rendered turn summaries to every connected viewer and keeps
// the latest one per battle for late joiners.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Update]struct{}
	latest map[string]Update
	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[chan Update]struct{}),
		latest: make(map[string]Update),
		logger: logger.With().Str("component", "spectate").Logger(),
	}
}

func (h *Hub) Observe(tag string, state agent.BattleState) {
	h.Publish(Update{Battle: tag, HTML: RenderBattleState(tag, state)})
}

// Publish never blocks; a viewer that is not keeping up misses the update.
func (h *Hub) Publish(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[u.Battle] = u
	for ch := range h.subs {
		select {
		case ch <- u:
		default:
			h.logger.Debug().Str("battle", u.Battle).Msg("dropping update for slow viewer")
		}
	}
}

// Subscribe returns a channel primed with the latest update of every known
// battle, and a function that detaches it.
func (h *Hub) Subscribe() (<-chan Update, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Update, len(h.latest)+16)
	for _, u := range h.latest {
		ch <- u
	}
	h.subs[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Forget drops the cached update of a finished battle.
func (h *Hub) Forget(tag string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.latest, tag)
}
