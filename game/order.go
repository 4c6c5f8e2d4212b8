package game

import (
	"fmt"
	"strings"
)

type OrderKind int

const (
	OrderDefault OrderKind = iota
	OrderMove
	OrderSwitch
)

// Order is one legal action for the current request. Slot is the 1-based
// index the server expects in /choose.
type Order struct {
	Kind         OrderKind
	Slot         int
	Move         *Move
	Pokemon      *Pokemon
	Terastallize bool
}

var DefaultOrder = Order{Kind: OrderDefault}

func (o Order) Message() string {
	switch o.Kind {
	case OrderMove:
		if o.Terastallize {
			return fmt.Sprintf("/choose move %d terastallize", o.Slot)
		}
		return fmt.Sprintf("/choose move %d", o.Slot)
	case OrderSwitch:
		return fmt.Sprintf("/choose switch %d", o.Slot)
	}
	return "/choose default"
}

func (o Order) String() string {
	switch o.Kind {
	case OrderMove:
		if o.Move != nil {
			if o.Terastallize {
				return "move " + o.Move.ID + " (tera)"
			}
			return "move " + o.Move.ID
		}
	case OrderSwitch:
		if o.Pokemon != nil {
			return "switch " + o.Pokemon.Species
		}
	}
	return o.Message()
}

// AvailableMoves lists the active mon's usable moves for the pending
// request, paired with their request slot.
func (b *Battle) AvailableMoves() []Order {
	r := b.Request
	if r == nil || r.Wait || r.TeamPreview || r.forceSwitch() || len(r.Active) == 0 {
		return nil
	}
	active := b.ActivePokemon()
	var out []Order
	for i, mr := range r.Active[0].Moves {
		if mr.Disabled {
			continue
		}
		var mv *Move
		if active != nil {
			mv, _ = active.Move(mr.ID)
		}
		if mv == nil {
			mv = &Move{ID: mr.ID, Name: mr.Move}
		}
		out = append(out, Order{Kind: OrderMove, Slot: i + 1, Move: mv})
	}
	return out
}

// AvailableSwitches lists healthy benched mons we may switch to.
func (b *Battle) AvailableSwitches() []Order {
	r := b.Request
	if r == nil || r.Wait || r.TeamPreview {
		return nil
	}
	if !r.forceSwitch() && len(r.Active) > 0 && r.Active[0].Trapped {
		return nil
	}
	me := b.Me()
	var out []Order
	for i, pr := range r.Side.Pokemon {
		if pr.Active || conditionFainted(pr.Condition) {
			continue
		}
		var poke *Pokemon
		if me != nil {
			if _, name, ok := SplitIdent(pr.Ident); ok {
				poke = me.Team[name]
			}
		}
		out = append(out, Order{Kind: OrderSwitch, Slot: i + 1, Pokemon: poke})
	}
	return out
}

// CanTerastallize reports whether the pending request offers tera.
func (b *Battle) CanTerastallize() bool {
	r := b.Request
	return r != nil && len(r.Active) > 0 && r.Active[0].CanTerastallize != ""
}

// LegalOrders is every action the server would accept for the pending
// request: each move, each move with tera when offered, and each switch.
func (b *Battle) LegalOrders() []Order {
	moves := b.AvailableMoves()
	orders := make([]Order, 0, len(moves)*2)
	orders = append(orders, moves...)
	if b.CanTerastallize() {
		for _, m := range moves {
			m.Terastallize = true
			orders = append(orders, m)
		}
	}
	return append(orders, b.AvailableSwitches()...)
}

func conditionFainted(cond string) bool {
	return strings.HasSuffix(cond, "fnt") || cond == "0" || strings.HasPrefix(cond, "0 ")
}
