package agent

import (
	"testing"

	"github.com/rs/zerolog"

	"showdown-agent/game"
)

func battleWithRequest(req *game.Request) *game.Battle {
	b := newBattle()
	b.Request = req
	active, _ := b.Player("p1").Get("Pikachu")
	b.Player("p1").Active = active
	return b
}

func TestChooseMoveOnlyLegalOrders(t *testing.T) {
	b := battleWithRequest(&game.Request{
		Active: []game.ActiveRequest{{
			Moves: []game.MoveRequest{
				{Move: "Thunderbolt", ID: "thunderbolt"},
				{Move: "Reflect", ID: "reflect", Disabled: true},
				{Move: "Thunder", ID: "thunder"},
			},
		}},
		Side: game.SideRequest{ID: "p1", Pokemon: []game.PokemonRequest{
			{Ident: "p1: Pikachu", Condition: "100/100", Active: true},
			{Ident: "p1: Gengar", Condition: "50/100"},
			{Ident: "p1: Toxapex", Condition: "0 fnt"},
		}},
	})

	legal := map[string]bool{
		"/choose move 1":   true,
		"/choose move 3":   true,
		"/choose switch 2": true,
	}
	a := New(7, zerolog.Nop())
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		msg := a.ChooseMove(b).Message()
		if !legal[msg] {
			t.Fatalf("illegal order %q", msg)
		}
		seen[msg] = true
	}
	if len(seen) != len(legal) {
		t.Fatalf("expected every legal order to come up, saw %v", seen)
	}
}

func TestChooseMoveDefaultWithoutOptions(t *testing.T) {
	a := New(1, zerolog.Nop())
	if got := a.ChooseMove(newBattle()); got.Kind != game.OrderDefault {
		t.Fatalf("got %v, want default order", got)
	}
	waiting := battleWithRequest(&game.Request{Wait: true})
	if got := a.ChooseMove(waiting); got.Message() != "/choose default" {
		t.Fatalf("got %q, want /choose default", got.Message())
	}
}

func TestChooseMoveSameSeedSameChoices(t *testing.T) {
	req := &game.Request{
		Active: []game.ActiveRequest{{Moves: []game.MoveRequest{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
		}}},
	}
	a1, a2 := New(99, zerolog.Nop()), New(99, zerolog.Nop())
	b := battleWithRequest(req)
	for i := 0; i < 50; i++ {
		if m1, m2 := a1.ChooseMove(b).Message(), a2.ChooseMove(b).Message(); m1 != m2 {
			t.Fatalf("round %d: %q != %q", i, m1, m2)
		}
	}
}
