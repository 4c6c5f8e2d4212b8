package game

import "strings"

type Player struct {
	ID     string
	Name   string
	Team   map[string]*Pokemon
	Active *Pokemon
	// TeamSize is what |teamsize| announced, 0 when unknown.
	TeamSize int
	// SideConditions holds stacked layers for hazards that stack and the
	// turn the condition started for everything else.
	SideConditions map[SideCondition]int
}

func NewPlayer(id, name string) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		Team:           make(map[string]*Pokemon),
		SideConditions: make(map[SideCondition]int),
	}
}

type Battle struct {
	Tag     string
	Players map[string]*Player
	// Role is our side ("p1" or "p2"), known once the first request arrives.
	Role string
	Turn int

	Weather     Weather
	WeatherTurn int
	Fields      map[Field]int

	Request  *Request
	Finished bool
	Won      bool
	Winner   string
}

func NewBattle(tag string) *Battle {
	return &Battle{
		Tag:     tag,
		Players: make(map[string]*Player),
		Fields:  make(map[Field]int),
	}
}

// Player returns the side with the given id, creating it on first use.
func (b *Battle) Player(id string) *Player {
	p, ok := b.Players[id]
	if !ok {
		p = NewPlayer(id, "")
		b.Players[id] = p
	}
	return p
}

func (b *Battle) OpponentRole() string {
	switch b.Role {
	case "p1":
		return "p2"
	case "p2":
		return "p1"
	}
	return ""
}

func (b *Battle) Me() *Player {
	if b.Role == "" {
		return nil
	}
	return b.Player(b.Role)
}

func (b *Battle) Opponent() *Player {
	if b.OpponentRole() == "" {
		return nil
	}
	return b.Player(b.OpponentRole())
}

func (b *Battle) ActivePokemon() *Pokemon {
	if me := b.Me(); me != nil {
		return me.Active
	}
	return nil
}

func (b *Battle) OpponentActivePokemon() *Pokemon {
	if opp := b.Opponent(); opp != nil {
		return opp.Active
	}
	return nil
}

func (b *Battle) SideConditions() map[SideCondition]int {
	if me := b.Me(); me != nil {
		return me.SideConditions
	}
	return nil
}

func (b *Battle) OpponentSideConditions() map[SideCondition]int {
	if opp := b.Opponent(); opp != nil {
		return opp.SideConditions
	}
	return nil
}

// Terrain returns the active terrain, if any.
func (b *Battle) Terrain() (Field, bool) {
	for f := range b.Fields {
		if f.IsTerrain() {
			return f, true
		}
	}
	return UnknownField, false
}

// RemainingMons counts a side's mons that have not fainted. Unrevealed
// slots announced by |teamsize| count as alive.
func (p *Player) RemainingMons() int {
	alive := 0
	for _, poke := range p.Team {
		if !poke.Fainted {
			alive++
		}
	}
	if p.TeamSize > len(p.Team) {
		alive += p.TeamSize - len(p.Team)
	}
	return alive
}

// Get returns the team member for a protocol identifier such as
// "p2a: Garchomp", creating it if the mon has not been seen yet.
func (p *Player) Get(name string) (*Pokemon, bool) {
	poke, ok := p.Team[name]
	if !ok {
		poke = NewPokemon(name)
		p.Team[name] = poke
	}
	return poke, !ok
}

// SplitIdent turns "p1a: Pikachu" into ("p1", "Pikachu").
func SplitIdent(ident string) (string, string, bool) {
	side, name, ok := strings.Cut(strings.TrimSpace(ident), ": ")
	if !ok || len(side) < 2 {
		return "", "", false
	}
	return side[:2], name, true
}
