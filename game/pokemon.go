package game

// Boost keys as used by the protocol.
const (
	BoostAtk      = "atk"
	BoostDef      = "def"
	BoostSpA      = "spa"
	BoostSpD      = "spd"
	BoostSpe      = "spe"
	BoostAccuracy = "accuracy"
	BoostEvasion  = "evasion"
)

type Pokemon struct {
	Species string
	Level   int
	HP      int
	MaxHP   int
	Fainted bool
	Active  bool
	Status  Status
	Ability string
	Item    string
	Types   []PokemonType

	TeraType      PokemonType
	Terastallized bool

	Boosts map[string]int
	// Stats holds atk, def, spa, spd, spe. Taken from the request for our
	// own team and estimated from base stats for the opponent.
	Stats map[string]int

	moves     map[string]*Move
	moveOrder []string
}

func NewPokemon(species string) *Pokemon {
	return &Pokemon{
		Species: species,
		Level:   100,
		Boosts:  make(map[string]int),
		Stats:   make(map[string]int),
		moves:   make(map[string]*Move),
	}
}

// CurrentTypes accounts for terastallization. Stellar tera keeps the
// original types.
func (p *Pokemon) CurrentTypes() []PokemonType {
	if p.Terastallized && p.TeraType != "" && p.TeraType != Stellar {
		return []PokemonType{p.TeraType}
	}
	return p.Types
}

func (p *Pokemon) Type1() PokemonType {
	types := p.CurrentTypes()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

func (p *Pokemon) Type2() PokemonType {
	types := p.CurrentTypes()
	if len(types) < 2 {
		return ""
	}
	return types[1]
}

func (p *Pokemon) HasType(t PokemonType) bool {
	for _, pt := range p.CurrentTypes() {
		if pt == t {
			return true
		}
	}
	return false
}

// Moves returns known moves in the order they were revealed.
func (p *Pokemon) Moves() []*Move {
	out := make([]*Move, 0, len(p.moveOrder))
	for _, id := range p.moveOrder {
		out = append(out, p.moves[id])
	}
	return out
}

func (p *Pokemon) Move(id string) (*Move, bool) {
	m, ok := p.moves[id]
	return m, ok
}

// AddMove records a revealed move. Already known moves keep their position.
func (p *Pokemon) AddMove(m *Move) *Move {
	if existing, ok := p.moves[m.ID]; ok {
		return existing
	}
	p.moves[m.ID] = m
	p.moveOrder = append(p.moveOrder, m.ID)
	return m
}

func (p *Pokemon) ClearBoosts() {
	for k := range p.Boosts {
		delete(p.Boosts, k)
	}
}

// BoostedStat applies the stage multiplier to a raw stat.
func (p *Pokemon) BoostedStat(stat string) float64 {
	raw := float64(p.Stats[stat])
	stage := p.Boosts[stat]
	if stage > 6 {
		stage = 6
	} else if stage < -6 {
		stage = -6
	}
	if stage >= 0 {
		return raw * float64(2+stage) / 2
	}
	return raw * 2 / float64(2-stage)
}
