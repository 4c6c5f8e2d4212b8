package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"showdown-agent/data"
	"showdown-agent/game"
)

// Parser applies protocol lines to a live battle. The dex fills in types,
// move data and estimated stats the protocol leaves out.
type Parser struct {
	dex *data.Store
}

func New(dex *data.Store) *Parser {
	return &Parser{dex: dex}
}

func (p *Parser) ParseLog(tag, logText string) *game.Battle {
	state := game.NewBattle(tag)
	for _, line := range strings.Split(logText, "\n") {
		p.ProcessLine(state, line)
	}
	return state
}

func (p *Parser) ProcessLine(state *game.Battle, line string) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 {
		return
	}
	switch parts[1] {
	case "player":
		if len(parts) >= 4 && parts[3] != "" {
			state.Player(parts[2]).Name = parts[3]
		}
	case "teamsize":
		if len(parts) >= 4 {
			if n, err := strconv.Atoi(parts[3]); err == nil {
				state.Player(parts[2]).TeamSize = n
			}
		}
	case "poke":
		if len(parts) >= 4 {
			species, level := parseDetails(parts[3])
			player := state.Player(parts[2])
			poke, created := player.Get(species)
			if created {
				p.fillFromDex(poke, species, level)
			}
		}
	case "switch", "drag", "replace":
		if len(parts) >= 4 {
			playerID, name, ok := game.SplitIdent(parts[2])
			if !ok {
				return
			}
			player := state.Player(playerID)
			species, level := parseDetails(parts[3])
			if _, seen := player.Team[name]; !seen && name != species {
				// team preview keys mons by species until a nickname shows up
				if preview, ok := player.Team[species]; ok && !preview.Active {
					delete(player.Team, species)
					player.Team[name] = preview
				}
			}
			poke, created := player.Get(name)
			if created || poke.Species != species {
				p.fillFromDex(poke, species, level)
			}
			if player.Active != nil && player.Active != poke {
				player.Active.Active = false
				player.Active.ClearBoosts()
			}
			poke.Active = true
			player.Active = poke
			if len(parts) >= 5 {
				applyCondition(poke, parts[4])
			}
		}
	case "detailschange":
		if len(parts) >= 4 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				species, level := parseDetails(parts[3])
				p.fillFromDex(poke, species, level)
			}
		}
	case "move":
		if len(parts) >= 4 {
			poke := pokeFor(state, parts[2])
			if poke == nil {
				return
			}
			mv, _ := p.dex.Move(parts[3])
			if mv.ID == "struggle" || mv.ID == "recharge" {
				return
			}
			poke.AddMove(mv)
		}
	case "-damage", "-heal", "-sethp":
		if len(parts) >= 4 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				applyCondition(poke, parts[3])
			}
		}
	case "faint":
		if len(parts) >= 3 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.Fainted = true
				poke.HP = 0
				poke.Status = game.StatusFainted
			}
		}
	case "turn":
		if len(parts) >= 3 {
			t, err := strconv.Atoi(parts[2])
			if err == nil {
				state.Turn = t
			}
		}
	case "-status":
		if len(parts) >= 4 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.Status = game.Status(parts[3])
			}
		}
	case "-curestatus":
		if len(parts) >= 3 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.Status = ""
			}
		}
	case "-cureteam":
		if len(parts) >= 3 {
			if playerID, _, ok := game.SplitIdent(parts[2]); ok {
				for _, poke := range state.Player(playerID).Team {
					if !poke.Fainted {
						poke.Status = ""
					}
				}
			}
		}
	case "-boost", "-unboost", "-setboost":
		if len(parts) >= 5 {
			poke := pokeFor(state, parts[2])
			if poke == nil {
				return
			}
			stat := parts[3]
			amount, _ := strconv.Atoi(parts[4])
			switch parts[1] {
			case "-boost":
				poke.Boosts[stat] = clampStage(poke.Boosts[stat] + amount)
			case "-unboost":
				poke.Boosts[stat] = clampStage(poke.Boosts[stat] - amount)
			default:
				poke.Boosts[stat] = clampStage(amount)
			}
		}
	case "-clearboost":
		if len(parts) >= 3 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.ClearBoosts()
			}
		}
	case "-clearnegativeboost":
		if len(parts) >= 3 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				for stat, v := range poke.Boosts {
					if v < 0 {
						poke.Boosts[stat] = 0
					}
				}
			}
		}
	case "-clearallboost":
		for _, player := range state.Players {
			if player.Active != nil {
				player.Active.ClearBoosts()
			}
		}
	case "-weather":
		if len(parts) >= 3 {
			if parts[2] == "none" {
				state.Weather = game.UnknownWeather
				state.WeatherTurn = 0
				return
			}
			w := game.ParseWeather(parts[2])
			if w != state.Weather {
				state.Weather = w
				state.WeatherTurn = state.Turn
			}
		}
	case "-fieldstart":
		if len(parts) >= 3 {
			effect := game.ParseField(parts[2])
			if effect == game.UnknownField {
				return
			}
			if effect.IsTerrain() {
				for f := range state.Fields {
					if f.IsTerrain() {
						delete(state.Fields, f)
					}
				}
			}
			state.Fields[effect] = state.Turn
		}
	case "-fieldend":
		if len(parts) >= 3 {
			delete(state.Fields, game.ParseField(parts[2]))
		}
	case "-sidestart":
		if len(parts) >= 4 {
			cond := game.ParseSideCondition(parts[3])
			if cond == game.UnknownSideCondition || len(parts[2]) < 2 {
				return
			}
			conds := state.Player(parts[2][:2]).SideConditions
			if limit := cond.MaxLayers(); limit > 0 {
				conds[cond] = min(conds[cond]+1, limit)
			} else {
				conds[cond] = state.Turn
			}
		}
	case "-sideend":
		if len(parts) >= 4 && len(parts[2]) >= 2 {
			delete(state.Player(parts[2][:2]).SideConditions, game.ParseSideCondition(parts[3]))
		}
	case "-item":
		if len(parts) >= 4 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.Item = data.ToID(parts[3])
			}
		}
	case "-enditem":
		if len(parts) >= 3 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.Item = ""
			}
		}
	case "-ability":
		if len(parts) >= 4 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.Ability = parts[3]
			}
		}
	case "-terastallize":
		if len(parts) >= 4 {
			if poke := pokeFor(state, parts[2]); poke != nil {
				poke.TeraType = game.ParseType(parts[3])
				poke.Terastallized = true
			}
		}
	case "win":
		if len(parts) >= 3 {
			state.Finished = true
			state.Winner = parts[2]
			if me := state.Me(); me != nil {
				state.Won = me.Name == parts[2]
			}
		}
	case "tie":
		state.Finished = true
	}
}

// ParseRequest decodes a |request| payload and syncs our own team with it.
func (p *Parser) ParseRequest(state *game.Battle, raw string) (*game.Request, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var req game.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	state.Request = &req
	if req.Side.ID == "" {
		return &req, nil
	}
	state.Role = req.Side.ID
	me := state.Player(req.Side.ID)
	if req.Side.Name != "" {
		me.Name = req.Side.Name
	}
	for _, pr := range req.Side.Pokemon {
		_, name, ok := game.SplitIdent(pr.Ident)
		if !ok {
			continue
		}
		species, level := parseDetails(pr.Details)
		poke, created := me.Get(name)
		if created || poke.Species != species {
			p.fillFromDex(poke, species, level)
		}
		applyCondition(poke, pr.Condition)
		for stat, v := range pr.Stats {
			poke.Stats[stat] = v
		}
		for _, id := range pr.Moves {
			mv, _ := p.dex.Move(id)
			poke.AddMove(mv)
		}
		poke.Item = pr.Item
		if pr.Ability != "" {
			poke.Ability = pr.Ability
		} else if pr.BaseAbility != "" {
			poke.Ability = pr.BaseAbility
		}
		if pr.TeraType != "" {
			poke.TeraType = game.ParseType(pr.TeraType)
		}
		poke.Terastallized = pr.Terastallized != ""
		poke.Active = pr.Active
		if pr.Active {
			me.Active = poke
		}
	}
	if len(req.Active) > 0 && me.Active != nil {
		for _, mr := range req.Active[0].Moves {
			if mv, ok := me.Active.Move(mr.ID); ok {
				mv.Disabled = mr.Disabled
			}
		}
	}
	if me.TeamSize == 0 {
		me.TeamSize = len(req.Side.Pokemon)
	}
	return &req, nil
}

func (p *Parser) fillFromDex(poke *game.Pokemon, species string, level int) {
	poke.Species = species
	poke.Level = level
	if types := p.dex.PokemonTypes(species); types != nil {
		poke.Types = types
	}
	if len(poke.Stats) == 0 {
		for stat, v := range p.dex.EstimateStats(species, level) {
			poke.Stats[stat] = v
		}
	}
}

func pokeFor(state *game.Battle, ident string) *game.Pokemon {
	playerID, name, ok := game.SplitIdent(ident)
	if !ok {
		return nil
	}
	poke, _ := state.Player(playerID).Get(name)
	return poke
}

// parseDetails reads "Pikachu, L50, M, tera:Electric". Level defaults to 100.
func parseDetails(details string) (string, int) {
	fields := strings.Split(details, ",")
	species := strings.TrimSpace(fields[0])
	level := 100
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if strings.HasPrefix(f, "L") {
			if l, err := strconv.Atoi(f[1:]); err == nil {
				level = l
			}
		}
	}
	return species, level
}

// applyCondition reads "73/100 par", "0 fnt" or "100/100".
func applyCondition(poke *game.Pokemon, cond string) {
	fields := strings.Fields(cond)
	if len(fields) == 0 {
		return
	}
	hp, maxHP, found := strings.Cut(fields[0], "/")
	cur, err := strconv.Atoi(hp)
	if err != nil {
		return
	}
	poke.HP = cur
	if found {
		if m, err := strconv.Atoi(maxHP); err == nil {
			poke.MaxHP = m
		}
	}
	poke.Status = ""
	if len(fields) > 1 {
		poke.Status = game.Status(fields[1])
	}
	poke.Fainted = poke.Status == game.StatusFainted || cur == 0
}

func clampStage(v int) int {
	return max(-6, min(6, v))
}
