package spectate

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"unicode"

	"showdown-agent/agent"
)

func capitalizeFirst(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// RenderBattleState turns a turn summary into the HTML fragment pushed to
// viewers.
func RenderBattleState(tag string, state agent.BattleState) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<div class='battle-summary' data-battle='%s'>", esc(tag)))
	sb.WriteString(fmt.Sprintf("<h3>%s, turn %d</h3>", esc(tag), state.Turn))

	if state.Field.Weather != "" {
		sb.WriteString(fmt.Sprintf("<div><b>Weather:</b> %s</div>", esc(capitalizeFirst(state.Field.Weather))))
	}
	if state.Field.Terrain != "" {
		sb.WriteString(fmt.Sprintf("<div><b>Terrain:</b> %s</div>", esc(humanize(state.Field.Terrain))))
	}
	renderConditions(&sb, "Hazards on our side", state.Field.HazardsMySide, "layers")
	renderConditions(&sb, "Hazards on their side", state.Field.HazardsOppSide, "layers")
	renderConditions(&sb, "Our screens", state.Field.ScreensMySide, "turns")
	renderConditions(&sb, "Their screens", state.Field.ScreensOppSide, "turns")

	sb.WriteString(fmt.Sprintf("<h4>Us (%d left)</h4>", state.MyTeamRemaining))
	renderPokemon(&sb, state.MyActive)
	sb.WriteString(fmt.Sprintf("<h4>Them (%d left)</h4>", state.OppTeamRemaining))
	renderPokemon(&sb, state.OppActive)

	sb.WriteString("<div class='suggestion'>")
	if state.SpeedAdvantage {
		sb.WriteString("We move first.<br>")
	} else {
		sb.WriteString("They move first.<br>")
	}
	if state.CanKOOpp {
		sb.WriteString("<span style='color:#2ecc71;'>We have a KO this turn.</span><br>")
	}
	if state.OppCanKOMe {
		sb.WriteString("<span style='color:#e74c3c;'>They threaten a KO.</span><br>")
	}
	sb.WriteString("</div>")

	sb.WriteString("</div>")
	return sb.String()
}

func renderPokemon(sb *strings.Builder, poke agent.PokemonState) {
	status := ""
	if poke.HasStatus() {
		status = fmt.Sprintf("<span style='color:#f1c40f;'>[%s]</span>", esc(poke.Status))
	}
	item := ""
	if poke.HasItem() {
		item = fmt.Sprintf("<span style='color:#7ed6df;'>@ %s</span>", esc(poke.Item))
	}
	sb.WriteString(fmt.Sprintf("<b>%s</b> %s <span style='color:#aaa;'>[%d%%]</span> %s<br>",
		esc(poke.Name), status, poke.HPPct, item))
	types := esc(strings.Join(poke.Types, "/"))
	if poke.HasTeraType() {
		types += fmt.Sprintf(" (tera %s)", esc(poke.TeraType))
	}
	sb.WriteString("Types: " + types + "<br>")

	boosts := boostList(poke.Boosts)
	if len(boosts) > 0 {
		sb.WriteString("<span style='color:#e67e22;'>Boosts: " + strings.Join(boosts, ", ") + "</span><br>")
	}
	if len(poke.RevealedMoves) > 0 {
		sb.WriteString("Moves seen: " + esc(strings.Join(poke.RevealedMoves, ", ")) + "<br>")
	}
}

func boostList(b agent.StatBoosts) []string {
	stages := []struct {
		name string
		val  int
	}{
		{"Atk", b.Atk}, {"Def", b.Def}, {"SpA", b.SpA}, {"SpD", b.SpD},
		{"Spe", b.Spe}, {"Accuracy", b.Accuracy}, {"Evasion", b.Evasion},
	}
	var out []string
	for _, s := range stages {
		if s.val == 0 {
			continue
		}
		prefix := "+"
		if s.val < 0 {
			prefix = ""
		}
		out = append(out, fmt.Sprintf("%s%d %s", prefix, s.val, s.name))
	}
	return out
}

func renderConditions(sb *strings.Builder, label string, conds map[string]int, unit string) {
	if len(conds) == 0 {
		return
	}
	names := make([]string, 0, len(conds))
	for name := range conds {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, fmt.Sprintf("%s (%d %s)", esc(humanize(name)), conds[name], unit))
	}
	sb.WriteString(fmt.Sprintf("<div><b>%s:</b> %s</div>", label, strings.Join(items, ", ")))
}

// humanize turns "STEALTH_ROCK" into "Stealth rock".
func humanize(name string) string {
	return capitalizeFirst(strings.ReplaceAll(name, "_", " "))
}
