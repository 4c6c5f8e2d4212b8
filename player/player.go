package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"showdown-agent/agent"
	"showdown-agent/config"
	"showdown-agent/data"
	"showdown-agent/game"
	"showdown-agent/parser"
	"showdown-agent/store"
)

// errDone stops the loop once the configured number of battles finished.
var errDone = errors.New("all battles finished")

const maxChoiceRetries = 3

// DefaultTeam is the packed set used when no team is configured and the
// format does not generate teams.
const DefaultTeam = "Pikachu||focussash|static|thunderwave,thunder,reflect,thunderbolt|Timid|8,,,248,,252||,0,,,,|||,,,,,Electric"

type Conn interface {
	ReadMessage() (string, error)
	// SendRoom sends message to room; the global room is "".
	SendRoom(room, message string) error
	Login(username, password, challstr string) error
	Close() error
}

type Decider interface {
	ChooseMove(battle *game.Battle) game.Order
}

// Observer receives a summary each time we answer a request, and is told
// when a battle is over.
type Observer interface {
	Observe(tag string, state agent.BattleState)
	Forget(tag string)
}

type ResultRecorder interface {
	Record(ctx context.Context, r store.Result) (store.Result, error)
}

type Options struct {
	Username string
	Password string
	Format   string
	Mode     string
	Opponent string
	Team     string
	Battles  int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Username: cfg.Username,
		Password: cfg.Password,
		Format:   cfg.Format,
		Mode:     cfg.Mode,
		Opponent: cfg.Opponent,
		Team:     cfg.Team,
		Battles:  cfg.Battles,
	}
}

type battleRoom struct {
	battle  *game.Battle
	format  string
	pending bool
	retries int
}

type Player struct {
	conn     Conn
	parser   *parser.Parser
	chart    game.TypeChart
	decider  Decider
	observer Observer
	results  ResultRecorder
	opts     Options
	logger   zerolog.Logger

	rooms    map[string]*battleRoom
	started  bool
	finished int
}

func New(conn Conn, dex *data.Store, decider Decider, observer Observer, results ResultRecorder, opts Options, logger zerolog.Logger) *Player {
	return &Player{
		conn:     conn,
		parser:   parser.New(dex),
		chart:    dex.TypeChart(),
		decider:  decider,
		observer: observer,
		results:  results,
		opts:     opts,
		logger:   logger.With().Str("component", "player").Str("user", opts.Username).Logger(),
		rooms:    make(map[string]*battleRoom),
	}
}

func (p *Player) Finished() int {
	return p.finished
}

// Run reads frames until the configured battles are done, the connection
// fails or ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	frames := make(chan string)

	g.Go(func() error {
		defer close(frames)
		for {
			msg, err := p.conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("read frame: %w", err)
			}
			select {
			case frames <- msg:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		if err := p.conn.Close(); err != nil {
			p.logger.Debug().Err(err).Msg("closing connection")
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-frames:
				if !ok {
					return nil
				}
				if err := p.HandleMessage(ctx, msg); err != nil {
					return err
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errDone) {
		return err
	}
	p.logger.Info().Int("battles", p.finished).Msg("player stopped")
	return nil
}

// HandleMessage processes one websocket frame. A frame starting with
// ">room" belongs to that room; anything else is global.
func (p *Player) HandleMessage(ctx context.Context, msg string) error {
	room := ""
	lines := strings.Split(msg, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], ">") {
		room = strings.TrimSpace(lines[0][1:])
		lines = lines[1:]
	}
	if strings.HasPrefix(room, "battle-") {
		return p.handleBattle(ctx, room, lines)
	}
	for _, line := range lines {
		if err := p.handleGlobal(line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) handleGlobal(line string) error {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil
	}
	switch parts[1] {
	case "challstr":
		if len(parts) < 3 {
			return nil
		}
		challstr := strings.Join(parts[2:], "|")
		if err := p.conn.Login(p.opts.Username, p.opts.Password, challstr); err != nil {
			return err
		}
	case "updateuser":
		if len(parts) < 4 {
			return nil
		}
		if data.ToID(parts[2]) != data.ToID(p.opts.Username) || parts[3] != "1" || p.started {
			return nil
		}
		p.started = true
		p.logger.Info().Str("mode", p.opts.Mode).Str("format", p.opts.Format).Msg("logged in, starting")
		return p.startBattle()
	case "updatechallenges":
		if len(parts) < 3 || p.opts.Mode != config.ModeAccept {
			return nil
		}
		return p.acceptChallenges(strings.Join(parts[2:], "|"))
	case "popup":
		p.logger.Warn().Str("popup", strings.Join(parts[2:], "|")).Msg("server popup")
	case "nametaken":
		return fmt.Errorf("name taken: %s", strings.Join(parts[2:], "|"))
	}
	return nil
}

func (p *Player) startBattle() error {
	switch p.opts.Mode {
	case config.ModeLadder:
		if err := p.sendTeam(p.opts.Format); err != nil {
			return err
		}
		return p.conn.SendRoom("", "/search "+p.opts.Format)
	case config.ModeChallenge:
		if err := p.sendTeam(p.opts.Format); err != nil {
			return err
		}
		return p.conn.SendRoom("", fmt.Sprintf("/challenge %s, %s", p.opts.Opponent, p.opts.Format))
	}
	return nil
}

func (p *Player) sendTeam(format string) error {
	return p.conn.SendRoom("", "/utm "+teamFor(format, p.opts.Team))
}

// teamFor picks the /utm payload: the configured team, nothing for formats
// that hand out teams, or DefaultTeam.
func teamFor(format, team string) string {
	switch {
	case team != "":
		return team
	case generatesTeams(format):
		return "null"
	default:
		return DefaultTeam
	}
}

func generatesTeams(format string) bool {
	id := data.ToID(format)
	return strings.Contains(id, "random") || strings.Contains(id, "factory") || strings.Contains(id, "hackmons")
}

type challenges struct {
	ChallengesFrom map[string]string `json:"challengesFrom"`
}

func (p *Player) acceptChallenges(raw string) error {
	var c challenges
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return fmt.Errorf("decode challenges: %w", err)
	}
	for user, format := range c.ChallengesFrom {
		if format != p.opts.Format {
			p.logger.Info().Str("from", user).Str("format", format).Msg("ignoring challenge in other format")
			continue
		}
		if p.opts.Opponent != "" && data.ToID(user) != data.ToID(p.opts.Opponent) {
			continue
		}
		if err := p.sendTeam(format); err != nil {
			return err
		}
		p.logger.Info().Str("from", user).Msg("accepting challenge")
		return p.conn.SendRoom("", "/accept "+user)
	}
	return nil
}

func (p *Player) handleBattle(ctx context.Context, tag string, lines []string) error {
	room, ok := p.rooms[tag]
	if !ok {
		room = &battleRoom{battle: game.NewBattle(tag), format: formatFromTag(tag)}
		p.rooms[tag] = room
		p.logger.Info().Str("battle", tag).Msg("battle started")
	}
	b := room.battle

	for _, line := range lines {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) < 2 {
			continue
		}
		switch parts[1] {
		case "request":
			if len(parts) < 3 {
				continue
			}
			req, err := p.parser.ParseRequest(b, parts[2])
			if err != nil {
				p.logger.Error().Err(err).Str("battle", tag).Msg("bad request payload")
				continue
			}
			if req == nil || req.Wait {
				continue
			}
			room.retries = 0
			if req.TeamPreview {
				if err := p.sendTeamOrder(tag, req); err != nil {
					return err
				}
				continue
			}
			room.pending = true
			for _, fs := range req.ForceSwitch {
				if fs {
					if err := p.choose(room); err != nil {
						return err
					}
					break
				}
			}
		case "error":
			msg := ""
			if len(parts) == 3 {
				msg = parts[2]
			}
			p.logger.Warn().Str("battle", tag).Str("error", msg).Msg("server rejected choice")
			if strings.HasPrefix(msg, "[Invalid choice]") || strings.HasPrefix(msg, "[Unavailable choice]") {
				room.retries++
				room.pending = true
				if err := p.choose(room); err != nil {
					return err
				}
			}
		default:
			p.parser.ProcessLine(b, line)
			if parts[1] == "turn" && room.pending {
				if err := p.choose(room); err != nil {
					return err
				}
			}
		}
	}

	if b.Finished {
		return p.finishBattle(ctx, room)
	}
	return nil
}

func (p *Player) sendTeamOrder(tag string, req *game.Request) error {
	order := make([]string, len(req.Side.Pokemon))
	for i := range order {
		order[i] = strconv.Itoa(i + 1)
	}
	return p.conn.SendRoom(tag, fmt.Sprintf("/team %s|%d", strings.Join(order, ""), req.RequestID))
}

func (p *Player) choose(room *battleRoom) error {
	if !room.pending {
		return nil
	}
	room.pending = false
	b := room.battle

	order := game.DefaultOrder
	if room.retries < maxChoiceRetries {
		order = p.decider.ChooseMove(b)
	}
	rqid := 0
	if b.Request != nil {
		rqid = b.Request.RequestID
	}
	if p.observer != nil {
		if state, ok := agent.BuildBattleState(b, p.chart); ok {
			p.observer.Observe(b.Tag, state)
		}
	}
	p.logger.Info().Str("battle", b.Tag).Int("turn", b.Turn).Stringer("order", order).Msg("choosing")
	return p.conn.SendRoom(b.Tag, fmt.Sprintf("%s|%d", order.Message(), rqid))
}

func (p *Player) finishBattle(ctx context.Context, room *battleRoom) error {
	b := room.battle
	delete(p.rooms, b.Tag)
	p.finished++

	result := store.Result{
		BattleTag: b.Tag,
		Format:    room.format,
		Won:       b.Won,
		Tie:       b.Winner == "",
		Turns:     b.Turn,
	}
	if opp := b.Opponent(); opp != nil {
		result.Opponent = opp.Name
	}
	p.logger.Info().
		Str("battle", b.Tag).
		Bool("won", result.Won).
		Bool("tie", result.Tie).
		Int("turns", result.Turns).
		Int("finished", p.finished).
		Msg("battle finished")

	if p.observer != nil {
		p.observer.Forget(b.Tag)
	}
	if p.results != nil {
		if _, err := p.results.Record(ctx, result); err != nil {
			p.logger.Error().Err(err).Str("battle", b.Tag).Msg("recording result")
		}
	}
	if err := p.conn.SendRoom("", "/leave "+b.Tag); err != nil {
		return err
	}
	if p.finished >= p.opts.Battles {
		return errDone
	}
	return p.startBattle()
}

// formatFromTag reads "gen9randombattle" out of "battle-gen9randombattle-123".
func formatFromTag(tag string) string {
	parts := strings.Split(tag, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}
