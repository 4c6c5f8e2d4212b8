package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const (
	DefaultServerURL = "wss://sim.psim.us/showdown/websocket"
	DefaultLoginURL  = "https://play.pokemonshowdown.com/api/login"
	assertionURL     = "https://play.pokemonshowdown.com/action.php"
)

type ShowdownClient struct {
	Conn *websocket.Conn

	loginURL string
	http     *fasthttp.Client
	logger   zerolog.Logger
	writeMu  sync.Mutex
}

func NewShowdownClient(ctx context.Context, serverURL, loginURL string, logger zerolog.Logger) (*ShowdownClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	logger = logger.With().Str("component", "client").Logger()
	logger.Info().Str("url", u.String()).Msg("connecting")
	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	client := &ShowdownClient{
		Conn:     c,
		loginURL: loginURL,
		logger:   logger,
		http: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
	logger.Info().Msg("connected to showdown server")

	return client, nil
}

// ReadMessage blocks for the next server frame.
func (sc *ShowdownClient) ReadMessage() (string, error) {
	_, message, err := sc.Conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(message), nil
}

func (sc *ShowdownClient) Send(message string) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	sc.logger.Debug().Str("message", message).Msg("sending")
	return sc.Conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// SendRoom prefixes message with the room it belongs to. The global room is
// the empty string.
func (sc *ShowdownClient) SendRoom(room, message string) error {
	return sc.Send(fmt.Sprintf("%s|%s", room, message))
}

func (sc *ShowdownClient) Close() error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	_ = sc.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return sc.Conn.Close()
}

// Login answers a |challstr| with /trn. Without a login URL the server is
// assumed to accept unauthenticated names.
func (sc *ShowdownClient) Login(username, password, challstr string) error {
	if sc.loginURL == "" {
		return sc.Send(fmt.Sprintf("|/trn %s", username))
	}
	var (
		assertion string
		err       error
	)
	if password == "" {
		assertion, err = sc.guestAssertion(username, challstr)
	} else {
		assertion, err = sc.passwordAssertion(username, password, challstr)
	}
	if err != nil {
		return fmt.Errorf("login %s: %w", username, err)
	}
	sc.logger.Info().Str("user", username).Msg("logged in")
	return sc.Send(fmt.Sprintf("|/trn %s,0,%s", username, assertion))
}

func (sc *ShowdownClient) guestAssertion(username, challstr string) (string, error) {
	args := &fasthttp.Args{}
	args.Set("act", "getassertion")
	args.Set("userid", username)
	args.Set("challstr", challstr)

	status, body, err := sc.http.Get(nil, assertionURL+"?"+args.String())
	if err != nil {
		return "", fmt.Errorf("request assertion: %w", err)
	}
	if status != fasthttp.StatusOK {
		return "", fmt.Errorf("assertion status %d", status)
	}
	assertion := strings.TrimSpace(string(body))
	if strings.HasPrefix(assertion, ";") {
		return "", fmt.Errorf("name %q is registered, a password is required", username)
	}
	return assertion, nil
}

type loginResponse struct {
	Assertion string `json:"assertion"`
	CurUser   struct {
		LoggedIn bool `json:"loggedin"`
	} `json:"curuser"`
}

func (sc *ShowdownClient) passwordAssertion(username, password, challstr string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(sc.loginURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	args := req.PostArgs()
	args.Set("name", username)
	args.Set("pass", password)
	args.Set("challstr", challstr)

	if err := sc.http.Do(req, resp); err != nil {
		return "", fmt.Errorf("request login: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("login status %d", resp.StatusCode())
	}
	return parseLoginResponse(resp.Body())
}

// parseLoginResponse strips the leading "]" the login server prepends.
func parseLoginResponse(body []byte) (string, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(string(body)), "]")
	var lr loginResponse
	if err := json.Unmarshal([]byte(raw), &lr); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if lr.Assertion == "" || strings.HasPrefix(lr.Assertion, ";") {
		return "", fmt.Errorf("login rejected")
	}
	return lr.Assertion, nil
}
