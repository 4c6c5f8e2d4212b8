package spectate

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"showdown-agent/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const pingInterval = 20 * time.Second

type ResultLister interface {
	List(ctx context.Context, limit int) ([]store.Result, error)
	Summary(ctx context.Context) (store.Summary, error)
}

type Server struct {
	hub     *Hub
	results ResultLister
	logger  zerolog.Logger
}

func NewServer(hub *Hub, results ResultLister, logger zerolog.Logger) *Server {
	return &Server{
		hub:     hub,
		results: results,
		logger:  logger.With().Str("component", "spectate").Logger(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/results", s.handleResults)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Cache-Control"},
	})
	return c.Handler(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		s.logger.Error().Err(err).Msg("rendering index")
		http.Error(w, "error rendering template", http.StatusInternalServerError)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.logger.Info().Str("remote", r.RemoteAddr).Msg("viewer connected")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "data: <p>Connected. Waiting for battles...</p>\n\n")
	flusher.Flush()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info().Str("remote", r.RemoteAddr).Msg("viewer disconnected")
			return
		case <-pingTicker.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case u, ok := <-updates:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", "battle", u.HTML)
			flusher.Flush()
		}
	}
}

type resultsResponse struct {
	Summary store.Summary  `json:"summary"`
	Results []store.Result `json:"results"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	summary, err := s.results.Summary(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("loading summary")
		http.Error(w, "error loading results", http.StatusInternalServerError)
		return
	}
	results, err := s.results.List(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("listing results")
		http.Error(w, "error loading results", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resultsResponse{Summary: summary, Results: results}); err != nil {
		s.logger.Warn().Err(err).Msg("writing results")
	}
}
