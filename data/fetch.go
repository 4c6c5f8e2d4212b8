package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// DefaultDexURL serves the same pokedex.json and moves.json the Showdown web
// client loads.
const DefaultDexURL = "https://play.pokemonshowdown.com/data"

const (
	PokedexFile = "pokedex.json"
	MovesFile   = "moves.json"
)

// Fetcher keeps local copies of the Showdown dex files, downloading them when
// the cached copy is missing or older than maxAge. A zero maxAge keeps the
// first download.
type Fetcher struct {
	baseURL  string
	cacheDir string
	maxAge   time.Duration
	http     *fasthttp.Client
	logger   zerolog.Logger
}

func NewFetcher(baseURL, cacheDir string, maxAge time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		cacheDir: cacheDir,
		maxAge:   maxAge,
		logger:   logger.With().Str("component", "dex").Logger(),
		http: &fasthttp.Client{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Fetch returns the path of an up to date copy of name.
func (f *Fetcher) Fetch(name string) (string, error) {
	path := filepath.Join(f.cacheDir, name)
	info, err := os.Stat(path)
	cached := err == nil
	if cached && (f.maxAge <= 0 || time.Since(info.ModTime()) < f.maxAge) {
		f.logger.Debug().Str("file", path).Msg("using cached dex file")
		return path, nil
	}

	if err := f.download(name, path); err != nil {
		if cached {
			f.logger.Warn().Err(err).Str("file", path).Msg("dex refresh failed, keeping stale copy")
			return path, nil
		}
		return "", err
	}
	return path, nil
}

func (f *Fetcher) download(name, path string) error {
	url := f.baseURL + "/" + name
	status, body, err := f.http.Get(nil, url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	if status != fasthttp.StatusOK {
		return fmt.Errorf("download %s: status %d", url, status)
	}
	if !json.Valid(body) {
		return fmt.Errorf("download %s: response is not JSON", url)
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create dex cache: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	f.logger.Info().Str("url", url).Int("bytes", len(body)).Msg("dex file downloaded")
	return nil
}

// Load fills store from the downloaded dex files. Each file that cannot be
// fetched falls back to the matching local path.
func (f *Fetcher) Load(store *Store, pokedexFallback, movesFallback string) error {
	pokedex := f.resolve(PokedexFile, pokedexFallback)
	if err := store.LoadPokemonData(pokedex); err != nil {
		return err
	}
	moves := f.resolve(MovesFile, movesFallback)
	return store.LoadMoveData(moves)
}

func (f *Fetcher) resolve(name, fallback string) string {
	path, err := f.Fetch(name)
	if err != nil {
		f.logger.Warn().Err(err).Str("fallback", fallback).Msg("dex download failed, using local copy")
		return fallback
	}
	return path
}
