package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"showdown-agent/client"
	"showdown-agent/data"
)

const (
	ModeLadder    = "ladder"
	ModeAccept    = "accept"
	ModeChallenge = "challenge"
)

type Config struct {
	ServerURL string
	LoginURL  string
	Username  string
	Password  string

	Format   string
	Mode     string
	Opponent string
	Battles  int
	// Team is a packed team string sent with /utm; empty for formats that
	// supply teams.
	Team string
	Seed int64

	// DexURL is where the full dex files are downloaded from; "off" uses
	// only PokedexPath and MovesPath.
	DexURL      string
	DexCacheDir string
	DexMaxAge   time.Duration
	PokedexPath string
	MovesPath   string
	DBPath      string
	HTTPAddr    string
	LogLevel    string

	ReconnectAttempts int
	ReconnectDelay    time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerURL:         getEnv("SHOWDOWN_SERVER_URL", client.DefaultServerURL),
		LoginURL:          getEnv("SHOWDOWN_LOGIN_URL", client.DefaultLoginURL),
		Username:          getEnv("SHOWDOWN_USERNAME", ""),
		Password:          getEnv("SHOWDOWN_PASSWORD", ""),
		Format:            getEnv("SHOWDOWN_FORMAT", "gen9randombattle"),
		Mode:              strings.ToLower(getEnv("SHOWDOWN_MODE", ModeLadder)),
		Opponent:          getEnv("SHOWDOWN_OPPONENT", ""),
		Team:              getEnv("SHOWDOWN_TEAM", ""),
		DexURL:            getEnv("DEX_URL", data.DefaultDexURL),
		DexCacheDir:       getEnv("DEX_CACHE_DIR", "data/cache"),
		PokedexPath:       getEnv("POKEDEX_PATH", "data/pokedex.json"),
		MovesPath:         getEnv("MOVES_PATH", "data/moves.json"),
		DBPath:            getEnv("DB_PATH", "showdown_agent.db"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":42069"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ReconnectAttempts: 3,
		ReconnectDelay:    2 * time.Second,
	}

	var err error
	if cfg.Battles, err = getEnvInt("SHOWDOWN_BATTLES", 1); err != nil {
		return nil, err
	}
	seed, err := getEnvInt("AGENT_SEED", 0)
	if err != nil {
		return nil, err
	}
	cfg.Seed = int64(seed)
	if cfg.DexMaxAge, err = getEnvDuration("DEX_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("server", cfg.ServerURL).
		Str("user", cfg.Username).
		Str("format", cfg.Format).
		Str("mode", cfg.Mode).
		Int("battles", cfg.Battles).
		Str("dex_url", cfg.DexURL).
		Str("db_path", cfg.DBPath).
		Str("http_addr", cfg.HTTPAddr).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("SHOWDOWN_USERNAME is required")
	}
	switch c.Mode {
	case ModeLadder, ModeAccept:
	case ModeChallenge:
		if c.Opponent == "" {
			return fmt.Errorf("SHOWDOWN_OPPONENT is required in %s mode", ModeChallenge)
		}
	default:
		return fmt.Errorf("invalid SHOWDOWN_MODE %q (supported: %s, %s, %s)", c.Mode, ModeLadder, ModeAccept, ModeChallenge)
	}
	if c.Battles < 1 {
		return fmt.Errorf("SHOWDOWN_BATTLES must be at least 1, got %d", c.Battles)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
