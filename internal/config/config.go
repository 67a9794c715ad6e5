// internal/config/config.go
//
// Environment-driven configuration.
// Responsibilities:
//   - Load .env (if present) with godotenv, then read keys through viper
//     with defaults and AutomaticEnv. A key set to the empty string
//     overrides its default, so CACHE_DSN= disables the lookup cache.
//   - Parse durations, the board layout and the rack size up front so a
//     bad value fails at startup instead of mid-game.
//
// An optional CONFIG_FILE (yaml/json/toml) is merged under the
// environment; env vars always win.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
	"github.com/robalobadob/scrabble/apps/go-server/internal/words"
)

const (
	DictionaryDatamuse = "datamuse"
	DictionaryLocal    = "local"
)

type Config struct {
	Port         string
	LogLevel     string
	ClientOrigin string
	JWTSecret    string
	TokenTTL     time.Duration

	Dictionary       string
	DatamuseURL      string
	LookupTimeout    time.Duration
	LookupMaxResults int
	LookupRetries    uint
	CacheDSN         string // empty disables the persistent cache

	PiecesFile  string
	WordsFile   string
	BoardLayout game.Layout
	RackSize    int

	SessionIdle time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "5175")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	v.SetDefault("JWT_SECRET", "dev_secret_change_me")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("DICTIONARY", DictionaryDatamuse)
	v.SetDefault("DATAMUSE_URL", words.DefaultDatamuseURL)
	v.SetDefault("LOOKUP_TIMEOUT", "3s")
	v.SetDefault("LOOKUP_MAX_RESULTS", 1)
	v.SetDefault("LOOKUP_RETRIES", 3)
	v.SetDefault("CACHE_DSN", "./data/lookup.db")
	v.SetDefault("PIECES_FILE", "")
	v.SetDefault("WORDS_FILE", "")
	v.SetDefault("BOARD_LAYOUT", game.DefaultLayout.String())
	v.SetDefault("RACK_SIZE", game.RackSize)
	v.SetDefault("SESSION_IDLE", "2h")
}

// Load reads .env files (missing files are fine) and the environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	if f := v.GetString("CONFIG_FILE"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", f, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Port:             v.GetString("PORT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		ClientOrigin:     v.GetString("CLIENT_ORIGIN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		Dictionary:       strings.ToLower(v.GetString("DICTIONARY")),
		DatamuseURL:      v.GetString("DATAMUSE_URL"),
		LookupMaxResults: v.GetInt("LOOKUP_MAX_RESULTS"),
		LookupRetries:    v.GetUint("LOOKUP_RETRIES"),
		CacheDSN:         v.GetString("CACHE_DSN"),
		PiecesFile:       v.GetString("PIECES_FILE"),
		WordsFile:        v.GetString("WORDS_FILE"),
		RackSize:         v.GetInt("RACK_SIZE"),
	}

	var err error
	if c.TokenTTL, err = duration(v, "TOKEN_TTL"); err != nil {
		return Config{}, err
	}
	if c.LookupTimeout, err = duration(v, "LOOKUP_TIMEOUT"); err != nil {
		return Config{}, err
	}
	if c.SessionIdle, err = duration(v, "SESSION_IDLE"); err != nil {
		return Config{}, err
	}
	if c.BoardLayout, err = game.ParseLayout(v.GetString("BOARD_LAYOUT")); err != nil {
		return Config{}, fmt.Errorf("config: BOARD_LAYOUT: %w", err)
	}

	switch c.Dictionary {
	case DictionaryDatamuse, DictionaryLocal:
	default:
		return Config{}, fmt.Errorf("config: DICTIONARY must be %q or %q, got %q", DictionaryDatamuse, DictionaryLocal, c.Dictionary)
	}
	if c.RackSize <= 0 {
		return Config{}, fmt.Errorf("config: RACK_SIZE must be positive, got %d", c.RackSize)
	}
	if c.LookupMaxResults <= 0 {
		return Config{}, fmt.Errorf("config: LOOKUP_MAX_RESULTS must be positive, got %d", c.LookupMaxResults)
	}
	if c.LookupRetries == 0 {
		c.LookupRetries = 1
	}
	return c, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
