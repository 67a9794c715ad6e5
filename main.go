// main.go
//
// Entry point for the practice board server.
// Wires config → dictionary lookup (+cache) → validator → session store
// → HTTP server.

package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrabble/apps/go-server/internal/config"
	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
	"github.com/robalobadob/scrabble/apps/go-server/internal/httpserver"
	"github.com/robalobadob/scrabble/apps/go-server/internal/session"
	"github.com/robalobadob/scrabble/apps/go-server/internal/store"
	"github.com/robalobadob/scrabble/apps/go-server/internal/tiles"
	"github.com/robalobadob/scrabble/apps/go-server/internal/validation"
	"github.com/robalobadob/scrabble/apps/go-server/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dist := tiles.DefaultDistribution()
	if cfg.PiecesFile != "" {
		if dist, err = tiles.LoadDistribution(cfg.PiecesFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.PiecesFile).Msg("load tile distribution")
		}
	}

	lookup, closer, err := buildLookup(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build dictionary")
	}
	if closer != nil {
		defer closer.Close()
	}

	v := validation.New(lookup,
		validation.WithTimeout(cfg.LookupTimeout),
		validation.WithMaxResults(cfg.LookupMaxResults),
	)
	gameCfg := game.Config{Distribution: dist, Layout: cfg.BoardLayout, RackSize: cfg.RackSize}

	mem := store.NewMemoryStore()
	go mem.RunSweeper(context.Background(), time.Minute, cfg.SessionIdle)

	srv := httpserver.New(mem, func() *session.Session { return session.New(gameCfg, v) }, httpserver.Options{
		ClientOrigin: cfg.ClientOrigin,
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
	})
	log.Info().
		Str("port", cfg.Port).
		Str("dictionary", cfg.Dictionary).
		Str("layout", cfg.BoardLayout.String()).
		Int("tiles", dist.Total()).
		Msg("starting go-server")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// buildLookup picks the dictionary backend. Remote lookups are cached
// in SQLite when CACHE_DSN is set, in memory otherwise.
func buildLookup(cfg config.Config) (words.Lookup, io.Closer, error) {
	if cfg.Dictionary == config.DictionaryLocal {
		var (
			list *words.List
			err  error
		)
		if cfg.WordsFile != "" {
			list, err = words.LoadList(cfg.WordsFile)
		} else {
			list, err = words.DefaultList()
		}
		if err != nil {
			return nil, nil, err
		}
		log.Info().Int("words", list.Len()).Msg("local word list loaded")
		return list, nil, nil
	}

	remote := words.NewDatamuse(cfg.DatamuseURL, cfg.LookupRetries)
	if cfg.CacheDSN == "" {
		return words.NewCached(remote, words.NewMemoryCache()), nil, nil
	}
	cache, err := store.OpenLookupCache(cfg.CacheDSN)
	if err != nil {
		return nil, nil, err
	}
	return words.NewCached(remote, cache), cache, nil
}
