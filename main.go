package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/alexedwards/scs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	zero "github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/config"
	db "github.com/huviapp/huvi/internal/db/impl"
	"github.com/huviapp/huvi/internal/initialization"
	"github.com/huviapp/huvi/internal/provider"
	"github.com/huviapp/huvi/internal/push"
	"github.com/huviapp/huvi/internal/queue"
	"github.com/huviapp/huvi/internal/session"
	"github.com/huviapp/huvi/internal/state"
	"github.com/huviapp/huvi/internal/web"
	"github.com/huviapp/huvi/internal/webhook"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	zero.Logger = zero.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	config, err := config.ReadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	d, err := initialization.OpenDB(config.DbUrl)
	if err != nil {
		log.Fatal(err)
	}
	zero.Info().Msg("database connection established")

	if os.Getenv("SETUP") != "" {
		if err = initialization.SetupDB(d, config.MigrationsFolder, "huvi"); err != nil {
			log.Fatal(err)
		}
	}

	q, err := initialization.InitQueue(&config)
	if err != nil {
		zero.Fatal().Err(err).Msg("unable to connect with the task queue database")
		os.Exit(1)
	}

	dd := db.New(state.State{DB: d, Config: config})

	prov, err := provider.New(&config, &http.Client{})
	if err != nil {
		zero.Fatal().Err(err).Send()
		os.Exit(1)
	}

	pushClient, err := push.New(&config, &http.Client{})
	if err != nil {
		zero.Fatal().Err(err).Send()
		os.Exit(1)
	}

	notifier := queue.New(context.Background(), dd, pushClient, q)
	sessions := session.NewManager(dd, prov)
	manager := scs.NewCookieManager(config.SessionKey)

	handler := web.New(&config, sessions, dd, notifier, manager)
	router := chi.NewRouter()
	handler.Mount(router)

	hook := webhook.New(dd, pushClient, config.WebhookSecret)
	router.Method(http.MethodPost, "/hooks/events", hook)

	s := &http.Server{
		Addr:    config.Addr,
		Handler: router,
	}

	zero.Info().Str("addr", config.Addr).Msg("started server")
	err = s.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}
