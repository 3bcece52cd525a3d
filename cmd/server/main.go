package main

import (
	"net/http"

	"blog/internal/app"
	"blog/internal/db"
	httpx "blog/internal/http"
	"blog/internal/mail"
)

func main() {
	log := app.NewLogger()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	d, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer d.Close()

	if err := db.Migrate(d); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	srv := httpx.NewServer(d, cfg, log, mail.NewLogMailer(log))

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
