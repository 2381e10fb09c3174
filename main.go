package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/piste-boss/review-gpt/app"
	"github.com/piste-boss/review-gpt/config"
	"github.com/piste-boss/review-gpt/httpx"
	"github.com/piste-boss/review-gpt/log"
	"github.com/piste-boss/review-gpt/routes"
	"github.com/piste-boss/review-gpt/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := store.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.store.open:", err)
	}
	defer db.Close()

	bearerServer := httpx.NewBearerServer(db.DB(), cfg)

	app := app.App{
		Store:        store.WithCache(db),
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
