package app

import (
	"github.com/go-chi/oauth"

	"github.com/piste-boss/review-gpt/config"
	"github.com/piste-boss/review-gpt/store"
)

type App struct {
	store.Store
	*oauth.BearerServer
	config.Config
}
