package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/piste-boss/review-gpt/app"
	"github.com/piste-boss/review-gpt/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/config", GetConfig(app))
	api.With(middlewares.Admin(app.TokenSecret)).Post("/config", SaveConfig(app))

	api.Post("/generate", GenerateReview(app))
	api.Post("/prompt-generator", GeneratePrompt(app))

	api.Post("/login", Login(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
