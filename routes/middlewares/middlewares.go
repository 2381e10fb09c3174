package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
)

// Admin checks the bearer token and requires the 'admin' role claim.
func Admin(tokenSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(tokenSecret, nil), admin).Handler(next)
	}
}

func admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		isAdmin := false
		if claims != nil {
			for _, role := range strings.Split(claims["roles"], ",") {
				if role == "admin" {
					isAdmin = true
					break
				}
			}
		}

		if !isAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
