package routes

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/piste-boss/review-gpt/app"
	"github.com/piste-boss/review-gpt/httpx"
	"github.com/piste-boss/review-gpt/log"
)

// Login exchanges basic-auth admin credentials for a bearer token by
// rewriting the request into the password grant the bearer server expects.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatusMsg(w, r, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth", "認証情報が正しくありません。")
			return
		}

		body := url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		}
		r.Body = io.NopCloser(strings.NewReader(body.Encode()))
		r.Header.Set("content-type", "application/x-www-form-urlencoded")
		r.Header.Set("content-length", strconv.Itoa(len(body.Encode())))
		app.UserCredentials(w, r)
	}
}
