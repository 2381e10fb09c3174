package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/piste-boss/review-gpt/log"
)

// Every consumer of this API is a fetch() client expecting a JSON body, so
// errors are rendered as {"message": ...} rather than plain text.

// Will log an error, and send a 500 with a generic message
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	JSONMessage(w, r, http.StatusInternalServerError, "サーバー内部でエラーが発生しました。")
}

// Will log an error code and message at the given level, and send an HTTP
// response with the given status and the message as JSON
func LogStatusMsg(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string) {
	log.Log(level, code+":", msg)
	JSONMessage(w, r, status, msg)
}

// JSONMessage writes a {"message": ...} body with the given status.
func JSONMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"message": msg})
}
