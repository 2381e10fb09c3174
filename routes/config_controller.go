package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/piste-boss/review-gpt/app"
	"github.com/piste-boss/review-gpt/httpx"
	"github.com/piste-boss/review-gpt/log"
	"github.com/piste-boss/review-gpt/merge"
	"github.com/piste-boss/review-gpt/model"
	"github.com/piste-boss/review-gpt/store"
)

// ConfigKey is the fixed blob key of the singleton configuration.
const ConfigKey = "router-config"

// GetConfig answers the merged configuration with secrets masked. A store
// read failure degrades to the default configuration; reads never fail.
func GetConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored := loadStoredConfig(r.Context(), app)
		cfg := merge.Merge(stored, model.DefaultConfig())
		render.JSON(w, r, cfg.ClientView())
	}
}

// SaveConfig merges the incoming payload against the stored configuration,
// stamps it and persists it. The merge itself is total; only an unusable
// request body or a failed store write is an error.
func SaveConfig(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil || len(bytes.TrimSpace(body)) == 0 {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "config.save.empty_body", "リクエストボディが空です。")
			return
		}

		var payload any
		if err := json.Unmarshal(body, &payload); err != nil {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "config.save.parse_body", "JSON形式が正しくありません。")
			return
		}
		incoming, ok := payload.(map[string]any)
		if !ok {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "config.save.not_object", "設定が見つかりません。")
			return
		}

		// The write-time baseline is the stored configuration brought up
		// to the current schema; the payload then merges against it.
		existing := merge.Merge(loadStoredConfig(r.Context(), app), model.DefaultConfig())
		next := merge.Merge(incoming, existing)

		timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
		next.UpdatedAt = &timestamp
		merge.ClampTierIndexes(next)

		raw, err := json.Marshal(next)
		if err != nil {
			httpx.LogInternalError(w, r, "config.save.encode", err)
			return
		}

		err = app.Set(r.Context(), ConfigKey, raw, store.Metadata{UpdatedAt: timestamp})
		if err != nil {
			// Swallowing a failed write would misinform the admin that
			// their change was saved.
			log.Errorf("config.save.store_write: %s", err)
			httpx.JSONMessage(w, r, http.StatusInternalServerError, "設定の保存に失敗しました。時間を空けて再度お試しください。")
			return
		}

		render.JSON(w, r, next.ClientView())
	}
}

// loadStoredConfig reads the configuration blob, degrading any store or
// decode failure to "nothing stored" so defaults apply.
func loadStoredConfig(ctx context.Context, app app.App) map[string]any {
	raw, err := app.Get(ctx, ConfigKey)
	if err != nil {
		log.Warnf("config.load: %s", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warnf("config.load.decode: %s", err)
		return nil
	}
	return stored
}
