package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/piste-boss/review-gpt/app"
	"github.com/piste-boss/review-gpt/gemini"
	"github.com/piste-boss/review-gpt/httpx"
	"github.com/piste-boss/review-gpt/log"
	"github.com/piste-boss/review-gpt/merge"
	"github.com/piste-boss/review-gpt/model"
)

// maxDataSamples caps how many reference samples are fed into the prompt.
const maxDataSamples = 5

// GenerateReview resolves the prompt preset for the requested page, pulls
// reference samples from the configured GAS endpoint and asks Gemini for a
// review text.
func GenerateReview(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := decodeOptionalBody(r)
		if !ok {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "generate.parse_body", "JSON形式が正しくありません。")
			return
		}

		tier := stringField(payload, "tier")
		promptKey := model.ResolvePromptKey(stringField(payload, "promptKey"), tier)
		promptLabel := model.PromptLabels[promptKey]

		cfg := merge.Merge(loadStoredConfig(r.Context(), app), model.DefaultConfig())

		if cfg.AISettings.GeminiAPIKey == "" {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "generate.api_key", "Gemini APIキーが設定されていません。")
			return
		}

		preset := cfg.Prompts[promptKey]
		gasURL := preset.GasURL
		if gasURL == "" {
			gasURL = cfg.AISettings.GasURL
		}
		promptText := preset.Prompt
		if promptText == "" {
			promptText = cfg.AISettings.Prompt
		}

		if gasURL == "" {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "generate.gas_url",
				fmt.Sprintf("%s のGASアプリURLが設定されていません。", promptLabel))
			return
		}

		samples, err := fetchDataSamples(r.Context(), gasURL)
		if err != nil {
			log.Errorf("generate.gas_fetch: %s", err)
			httpx.JSONMessage(w, r, http.StatusInternalServerError, "GASアプリからデータを取得できませんでした。")
			return
		}
		if len(samples) > maxDataSamples {
			samples = samples[:maxDataSamples]
		}

		modelName := strings.TrimSpace(r.URL.Query().Get("model"))
		if modelName == "" {
			modelName = cfg.AISettings.Model
		}
		client := gemini.New(cfg.AISettings.GeminiAPIKey, modelName, app.GeminiBaseURL)

		text, err := client.GenerateText(r.Context(), buildReviewPrompt(promptText, samples))
		if err != nil {
			var apiErr *gemini.APIError
			if errors.As(err, &apiErr) {
				log.Errorf("generate.gemini: %s", apiErr)
				message := apiErr.Message
				if message == "" {
					message = "Gemini APIからエラーが返されました。設定を見直してください。"
				}
				httpx.JSONMessage(w, r, http.StatusBadGateway, message)
				return
			}
			log.Errorf("generate.gemini: %s", err)
			httpx.JSONMessage(w, r, http.StatusInternalServerError, "口コミ生成処理に失敗しました。")
			return
		}
		if text == "" {
			httpx.JSONMessage(w, r, http.StatusBadGateway, "Gemini APIから有効な文章が返されませんでした。")
			return
		}

		render.JSON(w, r, map[string]any{
			"text":      text,
			"mapsLink":  cfg.AISettings.MapsLink,
			"promptKey": promptKey,
			"prompts": map[string]model.PromptPreset{
				promptKey: preset,
			},
			"aiSettings": map[string]string{
				"mapsLink": cfg.AISettings.MapsLink,
				"model":    client.Model(),
			},
		})
	}
}

// decodeOptionalBody parses an optional JSON object body. An empty body is
// fine; a body that is valid JSON but not an object is treated as empty.
func decodeOptionalBody(r *http.Request) (map[string]any, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil, true
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	object, _ := payload.(map[string]any)
	return object, true
}

func stringField(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	s, _ := payload[key].(string)
	return strings.TrimSpace(s)
}

// fetchDataSamples pulls reference answers from the GAS endpoint. A JSON
// array yields its entries; any other JSON shape yields nothing; a plain
// text body becomes a single sample.
func fetchDataSamples(ctx context.Context, gasURL string) ([]any, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gasURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gas: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, err
		}
		samples, _ := decoded.([]any)
		return samples, nil
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, nil
	}
	return []any{text}, nil
}

// buildReviewPrompt composes the model instruction from the configured
// prompt and the formatted reference samples.
func buildReviewPrompt(prompt string, samples []any) string {
	base := prompt
	if base == "" {
		base = model.DefaultReviewPrompt
	}

	lines := make([]string, 0, len(samples))
	for _, sample := range samples {
		switch v := sample.(type) {
		case string:
			lines = append(lines, fmt.Sprintf("- サンプル%d: %s", len(lines)+1, v))
		case map[string]any:
			values := make([]string, 0, len(v))
			for _, key := range sortedKeys(v) {
				if s := sampleValue(v[key]); s != "" {
					values = append(values, s)
				}
			}
			if len(values) > 0 {
				lines = append(lines, fmt.Sprintf("- サンプル%d: %s", len(lines)+1, strings.Join(values, " / ")))
			}
		}
	}

	return base + "\n\n参考データ:\n" + strings.Join(lines, "\n")
}

// sampleValue renders one answer field of a sample object. A numeric
// answer (a rating) and an affirmative flag count as answers too; empty
// strings, zero and false do not.
func sampleValue(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == 0 {
			return ""
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		if !value {
			return ""
		}
		return "true"
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
