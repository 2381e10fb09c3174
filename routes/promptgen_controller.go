package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/piste-boss/review-gpt/app"
	"github.com/piste-boss/review-gpt/gemini"
	"github.com/piste-boss/review-gpt/httpx"
	"github.com/piste-boss/review-gpt/log"
	"github.com/piste-boss/review-gpt/merge"
	"github.com/piste-boss/review-gpt/model"
)

// GeneratePrompt asks Gemini to design a new review-generation prompt for
// one of the generation pages, seeded with the plan's reference text and
// the page's current prompt.
func GeneratePrompt(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := decodeOptionalBody(r)
		if !ok {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "promptgen.parse_body", "JSON形式が正しくありません。")
			return
		}

		plan := model.ResolvePlan(stringField(payload, "tier"))
		planLabel := model.PlanLabels[plan]
		promptKey := model.ResolvePromptKey(stringField(payload, "promptKey"), plan)

		cfg := merge.Merge(loadStoredConfig(r.Context(), app), model.DefaultConfig())
		generator := cfg.PromptGenerator

		if generator.GeminiAPIKey == "" {
			httpx.LogStatusMsg(w, r, http.StatusBadRequest, log.DebugLevel, "promptgen.api_key", "プロンプトジェネレーターのGemini APIキーが設定されていません。")
			return
		}

		basePrompt := generator.Prompt
		if basePrompt == "" {
			basePrompt = model.DefaultGeneratorPrompt
		}

		referenceText := generator.References[plan]
		if referenceText == "" {
			for _, fallbackPlan := range model.PlanKeys {
				if text := generator.References[fallbackPlan]; text != "" {
					referenceText = text
					break
				}
			}
		}

		instruction := buildGeneratorInstruction(basePrompt, planLabel, referenceText, cfg.Prompts[promptKey].Prompt)

		client := gemini.New(generator.GeminiAPIKey, cfg.AISettings.Model, app.GeminiBaseURL)
		text, err := client.GenerateText(r.Context(), instruction)
		if err != nil {
			var apiErr *gemini.APIError
			if errors.As(err, &apiErr) {
				log.Errorf("promptgen.gemini: %s", apiErr)
				message := apiErr.Message
				if message == "" {
					message = "Gemini APIから有効なレスポンスを取得できませんでした。"
				}
				httpx.JSONMessage(w, r, apiErr.StatusCode, message)
				return
			}
			log.Errorf("promptgen.gemini: %s", err)
			httpx.JSONMessage(w, r, http.StatusInternalServerError, "プロンプトジェネレーターの呼び出しに失敗しました。")
			return
		}
		if text == "" {
			httpx.JSONMessage(w, r, http.StatusBadGateway, "Gemini APIからプロンプトが返されませんでした。")
			return
		}

		render.JSON(w, r, map[string]string{
			"prompt": text,
		})
	}
}

func buildGeneratorInstruction(basePrompt, planLabel, referenceText, currentPrompt string) string {
	sections := []string{
		basePrompt,
		fmt.Sprintf("ターゲット: %s", planLabel),
	}

	if referenceText != "" {
		sections = append(sections, "参考文面:\n"+referenceText)
	}
	if currentPrompt != "" {
		sections = append(sections, "現在のプロンプト:\n"+currentPrompt)
	}

	sections = append(sections,
		"出力条件:\n"+
			"1. 日本語で 1 本のプロンプトのみを返すこと。\n"+
			"2. 箇条書きや余計な補足、引用符は付けず、純粋な文章で返すこと。\n"+
			"3. AI が口コミ文章を生成するときに必要なトーン、長さ、構成の指示を含めること。")

	return strings.Join(sections, "\n\n")
}
