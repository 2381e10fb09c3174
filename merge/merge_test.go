package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piste-boss/review-gpt/model"
)

// decodePayload runs a JSON literal through the same decoding the HTTP
// layer uses, so payload values carry wire types (float64 numbers etc).
func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestMergeNilPayloadYieldsDefaults(t *testing.T) {
	cfg := Merge(nil, model.DefaultConfig())

	assert.Equal(t, model.DefaultLabelBeginner, cfg.Labels["beginner"])
	assert.Equal(t, model.DefaultLabelIntermediate, cfg.Labels["intermediate"])
	assert.Equal(t, model.DefaultLabelAdvanced, cfg.Labels["advanced"])
	for _, key := range model.TierKeys {
		assert.Empty(t, cfg.Tiers[key].Links)
		assert.Zero(t, cfg.Tiers[key].NextIndex)
	}
	assert.Equal(t, model.AISettings{}, cfg.AISettings)
	assert.Nil(t, cfg.UpdatedAt)
	assert.NotEmpty(t, cfg.Form1.Questions)
	assert.NotEmpty(t, cfg.Form2.Questions)
	assert.NotEmpty(t, cfg.Form3.Questions)
}

func TestMergeIsIdempotent(t *testing.T) {
	payload := decodePayload(t, `{
		"labels": {"beginner": "はじめて"},
		"tiers": {"beginner": {"links": ["https://a", "https://b"], "nextIndex": 5}},
		"aiSettings": {"geminiApiKey": "key-123", "model": "gemini-pro"},
		"prompts": {"page2": {"prompt": "P2"}},
		"branding": {"faviconDataUrl": " data:image/png;base64,xyz "},
		"form2": {
			"title": "アンケート",
			"questions": [
				{"id": "q-1", "title": "Q1", "type": "checkbox", "options": ["a", "b"], "allowMultiple": true}
			]
		}
	}`)

	once := Merge(payload, model.DefaultConfig())
	twice := Merge(payload, once)

	assert.Equal(t, once, twice)
}

func TestMergePerLeafFieldNotPerSection(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.AISettings.MapsLink = "https://maps.example"
	fallback.AISettings.Model = "gemini-pro"

	cfg := Merge(decodePayload(t, `{"aiSettings": {"model": "gemini-flash"}}`), fallback)

	assert.Equal(t, "gemini-flash", cfg.AISettings.Model)
	assert.Equal(t, "https://maps.example", cfg.AISettings.MapsLink)
}

func TestMergeTierLinks(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Tiers["beginner"] = model.TierRotation{Links: []string{"https://a", "https://b"}, NextIndex: 1}

	t.Run("absent links keep stored rotation", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"tiers": {"beginner": {}}}`), fallback)
		assert.Equal(t, []string{"https://a", "https://b"}, cfg.Tiers["beginner"].Links)
		assert.Equal(t, 1, cfg.Tiers["beginner"].NextIndex)
	})

	t.Run("explicit empty list clears links", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"tiers": {"beginner": {"links": []}}}`), fallback)
		assert.Empty(t, cfg.Tiers["beginner"].Links)
		assert.Zero(t, cfg.Tiers["beginner"].NextIndex)
	})

	t.Run("stale index wraps against shrunk list", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"tiers": {"beginner": {"links": ["https://only"], "nextIndex": 7}}}`), fallback)
		assert.Equal(t, 0, cfg.Tiers["beginner"].NextIndex)
	})

	t.Run("negative index resets to zero", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"tiers": {"beginner": {"nextIndex": -2}}}`), fallback)
		assert.Equal(t, 0, cfg.Tiers["beginner"].NextIndex)
	})

	t.Run("fractional index is ignored", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"tiers": {"beginner": {"nextIndex": 1.5}}}`), fallback)
		assert.Equal(t, 1, cfg.Tiers["beginner"].NextIndex)
	})
}

func TestMergeTierInvariantHolds(t *testing.T) {
	payloads := []string{
		`{"tiers": {"beginner": {"links": ["https://a"], "nextIndex": 99}}}`,
		`{"tiers": {"intermediate": {"links": [], "nextIndex": 3}}}`,
		`{"tiers": {"advanced": {"links": ["https://a", "https://b", "https://c"], "nextIndex": -1}}}`,
		`{"tiers": "garbage"}`,
	}

	for _, raw := range payloads {
		cfg := Merge(decodePayload(t, raw), model.DefaultConfig())
		for _, key := range model.TierKeys {
			tier := cfg.Tiers[key]
			if len(tier.Links) == 0 {
				assert.Zero(t, tier.NextIndex, raw)
			} else {
				assert.GreaterOrEqual(t, tier.NextIndex, 0, raw)
				assert.Less(t, tier.NextIndex, len(tier.Links), raw)
			}
		}
	}
}

func TestMergeNeverClearsAPIKey(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.AISettings.GeminiAPIKey = "secret123"

	t.Run("explicit empty string keeps stored key", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"aiSettings": {"geminiApiKey": ""}}`), fallback)
		assert.Equal(t, "secret123", cfg.AISettings.GeminiAPIKey)
	})

	t.Run("omission keeps stored key", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"aiSettings": {"model": "m"}}`), fallback)
		assert.Equal(t, "secret123", cfg.AISettings.GeminiAPIKey)
	})

	t.Run("non-empty value replaces key", func(t *testing.T) {
		cfg := Merge(decodePayload(t, `{"aiSettings": {"geminiApiKey": " newkey "}}`), fallback)
		assert.Equal(t, "newkey", cfg.AISettings.GeminiAPIKey)
	})
}

func TestMergePromptGeneratorSection(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.PromptGenerator.GeminiAPIKey = "gen-secret"
	fallback.PromptGenerator.References["standard"] = "標準の参考文面"

	cfg := Merge(decodePayload(t, `{"promptGenerator": {"geminiApi": "", "prompt": "新しい指示", "references": {"light": "ライト文面"}}}`), fallback)

	assert.Equal(t, "gen-secret", cfg.PromptGenerator.GeminiAPIKey)
	assert.Equal(t, "新しい指示", cfg.PromptGenerator.Prompt)
	assert.Equal(t, "ライト文面", cfg.PromptGenerator.References["light"])
	assert.Equal(t, "標準の参考文面", cfg.PromptGenerator.References["standard"])
	assert.Equal(t, "", cfg.PromptGenerator.References["platinum"])
}

func TestMergePromptsPerKeyIndependence(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Prompts["page1"] = model.PromptPreset{GasURL: "https://gas1", Prompt: "P1"}
	fallback.Prompts["page2"] = model.PromptPreset{GasURL: "https://gas2", Prompt: "P2"}
	fallback.Prompts["page3"] = model.PromptPreset{GasURL: "https://gas3", Prompt: "P3"}

	cfg := Merge(decodePayload(t, `{"prompts": {"page1": {"prompt": "X"}}}`), fallback)

	assert.Equal(t, model.PromptPreset{GasURL: "https://gas1", Prompt: "X"}, cfg.Prompts["page1"])
	assert.Equal(t, fallback.Prompts["page2"], cfg.Prompts["page2"])
	assert.Equal(t, fallback.Prompts["page3"], cfg.Prompts["page3"])
}

func TestMergePromptsExplicitEmptyClears(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Prompts["page1"] = model.PromptPreset{GasURL: "https://gas1", Prompt: "P1"}

	cfg := Merge(decodePayload(t, `{"prompts": {"page1": {"prompt": ""}}}`), fallback)

	// Unlike the API key, prompts clear on a present empty string.
	assert.Equal(t, "", cfg.Prompts["page1"].Prompt)
	assert.Equal(t, "https://gas1", cfg.Prompts["page1"].GasURL)
}

func TestMergeLabels(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Labels["beginner"] = "ビギナー"

	cfg := Merge(decodePayload(t, `{"labels": {"beginner": "新人", "intermediate": " ミドル ", "extra": "ignored"}}`), fallback)

	assert.Equal(t, "新人", cfg.Labels["beginner"])
	assert.Equal(t, "ミドル", cfg.Labels["intermediate"])
	assert.Equal(t, model.DefaultLabelAdvanced, cfg.Labels["advanced"])
	assert.NotContains(t, cfg.Labels, "extra")
}

func TestMergeLabelsExplicitEmptyBlanks(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Labels["beginner"] = "ビギナー"

	// Labels merge shallowly: a present empty string wins and blanks the
	// label, unlike the API keys.
	cfg := Merge(decodePayload(t, `{"labels": {"beginner": ""}}`), fallback)

	assert.Equal(t, "", cfg.Labels["beginner"])
	assert.Equal(t, model.DefaultLabelIntermediate, cfg.Labels["intermediate"])
}

func TestMergeBranding(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Branding.FaviconDataURL = "data:image/png;base64,old"

	cfg := Merge(decodePayload(t, `{"branding": {"faviconDataUrl": " data:image/svg+xml;base64,new "}}`), fallback)
	assert.Equal(t, "data:image/svg+xml;base64,new", cfg.Branding.FaviconDataURL)

	cleared := Merge(decodePayload(t, `{"branding": {"faviconDataUrl": ""}}`), fallback)
	assert.Equal(t, "", cleared.Branding.FaviconDataURL)
}

func TestMergeWrongShapesDegradeToFallback(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.AISettings.Model = "gemini-pro"

	cfg := Merge(decodePayload(t, `{
		"labels": 42,
		"tiers": "nope",
		"aiSettings": [1, 2, 3],
		"prompts": true,
		"branding": 0,
		"form1": 17,
		"form2": null,
		"updatedAt": {"bad": "shape"}
	}`), fallback)

	assert.Equal(t, fallback.Labels, cfg.Labels)
	assert.Equal(t, fallback.Tiers, cfg.Tiers)
	assert.Equal(t, "gemini-pro", cfg.AISettings.Model)
	assert.Equal(t, fallback.Prompts, cfg.Prompts)
	assert.Equal(t, fallback.Form1, cfg.Form1)
	assert.Equal(t, fallback.Form2, cfg.Form2)
	assert.Nil(t, cfg.UpdatedAt)
}

func TestMergeCarriesStoredUpdatedAt(t *testing.T) {
	cfg := Merge(decodePayload(t, `{"updatedAt": "2024-05-01T12:00:00.000Z"}`), model.DefaultConfig())
	require.NotNil(t, cfg.UpdatedAt)
	assert.Equal(t, "2024-05-01T12:00:00.000Z", *cfg.UpdatedAt)
}

func TestMergeDoesNotMutateFallback(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Tiers["beginner"] = model.TierRotation{Links: []string{"https://a"}, NextIndex: 0}
	snapshot := fallback.Clone()

	cfg := Merge(decodePayload(t, `{"tiers": {"beginner": {"links": ["https://b"]}}, "labels": {"beginner": "変更"}}`), fallback)
	cfg.Tiers["beginner"].Links[0] = "mutated"
	cfg.Labels["beginner"] = "mutated"

	assert.Equal(t, snapshot, fallback)
}

func TestMergeFormSectionTexts(t *testing.T) {
	fallback := model.DefaultConfig()
	fallback.Form2.Title = "保存済みタイトル"

	cfg := Merge(decodePayload(t, `{"form2": {"description": "新しい説明"}}`), fallback)

	assert.Equal(t, "保存済みタイトル", cfg.Form2.Title)
	assert.Equal(t, "新しい説明", cfg.Form2.Description)

	blank := Merge(decodePayload(t, `{"form2": {"title": "  "}}`), fallback)
	assert.Equal(t, "保存済みタイトル", blank.Form2.Title)
}

func TestMergeLegacyRatingFormUpgrade(t *testing.T) {
	stored := decodePayload(t, `{
		"form1": {
			"title": "満足度",
			"inputStyle": "numbers",
			"reasonEnabled": true,
			"reasonTitle": "理由を教えてください",
			"reasonDescription": "任意入力です。"
		}
	}`)

	cfg := Merge(stored, model.DefaultConfig())

	require.Len(t, cfg.Form1.Questions, 2)

	rating := cfg.Form1.Questions[0]
	assert.Equal(t, model.TypeRating, rating.Type)
	assert.Equal(t, model.RatingNumbers, rating.RatingStyle)
	assert.True(t, rating.RatingEnabled)
	assert.True(t, rating.Required)

	reason := cfg.Form1.Questions[1]
	assert.Equal(t, model.TypeText, reason.Type)
	assert.Equal(t, "理由を教えてください", reason.Title)
	assert.Equal(t, "任意入力です。", reason.Placeholder)
	assert.False(t, reason.Required)
}

func TestMergeLegacyFormWithoutReasonBlock(t *testing.T) {
	cfg := Merge(decodePayload(t, `{"form1": {"inputStyle": "stars", "reasonEnabled": false}}`), model.DefaultConfig())

	require.Len(t, cfg.Form1.Questions, 1)
	assert.Equal(t, model.TypeRating, cfg.Form1.Questions[0].Type)
	assert.Equal(t, model.RatingStars, cfg.Form1.Questions[0].RatingStyle)
}

func TestClampTierIndexes(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Tiers["beginner"] = model.TierRotation{Links: []string{"https://a", "https://b"}, NextIndex: 5}
	cfg.Tiers["intermediate"] = model.TierRotation{Links: nil, NextIndex: 3}
	cfg.Tiers["advanced"] = model.TierRotation{Links: []string{"https://a"}, NextIndex: -1}

	ClampTierIndexes(cfg)

	assert.Equal(t, 1, cfg.Tiers["beginner"].NextIndex)
	assert.Equal(t, []string{}, cfg.Tiers["intermediate"].Links)
	assert.Zero(t, cfg.Tiers["intermediate"].NextIndex)
	assert.Zero(t, cfg.Tiers["advanced"].NextIndex)
}
