package model

// MaskedSecret replaces stored API keys in every response body.
const MaskedSecret = "******"

// ClientConfig is the response shape of the read/write endpoints: the full
// configuration with secrets masked. Never persisted.
type ClientConfig struct {
	Labels          map[string]string       `json:"labels"`
	Tiers           map[string]TierRotation `json:"tiers"`
	AISettings      ClientAISettings        `json:"aiSettings"`
	Prompts         map[string]PromptPreset `json:"prompts"`
	PromptGenerator ClientPromptGenerator   `json:"promptGenerator"`
	Branding        Branding                `json:"branding"`
	Form1           FormSection             `json:"form1"`
	Form2           FormSection             `json:"form2"`
	Form3           FormSection             `json:"form3"`
	UpdatedAt       *string                 `json:"updatedAt"`
}

type ClientAISettings struct {
	GasURL          string `json:"gasUrl"`
	GeminiAPIKey    string `json:"geminiApiKey"`
	HasGeminiAPIKey bool   `json:"hasGeminiApiKey"`
	Prompt          string `json:"prompt"`
	MapsLink        string `json:"mapsLink"`
	Model           string `json:"model"`
}

type ClientPromptGenerator struct {
	GeminiAPIKey    string            `json:"geminiApi"`
	HasGeminiAPIKey bool              `json:"hasGeminiApi"`
	Prompt          string            `json:"prompt"`
	References      map[string]string `json:"references"`
}

// ClientView masks the Gemini API keys and attaches the derived
// has-key flags. The masked key is MaskedSecret when a key is stored and
// the empty string when not.
func (c *Config) ClientView() *ClientConfig {
	clone := c.Clone()

	view := &ClientConfig{
		Labels: clone.Labels,
		Tiers:  clone.Tiers,
		AISettings: ClientAISettings{
			GasURL:          clone.AISettings.GasURL,
			GeminiAPIKey:    maskSecret(clone.AISettings.GeminiAPIKey),
			HasGeminiAPIKey: clone.AISettings.GeminiAPIKey != "",
			Prompt:          clone.AISettings.Prompt,
			MapsLink:        clone.AISettings.MapsLink,
			Model:           clone.AISettings.Model,
		},
		Prompts: clone.Prompts,
		PromptGenerator: ClientPromptGenerator{
			GeminiAPIKey:    maskSecret(clone.PromptGenerator.GeminiAPIKey),
			HasGeminiAPIKey: clone.PromptGenerator.GeminiAPIKey != "",
			Prompt:          clone.PromptGenerator.Prompt,
			References:      clone.PromptGenerator.References,
		},
		Branding:  clone.Branding,
		Form1:     clone.Form1,
		Form2:     clone.Form2,
		Form3:     clone.Form3,
		UpdatedAt: clone.UpdatedAt,
	}
	return view
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return MaskedSecret
}
