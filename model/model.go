package model

// Question answer types.
const (
	TypeDropdown = "dropdown"
	TypeCheckbox = "checkbox"
	TypeText     = "text"
	TypeRating   = "rating"
)

// Rating display styles.
const (
	RatingStars   = "stars"
	RatingNumbers = "numbers"
)

// TierKeys are the three fixed customer-engagement levels. Every stored
// configuration carries exactly these keys in labels and tiers.
var TierKeys = []string{"beginner", "intermediate", "advanced"}

// PromptKeys are the three fixed AI-generation presets.
var PromptKeys = []string{"page1", "page2", "page3"}

// PlanKeys are the fixed reference-text plans of the prompt generator.
var PlanKeys = []string{"light", "standard", "platinum"}

// Config is the single persisted configuration blob.
type Config struct {
	Labels          map[string]string       `json:"labels"`
	Tiers           map[string]TierRotation `json:"tiers"`
	AISettings      AISettings              `json:"aiSettings"`
	Prompts         map[string]PromptPreset `json:"prompts"`
	PromptGenerator PromptGenerator         `json:"promptGenerator"`
	Branding        Branding                `json:"branding"`
	Form1           FormSection             `json:"form1"`
	Form2           FormSection             `json:"form2"`
	Form3           FormSection             `json:"form3"`
	UpdatedAt       *string                 `json:"updatedAt"`
}

// TierRotation is the rotating review-link list of one tier.
// NextIndex always stays within [0, len(Links)-1], and is 0 when Links
// is empty.
type TierRotation struct {
	Links     []string `json:"links"`
	NextIndex int      `json:"nextIndex"`
}

type AISettings struct {
	GasURL       string `json:"gasUrl"`
	GeminiAPIKey string `json:"geminiApiKey"`
	Prompt       string `json:"prompt"`
	MapsLink     string `json:"mapsLink"`
	Model        string `json:"model"`
}

// PromptPreset is the per-page GAS source and prompt text.
type PromptPreset struct {
	GasURL string `json:"gasUrl"`
	Prompt string `json:"prompt"`
}

// PromptGenerator configures the prompt-designing assistant. It carries its
// own Gemini key, separate from AISettings.
type PromptGenerator struct {
	GeminiAPIKey string            `json:"geminiApi"`
	Prompt       string            `json:"prompt"`
	References   map[string]string `json:"references"`
}

type Branding struct {
	FaviconDataURL string `json:"faviconDataUrl"`
}

// FormSection is one named block of survey questions shown to end users.
type FormSection struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Question is the canonical survey question. Fields beyond id/title/type
// are meaningful per type: options for dropdown/checkbox, allowMultiple
// for checkbox, ratingStyle for rating, placeholder for text.
type Question struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Required        bool     `json:"required"`
	Type            string   `json:"type"`
	AllowMultiple   bool     `json:"allowMultiple"`
	Options         []string `json:"options"`
	RatingEnabled   bool     `json:"ratingEnabled"`
	RatingStyle     string   `json:"ratingStyle"`
	Placeholder     string   `json:"placeholder"`
	IncludeInReview bool     `json:"includeInReview"`
}

// Clone returns a deep copy. The merge engine assembles configurations out
// of defaults and stored state, and callers mutate the result freely, so
// shared slices and maps must not alias.
func (c *Config) Clone() *Config {
	out := *c

	out.Labels = make(map[string]string, len(c.Labels))
	for k, v := range c.Labels {
		out.Labels[k] = v
	}

	out.Tiers = make(map[string]TierRotation, len(c.Tiers))
	for k, t := range c.Tiers {
		links := make([]string, len(t.Links))
		copy(links, t.Links)
		out.Tiers[k] = TierRotation{Links: links, NextIndex: t.NextIndex}
	}

	out.Prompts = make(map[string]PromptPreset, len(c.Prompts))
	for k, p := range c.Prompts {
		out.Prompts[k] = p
	}

	out.PromptGenerator.References = make(map[string]string, len(c.PromptGenerator.References))
	for k, v := range c.PromptGenerator.References {
		out.PromptGenerator.References[k] = v
	}

	out.Form1 = c.Form1.clone()
	out.Form2 = c.Form2.clone()
	out.Form3 = c.Form3.clone()

	if c.UpdatedAt != nil {
		ts := *c.UpdatedAt
		out.UpdatedAt = &ts
	}
	return &out
}

func (f FormSection) clone() FormSection {
	f.Questions = CloneQuestions(f.Questions)
	return f
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		q.Options = options
		out[i] = q
	}
	return out
}
