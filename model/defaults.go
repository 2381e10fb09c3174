package model

// Built-in tier display labels.
const (
	DefaultLabelBeginner     = "初級"
	DefaultLabelIntermediate = "中級"
	DefaultLabelAdvanced     = "上級"
)

// DefaultGeneratorPrompt is used when the prompt generator has no base
// prompt configured.
const DefaultGeneratorPrompt = "あなたは口コミ生成AIのプロンプトを設計するアシスタントです。参考文面や既存の指示を踏まえ、AIが口コミ文章を生成するための新しいプロンプトを1本だけ返してください。"

// DefaultReviewPrompt is used when neither the page preset nor the global
// AI settings supply a prompt for review generation.
const DefaultReviewPrompt = "次のアンケート回答を参考に、100〜200文字程度の口コミを丁寧な日本語で作成してください。語尾や表現は自然で温かみのあるものにしてください。"

// DefaultConfig returns the hardcoded default schema. Every call returns a
// fresh instance so callers can mutate the result.
func DefaultConfig() *Config {
	return &Config{
		Labels: map[string]string{
			"beginner":     DefaultLabelBeginner,
			"intermediate": DefaultLabelIntermediate,
			"advanced":     DefaultLabelAdvanced,
		},
		Tiers: map[string]TierRotation{
			"beginner":     {Links: []string{}},
			"intermediate": {Links: []string{}},
			"advanced":     {Links: []string{}},
		},
		AISettings: AISettings{},
		Prompts: map[string]PromptPreset{
			"page1": {},
			"page2": {},
			"page3": {},
		},
		PromptGenerator: PromptGenerator{
			References: map[string]string{
				"light":    "",
				"standard": "",
				"platinum": "",
			},
		},
		Branding: Branding{},
		Form1:    defaultForm1(),
		Form2:    defaultForm2(),
		Form3:    defaultForm3(),
	}
}

func defaultForm1() FormSection {
	return FormSection{
		Title:       "体験の満足度を教えてください",
		Description: "星をタップして今回のサービスの満足度をお選びください。選択内容は生成されるクチコミのトーンに反映されます。",
		Questions: []Question{
			{
				ID:              "form1-q1",
				Title:           "今回のサービスの満足度",
				Required:        true,
				Type:            TypeRating,
				Options:         []string{},
				RatingEnabled:   true,
				RatingStyle:     RatingStars,
				IncludeInReview: true,
			},
		},
	}
}

func defaultForm2() FormSection {
	return FormSection{
		Title:       "体験に関するアンケートにご協力ください",
		Description: "該当する項目を選択してください。複数回答可の設問はチェックマークで選べます。",
		Questions: []Question{
			{
				ID:              "form2-q1",
				Title:           "今回のご利用目的を教えてください",
				Required:        true,
				Type:            TypeDropdown,
				Options:         []string{"ビジネス", "観光", "記念日", "その他"},
				RatingStyle:     RatingStars,
				IncludeInReview: true,
			},
			{
				ID:              "form2-q2",
				Title:           "特に満足したポイントを教えてください",
				Type:            TypeCheckbox,
				AllowMultiple:   true,
				Options:         []string{"スタッフの接客", "施設の清潔さ", "コストパフォーマンス", "立地アクセス"},
				RatingStyle:     RatingStars,
				IncludeInReview: true,
			},
		},
	}
}

func defaultForm3() FormSection {
	return FormSection{
		Title:       "最後に、感想をお聞かせください",
		Description: "任意入力です。印象に残ったことがあればご自由にご記入ください。",
		Questions: []Question{
			{
				ID:              "form3-q1",
				Title:           "印象に残ったエピソード",
				Type:            TypeText,
				Options:         []string{},
				RatingStyle:     RatingStars,
				Placeholder:     "自由にご記入ください。",
				IncludeInReview: true,
			},
		},
	}
}
