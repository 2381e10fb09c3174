package model

import "strings"

// promptKeyByTier maps legacy tier names to generation page keys. Older
// form pages still send the tier instead of a page key.
var promptKeyByTier = map[string]string{
	"beginner":     "page1",
	"intermediate": "page2",
	"advanced":     "page3",
}

// PromptLabels are the human-readable names of the generation pages, used
// in error messages.
var PromptLabels = map[string]string{
	"page1": "生成ページ1（初級）",
	"page2": "生成ページ2（中級）",
	"page3": "生成ページ3（上級）",
}

// PlanLabels are the human-readable names of the prompt-generator plans.
var PlanLabels = map[string]string{
	"light":    "ライトプラン",
	"standard": "スタンダードプラン",
	"platinum": "プラチナプラン",
}

// ResolvePromptKey normalizes a requested page key, falling back to the
// legacy tier mapping and ultimately to page1 when nothing resolves.
func ResolvePromptKey(value, tier string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if _, ok := PromptLabels[normalized]; ok {
		return normalized
	}
	if key, ok := promptKeyByTier[normalized]; ok {
		return key
	}
	if key, ok := promptKeyByTier[strings.ToLower(strings.TrimSpace(tier))]; ok {
		return key
	}
	return "page1"
}

// ResolvePlan normalizes a requested prompt-generator plan, defaulting to
// the light plan.
func ResolvePlan(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, key := range PlanKeys {
		if normalized == key {
			return key
		}
	}
	return "light"
}
