// Package merge reconciles configuration payloads against stored state and
// the hardcoded default schema.
//
// Merging is a three-way reconciliation applied independently per leaf
// field: hardcoded defaults < fallback configuration < incoming payload.
// The engine never fails on malformed input; a field of the wrong shape is
// treated as absent and the fallback value applies. Correctness therefore
// shows up as sane defaults, never as an error return.
package merge

import (
	"strings"

	"github.com/piste-boss/review-gpt/model"
)

// Merge reconciles an incoming partial payload (decoded JSON, possibly
// nil) against a fallback configuration. The fallback is not mutated.
//
// Two presence rules are deliberately asymmetric:
//   - prompts and branding clear on an explicitly present empty string,
//   - the Gemini API keys never clear: only a non-empty incoming value
//     replaces the fallback secret.
func Merge(incoming map[string]any, fallback *model.Config) *model.Config {
	defaults := model.DefaultConfig()
	if fallback == nil {
		fallback = defaults
	}

	out := fallback.Clone()
	out.Labels = mergeLabels(objectAt(incoming, "labels"), fallback, defaults)
	out.Tiers = mergeTiers(objectAt(incoming, "tiers"), fallback)
	out.AISettings = mergeAISettings(objectAt(incoming, "aiSettings"), fallback.AISettings)
	out.Prompts = mergePrompts(objectAt(incoming, "prompts"), fallback.Prompts)
	out.PromptGenerator = mergePromptGenerator(objectAt(incoming, "promptGenerator"), fallback.PromptGenerator)
	out.Branding = mergeBranding(objectAt(incoming, "branding"), fallback.Branding)
	out.Form1 = mergeForm(objectAt(incoming, "form1"), fallback.Form1, defaults.Form1)
	out.Form2 = mergeForm(objectAt(incoming, "form2"), fallback.Form2, defaults.Form2)
	out.Form3 = mergeForm(objectAt(incoming, "form3"), fallback.Form3, defaults.Form3)

	if incoming != nil {
		if ts := trimmedString(incoming["updatedAt"]); ts != "" {
			out.UpdatedAt = &ts
		}
	}
	return out
}

// Labels merge shallowly: an explicitly present value wins even when it
// is empty, blanking the label. The defaults only fill keys missing from
// the stored configuration.
func mergeLabels(in map[string]any, fallback, defaults *model.Config) map[string]string {
	out := make(map[string]string, len(model.TierKeys))
	for _, key := range model.TierKeys {
		switch {
		case has(in, key):
			out[key] = trimmedString(in[key])
		default:
			if stored, ok := fallback.Labels[key]; ok {
				out[key] = strings.TrimSpace(stored)
			} else {
				out[key] = defaults.Labels[key]
			}
		}
	}
	return out
}

func mergeTiers(in map[string]any, fallback *model.Config) map[string]model.TierRotation {
	out := make(map[string]model.TierRotation, len(model.TierKeys))
	for _, key := range model.TierKeys {
		tierIn := objectAt(in, key)
		stored := fallback.Tiers[key]

		links := append([]string{}, stored.Links...)
		if tierIn != nil {
			// An explicitly present array replaces the stored links,
			// even when empty: an empty list clears the rotation.
			if _, isArray := sliceOf(tierIn["links"]); isArray {
				links = stringList(tierIn["links"])
			}
		}

		index, ok := 0, false
		if tierIn != nil {
			index, ok = intOf(tierIn["nextIndex"])
		}
		if !ok {
			index = stored.NextIndex
		}
		out[key] = model.TierRotation{
			Links:     links,
			NextIndex: normalizeNextIndex(index, len(links)),
		}
	}
	return out
}

// normalizeNextIndex wraps a possibly stale rotation index back into range
// after the link list changed size.
func normalizeNextIndex(index, linkCount int) int {
	if linkCount <= 0 || index < 0 {
		return 0
	}
	return index % linkCount
}

func mergeAISettings(in map[string]any, fallback model.AISettings) model.AISettings {
	out := model.AISettings{
		GasURL:       mergeStringField(in, "gasUrl", fallback.GasURL),
		GeminiAPIKey: mergeStringField(in, "geminiApiKey", fallback.GeminiAPIKey),
		Prompt:       mergeStringField(in, "prompt", fallback.Prompt),
		MapsLink:     mergeStringField(in, "mapsLink", fallback.MapsLink),
		Model:        mergeStringField(in, "model", fallback.Model),
	}

	// The API key can never be cleared by omission or by an explicit empty
	// string, only overwritten by a new non-empty value.
	out.GeminiAPIKey = mergeSecret(in, "geminiApiKey", fallback.GeminiAPIKey)
	return out
}

func mergePrompts(in map[string]any, fallback map[string]model.PromptPreset) map[string]model.PromptPreset {
	out := make(map[string]model.PromptPreset, len(model.PromptKeys))
	for _, key := range model.PromptKeys {
		entry := objectAt(in, key)
		stored := fallback[key]
		out[key] = model.PromptPreset{
			GasURL: mergeStringField(entry, "gasUrl", stored.GasURL),
			Prompt: mergeStringField(entry, "prompt", stored.Prompt),
		}
	}
	return out
}

func mergePromptGenerator(in map[string]any, fallback model.PromptGenerator) model.PromptGenerator {
	out := model.PromptGenerator{
		GeminiAPIKey: mergeSecret(in, "geminiApi", fallback.GeminiAPIKey),
		Prompt:       mergeStringField(in, "prompt", fallback.Prompt),
		References:   make(map[string]string, len(model.PlanKeys)),
	}

	refs := objectAt(in, "references")
	for _, plan := range model.PlanKeys {
		out.References[plan] = mergeStringField(refs, plan, fallback.References[plan])
	}
	return out
}

func mergeBranding(in map[string]any, fallback model.Branding) model.Branding {
	return model.Branding{
		FaviconDataURL: mergeStringField(in, "faviconDataUrl", fallback.FaviconDataURL),
	}
}

// mergeStringField takes the incoming value when the key is explicitly
// present (an explicit empty string clears the field), else the fallback.
// Either way the result is a trimmed string.
func mergeStringField(in map[string]any, key, fallback string) string {
	if has(in, key) {
		return trimmedString(in[key])
	}
	return strings.TrimSpace(fallback)
}

// mergeSecret keeps the fallback secret unless the incoming payload
// supplies a non-empty replacement.
func mergeSecret(in map[string]any, key, fallback string) string {
	if in != nil {
		if secret := trimmedString(in[key]); secret != "" {
			return secret
		}
	}
	return strings.TrimSpace(fallback)
}

func mergeForm(in map[string]any, fallback, defaults model.FormSection) model.FormSection {
	out := model.FormSection{
		Title:       firstNonEmpty(trimmedString(valueAt(in, "title")), fallback.Title, defaults.Title),
		Description: firstNonEmpty(trimmedString(valueAt(in, "description")), fallback.Description, defaults.Description),
	}

	fallbackQuestions := fallback.Questions
	if len(fallbackQuestions) == 0 {
		fallbackQuestions = defaults.Questions
	}

	var raw any
	switch {
	case isLegacyRatingForm(in):
		raw = upgradeLegacyRatingForm(in)
	case in != nil:
		raw = in["questions"]
	}

	out.Questions = sanitizeQuestions(raw, fallbackQuestions)
	return out
}

func valueAt(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

// ClampTierIndexes re-normalizes every tier's rotation index against its
// possibly just-changed link list. Applied on the write path after the
// final merge.
func ClampTierIndexes(cfg *model.Config) {
	for key, tier := range cfg.Tiers {
		if len(tier.Links) == 0 {
			tier.Links = []string{}
			tier.NextIndex = 0
		} else if tier.NextIndex < 0 {
			tier.NextIndex = 0
		} else if tier.NextIndex >= len(tier.Links) {
			tier.NextIndex = len(tier.Links) - 1
		}
		cfg.Tiers[key] = tier
	}
}
