package merge

import (
	"github.com/google/uuid"

	"github.com/piste-boss/review-gpt/model"
)

// sanitizeQuestions normalizes a raw question list into the canonical
// schema. Entries that cannot survive sanitization (a dropdown or checkbox
// left without options) are dropped; when nothing survives, or the input
// is not a list at all, the fallback list is substituted so a form section
// is never left without questions.
func sanitizeQuestions(raw any, fallback []model.Question) []model.Question {
	entries, ok := sliceOf(raw)
	if !ok {
		return model.CloneQuestions(fallback)
	}

	out := make([]model.Question, 0, len(entries))
	for _, entry := range entries {
		if q, keep := normalizeQuestion(objectOf(entry)); keep {
			out = append(out, q)
		}
	}

	if len(out) == 0 {
		return model.CloneQuestions(fallback)
	}
	return out
}

func normalizeQuestion(in map[string]any) (model.Question, bool) {
	if in == nil {
		return model.Question{}, false
	}

	qType := normalizeQuestionType(trimmedString(in["type"]))
	q := model.Question{
		ID:          trimmedString(in["id"]),
		Title:       trimmedString(in["title"]),
		Type:        qType,
		Options:     stringList(in["options"]),
		Placeholder: trimmedString(in["placeholder"]),
		RatingStyle: model.RatingStars,
	}
	if q.ID == "" {
		q.ID = newQuestionID()
	}

	if required, ok := boolOf(in["required"]); ok {
		q.Required = required
	} else {
		q.Required = true
	}

	if include, ok := boolOf(in["includeInReview"]); ok {
		q.IncludeInReview = include
	} else {
		q.IncludeInReview = true
	}

	switch qType {
	case model.TypeDropdown, model.TypeCheckbox:
		if len(q.Options) == 0 {
			return model.Question{}, false
		}
	default:
		q.Options = []string{}
	}

	if qType == model.TypeCheckbox {
		allow, _ := boolOf(in["allowMultiple"])
		q.AllowMultiple = allow
	}

	if enabled, ok := boolOf(in["ratingEnabled"]); ok {
		q.RatingEnabled = enabled
	}
	if qType == model.TypeRating {
		q.RatingEnabled = true
		q.RatingStyle = normalizeRatingStyle(trimmedString(in["ratingStyle"]))
	}

	return q, true
}

// normalizeQuestionType coerces into the fixed enum. Unrecognized values
// become dropdown, the most constrained type: it requires options, so a
// junk entry cannot slip through as a free-text question.
func normalizeQuestionType(value string) string {
	switch value {
	case model.TypeCheckbox, model.TypeText, model.TypeRating:
		return value
	default:
		return model.TypeDropdown
	}
}

func normalizeRatingStyle(value string) string {
	if value == model.RatingNumbers {
		return model.RatingNumbers
	}
	return model.RatingStars
}

// newQuestionID mints a stable opaque id for a freshly created question.
// Ids are generated once and never regenerated on edit.
func newQuestionID() string {
	return uuid.NewString()
}

// Legacy single-rating form payloads predate the unified question schema:
// they carried inputStyle/reason* fields on the section itself and no
// question list. They are upgraded into equivalent canonical questions and
// then flow through the regular sanitizer.

func isLegacyRatingForm(in map[string]any) bool {
	if in == nil || has(in, "questions") {
		return false
	}
	return has(in, "inputStyle") || has(in, "reasonEnabled") ||
		has(in, "reasonTitle") || has(in, "reasonDescription")
}

func upgradeLegacyRatingForm(in map[string]any) []any {
	rating := map[string]any{
		"id":          "form1-q1",
		"title":       "今回のサービスの満足度",
		"required":    true,
		"type":        model.TypeRating,
		"ratingStyle": normalizeRatingStyle(trimmedString(in["inputStyle"])),
	}
	questions := []any{rating}

	if enabled, _ := boolOf(in["reasonEnabled"]); enabled {
		reason := map[string]any{
			"id":          "form1-q2",
			"title":       firstNonEmpty(trimmedString(in["reasonTitle"]), "よろしければ理由をお聞かせ下さい"),
			"required":    false,
			"type":        model.TypeText,
			"placeholder": trimmedString(in["reasonDescription"]),
		}
		questions = append(questions, reason)
	}
	return questions
}
