package ollama

import (
	"encoding/json"
	"strings"

	"github.com/akramarenko/legaldocs-ai/internal/core/domain"
)

// Model output is untrusted. The coercers below accept whatever shape comes
// back and produce a complete value: wrong field types become zero values,
// confidence is clamped to [0,1] and lists are never nil. A wholesale parse
// failure yields the zero-valued result instead of an error so one garbled
// generation never fails a job that already cost an extraction.

func coerceClassification(raw string) domain.Classification {
	fields := decodeLooseObject(raw)

	result := domain.Classification{
		CategoryName:        asString(fields["category_name"]),
		Confidence:          clampConfidence(asFloat(fields["confidence"])),
		Reasoning:           asString(fields["reasoning"]),
		SuggestedCategories: asSuggestions(fields["suggested_categories"]),
		KeyEntities:         asStringList(fields["key_entities"]),
		Summary:             asString(fields["summary"]),
	}
	return result
}

func coerceAnswer(raw string) domain.OracleAnswer {
	fields := decodeLooseObject(raw)

	return domain.OracleAnswer{
		Answer:      asString(fields["answer"]),
		Confidence:  clampConfidence(asFloat(fields["confidence"])),
		Reasoning:   asString(fields["reasoning"]),
		Suggestions: asStringList(fields["suggestions"]),
	}
}

func decodeLooseObject(raw string) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &fields); err != nil {
		return map[string]any{}
	}
	return fields
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func asString(value any) string {
	text, _ := value.(string)
	return strings.TrimSpace(text)
}

func asFloat(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case string:
		var parsed float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(typed)), &parsed); err == nil {
			return parsed
		}
	}
	return 0
}

func asStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if text := asString(item); text != "" {
			result = append(result, text)
		}
	}
	return result
}

func asSuggestions(value any) []domain.CategorySuggestion {
	items, ok := value.([]any)
	if !ok {
		return []domain.CategorySuggestion{}
	}
	result := make([]domain.CategorySuggestion, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := asString(fields["name"])
		if name == "" {
			continue
		}
		result = append(result, domain.CategorySuggestion{
			Name:  name,
			Score: clampConfidence(asFloat(fields["score"])),
		})
	}
	return result
}

func clampConfidence(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
