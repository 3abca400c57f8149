package ollama

import (
	"fmt"
	"strings"
)

func buildClassificationPrompt(snippet, filename string, categories []string) string {
	categoryList := strings.Join(categories, ", ")

	return fmt.Sprintf(`You are a legal document classifier for a corporate document vault.
Pick the single best category from this list: %s.
Return strict JSON object with keys:
category_name (string from the list), confidence (number from 0 to 1), reasoning (string),
suggested_categories (array of {name, score} objects), key_entities (array of strings), summary (string).
No markdown, no extra keys.

Filename: %s

Document:
%s`, categoryList, filename, snippet)
}

func buildQueryPrompt(question string, contexts []string) string {
	var contextBuilder strings.Builder
	for idx, chunk := range contexts {
		contextBuilder.WriteString(fmt.Sprintf("[%d]\n%s\n\n", idx+1, chunk))
	}

	return fmt.Sprintf(`You are a legal analyst. Answer the user question only from the document excerpts below.
If the excerpts are insufficient, say it directly.
Return strict JSON object with keys:
answer (string), confidence (number from 0 to 1), reasoning (string), suggestions (array of strings).
No markdown, no extra keys.

Question:
%s

Excerpts:
%s`, question, contextBuilder.String())
}
