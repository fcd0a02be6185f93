package document

import "strings"

// StripWrapping removes a leading fence line and a trailing fence line
// from raw generated text, when present. Generative models frequently
// wrap structured output in markdown fences ("```yaml" ... "```");
// everything between the fences is returned untouched. Text without
// fences passes through unchanged apart from surrounding whitespace.
func StripWrapping(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	if strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
