package story

import "strings"

// extractJSONObject recovers a JSON object from untrusted model output: the
// model is told to answer with bare JSON but frequently wraps it in markdown
// code fences or pads it with commentary.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// If text still surrounds the object, slice out the outermost braces.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
