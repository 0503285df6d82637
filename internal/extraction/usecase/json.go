package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"task-intake-assistant/internal/extraction"
)

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ExtractJSON pulls the JSON object out of a model reply, tolerating code
// fences and prose around it.
func ExtractJSON(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		s = strings.TrimSpace(m[1])
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return nil, extraction.ErrMalformedResponse
	}
	s = s[start : end+1]

	if !json.Valid([]byte(s)) {
		return nil, extraction.ErrMalformedResponse
	}
	return []byte(s), nil
}
