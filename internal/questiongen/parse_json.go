package questiongen

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// jsonQuestion is one question in a JSON response. Field aliases cover
// the shapes models commonly produce.
type jsonQuestion struct {
	Question    string          `json:"question"`
	Prompt      string          `json:"prompt"`
	Choices     json.RawMessage `json:"choices"`
	Options     json.RawMessage `json:"options"`
	Answer      json.RawMessage `json:"answer"`
	Explanation string          `json:"explanation"`
}

// decodeJSON extracts candidates from a JSON response. It reports false
// when raw does not contain a question list, so the caller can fall back
// to text scanning. A bracketed token inside prose, such as ["s3:GetObject"]
// or a [1] citation, is not a question list: at least one item must decode
// as an object with a question.
func decodeJSON(raw string) ([]candidate, bool) {
	body, ok := extractJSON(raw)
	if !ok {
		return nil, false
	}

	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal([]byte(body), &items); err != nil {
			return nil, false
		}
	} else {
		var wrapper struct {
			Questions []json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal([]byte(body), &wrapper); err != nil || wrapper.Questions == nil {
			return nil, false
		}
		items = wrapper.Questions
	}

	cands := make([]candidate, 0, len(items))
	questions := 0
	for _, item := range items {
		var jq jsonQuestion
		if err := json.Unmarshal(item, &jq); err != nil {
			// Keep the slot so the drop is reported.
			cands = append(cands, candidate{})
			continue
		}
		c := candidate{
			prompt:      jq.Question,
			explanation: jq.Explanation,
			answer:      decodeAnswer(jq.Answer),
		}
		if c.prompt == "" {
			c.prompt = jq.Prompt
		}
		if strings.TrimSpace(c.prompt) != "" {
			questions++
		}
		c.choices = decodeChoices(jq.Choices)
		if c.choices == nil {
			c.choices = decodeChoices(jq.Options)
		}
		cands = append(cands, c)
	}
	if questions == 0 {
		return nil, false
	}
	return cands, true
}

// extractJSON returns the outermost JSON array or object in raw, looking
// inside a fenced code block first.
func extractJSON(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", false
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", false
	}
	body := s[start : end+1]
	if !json.Valid([]byte(body)) {
		return "", false
	}
	return body, true
}

// decodeChoices accepts ["a","b"] or {"A":"a","B":"b"}. Object keys are
// ordered alphabetically so letters map to positions.
func decodeChoices(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var byLetter map[string]string
	if err := json.Unmarshal(raw, &byLetter); err == nil {
		keys := make([]string, 0, len(byLetter))
		for k := range byLetter {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return strings.ToUpper(keys[i]) < strings.ToUpper(keys[j])
		})
		out := make([]string, len(keys))
		for i, k := range keys {
			out[i] = byLetter[k]
		}
		return out
	}
	return nil
}

// decodeAnswer accepts a string or a number. Numbers are treated as
// 1-based option positions, like numeric user input.
func decodeAnswer(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.Itoa(n)
	}
	return ""
}
