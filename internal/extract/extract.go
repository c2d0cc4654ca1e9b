// Package extract pulls JSON objects out of free-form oracle text.
//
// Oracles are asked for JSON but routinely wrap it in prose, fence it in
// markdown, or emit trailing commas. The extraction is layered: fenced
// json block, any fenced object, a brace-delimited substring containing a
// recognizable field, then the span from the first '{' to the last '}'.
// Every candidate is repaired for trailing commas before parsing, and a
// parse failure falls through to the next candidate.
package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedJSONRe   = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedObjectRe = regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```")

	trailingCommaObjRe = regexp.MustCompile(`,\s*}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*]`)
)

// JSON decodes the first extractable JSON object in text into v.
// markerFields name fields whose presence identifies a brace-delimited
// candidate in unfenced prose. Returns false when no candidate parses.
func JSON(text string, v any, markerFields ...string) bool {
	for _, candidate := range candidates(text, markerFields) {
		repaired := RepairTrailingCommas(strings.TrimSpace(candidate))
		if json.Unmarshal([]byte(repaired), v) == nil {
			return true
		}
	}
	return false
}

// Object is the untyped variant of JSON.
func Object(text string, markerFields ...string) (map[string]any, bool) {
	var m map[string]any
	if !JSON(text, &m, markerFields...) {
		return nil, false
	}
	return m, true
}

// RepairTrailingCommas removes commas that directly precede a closing
// brace or bracket, the most common oracle JSON defect.
func RepairTrailingCommas(s string) string {
	s = trailingCommaObjRe.ReplaceAllString(s, "}")
	s = trailingCommaArrRe.ReplaceAllString(s, "]")
	return s
}

func candidates(text string, markerFields []string) []string {
	if text == "" {
		return nil
	}
	var out []string

	for _, m := range fencedJSONRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	for _, m := range fencedObjectRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}

	for _, field := range markerFields {
		re := regexp.MustCompile(`(?s)(\{.*"` + regexp.QuoteMeta(field) + `".*\})`)
		if m := re.FindStringSubmatch(text); m != nil {
			out = append(out, m[1])
		}
	}

	// Loosest candidate: everything between the outermost braces.
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		out = append(out, text[first:last+1])
	}

	return out
}

// ArrayField extracts a single named JSON array from text, independent of
// whether the surrounding object parses. Used as a per-field last resort
// so one malformed list doesn't void the others.
func ArrayField(text, field string) (json.RawMessage, bool) {
	re := regexp.MustCompile(`(?s)"` + regexp.QuoteMeta(field) + `"\s*:\s*(\[.*?\])`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	repaired := RepairTrailingCommas(m[1])
	if !json.Valid([]byte(repaired)) {
		return nil, false
	}
	return json.RawMessage(repaired), true
}

// StringsField extracts a named array and flattens it to strings.
// Object elements are reduced to their first string value.
func StringsField(text, field string) ([]string, bool) {
	raw, ok := ArrayField(text, field)
	if !ok {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			for _, inner := range v {
				if s, ok := inner.(string); ok {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out, true
}

// FloatField extracts a named numeric field.
func FloatField(text, field string) (float64, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*([0-9.]+)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// BoolField extracts a named boolean field.
func BoolField(text, field string) (bool, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*(true|false)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return false, false
	}
	return m[1] == "true", true
}

// StringField extracts a named single-line string field.
func StringField(text, field string) (string, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*"(.*?)"`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
