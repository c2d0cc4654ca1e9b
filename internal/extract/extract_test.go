package extract

import (
	"testing"
)

func TestJSON_FencedJSONBlock(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"valid\": true, \"count\": 3}\n```\nDone."
	var got struct {
		Valid bool `json:"valid"`
		Count int  `json:"count"`
	}
	if !JSON(text, &got) {
		t.Fatal("expected extraction to succeed")
	}
	if !got.Valid || got.Count != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestJSON_GenericFencedBlock(t *testing.T) {
	text := "```\n{\"valid\": false}\n```"
	m, ok := Object(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if m["valid"] != false {
		t.Fatalf("unexpected result: %v", m)
	}
}

func TestJSON_MarkerFieldInProse(t *testing.T) {
	text := `The oracle says {"found_errors": ["a"], "missing_errors": []} and nothing else.`
	m, ok := Object(text, "found_errors")
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if _, present := m["found_errors"]; !present {
		t.Fatalf("missing found_errors in %v", m)
	}
}

func TestJSON_OutermostBraces(t *testing.T) {
	text := `prefix text {"a": 1} suffix`
	m, ok := Object(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if m["a"] != float64(1) {
		t.Fatalf("unexpected result: %v", m)
	}
}

func TestJSON_TrailingCommasRepaired(t *testing.T) {
	text := "```json\n{\"items\": [1, 2, 3,], \"done\": true,}\n```"
	m, ok := Object(text)
	if !ok {
		t.Fatal("expected extraction to succeed after repair")
	}
	if m["done"] != true {
		t.Fatalf("unexpected result: %v", m)
	}
}

func TestJSON_BadFencedBlockFallsThrough(t *testing.T) {
	// The fenced block is garbage; the loose brace span still parses.
	text := "```json\nnot json at all\n```\nactual: {\"ok\": true}"
	m, ok := Object(text)
	if !ok {
		t.Fatal("expected fallthrough extraction to succeed")
	}
	if m["ok"] != true {
		t.Fatalf("unexpected result: %v", m)
	}
}

func TestJSON_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty input", ""},
		{"no json at all", "the oracle refused to answer"},
		{"unparseable braces", "{this is not json}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Object(tt.text); ok {
				t.Fatalf("expected extraction to fail for %q", tt.text)
			}
		})
	}
}

func TestRepairTrailingCommas(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1,}`, `{"a": 1}`},
		{`[1, 2,]`, `[1, 2]`},
		{`{"a": [1,], "b": 2,}`, `{"a": [1], "b": 2}`},
		{`{"a": 1}`, `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := RepairTrailingCommas(tt.in); got != tt.want {
			t.Errorf("RepairTrailingCommas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArrayField(t *testing.T) {
	text := `garbage "identified_problems": ["a", "b",] more garbage`
	raw, ok := ArrayField(text, "identified_problems")
	if !ok {
		t.Fatal("expected array extraction to succeed")
	}
	if string(raw) != `["a", "b"]` {
		t.Fatalf("unexpected raw array: %s", raw)
	}

	if _, ok := ArrayField(text, "missed_problems"); ok {
		t.Fatal("expected missing field to fail")
	}
}

func TestStringsField(t *testing.T) {
	text := `{"missed_problems": [{"problem": "Magic number", "hint": "name it"}, "Empty catch block"]}`
	got, ok := StringsField(text, "missed_problems")
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(got), got)
	}
}

func TestScalarFields(t *testing.T) {
	text := `{"accuracy_percentage": 62.5, "review_sufficient": true, "feedback": "solid work"}`

	f, ok := FloatField(text, "accuracy_percentage")
	if !ok || f != 62.5 {
		t.Fatalf("FloatField = %v, %v", f, ok)
	}

	b, ok := BoolField(text, "review_sufficient")
	if !ok || !b {
		t.Fatalf("BoolField = %v, %v", b, ok)
	}

	s, ok := StringField(text, "feedback")
	if !ok || s != "solid work" {
		t.Fatalf("StringField = %q, %v", s, ok)
	}

	if _, ok := FloatField(text, "quality_score"); ok {
		t.Fatal("expected missing float field to fail")
	}
}
