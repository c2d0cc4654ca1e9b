package evaluator

import (
	"fmt"
	"strings"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/generator"
)

const verificationSystem = `You are an expert Java code reviewer verifying educational exercises.
You receive Java code that was supposed to be written with a specific set of
intentional defects. Your job is to check, defect by defect, whether each
requested defect is actually present in the code. Be precise: confirm a defect
only when you can point at the exact line that exhibits it. Respond with JSON
only.`

func evaluationPrompt(annotated string, requested []catalog.DefectSpec) string {
	var b strings.Builder

	b.WriteString("Verify that the following Java code contains EXACTLY the requested defects.\n\n")
	b.WriteString("CODE (with line numbers):\n```java\n")
	b.WriteString(generator.AddLineNumbers(annotated))
	b.WriteString("\n```\n\n")

	b.WriteString(fmt.Sprintf("REQUESTED DEFECTS (%d):\n", len(requested)))
	for i, d := range requested {
		fmt.Fprintf(&b, "%d. %s\n", i+1, generator.Describe(d))
	}

	b.WriteString(`
For each requested defect, determine whether it is present. A defect counts as
present only if the code genuinely exhibits it, not merely because a comment
mentions it.

Respond with ONLY a JSON object in this exact format:
{
  "found_errors": [
    {
      "error_type": "compile_time or style",
      "error_name": "name of the defect as requested",
      "line_number": 42,
      "code_segment": "the exact line exhibiting the defect",
      "explanation": "why this line exhibits the defect"
    }
  ],
  "missing_errors": [
    {
      "error_type": "compile_time or style",
      "error_name": "name of the defect as requested",
      "explanation": "why the defect is absent and how to introduce it"
    }
  ],
  "valid": true,
  "feedback": "one-paragraph overall assessment"
}

Set "valid" to true only when every requested defect is present and no
unrequested defects were introduced.`)

	return b.String()
}

// evaluationSchema constrains providers that support structured output.
func evaluationSchema() map[string]any {
	defectEntry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error_type":   map[string]any{"type": "string"},
			"error_name":   map[string]any{"type": "string"},
			"line_number":  map[string]any{"type": "integer"},
			"code_segment": map[string]any{"type": "string"},
			"explanation":  map[string]any{"type": "string"},
		},
		"required": []string{"error_type", "error_name"},
	}
	missingEntry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"error_type":  map[string]any{"type": "string"},
			"error_name":  map[string]any{"type": "string"},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []string{"error_type", "error_name"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"found_errors":   map[string]any{"type": "array", "items": defectEntry},
			"missing_errors": map[string]any{"type": "array", "items": missingEntry},
			"valid":          map[string]any{"type": "boolean"},
			"feedback":       map[string]any{"type": "string"},
		},
		"required": []string{"found_errors", "missing_errors", "valid"},
	}
}
