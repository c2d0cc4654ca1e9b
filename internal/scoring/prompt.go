package scoring

import (
	"fmt"
	"strings"

	"github.com/javelinlab/javelin/internal/generator"
)

const analysisSystem = `You are an expert Java instructor grading a student's code review.
You receive a piece of Java code, the known defects in it, and the
student's free-text review of that code. Match the review against the
known defects generously on wording but strictly on substance: a defect
counts as identified only when the student clearly describes that
problem, even if their terminology differs. Use the code to check line
numbers and quoted segments. Respond with JSON only.`

func analysisPrompt(code string, groundTruth []string, review string) string {
	var b strings.Builder

	if code != "" {
		b.WriteString("CODE UNDER REVIEW (line numbers as the student saw them):\n```java\n")
		b.WriteString(generator.AddLineNumbers(code))
		b.WriteString("\n```\n\n")
	}

	fmt.Fprintf(&b, "KNOWN DEFECTS IN THE CODE (%d):\n", len(groundTruth))
	for i, gt := range groundTruth {
		fmt.Fprintf(&b, "%d. %s\n", i+1, gt)
	}

	b.WriteString("\nSTUDENT REVIEW:\n\"\"\"\n")
	b.WriteString(review)
	b.WriteString("\n\"\"\"\n")

	b.WriteString(`
Compare the review against the known defects. Respond with ONLY a JSON
object in this exact format:
{
  "identified_problems": [
    {
      "problem": "the known defect, quoted from the list above",
      "student_comment": "the part of the review that identifies it",
      "accuracy": 0.9,
      "feedback": "brief note on how well the student described it"
    }
  ],
  "missed_problems": [
    {
      "problem": "the known defect, quoted from the list above",
      "hint": "a nudge that points at the area without giving the answer away"
    }
  ],
  "false_positives": [
    {
      "student_comment": "a review comment that matches no known defect",
      "explanation": "why this is not one of the known defects"
    }
  ],
  "identified_count": 1,
  "total_problems": ` + fmt.Sprint(len(groundTruth)) + `,
  "identified_percentage": 50.0,
  "review_quality_score": 6.5,
  "review_sufficient": false,
  "feedback": "one-paragraph overall assessment of the review"
}

Every known defect must appear in exactly one of identified_problems or
missed_problems.`)

	return b.String()
}

func analysisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"identified_problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"problem":         map[string]any{"type": "string"},
						"student_comment": map[string]any{"type": "string"},
						"accuracy":        map[string]any{"type": "number"},
						"feedback":        map[string]any{"type": "string"},
					},
					"required": []string{"problem"},
				},
			},
			"missed_problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"problem": map[string]any{"type": "string"},
						"hint":    map[string]any{"type": "string"},
					},
					"required": []string{"problem"},
				},
			},
			"false_positives": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"student_comment": map[string]any{"type": "string"},
						"explanation":     map[string]any{"type": "string"},
					},
					"required": []string{"student_comment"},
				},
			},
			"identified_count":      map[string]any{"type": "integer"},
			"total_problems":        map[string]any{"type": "integer"},
			"identified_percentage": map[string]any{"type": "number"},
			"review_quality_score":  map[string]any{"type": "number"},
			"review_sufficient":     map[string]any{"type": "boolean"},
			"feedback":              map[string]any{"type": "string"},
		},
		"required": []string{"identified_problems", "missed_problems", "false_positives"},
	}
}

const guidanceSystem = `You are a supportive Java instructor coaching a student through a code
review exercise. Write 3-4 sentences of guidance: acknowledge what they
found, then steer them toward the kinds of problems they missed without
naming the exact defects. Be encouraging and concrete.`

func guidancePrompt(code, review string, a *ReviewAnalysis, iteration, maxIterations int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The student is on review attempt %d of %d.\n", iteration, maxIterations)
	fmt.Fprintf(&b, "They identified %d of %d known defects (%.1f%%).\n\n",
		a.IdentifiedCount, a.TotalCount, a.IdentifiedPercentage)

	if code != "" {
		b.WriteString("THE CODE UNDER REVIEW:\n```java\n")
		b.WriteString(code)
		b.WriteString("\n```\n\n")
	}
	if review != "" {
		b.WriteString("THEIR LATEST REVIEW:\n\"\"\"\n")
		b.WriteString(review)
		b.WriteString("\n\"\"\"\n\n")
	}

	if len(a.Identified) > 0 {
		b.WriteString("DEFECTS THEY FOUND:\n")
		for _, p := range a.Identified {
			fmt.Fprintf(&b, "- %s\n", p.Problem)
		}
		b.WriteString("\n")
	}
	if len(a.Missed) > 0 {
		b.WriteString("DEFECTS THEY MISSED (do not name these directly):\n")
		for _, p := range a.Missed {
			fmt.Fprintf(&b, "- %s\n", p.Problem)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Write 3-4 sentences of guidance for their next attempt.

Good guidance sounds like:
"Nice catch on the null check. Now look more closely at how the loop
boundaries are set up, and double-check whether every numeric literal in
the pricing logic deserves a name."

Poor guidance sounds like:
"You missed the off-by-one error on line 12 and the magic number 1.08."`)

	return b.String()
}
