package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/javelinlab/javelin/internal/catalog"
)

// domains is the fixed vocabulary used when the caller supplies no
// domain hint; a realistic setting makes the generated code less sterile.
var domains = []string{
	"user_management", "file_processing", "data_validation",
	"calculation", "inventory_system", "notification_service",
	"logging", "banking", "e-commerce", "student_management",
}

// domainKeywords scores existing code against known domains so a
// regeneration prompt can keep the oracle in the same setting.
var domainKeywords = map[string][]string{
	"student_management":   {"student", "course", "enroll", "grade", "academic"},
	"file_processing":      {"file", "read", "write", "path", "directory"},
	"data_validation":      {"validate", "input", "check", "valid", "sanitize"},
	"calculation":          {"calculate", "compute", "math", "formula", "result"},
	"inventory_system":     {"inventory", "product", "stock", "item", "quantity"},
	"notification_service": {"notify", "message", "alert", "notification", "send"},
	"banking":              {"account", "bank", "transaction", "balance", "deposit"},
	"e-commerce":           {"cart", "product", "order", "payment", "customer"},
}

const defaultDomain = "general_application"

// RandomDomain picks a domain hint uniformly at random.
func RandomDomain() string {
	return domains[rand.IntN(len(domains))]
}

// InferDomain guesses the domain of existing code by keyword scoring,
// falling back to a generic label when nothing scores.
func InferDomain(code string) string {
	lower := strings.ToLower(code)

	best, bestScore := defaultDomain, 0
	for domain, terms := range domainKeywords {
		score := 0
		for _, term := range terms {
			score += strings.Count(lower, term)
		}
		if score > bestScore {
			best, bestScore = domain, score
		}
	}
	return best
}

var complexityByLength = map[LengthTier]string{
	LengthShort:  "1 simple class with 1-2 basic methods (15-30 lines total)",
	LengthMedium: "1 class with 3-5 methods of moderate complexity (40-80 lines total)",
	LengthLong:   "1-2 classes with 4-8 methods and clear relationships (100-150 lines total)",
}

var styleByDifficulty = map[catalog.Difficulty]string{
	catalog.DifficultyEasy: `- Use very descriptive variable and method names
- Keep methods short and focused on a single task
- Make defects relatively obvious so beginners can find them`,
	catalog.DifficultyMedium: `- Mix simple and moderately complex structures
- Balance obvious defects with some that require careful reading
- Create realistic code that might appear in a small application`,
	catalog.DifficultyHard: `- Use sophisticated structures and appropriate design patterns
- Hide defects in logical flow and edge cases that require careful analysis
- Keep the overall structure professional despite the defects`,
}

const generationSystem = "You are an expert Java programming instructor creating educational code " +
	"with specific deliberate defects for students to practice code review skills."

// generationPrompt asks the oracle for code carrying exactly the given
// defect set, in two tagged versions.
func generationPrompt(length LengthTier, difficulty catalog.Difficulty, domain string, defects []catalog.DefectSpec) string {
	complexity, ok := complexityByLength[length]
	if !ok {
		complexity = "1 class with methods"
	}

	var list strings.Builder
	for i, d := range defects {
		fmt.Fprintf(&list, "%d. %s\n", i+1, Describe(d))
		if d.ImplementationGuide != "" {
			fmt.Fprintf(&list, "   Implementation: %s\n", d.ImplementationGuide)
		}
	}

	return fmt.Sprintf(`MAIN TASK:
Generate a %s Java program for a %s system containing EXACTLY %d intentional defects for a code review exercise.

CODE STRUCTURE:
- Create %s
- Make the code realistic and appropriate for a %s application
- Follow standard Java conventions everywhere except the deliberate defects
%s

DEFECT REQUIREMENTS:
- Implement EXACTLY %d defects - no more, no fewer
- Only implement the SPECIFIC defects listed below
- Each defect must be real Java code, not just a comment
- In the annotated version, mark each defect with a comment on its own line:
  %s [KIND] - [NAME] - brief explanation
- Never add comments that fix or apologize for the defects

THE %d DEFECTS TO IMPLEMENT:
%s
OUTPUT FORMAT:
First the annotated version:
`+"```java-annotated"+`
// code with defect marker comments
`+"```"+`
Then the clean version, identical except the marker comments are removed:
`+"```java-clean"+`
// the same code, same defects, no marker comments
`+"```",
		length, domain, len(defects),
		complexity, domain, styleByDifficulty[difficulty],
		len(defects), markerToken,
		len(defects), list.String())
}

const regenerationSystem = "You are an educational Java defect author who intentionally " +
	"introduces specific defects in code for teaching purposes."

// regenerationPrompt asks the oracle to fix up a prior artifact: add the
// missing defects, keep the found ones, change nothing else.
func regenerationPrompt(code, domain string, missing, found []catalog.DefectSpec) string {
	total := len(missing) + len(found)

	missingText := "No missing defects - all requested defects are already implemented."
	if len(missing) > 0 {
		var b strings.Builder
		for _, d := range missing {
			fmt.Fprintf(&b, "- %s\n", Describe(d))
			if d.ImplementationGuide != "" {
				fmt.Fprintf(&b, "  Implementation: %s\n", d.ImplementationGuide)
			}
		}
		missingText = b.String()
	}

	foundText := "No correctly implemented defects found."
	if len(found) > 0 {
		var b strings.Builder
		for _, d := range found {
			fmt.Fprintf(&b, "- %s\n", Describe(d))
		}
		foundText = b.String()
	}

	return fmt.Sprintf(`TASK:
Modify this Java code so it contains EXACTLY %d defects - no more, no fewer.

ORIGINAL CODE DOMAIN: %s

MISSING DEFECTS - intentionally ADD these (do NOT fix or solve them):
%s
EXISTING DEFECTS TO KEEP - do not modify these:
%s
RULES:
1. Keep the %s domain and the original code structure
2. Defects must be actual Java defects, not comments about defects
3. Mark every defect with a comment on its own line: %s [KIND] - [NAME] - brief explanation
4. Never add comments that fix, correct, or apologize for the defects
5. Remove any defects that were not requested

OUTPUT FORMAT:
First the annotated version in a `+"```java-annotated"+` block, then the clean
version (same code, no marker comments) in a `+"```java-clean"+` block.

ORIGINAL CODE:
`+"```java"+`
%s
`+"```",
		total, domain, missingText, foundText, domain, markerToken, code)
}
