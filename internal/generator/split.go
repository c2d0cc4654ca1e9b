package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// Marker lines flag deliberate defects inside the annotated source:
//
//	// ERROR: [KIND] - [NAME] - explanation
const markerToken = "// ERROR:"

var (
	annotatedBlockRe = regexp.MustCompile("(?s)```java-annotated\\s*(.*?)\\s*```")
	cleanBlockRe     = regexp.MustCompile("(?s)```java-clean\\s*(.*?)\\s*```")
	// The plain-java fence must not swallow the "-annotated"/"-clean"
	// suffixes of the tagged fences into its capture.
	javaBlockRe = regexp.MustCompile("(?s)```java[ \t\r]*\\n(.*?)\\s*```")
	anyBlockRe  = regexp.MustCompile("(?s)```[\\w-]*[ \t\r]*\\n?(.*?)\\s*```")

	markerLineRe = regexp.MustCompile(`^\s*//\s*ERROR:\s*(.*)$`)
)

// SplitVersions extracts the annotated and clean code versions from raw
// oracle text. Fallback chain: explicitly tagged blocks, then any java
// block, then the largest fenced block of any kind; a missing clean
// version is derived from the annotated one by deleting marker lines.
// Returns ("", "") on empty input.
func SplitVersions(raw string) (annotated, clean string) {
	if raw == "" {
		return "", ""
	}

	if m := annotatedBlockRe.FindStringSubmatch(raw); m != nil {
		annotated = m[1]
	}
	if m := cleanBlockRe.FindStringSubmatch(raw); m != nil {
		clean = m[1]
	}

	if annotated == "" {
		if m := javaBlockRe.FindStringSubmatch(raw); m != nil {
			annotated = m[1]
		} else {
			// Last resort: the largest fenced block under either role.
			for _, m := range anyBlockRe.FindAllStringSubmatch(raw, -1) {
				if len(m[1]) > len(annotated) {
					annotated = m[1]
				}
			}
		}
	}

	if annotated != "" && clean == "" {
		clean = StripMarkers(annotated)
	}
	return annotated, clean
}

// StripMarkers removes every marker line, leaving all other lines
// byte-identical.
func StripMarkers(annotated string) string {
	var kept []string
	for _, line := range strings.Split(annotated, "\n") {
		if markerLineRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// AddLineNumbers renders code with right-aligned 1-based line numbers,
// the format students see during review.
func AddLineNumbers(code string) string {
	lines := strings.Split(code, "\n")
	width := len(fmt.Sprint(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d | %s", width, i+1, line)
	}
	return b.String()
}
