package generator

import (
	"strings"

	"github.com/javelinlab/javelin/internal/catalog"
)

// marker is one parsed defect annotation from the annotated source.
type marker struct {
	kindToken string
	name      string
	note      string
	cleanLine int    // 1-based line in the clean source the marker annotates
	segment   string // the annotated code line itself
	claimed   bool
}

// scanMarkers walks the annotated source and pairs every marker line with
// the next non-marker line, tracking line numbers as they will appear in
// the clean source (markers removed).
func scanMarkers(annotated string) []marker {
	var (
		out       []marker
		pending   []int
		cleanLine int
	)
	for _, line := range strings.Split(annotated, "\n") {
		if m := markerLineRe.FindStringSubmatch(line); m != nil {
			out = append(out, parseMarker(m[1]))
			pending = append(pending, len(out)-1)
			continue
		}
		cleanLine++
		for _, idx := range pending {
			out[idx].cleanLine = cleanLine
			out[idx].segment = strings.TrimSpace(line)
		}
		pending = pending[:0]
	}
	return out
}

// parseMarker splits "[KIND] - [NAME] - explanation" into its parts.
// Brackets are optional; anything short of three parts degrades gracefully.
func parseMarker(content string) marker {
	parts := strings.SplitN(content, " - ", 3)
	mk := marker{}
	switch len(parts) {
	case 3:
		mk.note = strings.TrimSpace(parts[2])
		fallthrough
	case 2:
		mk.kindToken = trimBrackets(parts[0])
		mk.name = trimBrackets(parts[1])
	case 1:
		mk.name = trimBrackets(parts[0])
	}
	return mk
}

func trimBrackets(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.TrimSpace(s)
}

// markerKind maps a marker's kind token onto a catalog tree. Unknown
// tokens match either tree.
func markerKind(token string) (catalog.Kind, bool) {
	switch strings.ToUpper(strings.ReplaceAll(token, "-", "_")) {
	case "COMPILE_TIME", "BUILD", "RUNTIME", "LOGICAL":
		return catalog.KindCompileTime, true
	case "STYLE", "CHECKSTYLE":
		return catalog.KindStyle, true
	}
	return "", false
}

// Enrich locates each requested defect in the annotated source via its
// marker. A defect whose marker is absent or unmatchable comes back with
// Found=false — enrichment is best-effort and never fails.
func Enrich(annotated string, requested []catalog.DefectSpec) []EnrichedDefect {
	markers := scanMarkers(annotated)

	out := make([]EnrichedDefect, len(requested))
	for i, spec := range requested {
		out[i] = EnrichedDefect{DefectSpec: spec}
		for j := range markers {
			if markers[j].claimed || !markerMatches(markers[j], spec) {
				continue
			}
			markers[j].claimed = true
			out[i].LineNumber = markers[j].cleanLine
			out[i].CodeSegment = markers[j].segment
			out[i].Found = true
			break
		}
	}
	return out
}

func markerMatches(mk marker, spec catalog.DefectSpec) bool {
	if kind, known := markerKind(mk.kindToken); known && kind != spec.Kind {
		return false
	}
	name := strings.ToLower(mk.name)
	want := strings.ToLower(spec.Name)
	return name == want || strings.Contains(name, want) || strings.Contains(want, name)
}

// GroundTruth renders the human-readable defect list handed to the
// scoring oracle and the student-facing summary.
func GroundTruth(enriched []EnrichedDefect) []string {
	out := make([]string, len(enriched))
	for i, d := range enriched {
		out[i] = Describe(d.DefectSpec)
	}
	return out
}
