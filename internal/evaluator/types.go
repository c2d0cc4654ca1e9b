package evaluator

import (
	"strings"

	"github.com/javelinlab/javelin/internal/catalog"
)

// FoundDefect is one requested defect the verification oracle confirmed
// in the annotated source, with its location evidence.
type FoundDefect struct {
	Spec        catalog.DefectSpec
	LineNumber  int
	CodeSegment string
	Explanation string
}

// Outcome is the result of verifying an artifact against its requested
// defect set. IsComplete is recomputed locally from Missing and never
// taken from the oracle's own validity claim.
type Outcome struct {
	Found      []FoundDefect
	Missing    []catalog.DefectSpec
	IsComplete bool
	Feedback   string
}

// wire mirrors the JSON shape the verification oracle is asked for.
type wireEvaluation struct {
	FoundErrors []struct {
		ErrorType   string `json:"error_type"`
		ErrorName   string `json:"error_name"`
		LineNumber  int    `json:"line_number"`
		CodeSegment string `json:"code_segment"`
		Explanation string `json:"explanation"`
	} `json:"found_errors"`
	MissingErrors []struct {
		ErrorType   string `json:"error_type"`
		ErrorName   string `json:"error_name"`
		Explanation string `json:"explanation"`
	} `json:"missing_errors"`
	Valid    bool   `json:"valid"`
	Feedback string `json:"feedback"`
}

// wireKind maps the oracle's free-form error_type strings onto a defect
// tree. Unrecognized strings match either tree so a sloppy label does
// not sink an otherwise correct confirmation.
func wireKind(errorType string) (catalog.Kind, bool) {
	t := strings.ToLower(strings.TrimSpace(errorType))
	switch {
	case strings.Contains(t, "compile"), strings.Contains(t, "build"),
		strings.Contains(t, "runtime"), strings.Contains(t, "logic"):
		return catalog.KindCompileTime, true
	case strings.Contains(t, "style"), strings.Contains(t, "checkstyle"):
		return catalog.KindStyle, true
	}
	return "", false
}
