package generator

import (
	"fmt"

	"github.com/javelinlab/javelin/internal/catalog"
)

// LengthTier sizes the generated exercise.
type LengthTier string

const (
	LengthShort  LengthTier = "short"
	LengthMedium LengthTier = "medium"
	LengthLong   LengthTier = "long"
)

// EnrichedDefect is a requested defect augmented with its located
// occurrence in the generated code. Found is false when the marker scan
// could not place the defect.
type EnrichedDefect struct {
	catalog.DefectSpec
	LineNumber  int    // 1-based line in the clean source, best-effort
	CodeSegment string // literal excerpt from the annotated line
	Found       bool
}

// CodeArtifact is one generated exercise. Replaced wholesale on
// regeneration, never mutated in place.
type CodeArtifact struct {
	AnnotatedSource string
	CleanSource     string
	GroundTruth     []string
	Requested       []catalog.DefectSpec
	Enriched        []EnrichedDefect
	Domain          string
}

// Describe renders a defect the way ground-truth lists and oracle
// prompts expect it.
func Describe(d catalog.DefectSpec) string {
	label := "Compile-Time Defect"
	if d.Kind == catalog.KindStyle {
		label = "Style Defect"
	}
	return fmt.Sprintf("%s - %s: %s (Category: %s)", label, d.Name, d.Description, d.Category)
}
