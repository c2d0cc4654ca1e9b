package workflow

import (
	"github.com/google/uuid"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/evaluator"
	"github.com/javelinlab/javelin/internal/generator"
	"github.com/javelinlab/javelin/internal/scoring"
)

// Stage is a state of the session workflow.
type Stage string

const (
	StageGenerate   Stage = "GENERATE"
	StageEvaluate   Stage = "EVALUATE"
	StageRegenerate Stage = "REGENERATE"
	StageReview     Stage = "REVIEW"
	StageAnalyze    Stage = "ANALYZE"
	StageSummarize  Stage = "SUMMARIZE"
)

// ReviewAttempt is one student submission with its analysis. Appended to
// the session history in iteration order and never deleted.
type ReviewAttempt struct {
	Iteration int
	Submitted string
	Analysis  *scoring.ReviewAnalysis
	Guidance  string
}

// State is the session root, owned by one exercise session and mutated
// only by Engine transitions. Counters start zeroed; Iteration is
// 1-based and increments after each analyzed-but-insufficient review.
type State struct {
	SessionID  string
	Length     generator.LengthTier
	Difficulty catalog.Difficulty
	Selection  catalog.Selection
	Domain     string

	Stage              Stage
	Artifact           *generator.CodeArtifact
	Evaluation         *evaluator.Outcome
	EvaluationAttempts int

	Reviews          []ReviewAttempt
	Iteration        int
	ReviewSufficient bool
	Summary          string

	LastError string
}

// NewState creates a fresh session state in the GENERATE stage.
func NewState(length generator.LengthTier, difficulty catalog.Difficulty, sel catalog.Selection) *State {
	return &State{
		SessionID:  uuid.NewString(),
		Length:     length,
		Difficulty: difficulty,
		Selection:  sel,
		Stage:      StageGenerate,
		Iteration:  1,
	}
}

// LatestReview returns the most recent review attempt, or nil.
func (s *State) LatestReview() *ReviewAttempt {
	if len(s.Reviews) == 0 {
		return nil
	}
	return &s.Reviews[len(s.Reviews)-1]
}
