// Package scoring grades student reviews against the ground truth and
// produces guidance for the next attempt.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/javelinlab/javelin/internal/extract"
	"github.com/javelinlab/javelin/internal/llm"
)

const (
	scoreMaxTokens    = 4096
	scoreTemperature  = 0.2
	guidanceMaxTokens = 1024
)

// Scorer drives review analysis and guidance through an LLM provider.
type Scorer struct {
	provider  llm.Provider
	logger    *slog.Logger
	threshold float64
}

// New creates a Scorer. A non-positive threshold falls back to
// DefaultSufficiencyThreshold.
func New(provider llm.Provider, logger *slog.Logger, threshold float64) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultSufficiencyThreshold
	}
	return &Scorer{provider: provider, logger: logger, threshold: threshold}
}

// Threshold returns the sufficiency threshold in percent.
func (s *Scorer) Threshold() float64 { return s.threshold }

// Score grades a student review of the given code against the ground
// truth. An unavailable or timed-out oracle, or an unusable answer,
// degrades to an all-missed analysis rather than an error so the
// session can continue; only caller cancellation propagates.
func (s *Scorer) Score(ctx context.Context, code string, groundTruth []string, review string) (*ReviewAnalysis, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeReviewAnalysis)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: analysisSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: analysisPrompt(code, groundTruth, review)},
		},
		Schema: &llm.Schema{
			Name:        "review-analysis",
			Description: "Comparison of a student review against known defects",
			Definition:  analysisSchema(),
		},
		MaxTokens:   scoreMaxTokens,
		Temperature: scoreTemperature,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		s.logger.Warn("analysis oracle failed, using fallback analysis", "err", err)
		return s.fallback(groundTruth), nil
	}

	text := string(resp.Content)
	var wire wireAnalysis
	if !extract.JSON(text, &wire, "identified_problems", "review_sufficient") {
		wire = s.salvage(text)
	}
	if len(wire.Identified)+len(wire.Missed) == 0 {
		return s.fallback(groundTruth), nil
	}

	a := &ReviewAnalysis{
		Identified:     wire.Identified,
		Missed:         wire.Missed,
		FalsePositives: wire.FalsePositives,
		QualityScore:   wire.QualityScore,
		Feedback:       wire.Feedback,
	}
	a.finalize(len(groundTruth), s.threshold, wire.Sufficient)
	if a.Feedback == "" {
		a.Feedback = "Your review was analyzed against the known defects in the code."
	}
	return a, nil
}

// salvage recovers individual fields when the response as a whole does
// not parse. One malformed list should not void the others.
func (s *Scorer) salvage(text string) wireAnalysis {
	s.logger.Warn("analysis response not parseable, salvaging per field")
	var wire wireAnalysis

	if raw, ok := extract.ArrayField(text, "identified_problems"); ok {
		_ = json.Unmarshal(raw, &wire.Identified)
	}
	if raw, ok := extract.ArrayField(text, "missed_problems"); ok {
		_ = json.Unmarshal(raw, &wire.Missed)
	}
	if raw, ok := extract.ArrayField(text, "false_positives"); ok {
		_ = json.Unmarshal(raw, &wire.FalsePositives)
	}
	if f, ok := extract.FloatField(text, "review_quality_score"); ok {
		wire.QualityScore = f
	}
	if b, ok := extract.BoolField(text, "review_sufficient"); ok {
		wire.Sufficient = &b
	}
	if str, ok := extract.StringField(text, "feedback"); ok {
		wire.Feedback = str
	}
	return wire
}

// fallback is the analysis of last resort: every known defect counts as
// missed and the review as insufficient.
func (s *Scorer) fallback(groundTruth []string) *ReviewAnalysis {
	a := &ReviewAnalysis{
		Feedback: "Your review could not be analyzed automatically. Try describing each problem you see with its line number and the kind of defect it is.",
	}
	for _, gt := range groundTruth {
		a.Missed = append(a.Missed, MissedProblem{
			Problem: gt,
			Hint:    "Re-read the code with this category of problem in mind.",
		})
	}
	insufficient := false
	a.finalize(len(groundTruth), s.threshold, &insufficient)
	return a
}

// Guidance produces 3-4 sentences of coaching for the next attempt. On
// oracle failure it degrades to a templated count summary.
func (s *Scorer) Guidance(ctx context.Context, code, review string, a *ReviewAnalysis, iteration, maxIterations int) string {
	ctx = llm.WithPurpose(ctx, llm.PurposeGuidance)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: guidanceSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: guidancePrompt(code, review, a, iteration, maxIterations)},
		},
		MaxTokens:   guidanceMaxTokens,
		Temperature: 0.7,
	})
	if err != nil || len(resp.Content) == 0 {
		s.logger.Warn("guidance oracle unavailable, using templated guidance", "err", err)
		return templatedGuidance(a)
	}
	return string(resp.Content)
}

func templatedGuidance(a *ReviewAnalysis) string {
	if a.IdentifiedCount == 0 {
		return fmt.Sprintf("You haven't found any of the %d problems yet. Read the code line by line and note anything that looks wrong, naming the line number and what kind of problem it is.", a.TotalCount)
	}
	remaining := a.TotalCount - a.IdentifiedCount
	return fmt.Sprintf("Good work so far: you found %d of %d problems. There are %d more to find. Look again at areas you skimmed, and check both correctness issues and code style.", a.IdentifiedCount, a.TotalCount, remaining)
}
