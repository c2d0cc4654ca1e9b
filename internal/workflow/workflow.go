// Package workflow is the session state machine: generate, evaluate,
// regenerate within budget, review, analyze, summarize. Transitions
// never partially commit: on failure the prior artifacts are preserved
// and only LastError and the stage reflect what happened.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/evaluator"
	"github.com/javelinlab/javelin/internal/generator"
	"github.com/javelinlab/javelin/internal/llm"
	"github.com/javelinlab/javelin/internal/scoring"
	"github.com/javelinlab/javelin/internal/store"
)

// Engine drives a session through the workflow stages. Safe for use by
// one session at a time; independent sessions need independent States
// but may share an Engine, whose collaborators are all read-only or
// internally synchronized.
type Engine struct {
	cfg       Config
	catalog   *catalog.Catalog
	generator *generator.Generator
	evaluator *evaluator.Evaluator
	scorer    *scoring.Scorer
	provider  llm.Provider
	events    store.EventRepo
	logger    *slog.Logger
}

// Deps are the Engine's collaborators. Provider and Events may be nil;
// a nil provider makes the summary deterministic and a nil event repo
// discards the interaction log.
type Deps struct {
	Catalog   *catalog.Catalog
	Generator *generator.Generator
	Evaluator *evaluator.Evaluator
	Scorer    *scoring.Scorer
	Provider  llm.Provider
	Events    store.EventRepo
	Logger    *slog.Logger
}

// NewEngine wires the workflow collaborators together.
func NewEngine(cfg Config, deps Deps) *Engine {
	if deps.Events == nil {
		deps.Events = store.NopEventRepo{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		catalog:   deps.Catalog,
		generator: deps.Generator,
		evaluator: deps.Evaluator,
		scorer:    deps.Scorer,
		provider:  deps.Provider,
		events:    deps.Events,
		logger:    deps.Logger,
	}
}

// Config returns the engine's tunables.
func (e *Engine) Config() Config { return e.cfg }

// ListCategories exposes the catalog's category trees.
func (e *Engine) ListCategories() catalog.Categories {
	return e.catalog.ListCategories()
}

// GenerateCode samples a defect set and requests a fresh artifact.
// GENERATE → EVALUATE on success. An empty selection or an oracle
// failure records LastError and leaves the stage at GENERATE so the
// call can be retried from the same state.
func (e *Engine) GenerateCode(ctx context.Context, st *State) error {
	if st.Selection.Empty() {
		return e.fail(st, StageGenerate, fmt.Errorf("no defect categories selected"))
	}

	defects := e.catalog.SampleDefects(st.Selection, e.cfg.BaseDefectCount, st.Difficulty)
	if len(defects) == 0 {
		return e.fail(st, StageGenerate, fmt.Errorf("defect catalog has no entries for the selected categories"))
	}

	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	artifact, err := e.generator.Generate(callCtx, generator.Params{
		Length:     st.Length,
		Difficulty: st.Difficulty,
		Domain:     st.Domain,
		Defects:    defects,
	})
	if err != nil {
		return e.fail(st, StageGenerate, err)
	}

	st.Artifact = artifact
	st.Domain = artifact.Domain
	st.Evaluation = nil
	st.EvaluationAttempts = 0
	st.LastError = ""
	e.transition(ctx, st, StageEvaluate, fmt.Sprintf("generated %d-defect artifact", len(defects)))
	return nil
}

// EvaluateCode verifies the current artifact against its requested
// defect set and spends one evaluation attempt. The stage stays at
// EVALUATE; the next stage comes from ShouldRegenerateOrReview.
func (e *Engine) EvaluateCode(ctx context.Context, st *State) error {
	if st.Artifact == nil {
		return e.fail(st, StageEvaluate, fmt.Errorf("no code artifact to evaluate"))
	}

	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	outcome, err := e.evaluator.Verify(callCtx, st.Artifact.AnnotatedSource, st.Artifact.Requested)
	if err != nil {
		return e.fail(st, StageEvaluate, err)
	}

	st.Evaluation = outcome
	st.EvaluationAttempts++
	st.LastError = ""
	e.logger.Info("evaluated artifact",
		"session", st.SessionID,
		"attempt", st.EvaluationAttempts,
		"complete", outcome.IsComplete,
		"missing", len(outcome.Missing))
	return nil
}

// ShouldRegenerateOrReview decides the transition out of EVALUATE.
// Completeness is checked before the attempt budget, and the budget
// before the regenerate default, so the loop always terminates.
func (e *Engine) ShouldRegenerateOrReview(st *State) Stage {
	switch {
	case st.Evaluation != nil && st.Evaluation.IsComplete:
		return StageReview
	case st.EvaluationAttempts >= e.cfg.MaxEvaluationAttempts:
		e.logger.Warn("evaluation attempt budget spent, proceeding with imperfect artifact",
			"session", st.SessionID,
			"attempts", st.EvaluationAttempts)
		return StageReview
	default:
		return StageRegenerate
	}
}

// Advance applies a decided transition, recording it in the event log.
func (e *Engine) Advance(ctx context.Context, st *State, to Stage) {
	e.transition(ctx, st, to, "")
}

// RegenerateCode asks the oracle to repair the artifact using the last
// evaluation's found/missing partition. REGENERATE → EVALUATE on
// success; a failed regeneration falls back to a fresh full generation
// by moving to GENERATE.
func (e *Engine) RegenerateCode(ctx context.Context, st *State) error {
	if st.Artifact == nil || st.Evaluation == nil {
		return e.fail(st, StageRegenerate, fmt.Errorf("regeneration requires a prior artifact and evaluation"))
	}

	found := make([]catalog.DefectSpec, len(st.Evaluation.Found))
	for i, f := range st.Evaluation.Found {
		found[i] = f.Spec
	}

	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	artifact, err := e.generator.Regenerate(callCtx, st.Artifact, st.Evaluation.Missing, found)
	if err != nil {
		st.LastError = err.Error()
		e.transition(ctx, st, StageGenerate, "regeneration failed, falling back to full generation")
		return err
	}

	st.Artifact = artifact
	st.LastError = ""
	e.transition(ctx, st, StageEvaluate, "regenerated artifact")
	return nil
}

// SubmitReview scores a student submission against the ground truth and
// appends it to the review history. REVIEW → ANALYZE.
func (e *Engine) SubmitReview(ctx context.Context, st *State, text string) error {
	if st.Artifact == nil {
		return e.fail(st, StageReview, fmt.Errorf("no code artifact to review"))
	}

	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	analysis, err := e.scorer.Score(callCtx, st.Artifact.CleanSource, st.Artifact.GroundTruth, text)
	if err != nil {
		return e.fail(st, StageReview, err)
	}

	st.Reviews = append(st.Reviews, ReviewAttempt{
		Iteration: st.Iteration,
		Submitted: text,
		Analysis:  analysis,
	})
	st.ReviewSufficient = analysis.IsSufficient
	st.LastError = ""
	e.transition(ctx, st, StageAnalyze,
		fmt.Sprintf("review %d scored %.1f%%", st.Iteration, analysis.IdentifiedPercentage))
	return nil
}

// ShouldContinueOrSummarize decides the transition out of ANALYZE: the
// iteration budget is checked first, then sufficiency, then the review
// loop continues.
func (e *Engine) ShouldContinueOrSummarize(st *State) Stage {
	switch {
	case st.Iteration > e.cfg.MaxIterations:
		return StageSummarize
	case st.ReviewSufficient:
		return StageSummarize
	default:
		return StageReview
	}
}

// AnalyzeReview applies the ANALYZE decision. Moving back to REVIEW
// attaches guidance to the just-scored attempt and increments the
// iteration; moving to SUMMARIZE builds the session summary.
func (e *Engine) AnalyzeReview(ctx context.Context, st *State) (Stage, error) {
	next := e.ShouldContinueOrSummarize(st)
	switch next {
	case StageSummarize:
		e.transition(ctx, st, StageSummarize, "review loop finished")
		st.Summary = e.Summarize(ctx, st)
	default:
		if attempt := st.LatestReview(); attempt != nil && attempt.Analysis != nil {
			callCtx, cancel := e.withTimeout(ctx)
			attempt.Guidance = e.scorer.Guidance(callCtx,
				st.Artifact.CleanSource, attempt.Submitted, attempt.Analysis,
				st.Iteration, e.cfg.MaxIterations)
			cancel()
		}
		st.Iteration++
		e.transition(ctx, st, StageReview, "insufficient review, continuing with guidance")
	}
	return next, nil
}

// fail records a transition failure without touching the session's
// artifacts. Only LastError and the stage change.
func (e *Engine) fail(st *State, stage Stage, err error) error {
	st.LastError = err.Error()
	st.Stage = stage
	e.logger.Error("stage transition failed",
		"session", st.SessionID,
		"stage", string(stage),
		"err", err)
	return err
}

// transition moves the state to the next stage and appends the change
// to the event log. Log failures are warnings, never errors.
func (e *Engine) transition(ctx context.Context, st *State, to Stage, detail string) {
	if err := e.events.AppendStageTransition(ctx, store.StageTransitionEventData{
		SessionID: st.SessionID,
		FromStage: string(st.Stage),
		ToStage:   string(to),
		Detail:    detail,
	}); err != nil {
		e.logger.Warn("failed to record stage transition", "err", err)
	}
	st.Stage = to
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.OracleTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.OracleTimeout)
}
