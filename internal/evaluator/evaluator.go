// Package evaluator verifies that generated Java code actually contains
// the defect set it was requested with. The verification oracle's own
// validity claim is advisory only: completeness is always recomputed
// locally from the missing set.
package evaluator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/extract"
	"github.com/javelinlab/javelin/internal/llm"
)

const (
	verifyMaxTokens   = 4096
	verifyTemperature = 0.2
)

// Evaluator checks artifacts against their requested defect sets.
type Evaluator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// New creates an Evaluator.
func New(provider llm.Provider, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{provider: provider, logger: logger}
}

// Verify asks the oracle whether each requested defect is present in the
// annotated source and reconciles the answer against the requested set.
// Confirmations for defects nobody requested are discarded. An
// unavailable or timed-out oracle, or an unparseable answer, degrades
// to a deterministic name match against the source, never an error;
// only caller cancellation propagates.
func (e *Evaluator) Verify(ctx context.Context, annotated string, requested []catalog.DefectSpec) (*Outcome, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeVerification)
	resp, err := e.provider.Generate(ctx, llm.Request{
		System: verificationSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: evaluationPrompt(annotated, requested)},
		},
		Schema: &llm.Schema{
			Name:        "defect-evaluation",
			Description: "Per-defect verification of an annotated Java exercise",
			Definition:  evaluationSchema(),
		},
		MaxTokens:   verifyMaxTokens,
		Temperature: verifyTemperature,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		e.logger.Warn("verification oracle failed, falling back to name match", "err", err)
		return e.nameFallback(annotated, requested), nil
	}

	var wire wireEvaluation
	if !extract.JSON(string(resp.Content), &wire, "found_errors", "valid") {
		e.logger.Warn("verification response not parseable, falling back to name match")
		return e.nameFallback(annotated, requested), nil
	}

	return e.reconcile(&wire, requested), nil
}

// reconcile maps the oracle's found entries onto the requested set. Each
// requested defect is claimed by at most one confirmation, and anything
// the oracle found that was never requested is dropped.
func (e *Evaluator) reconcile(wire *wireEvaluation, requested []catalog.DefectSpec) *Outcome {
	claimed := make([]bool, len(requested))
	out := &Outcome{Feedback: wire.Feedback}

	for _, fe := range wire.FoundErrors {
		idx := -1
		for i, spec := range requested {
			if claimed[i] {
				continue
			}
			if matchesSpec(spec, fe.ErrorType, fe.ErrorName) {
				idx = i
				break
			}
		}
		if idx < 0 {
			e.logger.Debug("discarding unrequested confirmation",
				"name", fe.ErrorName, "type", fe.ErrorType)
			continue
		}
		claimed[idx] = true
		out.Found = append(out.Found, FoundDefect{
			Spec:        requested[idx],
			LineNumber:  fe.LineNumber,
			CodeSegment: fe.CodeSegment,
			Explanation: fe.Explanation,
		})
	}

	for i, spec := range requested {
		if !claimed[i] {
			out.Missing = append(out.Missing, spec)
		}
	}
	out.IsComplete = len(out.Missing) == 0

	if wire.Valid != out.IsComplete {
		e.logger.Warn("oracle validity claim disagrees with reconciliation",
			"oracle_valid", wire.Valid,
			"is_complete", out.IsComplete,
			"missing", len(out.Missing))
	}
	return out
}

// nameFallback is the outcome of last resort: a requested defect counts
// as found iff its name appears in the source, case-insensitively.
// Weaker than an oracle pass, but deterministic.
func (e *Evaluator) nameFallback(annotated string, requested []catalog.DefectSpec) *Outcome {
	out := &Outcome{
		Feedback: "Automatic verification was unavailable; defect presence was checked by name only.",
	}
	lines := strings.Split(annotated, "\n")
	for _, spec := range requested {
		name := strings.ToLower(spec.Name)
		line, segment := 0, ""
		for i, l := range lines {
			if name != "" && strings.Contains(strings.ToLower(l), name) {
				line, segment = i+1, strings.TrimSpace(l)
				break
			}
		}
		if line == 0 {
			out.Missing = append(out.Missing, spec)
			continue
		}
		out.Found = append(out.Found, FoundDefect{
			Spec:        spec,
			LineNumber:  line,
			CodeSegment: segment,
		})
	}
	out.IsComplete = len(out.Missing) == 0
	return out
}

func matchesSpec(spec catalog.DefectSpec, errorType, errorName string) bool {
	if kind, known := wireKind(errorType); known && kind != spec.Kind {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(errorName))
	b := strings.ToLower(spec.Name)
	if a == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
