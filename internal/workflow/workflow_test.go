package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/evaluator"
	"github.com/javelinlab/javelin/internal/generator"
	"github.com/javelinlab/javelin/internal/llm"
	"github.com/javelinlab/javelin/internal/scoring"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestEngine builds an engine whose three adapters share one mock
// provider, so canned responses are consumed in call order.
func newTestEngine(cfg Config, mock *llm.MockProvider) *Engine {
	logger := testLogger()
	return NewEngine(cfg, Deps{
		Catalog:   catalog.Load(catalog.NewLocator(), logger),
		Generator: generator.New(mock, logger),
		Evaluator: evaluator.New(mock, logger),
		Scorer:    scoring.New(mock, logger, cfg.SufficiencyThreshold),
		Logger:    logger,
	})
}

const generationResponse = "```java-annotated\n" +
	"public class Account {\n" +
	"    // ERROR: [COMPILE_TIME] - Null pointer dereference - balance never initialized\n" +
	"    private Balance balance;\n" +
	"}\n" +
	"```\n" +
	"```java-clean\n" +
	"public class Account {\n" +
	"    private Balance balance;\n" +
	"}\n" +
	"```\n"

func fixedArtifact() *generator.CodeArtifact {
	requested := []catalog.DefectSpec{
		{Kind: catalog.KindCompileTime, Category: "RuntimeErrors", Name: "Null pointer dereference", Description: "deref"},
		{Kind: catalog.KindStyle, Category: "CodeQualityChecks", Name: "Magic number", Description: "bare literal"},
	}
	return &generator.CodeArtifact{
		AnnotatedSource: "class A {}",
		CleanSource:     "class A {}",
		GroundTruth: []string{
			"Compile-Time Defect - Null pointer dereference: deref (Category: RuntimeErrors)",
			"Style Defect - Magic number: bare literal (Category: CodeQualityChecks)",
		},
		Requested: requested,
		Domain:    "banking",
	}
}

// incompleteEvaluation confirms only the first requested defect.
const incompleteEvaluation = `{
	"found_errors": [
		{"error_type": "compile_time", "error_name": "Null pointer dereference", "line_number": 2}
	],
	"missing_errors": [
		{"error_type": "style", "error_name": "Magic number", "explanation": "absent"}
	],
	"valid": false,
	"feedback": "one defect missing"
}`

const completeEvaluation = `{
	"found_errors": [
		{"error_type": "compile_time", "error_name": "Null pointer dereference", "line_number": 2},
		{"error_type": "style", "error_name": "Magic number", "line_number": 4}
	],
	"missing_errors": [],
	"valid": true,
	"feedback": "all present"
}`

func TestGenerateCode_MovesToEvaluate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(generationResponse)})
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy,
		catalog.Selection{CompileTime: []string{"RuntimeErrors"}})

	if err := e.GenerateCode(context.Background(), st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Stage != StageEvaluate {
		t.Errorf("stage = %s, want EVALUATE", st.Stage)
	}
	if st.Artifact == nil || st.EvaluationAttempts != 0 || st.LastError != "" {
		t.Errorf("state not reset for evaluation: %+v", st)
	}
}

func TestGenerateCode_EmptySelection(t *testing.T) {
	mock := llm.NewMockProvider()
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy, catalog.Selection{})

	if err := e.GenerateCode(context.Background(), st); err == nil {
		t.Fatal("expected configuration error")
	}
	if st.Stage != StageGenerate {
		t.Errorf("stage = %s, want GENERATE", st.Stage)
	}
	if st.LastError == "" {
		t.Error("expected LastError to be set")
	}
	if mock.CallCount() != 0 {
		t.Error("no oracle call should be made without a selection")
	}
}

// Evaluating the same unmodified state twice with the same canned answer
// yields the same outcome and spends exactly one attempt per call.
func TestEvaluateCode_IdempotentRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(incompleteEvaluation)},
		llm.MockResponse{Content: json.RawMessage(incompleteEvaluation)},
	)
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy,
		catalog.Selection{CompileTime: []string{"RuntimeErrors"}})
	st.Artifact = fixedArtifact()
	st.Stage = StageEvaluate

	if err := e.EvaluateCode(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	first := st.Evaluation
	if st.EvaluationAttempts != 1 {
		t.Fatalf("attempts = %d, want 1", st.EvaluationAttempts)
	}

	if err := e.EvaluateCode(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	if st.EvaluationAttempts != 2 {
		t.Fatalf("attempts = %d, want 2", st.EvaluationAttempts)
	}
	if len(st.Evaluation.Found) != len(first.Found) || len(st.Evaluation.Missing) != len(first.Missing) ||
		st.Evaluation.IsComplete != first.IsComplete {
		t.Error("identical oracle answers must yield identical outcomes")
	}
}

func TestShouldRegenerateOrReview_GuardOrder(t *testing.T) {
	e := newTestEngine(DefaultConfig(), llm.NewMockProvider())
	st := NewState(generator.LengthShort, catalog.DifficultyEasy, catalog.Selection{})

	// Complete evaluation wins regardless of spent attempts.
	st.Evaluation = &evaluator.Outcome{IsComplete: true}
	st.EvaluationAttempts = 99
	if got := e.ShouldRegenerateOrReview(st); got != StageReview {
		t.Errorf("complete artifact: got %s, want REVIEW", got)
	}

	// Incomplete with budget remaining regenerates.
	st.Evaluation = &evaluator.Outcome{IsComplete: false}
	st.EvaluationAttempts = 1
	if got := e.ShouldRegenerateOrReview(st); got != StageRegenerate {
		t.Errorf("budget remaining: got %s, want REGENERATE", got)
	}

	// Spent budget forces review with the imperfect artifact.
	st.EvaluationAttempts = 3
	if got := e.ShouldRegenerateOrReview(st); got != StageReview {
		t.Errorf("budget spent: got %s, want REVIEW", got)
	}
}

// With an oracle that always reports incomplete, three evaluation
// attempts exhaust the budget and the session proceeds to review.
func TestAttemptBudgetTermination(t *testing.T) {
	mock := llm.NewMockProvider()
	for range 3 {
		mock.AddResponse(llm.MockResponse{Content: json.RawMessage(incompleteEvaluation)})
		mock.AddResponse(llm.MockResponse{Content: json.RawMessage(generationResponse)})
	}
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy,
		catalog.Selection{CompileTime: []string{"RuntimeErrors"}})
	st.Artifact = fixedArtifact()
	st.Stage = StageEvaluate

	for i := 0; i < 10; i++ {
		if err := e.EvaluateCode(context.Background(), st); err != nil {
			t.Fatal(err)
		}
		next := e.ShouldRegenerateOrReview(st)
		if next == StageReview {
			break
		}
		e.Advance(context.Background(), st, next)
		if err := e.RegenerateCode(context.Background(), st); err != nil {
			t.Fatal(err)
		}
	}

	if st.EvaluationAttempts != 3 {
		t.Errorf("attempts = %d, want 3", st.EvaluationAttempts)
	}
	if got := e.ShouldRegenerateOrReview(st); got != StageReview {
		t.Errorf("after spent budget: got %s, want REVIEW", got)
	}
}

func TestRegenerateCode_FailureFallsBackToGenerate(t *testing.T) {
	// Empty queue: the provider reports unavailable and the retry
	// middleware is not in play.
	mock := llm.NewMockProvider()
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy,
		catalog.Selection{CompileTime: []string{"RuntimeErrors"}})
	st.Artifact = fixedArtifact()
	st.Evaluation = &evaluator.Outcome{
		Missing: fixedArtifact().Requested[1:],
	}
	st.Stage = StageRegenerate

	if err := e.RegenerateCode(context.Background(), st); err == nil {
		t.Fatal("expected error")
	}
	if st.Stage != StageGenerate {
		t.Errorf("stage = %s, want GENERATE fallback", st.Stage)
	}
	if st.Artifact == nil {
		t.Error("prior artifact must be preserved on failure")
	}
}

func TestSubmitReview_SufficientGoesToSummarize(t *testing.T) {
	// The review identifies both ground-truth defects.
	analysis := `{
		"identified_problems": [
			{"problem": "Null pointer dereference", "student_comment": "line 2"},
			{"problem": "Magic number", "student_comment": "line 4"}
		],
		"missed_problems": [],
		"false_positives": [],
		"review_quality_score": 8.0,
		"feedback": "strong review"
	}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(analysis)})
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy, catalog.Selection{})
	st.Artifact = fixedArtifact()
	st.Stage = StageReview

	if err := e.SubmitReview(context.Background(), st, "null on line 2, magic number on line 4"); err != nil {
		t.Fatal(err)
	}
	if st.Stage != StageAnalyze {
		t.Fatalf("stage = %s, want ANALYZE", st.Stage)
	}
	if !st.ReviewSufficient {
		t.Fatal("100 percent identified must be sufficient")
	}

	next, err := e.AnalyzeReview(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if next != StageSummarize || st.Stage != StageSummarize {
		t.Errorf("next = %s, stage = %s, want SUMMARIZE", next, st.Stage)
	}
	if st.Summary == "" {
		t.Error("expected a summary report")
	}
	if st.Iteration != 1 {
		t.Errorf("iteration = %d, sufficiency must end the loop before max iterations", st.Iteration)
	}
}

func TestAnalyzeReview_InsufficientContinuesWithGuidance(t *testing.T) {
	analysis := `{
		"identified_problems": [],
		"missed_problems": [
			{"problem": "Null pointer dereference", "hint": "look at field init"},
			{"problem": "Magic number", "hint": "look at literals"}
		],
		"false_positives": []
	}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(analysis)},
		llm.MockResponse{Content: json.RawMessage("Look closer at how fields are initialized.")},
	)
	e := newTestEngine(DefaultConfig(), mock)

	st := NewState(generator.LengthShort, catalog.DifficultyEasy, catalog.Selection{})
	st.Artifact = fixedArtifact()
	st.Stage = StageReview

	if err := e.SubmitReview(context.Background(), st, "looks fine to me"); err != nil {
		t.Fatal(err)
	}
	next, err := e.AnalyzeReview(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if next != StageReview || st.Stage != StageReview {
		t.Errorf("next = %s, stage = %s, want REVIEW", next, st.Stage)
	}
	if st.Iteration != 2 {
		t.Errorf("iteration = %d, want 2", st.Iteration)
	}
	if got := st.Reviews[0].Guidance; !strings.Contains(got, "Look closer") {
		t.Errorf("guidance = %q", got)
	}
}

func TestShouldContinueOrSummarize_IterationBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 3
	e := newTestEngine(cfg, llm.NewMockProvider())

	st := NewState(generator.LengthShort, catalog.DifficultyEasy, catalog.Selection{})
	st.ReviewSufficient = false

	st.Iteration = 3
	if got := e.ShouldContinueOrSummarize(st); got != StageReview {
		t.Errorf("at the budget: got %s, want REVIEW", got)
	}
	st.Iteration = 4
	if got := e.ShouldContinueOrSummarize(st); got != StageSummarize {
		t.Errorf("over the budget: got %s, want SUMMARIZE", got)
	}
}

func TestNewState(t *testing.T) {
	st := NewState(generator.LengthMedium, catalog.DifficultyHard,
		catalog.Selection{Style: []string{"CodeQualityChecks"}})
	if st.SessionID == "" {
		t.Error("expected a session ID")
	}
	if st.Stage != StageGenerate || st.Iteration != 1 {
		t.Errorf("fresh state: stage=%s iteration=%d", st.Stage, st.Iteration)
	}
}
