// Package session is the active exercise screen. It drives the
// workflow engine through its stages and renders the current snapshot;
// all workflow decisions live in the engine, not here.
package session

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/javelinlab/javelin/internal/router"
	"github.com/javelinlab/javelin/internal/screen"
	summaryscreen "github.com/javelinlab/javelin/internal/screens/summary"
	"github.com/javelinlab/javelin/internal/ui/components"
	"github.com/javelinlab/javelin/internal/ui/layout"
	"github.com/javelinlab/javelin/internal/workflow"
)

type phase int

const (
	phaseGenerating phase = iota
	phaseReview
	phaseScoring
	phaseFeedback
)

// SessionScreen implements screen.Screen for one exercise session.
type SessionScreen struct {
	engine *workflow.Engine
	state  *workflow.State

	phase        phase
	review       components.ReviewArea
	statusLine   string
	errMsg       string
	spinnerFrame int
	width        int
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a session screen for a freshly configured state.
func New(engine *workflow.Engine, state *workflow.State) *SessionScreen {
	return &SessionScreen{
		engine:     engine,
		state:      state,
		phase:      phaseGenerating,
		statusLine: "Generating your Java exercise...",
		review:     components.NewReviewArea("Describe every problem you can find, one per line..."),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.generateCmd(), spinnerTick())
}

func (s *SessionScreen) Title() string {
	return "Code Review"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseReview:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit review"},
			{Key: "Esc", Description: "Abandon"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Abandon"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Abandon"},
		}
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generateDoneMsg:
		return s.handleGenerateDone(msg)

	case evaluateDoneMsg:
		return s.handleEvaluateDone(msg)

	case regenerateDoneMsg:
		return s.handleRegenerateDone(msg)

	case analysisDoneMsg:
		return s.handleAnalysisDone(msg)

	case spinnerTickMsg:
		if s.phase == phaseGenerating || s.phase == phaseScoring {
			s.spinnerFrame++
			return s, spinnerTick()
		}
		return s, nil

	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.review.SetSize(msg.Width-8, 8)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseReview {
		var cmd tea.Cmd
		s.review, cmd = s.review.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		// Any key retries from the stage the failure left us in.
		s.errMsg = ""
		switch s.state.Stage {
		case workflow.StageGenerate:
			s.phase = phaseGenerating
			s.statusLine = "Retrying generation..."
			return s, tea.Batch(s.generateCmd(), spinnerTick())
		default:
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	switch s.phase {
	case phaseReview:
		switch key {
		case "ctrl+s":
			return s.submitReview()
		default:
			var cmd tea.Cmd
			s.review, cmd = s.review.Update(msg)
			return s, cmd
		}

	case phaseFeedback:
		if key == "enter" {
			s.phase = phaseReview
			s.review.Reset()
			return s, s.review.Init()
		}
	}

	return s, nil
}

func (s *SessionScreen) handleGenerateDone(msg generateDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = "Generation failed: " + msg.Err.Error()
		return s, nil
	}
	s.statusLine = "Checking the exercise..."
	return s, s.evaluateCmd()
}

func (s *SessionScreen) handleEvaluateDone(msg evaluateDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = "Verification failed: " + msg.Err.Error()
		return s, nil
	}

	switch msg.Next {
	case workflow.StageRegenerate:
		s.statusLine = "Touching up the exercise..."
		return s, s.regenerateCmd()
	default:
		s.phase = phaseReview
		return s, s.review.Init()
	}
}

func (s *SessionScreen) handleRegenerateDone(msg regenerateDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		// The engine fell back to a fresh generation.
		s.statusLine = "Starting over with a fresh exercise..."
		return s, s.generateCmd()
	}
	s.statusLine = "Re-checking the exercise..."
	return s, s.evaluateCmd()
}

func (s *SessionScreen) handleAnalysisDone(msg analysisDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = "Scoring failed: " + msg.Err.Error()
		s.phase = phaseReview
		return s, nil
	}

	if msg.Next == workflow.StageSummarize {
		return s, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: summaryscreen.New(s.state.Summary),
			}
		}
	}

	s.phase = phaseFeedback
	return s, nil
}

func (s *SessionScreen) submitReview() (screen.Screen, tea.Cmd) {
	text := strings.TrimSpace(s.review.Value())
	if text == "" {
		return s, nil
	}
	s.phase = phaseScoring
	s.statusLine = "Scoring your review..."

	engine, state := s.engine, s.state
	return s, tea.Batch(spinnerTick(), func() tea.Msg {
		if err := engine.SubmitReview(context.Background(), state, text); err != nil {
			return analysisDoneMsg{Err: err}
		}
		next, err := engine.AnalyzeReview(context.Background(), state)
		return analysisDoneMsg{Next: next, Err: err}
	})
}

// generateCmd runs the GENERATE stage asynchronously.
func (s *SessionScreen) generateCmd() tea.Cmd {
	engine, state := s.engine, s.state
	return func() tea.Msg {
		return generateDoneMsg{Err: engine.GenerateCode(context.Background(), state)}
	}
}

// evaluateCmd runs one EVALUATE pass and applies the stage decision.
func (s *SessionScreen) evaluateCmd() tea.Cmd {
	engine, state := s.engine, s.state
	return func() tea.Msg {
		if err := engine.EvaluateCode(context.Background(), state); err != nil {
			return evaluateDoneMsg{Err: err}
		}
		next := engine.ShouldRegenerateOrReview(state)
		engine.Advance(context.Background(), state, next)
		return evaluateDoneMsg{Next: next}
	}
}

func (s *SessionScreen) regenerateCmd() tea.Cmd {
	engine, state := s.engine, s.state
	return func() tea.Msg {
		return regenerateDoneMsg{Err: engine.RegenerateCode(context.Background(), state)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
