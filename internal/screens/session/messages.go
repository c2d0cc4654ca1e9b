package session

import (
	"time"

	"github.com/javelinlab/javelin/internal/workflow"
)

// generateDoneMsg is sent when code generation finishes.
type generateDoneMsg struct {
	Err error
}

// evaluateDoneMsg is sent when a verification pass finishes, carrying
// the decided next stage.
type evaluateDoneMsg struct {
	Next workflow.Stage
	Err  error
}

// regenerateDoneMsg is sent when a regeneration attempt finishes.
type regenerateDoneMsg struct {
	Err error
}

// analysisDoneMsg is sent when review scoring and the ANALYZE decision
// finish.
type analysisDoneMsg struct {
	Next workflow.Stage
	Err  error
}

// spinnerTickMsg animates the waiting indicator.
type spinnerTickMsg time.Time
