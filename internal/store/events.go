package store

import (
	"context"
	"database/sql"
)

// LLMRequestEventData captures one oracle round-trip for the interaction log.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// StageTransitionEventData records one workflow stage change.
type StageTransitionEventData struct {
	SessionID string
	FromStage string
	ToStage   string
	Detail    string
}

// EventRepo is the append-only interaction log. Append failures must never
// fail the operation being logged.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	AppendStageTransition(ctx context.Context, data StageTransitionEventData) error
	LLMRequestCount(ctx context.Context, purpose string) (int, error)
}

type sqlEventRepo struct {
	db *sql.DB
}

func (r *sqlEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_requests
			(provider, model, purpose, latency_ms, success, input_tokens, output_tokens, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose, data.LatencyMs, boolToInt(data.Success),
		data.InputTokens, data.OutputTokens, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	return err
}

func (r *sqlEventRepo) AppendStageTransition(ctx context.Context, data StageTransitionEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stage_events (session_id, from_stage, to_stage, detail)
		VALUES (?, ?, ?, ?)`,
		data.SessionID, data.FromStage, data.ToStage, data.Detail,
	)
	return err
}

func (r *sqlEventRepo) LLMRequestCount(ctx context.Context, purpose string) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM llm_requests WHERE purpose = ?`, purpose)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NopEventRepo discards all events. Used when no database is configured.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error {
	return nil
}

func (NopEventRepo) AppendStageTransition(context.Context, StageTransitionEventData) error {
	return nil
}

func (NopEventRepo) LLMRequestCount(context.Context, string) (int, error) {
	return 0, nil
}
