package workflow

import (
	"time"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/scoring"
)

// Config carries the session tunables.
type Config struct {
	// MaxEvaluationAttempts bounds the regeneration loop. Once spent,
	// the session proceeds to review with the artifact as-is.
	MaxEvaluationAttempts int

	// MaxIterations bounds the review loop.
	MaxIterations int

	// BaseDefectCount is the pre-difficulty-adjustment defect count.
	BaseDefectCount int

	// SufficiencyThreshold is the identified percentage at or above
	// which a review ends the loop.
	SufficiencyThreshold float64

	// OracleTimeout caps each oracle call. Zero means no timeout.
	OracleTimeout time.Duration
}

// DefaultConfig returns the standard session tunables.
func DefaultConfig() Config {
	return Config{
		MaxEvaluationAttempts: 3,
		MaxIterations:         3,
		BaseDefectCount:       catalog.DefaultBaseCount,
		SufficiencyThreshold:  scoring.DefaultSufficiencyThreshold,
		OracleTimeout:         60 * time.Second,
	}
}
