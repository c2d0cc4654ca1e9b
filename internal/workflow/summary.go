package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/javelinlab/javelin/internal/llm"
	"github.com/javelinlab/javelin/internal/scoring"
)

const summaryMaxTokens = 2048

const summarySystem = `You are a Java instructor writing a closing report for a code review
training session. You receive the attempt-by-attempt results. Write an
encouraging markdown report: a progress table, what the student
ultimately found and missed, and two or three concrete tips for their
next session. Do not invent defects that are not in the data.`

// Summarize produces the end-of-session markdown report. With no
// provider, or when the oracle fails, the report is assembled locally
// from the review history.
func (e *Engine) Summarize(ctx context.Context, st *State) string {
	if e.provider == nil {
		return staticSummary(st)
	}

	callCtx, cancel := e.withTimeout(ctx)
	defer cancel()
	callCtx = llm.WithPurpose(callCtx, llm.PurposeSummary)

	resp, err := e.provider.Generate(callCtx, llm.Request{
		System: summarySystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: summaryPrompt(st)},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.5,
	})
	if err != nil || len(resp.Content) == 0 {
		e.logger.Warn("summary oracle unavailable, using static report", "err", err)
		return staticSummary(st)
	}
	return string(resp.Content)
}

func summaryPrompt(st *State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The session had %d review attempt(s) against %d known defects.\n\n",
		len(st.Reviews), totalDefects(st))
	for _, r := range st.Reviews {
		a := r.Analysis
		if a == nil {
			continue
		}
		fmt.Fprintf(&b, "ATTEMPT %d: found %d of %d (%.1f%%), quality %.1f/10\n",
			r.Iteration, a.IdentifiedCount, a.TotalCount, a.IdentifiedPercentage, a.QualityScore)
		for _, p := range a.Identified {
			fmt.Fprintf(&b, "  identified: %s\n", p.Problem)
		}
		for _, p := range a.Missed {
			fmt.Fprintf(&b, "  missed: %s\n", p.Problem)
		}
		for _, p := range a.FalsePositives {
			fmt.Fprintf(&b, "  false positive: %s\n", p.StudentComment)
		}
	}
	fmt.Fprintf(&b, "\nFinal verdict: sufficient=%v\n", st.ReviewSufficient)
	b.WriteString("\nWrite the markdown report.")
	return b.String()
}

// staticSummary is the deterministic report used when no oracle is
// available.
func staticSummary(st *State) string {
	var b strings.Builder
	b.WriteString("# Code Review Session Summary\n\n")

	if len(st.Reviews) == 0 {
		b.WriteString("No reviews were submitted this session.\n")
		return b.String()
	}

	b.WriteString("## Progress\n\n")
	b.WriteString("| Attempt | Issues Found | Accuracy |\n")
	b.WriteString("|---------|--------------|----------|\n")
	for _, r := range st.Reviews {
		if r.Analysis == nil {
			continue
		}
		fmt.Fprintf(&b, "| %d | %d/%d | %.1f%% |\n",
			r.Iteration, r.Analysis.IdentifiedCount, r.Analysis.TotalCount,
			r.Analysis.IdentifiedPercentage)
	}

	last := st.LatestReview()
	if last != nil && last.Analysis != nil {
		a := last.Analysis

		if len(a.Identified) > 0 {
			b.WriteString("\n## ✅ Issues You Identified\n\n")
			for _, p := range a.Identified {
				fmt.Fprintf(&b, "- %s\n", p.Problem)
			}
		}
		if len(a.Missed) > 0 {
			b.WriteString("\n## ❌ Issues You Missed\n\n")
			for _, p := range a.Missed {
				fmt.Fprintf(&b, "- %s\n", p.Problem)
			}
		}
		if len(a.FalsePositives) > 0 {
			b.WriteString("\n## ⚠️ Things That Were Not Defects\n\n")
			for _, p := range a.FalsePositives {
				fmt.Fprintf(&b, "- %s\n", p.StudentComment)
			}
		}

		if tips := missedTips(a.Missed); len(tips) > 0 {
			b.WriteString("\n## Tips for Next Time\n\n")
			for _, tip := range tips {
				fmt.Fprintf(&b, "- %s\n", tip)
			}
		}
	}

	if delta := improvementDelta(st); delta > 0 {
		fmt.Fprintf(&b, "\n## New Issues Found\n\nYou found %d more issue(s) in your final attempt than in your first. Nice progress.\n", delta)
	}

	b.WriteString("\nTip: describe each problem as `Line X: [Error Type] - Description` to keep your reviews precise.\n")
	return b.String()
}

// missedTips maps missed-defect text onto targeted study tips.
func missedTips(missed []scoring.MissedProblem) []string {
	var tips []string
	seen := map[string]bool{}
	add := func(tip string) {
		if !seen[tip] {
			seen[tip] = true
			tips = append(tips, tip)
		}
	}
	for _, m := range missed {
		text := strings.ToLower(m.Problem)
		switch {
		case strings.Contains(text, "null"):
			add("Check every object reference for a missing null check before it is used.")
		case strings.Contains(text, "name") || strings.Contains(text, "convention"):
			add("Compare identifiers against Java naming conventions: camelCase methods, PascalCase classes, UPPER_CASE constants.")
		case strings.Contains(text, "equals") || strings.Contains(text, "=="):
			add("Remember that == compares references; string content needs .equals().")
		}
	}
	return tips
}

func improvementDelta(st *State) int {
	if len(st.Reviews) < 2 {
		return 0
	}
	first, last := st.Reviews[0].Analysis, st.LatestReview().Analysis
	if first == nil || last == nil {
		return 0
	}
	return last.IdentifiedCount - first.IdentifiedCount
}

func totalDefects(st *State) int {
	if st.Artifact == nil {
		return 0
	}
	return len(st.Artifact.GroundTruth)
}
