// Package generator adapts the generation oracle: it requests Java code
// carrying an exact defect set, splits the oracle's answer into annotated
// and clean versions, and locates each defect for the ground truth.
package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/javelinlab/javelin/internal/catalog"
	"github.com/javelinlab/javelin/internal/llm"
)

const (
	generateMaxTokens   = 8192
	generateTemperature = 0.7
)

// Generator drives code generation and regeneration through an LLM
// provider.
type Generator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// New creates a Generator.
func New(provider llm.Provider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, logger: logger}
}

// Params configures one generation request.
type Params struct {
	Length     LengthTier
	Difficulty catalog.Difficulty
	Domain     string // chosen at random when empty
	Defects    []catalog.DefectSpec
}

// Generate requests a fresh exercise from the oracle and assembles the
// CodeArtifact. An oracle failure or an answer without any code block is
// returned as an error for the caller to surface.
func (g *Generator) Generate(ctx context.Context, p Params) (*CodeArtifact, error) {
	domain := p.Domain
	if domain == "" {
		domain = RandomDomain()
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeGeneration)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: generationSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: generationPrompt(p.Length, p.Difficulty, domain, p.Defects)},
		},
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generation oracle: %w", err)
	}

	return g.assemble(string(resp.Content), domain, p.Defects)
}

// Regenerate asks the oracle to repair a prior artifact: add the missing
// defects, keep the found ones, preserve domain and structure. The
// requested set is carried over from the prior artifact unchanged.
func (g *Generator) Regenerate(ctx context.Context, prior *CodeArtifact, missing, found []catalog.DefectSpec) (*CodeArtifact, error) {
	domain := prior.Domain
	if domain == "" {
		domain = InferDomain(prior.CleanSource)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeRegeneration)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: regenerationSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: regenerationPrompt(prior.AnnotatedSource, domain, missing, found)},
		},
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("regeneration oracle: %w", err)
	}

	return g.assemble(string(resp.Content), domain, prior.Requested)
}

func (g *Generator) assemble(raw, domain string, requested []catalog.DefectSpec) (*CodeArtifact, error) {
	annotated, clean := SplitVersions(raw)
	if annotated == "" {
		return nil, fmt.Errorf("oracle response contained no code block")
	}

	enriched := Enrich(annotated, requested)
	located := 0
	for _, d := range enriched {
		if d.Found {
			located++
		}
	}
	g.logger.Debug("assembled code artifact",
		"domain", domain,
		"requested", len(requested),
		"located", located)

	return &CodeArtifact{
		AnnotatedSource: annotated,
		CleanSource:     clean,
		GroundTruth:     GroundTruth(enriched),
		Requested:       requested,
		Enriched:        enriched,
		Domain:          domain,
	}, nil
}
