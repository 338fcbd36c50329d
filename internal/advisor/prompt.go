package advisor

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/pkg/anthropic"
)

const systemPrompt = `You are an expert B2B sales analyst. You receive one lead together with
a deterministic rule-based score (0-100) and its seven-factor breakdown.
Judge qualitative factors the rules cannot see (pain points, current solution,
title nuance, fit between budget and company size) and return a correction.

Respond with a single JSON object and nothing else:
{"adjustment": <number between -15 and 15>, "reasoning": "<2-3 sentences>", "actions": ["<specific next step>", ...]}

Actions must be concrete, for example:
- "Schedule discovery call within 24 hours - they have an immediate purchase timeline"
- "Send a case study from their industry"
- "Prepare ROI calculator based on their budget range"
Use English only.`

type leadSummary struct {
	Lead      model.Lead           `json:"lead"`
	RuleScore float64              `json:"rule_based_score"`
	Breakdown model.ScoreBreakdown `json:"score_breakdown"`
}

func buildRequest(cfg Config, lead model.Lead, rule model.RuleScore) (anthropic.MessageRequest, error) {
	payload, err := json.MarshalIndent(leadSummary{
		Lead:      lead,
		RuleScore: rule.Value,
		Breakdown: rule.Breakdown,
	}, "", "  ")
	if err != nil {
		return anthropic.MessageRequest{}, eris.Wrap(err, "advisor: marshal lead summary")
	}

	user := fmt.Sprintf("Lead data:\n%s\n\nReturn the JSON object for this lead.", payload)
	return anthropic.MessageRequest{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt, "5m"),
		Messages:  []anthropic.Message{{Role: "user", Content: user}},
	}, nil
}
