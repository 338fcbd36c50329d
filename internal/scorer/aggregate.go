package scorer

import (
	"math"

	"github.com/revenueradar/radar/internal/model"
)

// Tier lower bounds, inclusive.
const (
	HotThreshold  = 80
	WarmThreshold = 60
	ColdThreshold = 40
)

// FinalScore combines the unrounded rule score with the AI adjustment:
// clamp(round(rule + adjustment), 0, 100).
func FinalScore(rule float64, adjustment float64) int {
	final := int(math.Round(rule + ClampAdjustment(adjustment)))
	return max(0, min(100, final))
}

// Classify maps a final score onto its tier.
func Classify(final int) model.Tier {
	switch {
	case final >= HotThreshold:
		return model.TierHot
	case final >= WarmThreshold:
		return model.TierWarm
	case final >= ColdThreshold:
		return model.TierCold
	default:
		return model.TierIceCold
	}
}

// ClampAdjustment bounds v to [MinAdjustment, MaxAdjustment]. NaN becomes 0.
func ClampAdjustment(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(model.MinAdjustment, math.Min(model.MaxAdjustment, v))
}

// Analyze assembles the published analysis for one lead. Reasoning and
// actions are taken verbatim from adj.
func Analyze(lead model.Lead, rule model.RuleScore, adj model.AIAdjustment) model.LeadAnalysis {
	value := ClampAdjustment(adj.Value)
	final := FinalScore(rule.Value, value)

	actions := make([]string, len(adj.Actions))
	copy(actions, adj.Actions)

	return model.LeadAnalysis{
		CustomerName: customerName(lead),
		Score:        final,
		Tier:         Classify(final),
		RuleScore:    rule.Value,
		AIAdjustment: value,
		Degraded:     adj.Degraded,
		Reasoning:    adj.Reasoning,
		Actions:      actions,
		Breakdown:    rule.Breakdown,
		Lead:         lead,
	}
}

func customerName(lead model.Lead) string {
	if lead.CompanyName != "" {
		return lead.CompanyName
	}
	return lead.ContactName
}
