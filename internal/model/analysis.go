package model

import "math"

// ScoreBreakdown holds the seven rule sub-scores, each in [0,100].
type ScoreBreakdown struct {
	CompanySize       float64 `json:"company_size" yaml:"company_size"`
	Engagement        float64 `json:"engagement" yaml:"engagement"`
	BudgetFit         float64 `json:"budget_fit" yaml:"budget_fit"`
	DecisionAuthority float64 `json:"decision_authority" yaml:"decision_authority"`
	Timeline          float64 `json:"timeline" yaml:"timeline"`
	DataQuality       float64 `json:"data_quality" yaml:"data_quality"`
	Behavioral        float64 `json:"behavioral" yaml:"behavioral"`
}

// RuleScore is the weighted sum of a ScoreBreakdown. Value is unrounded and
// is what aggregation uses.
type RuleScore struct {
	Value     float64        `json:"value" yaml:"value"`
	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
}

// Rounded returns the rule score rounded to the nearest integer for display.
func (r RuleScore) Rounded() int {
	return int(math.Round(r.Value))
}

// AIAdjustment bounds for Value.
const (
	MinAdjustment = -15.0
	MaxAdjustment = 15.0
)

// AIAdjustment is the bounded correction returned by the reasoning service.
// Degraded marks a fallback produced without a usable AI response.
type AIAdjustment struct {
	Value     float64  `json:"value" yaml:"value"`
	Reasoning string   `json:"reasoning" yaml:"reasoning"`
	Actions   []string `json:"actions" yaml:"actions"`
	Degraded  bool     `json:"degraded" yaml:"degraded"`
}

// Tier is the priority bucket derived from the final score.
type Tier string

const (
	TierHot     Tier = "Hot"
	TierWarm    Tier = "Warm"
	TierCold    Tier = "Cold"
	TierIceCold Tier = "Ice Cold"
)

// LeadAnalysis is the published result for one lead.
type LeadAnalysis struct {
	CustomerName string         `json:"customer_name" yaml:"customer_name"`
	Score        int            `json:"score" yaml:"score"`
	Tier         Tier           `json:"tier" yaml:"tier"`
	RuleScore    float64        `json:"rule_based_score" yaml:"rule_based_score"`
	AIAdjustment float64        `json:"ai_adjustment" yaml:"ai_adjustment"`
	Degraded     bool           `json:"degraded" yaml:"degraded"`
	Reasoning    string         `json:"reason" yaml:"reason"`
	Actions      []string       `json:"actions" yaml:"actions"`
	Breakdown    ScoreBreakdown `json:"score_breakdown" yaml:"score_breakdown"`
	Lead         Lead           `json:"lead_data" yaml:"lead_data"`
}

// SkippedRow records an input row that failed normalization.
type SkippedRow struct {
	Row    int    `json:"row" yaml:"row"` // 1-based row below the header, blank rows counted
	Reason string `json:"reason" yaml:"reason"`
}

// Summary aggregates tier counts over a batch.
type Summary struct {
	Hot          int     `json:"hot_leads" yaml:"hot_leads"`
	Warm         int     `json:"warm_leads" yaml:"warm_leads"`
	Cold         int     `json:"cold_leads" yaml:"cold_leads"`
	IceCold      int     `json:"ice_cold_leads" yaml:"ice_cold_leads"`
	Degraded     int     `json:"degraded_leads" yaml:"degraded_leads"`
	AverageScore float64 `json:"average_score" yaml:"average_score"`
}

// BatchResult is the outcome of analysing one upload.
type BatchResult struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Results    []LeadAnalysis `json:"results" yaml:"results"`
	TotalLeads int            `json:"total_leads" yaml:"total_leads"`
	Skipped    []SkippedRow   `json:"skipped" yaml:"skipped"`
	Summary    Summary        `json:"summary" yaml:"summary"`
}

// Summarize computes tier counts and the average score of analyses.
func Summarize(analyses []LeadAnalysis) Summary {
	var s Summary
	if len(analyses) == 0 {
		return s
	}
	total := 0
	for _, a := range analyses {
		total += a.Score
		if a.Degraded {
			s.Degraded++
		}
		switch a.Tier {
		case TierHot:
			s.Hot++
		case TierWarm:
			s.Warm++
		case TierCold:
			s.Cold++
		default:
			s.IceCold++
		}
	}
	s.AverageScore = math.Round(float64(total)/float64(len(analyses))*10) / 10
	return s
}
