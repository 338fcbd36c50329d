// Package scorer implements deterministic seven-factor lead scoring and
// final score classification.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Weights are the fixed per-factor multipliers of the rule score.
type Weights struct {
	CompanySize       float64
	Engagement        float64
	BudgetFit         float64
	DecisionAuthority float64
	Timeline          float64
	DataQuality       float64
	Behavioral        float64
}

// DefaultWeights returns the production weight table. Weights sum to 1.
func DefaultWeights() Weights {
	return Weights{
		CompanySize:       0.20,
		Engagement:        0.25,
		BudgetFit:         0.15,
		DecisionAuthority: 0.15,
		Timeline:          0.10,
		DataQuality:       0.10,
		Behavioral:        0.05,
	}
}

// Sum returns the total of all factor weights.
func (w Weights) Sum() float64 {
	return w.CompanySize + w.Engagement + w.BudgetFit + w.DecisionAuthority +
		w.Timeline + w.DataQuality + w.Behavioral
}

const weightTolerance = 1e-9

// ValidateWeights checks that every weight is non-negative and the table sums to 1.
func ValidateWeights(w Weights) error {
	var errs []string

	named := []struct {
		name string
		v    float64
	}{
		{"company_size", w.CompanySize},
		{"engagement", w.Engagement},
		{"budget_fit", w.BudgetFit},
		{"decision_authority", w.DecisionAuthority},
		{"timeline", w.Timeline},
		{"data_quality", w.DataQuality},
		{"behavioral", w.Behavioral},
	}
	for _, n := range named {
		if n.v < 0 || math.IsNaN(n.v) {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", n.name))
		}
	}

	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		errs = append(errs, fmt.Sprintf("weights must sum to 1, got %.6f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
