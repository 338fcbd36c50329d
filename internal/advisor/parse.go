package advisor

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/internal/scorer"
)

// ErrMalformed marks a reply that does not match the adjustment contract.
var ErrMalformed = eris.New("advisor: malformed response")

// MissingReasoning replaces an absent or blank reasoning field.
const MissingReasoning = "No reasoning provided by AI analysis."

// CleanJSON extracts a JSON object from text that may carry markdown code
// fences or surrounding prose.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

type reply struct {
	Adjustment json.RawMessage `json:"adjustment"`
	Reasoning  string          `json:"reasoning"`
	Actions    []any           `json:"actions"`
}

// ParseAdjustment validates a model reply. The adjustment must be a finite
// number or numeric string; it is clamped to [-15, 15]. Missing reasoning is
// replaced with a placeholder and blank actions are dropped.
func ParseAdjustment(text string) (model.AIAdjustment, error) {
	body := CleanJSON(text)
	if body == "" {
		return model.AIAdjustment{}, eris.Wrap(ErrMalformed, "empty content")
	}

	var r reply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return model.AIAdjustment{}, eris.Wrapf(ErrMalformed, "decode: %v", err)
	}

	v, err := parseNumber(r.Adjustment)
	if err != nil {
		return model.AIAdjustment{}, err
	}

	reasoning := strings.TrimSpace(r.Reasoning)
	if reasoning == "" {
		reasoning = MissingReasoning
	}

	actions := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		s, ok := a.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			actions = append(actions, s)
		}
	}

	return model.AIAdjustment{
		Value:     scorer.ClampAdjustment(v),
		Reasoning: reasoning,
		Actions:   actions,
	}, nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, eris.Wrap(ErrMalformed, "adjustment missing")
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, eris.Wrap(ErrMalformed, "adjustment is not a number")
		}
		v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, eris.Wrap(ErrMalformed, "adjustment is not a number")
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrap(ErrMalformed, "adjustment is not finite")
	}
	return v, nil
}
