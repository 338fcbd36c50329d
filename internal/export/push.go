package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/pkg/salesforce"
)

// PushResult summarises a Salesforce push.
type PushResult struct {
	Inserted  int      `json:"inserted"`
	Failed    int      `json:"failed"`
	Duplicate int      `json:"duplicate"`
	Errors    []string `json:"errors,omitempty"`
}

// PushSalesforce inserts analyses as Lead records. Leads whose email already
// exists in Salesforce, or repeats an earlier lead in the same push, are
// counted as duplicates and not inserted.
func PushSalesforce(ctx context.Context, c salesforce.Client, analyses []model.LeadAnalysis) (*PushResult, error) {
	res := &PushResult{}
	if len(analyses) == 0 {
		return res, nil
	}

	emails := make([]string, len(analyses))
	for i, a := range analyses {
		emails[i] = a.Lead.ContactEmail
	}
	existing, err := salesforce.FindLeadsByEmail(ctx, c, emails)
	if err != nil {
		return nil, &model.ExportError{Target: TargetSalesforce, Err: err}
	}

	seen := make(map[string]bool, len(analyses))
	records := make([]map[string]any, 0, len(analyses))
	for _, a := range analyses {
		key := strings.ToLower(strings.TrimSpace(a.Lead.ContactEmail))
		if _, dup := existing[key]; dup || (key != "" && seen[key]) {
			res.Duplicate++
			continue
		}
		seen[key] = true
		rec := salesforceRecord(a)
		rec["FirstName"], rec["LastName"] = splitName(a.Lead.ContactName)
		records = append(records, rec)
	}

	results, err := salesforce.InsertLeads(ctx, c, records)
	for _, r := range results {
		if r.Success {
			res.Inserted++
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, r.Errors...)
	}
	if err != nil {
		return res, &model.ExportError{Target: TargetSalesforce, Err: eris.Wrap(err, "export: push leads")}
	}

	zap.L().Info("export: salesforce push complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("failed", res.Failed),
		zap.Int("duplicate", res.Duplicate),
	)
	return res, nil
}

// splitName splits a contact name into first and last. Salesforce requires
// LastName, so an empty name yields "Unknown".
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", "Unknown"
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}
