package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// MaxBatchSize is the Salesforce Collections API limit per request.
const MaxBatchSize = 200

// emailsPerQuery keeps IN clauses well under the SOQL length limit.
const emailsPerQuery = 100

// Lead is the subset of a Salesforce Lead record used for de-duplication.
type Lead struct {
	ID    string `json:"Id" salesforce:"Id"`
	Email string `json:"Email" salesforce:"Email"`
}

// InsertLeads creates Lead records in batches of MaxBatchSize. Results
// collected before a failing batch are returned along with the error.
func InsertLeads(ctx context.Context, c Client, records []map[string]any) ([]CollectionResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var all []CollectionResult
	for start := 0; start < len(records); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(records))

		results, err := c.InsertCollection(ctx, "Lead", records[start:end])
		if err != nil {
			return all, eris.Wrap(err, fmt.Sprintf("sf: insert leads batch %d-%d", start, end))
		}
		all = append(all, results...)
	}
	return all, nil
}

// FindLeadsByEmail returns the IDs of existing Leads keyed by lower-cased
// email address.
func FindLeadsByEmail(ctx context.Context, c Client, emails []string) (map[string]string, error) {
	found := make(map[string]string)

	uniq := make([]string, 0, len(emails))
	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		uniq = append(uniq, e)
	}

	for start := 0; start < len(uniq); start += emailsPerQuery {
		end := min(start+emailsPerQuery, len(uniq))

		quoted := make([]string, 0, end-start)
		for _, e := range uniq[start:end] {
			quoted = append(quoted, "'"+escapeSoql(e)+"'")
		}
		soql := fmt.Sprintf("SELECT Id, Email FROM Lead WHERE Email IN (%s)", strings.Join(quoted, ", "))

		var leads []Lead
		if err := c.Query(ctx, soql, &leads); err != nil {
			return nil, eris.Wrap(err, "sf: find leads by email")
		}
		for _, l := range leads {
			found[strings.ToLower(l.Email)] = l.ID
		}
	}
	return found, nil
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
