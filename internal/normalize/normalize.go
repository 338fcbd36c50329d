// Package normalize converts untyped uploaded rows into validated leads.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/revenueradar/radar/internal/model"
)

// Lead builds a model.Lead from row. It fails only when the company name or
// contact email is missing; every other malformed cell falls back to its
// default.
func Lead(row model.RawRow) (model.Lead, error) {
	lead := model.Lead{
		LeadID:            str(row, "lead_id"),
		CompanyName:       str(row, "company_name"),
		Industry:          str(row, "industry"),
		Country:           place(str(row, "country")),
		City:              place(str(row, "city")),
		EmployeeCount:     nonNegInt(row, "employee_count"),
		AnnualRevenue:     nonNegFloat(row, "annual_revenue_usd"),
		ContactName:       str(row, "contact_name"),
		ContactEmail:      strings.ToLower(str(row, "contact_email")),
		ContactPhone:      str(row, "contact_phone"),
		JobTitle:          str(row, "job_title"),
		DecisionAuthority: Authority(str(row, "decision_authority")),
		LeadSource:        str(row, "lead_source"),
		BudgetRange:       Budget(str(row, "budget_range")),
		PurchaseTimeline:  Timeline(str(row, "purchase_timeline")),
		WebsiteVisits:     nonNegInt(row, "website_visits"),
		EmailsOpened:      nonNegInt(row, "emails_opened"),
		ContentDownloads:  nonNegInt(row, "content_downloads"),
		DemoRequested:     flag(row, "demo_requested"),
		FreeTrialSignup:   flag(row, "free_trial_signup"),
		EmailVerified:     flag(row, "email_verified"),
		HasLinkedIn:       flag(row, "has_linkedin_profile"),
		CurrentSolution:   str(row, "current_solution"),
		PainPoints:        str(row, "pain_points"),
	}

	if lead.AnnualRevenue == 0 {
		lead.AnnualRevenue = nonNegFloat(row, "annual_revenue")
	}
	if lead.ContactName == "" {
		first := str(row, "contact_first_name")
		last := str(row, "contact_last_name")
		lead.ContactName = strings.TrimSpace(first + " " + last)
	}

	if lead.CompanyName == "" {
		return model.Lead{}, &model.ValidationError{Field: "company_name", Reason: "is required"}
	}
	if lead.ContactEmail == "" {
		return model.Lead{}, &model.ValidationError{Field: "contact_email", Reason: "is required"}
	}

	return lead, nil
}

// Authority maps a label onto the decision-authority enum, defaulting to Unknown.
func Authority(s string) model.DecisionAuthority {
	for _, a := range model.DecisionAuthorities {
		if strings.EqualFold(strings.TrimSpace(s), string(a)) {
			return a
		}
	}
	return model.AuthorityUnknown
}

// Budget maps a label onto the budget enum. Whitespace is ignored, so
// "$10K - $50K" matches "$10K-$50K". Unrecognised labels become Unknown.
func Budget(s string) model.BudgetRange {
	key := squash(s)
	for _, b := range model.BudgetRanges {
		if key == squash(string(b)) {
			return b
		}
	}
	return model.BudgetUnknown
}

// Timeline maps a label onto the timeline enum by its leading words, so
// "Immediate (< 1 month)" is Immediate. Unrecognised labels fall to the
// lowest-urgency bucket.
func Timeline(s string) model.PurchaseTimeline {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", " "))
	for _, tl := range model.PurchaseTimelines {
		want := strings.ToLower(strings.ReplaceAll(string(tl), "-", " "))
		if strings.HasPrefix(key, want) {
			return tl
		}
	}
	return model.TimelineJustResearching
}

func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// place title-cases all-lowercase location names and leaves anything with
// capitals alone ("UAE" stays "UAE").
func place(s string) string {
	if s == "" || strings.IndexFunc(s, unicode.IsUpper) >= 0 {
		return s
	}
	return cases.Title(language.English).String(s)
}

func str(row model.RawRow, col string) string {
	v, ok := row.Get(col)
	if !ok {
		return ""
	}
	return toString(v)
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return toString(float64(x))
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// nonNegInt saturates at math.MaxInt; float64 values that large do not
// convert to int.
func nonNegInt(row model.RawRow, col string) int {
	f := nonNegFloat(row, col)
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}

func nonNegFloat(row model.RawRow, col string) float64 {
	v, ok := row.Get(col)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case float64:
		f = x
	case float32:
		f = float64(x)
	case string:
		clean := strings.NewReplacer(",", "", "$", "", " ", "").Replace(x)
		if clean == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func flag(row model.RawRow, col string) bool {
	v, ok := row.Get(col)
	if !ok {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "y", "1":
			return true
		}
		return false
	default:
		f, ok := toFloat(v)
		return ok && f != 0
	}
}
