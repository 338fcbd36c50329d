// Package model defines the lead, score, and analysis types shared across the scoring pipeline.
package model

import "strings"

// RawRow is one uploaded record: column name to untyped cell value.
// It is only read by the normalizer.
type RawRow map[string]any

// Get returns the value stored under the canonical form of col, matching
// header variants such as "Company Name" or "company-name".
func (r RawRow) Get(col string) (any, bool) {
	want := CanonicalColumn(col)
	if v, ok := r[want]; ok {
		return v, true
	}
	for k, v := range r {
		if CanonicalColumn(k) == want {
			return v, true
		}
	}
	return nil, false
}

// Record is a RawRow tagged with its position in the source file.
type Record struct {
	Line int    // 1-based row number below the header, blank rows counted
	Row  RawRow
}

// CanonicalColumn lower-cases a header and folds spaces and hyphens to underscores.
func CanonicalColumn(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// DecisionAuthority is the contact's role in the purchase decision.
type DecisionAuthority string

const (
	AuthorityFinalDecisionMaker DecisionAuthority = "Final Decision Maker"
	AuthorityKeyInfluencer      DecisionAuthority = "Key Influencer"
	AuthorityEvaluator          DecisionAuthority = "Evaluator"
	AuthorityEndUser            DecisionAuthority = "End User"
	AuthorityUnknown            DecisionAuthority = "Unknown"
)

// DecisionAuthorities lists the recognised authority labels.
var DecisionAuthorities = []DecisionAuthority{
	AuthorityFinalDecisionMaker,
	AuthorityKeyInfluencer,
	AuthorityEvaluator,
	AuthorityEndUser,
}

// BudgetRange is the budget bracket the lead indicated.
type BudgetRange string

const (
	BudgetUnder10K   BudgetRange = "Under $10K"
	Budget10Kto50K   BudgetRange = "$10K-$50K"
	Budget50Kto100K  BudgetRange = "$50K-$100K"
	Budget100Kto500K BudgetRange = "$100K-$500K"
	Budget500Kto1M   BudgetRange = "$500K-$1M"
	BudgetOver1M     BudgetRange = "Over $1M"
	BudgetUnknown    BudgetRange = "Unknown"
)

// BudgetRanges lists the recognised budget labels, smallest first.
var BudgetRanges = []BudgetRange{
	BudgetUnder10K,
	Budget10Kto50K,
	Budget50Kto100K,
	Budget100Kto500K,
	Budget500Kto1M,
	BudgetOver1M,
}

// PurchaseTimeline is how soon the lead expects to buy.
type PurchaseTimeline string

const (
	TimelineImmediate       PurchaseTimeline = "Immediate"
	TimelineShortTerm       PurchaseTimeline = "Short-term"
	TimelineMediumTerm      PurchaseTimeline = "Medium-term"
	TimelineLongTerm        PurchaseTimeline = "Long-term"
	TimelineJustResearching PurchaseTimeline = "Just researching"
)

// PurchaseTimelines lists the recognised timeline labels, most urgent first.
var PurchaseTimelines = []PurchaseTimeline{
	TimelineImmediate,
	TimelineShortTerm,
	TimelineMediumTerm,
	TimelineLongTerm,
	TimelineJustResearching,
}

// Lead is the validated, typed form of a RawRow. All scoring reads Lead
// values only; a Lead is never modified after the normalizer returns it.
type Lead struct {
	LeadID            string            `json:"lead_id,omitempty" yaml:"lead_id,omitempty"`
	CompanyName       string            `json:"company_name" yaml:"company_name"`
	Industry          string            `json:"industry" yaml:"industry"`
	Country           string            `json:"country" yaml:"country"`
	City              string            `json:"city" yaml:"city"`
	EmployeeCount     int               `json:"employee_count" yaml:"employee_count"`
	AnnualRevenue     float64           `json:"annual_revenue" yaml:"annual_revenue"`
	ContactName       string            `json:"contact_name" yaml:"contact_name"`
	ContactEmail      string            `json:"contact_email" yaml:"contact_email"`
	ContactPhone      string            `json:"contact_phone,omitempty" yaml:"contact_phone,omitempty"`
	JobTitle          string            `json:"job_title" yaml:"job_title"`
	DecisionAuthority DecisionAuthority `json:"decision_authority" yaml:"decision_authority"`
	LeadSource        string            `json:"lead_source" yaml:"lead_source"`
	BudgetRange       BudgetRange       `json:"budget_range" yaml:"budget_range"`
	PurchaseTimeline  PurchaseTimeline  `json:"purchase_timeline" yaml:"purchase_timeline"`
	WebsiteVisits     int               `json:"website_visits" yaml:"website_visits"`
	EmailsOpened      int               `json:"emails_opened" yaml:"emails_opened"`
	ContentDownloads  int               `json:"content_downloads" yaml:"content_downloads"`
	DemoRequested     bool              `json:"demo_requested" yaml:"demo_requested"`
	FreeTrialSignup   bool              `json:"free_trial" yaml:"free_trial"`
	EmailVerified     bool              `json:"email_verified" yaml:"email_verified"`
	HasLinkedIn       bool              `json:"has_linkedin_profile" yaml:"has_linkedin_profile"`
	CurrentSolution   string            `json:"current_solution,omitempty" yaml:"current_solution,omitempty"`
	PainPoints        string            `json:"pain_points,omitempty" yaml:"pain_points,omitempty"`
}
