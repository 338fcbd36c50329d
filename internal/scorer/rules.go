package scorer

import (
	"math"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/revenueradar/radar/internal/model"
)

// bucket maps values at or above min to score. Tables are ordered from the
// highest min down; the last entry is the floor.
type bucket struct {
	min   float64
	score float64
}

var (
	employeeBuckets = []bucket{
		{5000, 100}, {1000, 90}, {500, 80}, {200, 70}, {50, 50}, {10, 30}, {0, 10},
	}
	revenueBuckets = []bucket{
		{100_000_000, 100}, {50_000_000, 90}, {10_000_000, 80}, {5_000_000, 60}, {1_000_000, 40}, {0, 20},
	}

	// Engagement tables saturate at their top bucket; maxima sum to 100.
	visitBuckets    = []bucket{{20, 35}, {10, 30}, {5, 20}, {1, 10}, {0, 0}}
	emailBuckets    = []bucket{{10, 35}, {5, 28}, {3, 20}, {1, 10}, {0, 0}}
	downloadBuckets = []bucket{{3, 30}, {2, 22}, {1, 15}, {0, 0}}
)

var budgetScores = map[model.BudgetRange]float64{
	model.BudgetOver1M:     100,
	model.Budget500Kto1M:   90,
	model.Budget100Kto500K: 75,
	model.Budget50Kto100K:  55,
	model.Budget10Kto50K:   35,
	model.BudgetUnder10K:   15,
	model.BudgetUnknown:    25,
}

var authorityScores = map[model.DecisionAuthority]float64{
	model.AuthorityFinalDecisionMaker: 100,
	model.AuthorityKeyInfluencer:      75,
	model.AuthorityEvaluator:          50,
	model.AuthorityEndUser:            25,
	model.AuthorityUnknown:            40,
}

var timelineScores = map[model.PurchaseTimeline]float64{
	model.TimelineImmediate:       100,
	model.TimelineShortTerm:       80,
	model.TimelineMediumTerm:      55,
	model.TimelineLongTerm:        30,
	model.TimelineJustResearching: 10,
}

const (
	cLevelBonus = 15
	seniorBonus = 10

	demoBonus  = 60
	trialBonus = 40
)

var (
	cLevelWords = map[string]bool{
		"CEO": true, "CTO": true, "CFO": true, "COO": true, "CMO": true,
		"CIO": true, "CRO": true, "CHIEF": true, "FOUNDER": true, "OWNER": true,
	}
	seniorWords = map[string]bool{
		"VP": true, "SVP": true, "EVP": true, "DIRECTOR": true,
	}
)

var validate = validator.New()

// Scorer computes rule scores with a fixed weight table.
type Scorer struct {
	weights Weights
}

// New returns a Scorer using w. The table is validated once here.
func New(w Weights) (*Scorer, error) {
	if err := ValidateWeights(w); err != nil {
		return nil, eris.Wrap(err, "scorer: new")
	}
	return &Scorer{weights: w}, nil
}

// Weights returns the scorer's weight table.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the breakdown and weighted rule score for lead. It has no
// side effects and the same lead always produces the same result.
func (s *Scorer) Score(lead model.Lead) model.RuleScore {
	b := model.ScoreBreakdown{
		CompanySize:       clamp(CompanySize(lead.EmployeeCount, lead.AnnualRevenue)),
		Engagement:        clamp(Engagement(lead.WebsiteVisits, lead.EmailsOpened, lead.ContentDownloads)),
		BudgetFit:         clamp(BudgetFit(lead.BudgetRange)),
		DecisionAuthority: clamp(DecisionAuthority(lead.DecisionAuthority, lead.JobTitle)),
		Timeline:          clamp(Timeline(lead.PurchaseTimeline)),
		DataQuality:       clamp(DataQuality(lead)),
		Behavioral:        clamp(Behavioral(lead.DemoRequested, lead.FreeTrialSignup)),
	}

	w := s.weights
	total := b.CompanySize*w.CompanySize +
		b.Engagement*w.Engagement +
		b.BudgetFit*w.BudgetFit +
		b.DecisionAuthority*w.DecisionAuthority +
		b.Timeline*w.Timeline +
		b.DataQuality*w.DataQuality +
		b.Behavioral*w.Behavioral

	return model.RuleScore{Value: clamp(total), Breakdown: b}
}

// CompanySize averages the employee and revenue bucket scores.
func CompanySize(employees int, revenue float64) float64 {
	return (lookup(float64(employees), employeeBuckets) + lookup(revenue, revenueBuckets)) / 2
}

// Engagement sums saturating visit, email, and download scores.
func Engagement(visits, emailsOpened, downloads int) float64 {
	return lookup(float64(visits), visitBuckets) +
		lookup(float64(emailsOpened), emailBuckets) +
		lookup(float64(downloads), downloadBuckets)
}

// BudgetFit scores a budget bracket.
func BudgetFit(b model.BudgetRange) float64 {
	if v, ok := budgetScores[b]; ok {
		return v
	}
	return budgetScores[model.BudgetUnknown]
}

// DecisionAuthority scores the authority enum, raised by seniority keywords
// in the job title.
func DecisionAuthority(a model.DecisionAuthority, jobTitle string) float64 {
	base, ok := authorityScores[a]
	if !ok {
		base = authorityScores[model.AuthorityUnknown]
	}

	switch titleRank(jobTitle) {
	case rankCLevel:
		base += cLevelBonus
	case rankSenior:
		base += seniorBonus
	}
	return math.Min(base, 100)
}

// Timeline scores purchase urgency.
func Timeline(t model.PurchaseTimeline) float64 {
	if v, ok := timelineScores[t]; ok {
		return v
	}
	return timelineScores[model.TimelineJustResearching]
}

// DataQuality sums the weights of the quality checks lead passes.
// Check weights total 100.
func DataQuality(lead model.Lead) float64 {
	checks := []struct {
		ok     bool
		weight float64
	}{
		{lead.CompanyName != "", 10},
		{validEmail(lead.ContactEmail), 10},
		{lead.JobTitle != "", 10},
		{lead.Industry != "", 10},
		{lead.EmployeeCount > 0, 10},
		{lead.EmailVerified, 30},
		{lead.HasLinkedIn, 20},
	}

	var score float64
	for _, c := range checks {
		if c.ok {
			score += c.weight
		}
	}
	return score
}

// Behavioral adds fixed bonuses for high-intent actions, capped at 100.
func Behavioral(demoRequested, freeTrial bool) float64 {
	var score float64
	if demoRequested {
		score += demoBonus
	}
	if freeTrial {
		score += trialBonus
	}
	return math.Min(score, 100)
}

type rank int

const (
	rankNone rank = iota
	rankSenior
	rankCLevel
)

func titleRank(title string) rank {
	upper := strings.ToUpper(title)
	words := strings.FieldsFunc(upper, func(r rune) bool { return !unicode.IsLetter(r) })

	vice := strings.Contains(upper, "VICE PRESIDENT")
	senior := vice || strings.Contains(upper, "HEAD OF")
	for _, w := range words {
		if cLevelWords[w] || (w == "PRESIDENT" && !vice) {
			return rankCLevel
		}
		if seniorWords[w] {
			senior = true
		}
	}
	if senior {
		return rankSenior
	}
	return rankNone
}

func validEmail(s string) bool {
	return s != "" && validate.Var(s, "email") == nil
}

func lookup(v float64, table []bucket) float64 {
	for _, b := range table {
		if v >= b.min {
			return b.score
		}
	}
	return table[len(table)-1].score
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
