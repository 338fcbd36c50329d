package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revenueradar/radar/internal/model"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(DefaultWeights())
	require.NoError(t, err)
	return s
}

func enterpriseLead() model.Lead {
	return model.Lead{
		CompanyName:       "Initrode Global",
		Industry:          "Logistics",
		ContactEmail:      "cfo@initrode.com",
		JobTitle:          "Chief Financial Officer",
		EmployeeCount:     5000,
		AnnualRevenue:     50_000_000,
		BudgetRange:       model.BudgetOver1M,
		PurchaseTimeline:  model.TimelineImmediate,
		DecisionAuthority: model.AuthorityFinalDecisionMaker,
		DemoRequested:     true,
		WebsiteVisits:     25,
		EmailsOpened:      12,
		ContentDownloads:  4,
		EmailVerified:     true,
	}
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-9)
	require.NoError(t, ValidateWeights(w))
}

func TestValidateWeights_Rejects(t *testing.T) {
	t.Run("sum off", func(t *testing.T) {
		w := DefaultWeights()
		w.Behavioral = 0.10
		err := ValidateWeights(w)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must sum to 1")
	})

	t.Run("negative weight", func(t *testing.T) {
		w := DefaultWeights()
		w.Engagement = -0.25
		w.CompanySize = 0.70
		err := ValidateWeights(w)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engagement weight must be >= 0")
	})

	t.Run("New refuses bad table", func(t *testing.T) {
		_, err := New(Weights{CompanySize: 0.5})
		require.Error(t, err)
	})
}

func TestScore_EnterpriseScenario(t *testing.T) {
	s := newTestScorer(t)

	rs := s.Score(enterpriseLead())
	assert.Equal(t, 95.0, rs.Breakdown.CompanySize)
	assert.Equal(t, 100.0, rs.Breakdown.BudgetFit)
	assert.Equal(t, 100.0, rs.Breakdown.Timeline)
	assert.Equal(t, 100.0, rs.Breakdown.DecisionAuthority)
	assert.Equal(t, 60.0, rs.Breakdown.Behavioral)
	assert.GreaterOrEqual(t, rs.Value, 80.0)
	assert.GreaterOrEqual(t, rs.Rounded(), 80)
}

func TestScore_Deterministic(t *testing.T) {
	s := newTestScorer(t)
	lead := enterpriseLead()

	first := s.Score(lead)
	for range 50 {
		assert.Equal(t, first, s.Score(lead))
	}
}

func TestScore_Bounds(t *testing.T) {
	s := newTestScorer(t)

	employees := []int{0, 9, 10, 499, 5000, 1_000_000}
	revenues := []float64{0, 999_999, 5_000_000, 1e12}
	engagement := []int{0, 1, 4, 9, 50, 100_000}
	authorities := append([]model.DecisionAuthority{model.AuthorityUnknown}, model.DecisionAuthorities...)
	titles := []string{"", "Intern", "VP Sales", "CEO & Founder"}

	for _, e := range employees {
		for _, r := range revenues {
			for _, n := range engagement {
				for i, a := range authorities {
					lead := model.Lead{
						CompanyName:       "X",
						ContactEmail:      "x@x.io",
						EmployeeCount:     e,
						AnnualRevenue:     r,
						WebsiteVisits:     n,
						EmailsOpened:      n,
						ContentDownloads:  n,
						DecisionAuthority: a,
						JobTitle:          titles[i%len(titles)],
						DemoRequested:     n > 0,
						FreeTrialSignup:   n > 4,
						EmailVerified:     true,
						HasLinkedIn:       true,
					}
					rs := s.Score(lead)
					b := rs.Breakdown
					for _, v := range []float64{b.CompanySize, b.Engagement, b.BudgetFit, b.DecisionAuthority, b.Timeline, b.DataQuality, b.Behavioral} {
						assert.GreaterOrEqual(t, v, 0.0)
						assert.LessOrEqual(t, v, 100.0)
					}
					assert.GreaterOrEqual(t, rs.Value, 0.0)
					assert.LessOrEqual(t, rs.Value, 100.0)
				}
			}
		}
	}
}

func TestCompanySize(t *testing.T) {
	assert.Equal(t, 15.0, CompanySize(0, 0))
	assert.Equal(t, 100.0, CompanySize(5000, 100_000_000))
	assert.Equal(t, 55.0, CompanySize(200, 1_000_000))
	assert.Equal(t, 95.0, CompanySize(5000, 50_000_000))
}

func TestEngagement_Saturates(t *testing.T) {
	assert.Equal(t, 0.0, Engagement(0, 0, 0))
	assert.Equal(t, 100.0, Engagement(20, 10, 3))
	assert.Equal(t, 100.0, Engagement(10_000, 10_000, 10_000))
	// One outlier metric cannot exceed its own cap.
	assert.Equal(t, 35.0, Engagement(1_000_000, 0, 0))
}

func TestDecisionAuthority_TitleKeywords(t *testing.T) {
	tests := []struct {
		name  string
		auth  model.DecisionAuthority
		title string
		want  float64
	}{
		{"evaluator plain", model.AuthorityEvaluator, "Analyst", 50},
		{"evaluator director", model.AuthorityEvaluator, "Director of IT", 60},
		{"evaluator vp", model.AuthorityEvaluator, "Vice President, Sales", 60},
		{"evaluator head of", model.AuthorityEvaluator, "Head of Data", 60},
		{"unknown chief", model.AuthorityUnknown, "Chief Revenue Officer", 55},
		{"unknown president", model.AuthorityUnknown, "President", 55},
		{"end user cto", model.AuthorityEndUser, "CTO", 40},
		{"capped", model.AuthorityFinalDecisionMaker, "CEO", 100},
		{"no substring match", model.AuthorityEndUser, "Associate Technician", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecisionAuthority(tt.auth, tt.title))
		})
	}
}

func TestBudgetAndTimelineLookups(t *testing.T) {
	assert.Equal(t, 15.0, BudgetFit(model.BudgetUnder10K))
	assert.Equal(t, 25.0, BudgetFit(model.BudgetUnknown))
	assert.Equal(t, 25.0, BudgetFit("garbage"))
	assert.Equal(t, 100.0, Timeline(model.TimelineImmediate))
	assert.Equal(t, 10.0, Timeline(model.TimelineJustResearching))
	assert.Equal(t, 10.0, Timeline("garbage"))
}

func TestDataQuality(t *testing.T) {
	assert.Equal(t, 0.0, DataQuality(model.Lead{}))

	full := enterpriseLead()
	full.HasLinkedIn = true
	assert.Equal(t, 100.0, DataQuality(full))

	badEmail := full
	badEmail.ContactEmail = "not-an-email"
	assert.Equal(t, 90.0, DataQuality(badEmail))
}

func TestBehavioral(t *testing.T) {
	assert.Equal(t, 0.0, Behavioral(false, false))
	assert.Equal(t, 60.0, Behavioral(true, false))
	assert.Equal(t, 40.0, Behavioral(false, true))
	assert.Equal(t, 100.0, Behavioral(true, true))
}
