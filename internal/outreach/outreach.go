// Package outreach drafts sales emails for analysed leads.
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/revenueradar/radar/internal/advisor"
	"github.com/revenueradar/radar/pkg/anthropic"
)

// MaxBulk is the largest number of drafts produced by one DraftBulk call.
const MaxBulk = 10

// Request describes the recipient of a draft.
type Request struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Company      string `json:"company"`
	Reason       string `json:"reason"`
}

// Email is a drafted message.
type Email struct {
	CustomerName string `json:"customer_name"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

// Config controls model selection and the per-call timeout.
type Config struct {
	Model       string
	MaxTokens   int64
	Timeout     time.Duration
	Concurrency int
}

// Drafter writes emails with a model and falls back to a template.
type Drafter struct {
	api anthropic.Client
	cfg Config
}

// New creates a Drafter. A nil api always produces the template.
func New(api anthropic.Client, cfg Config) *Drafter {
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	return &Drafter{api: api, cfg: cfg}
}

const systemPrompt = `You are an expert B2B sales copywriter. Write concise, professional outreach
emails in English. Respond ONLY with a JSON object, no markdown:
{"subject": "...", "body": "..."}`

// Draft produces one email. It never fails; model errors or unusable replies
// yield the template email.
func (d *Drafter) Draft(ctx context.Context, req Request) Email {
	log := zap.L().With(zap.String("customer", req.CustomerName))

	if d.api == nil {
		return Fallback(req)
	}

	actx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	resp, err := d.api.CreateMessage(actx, anthropic.MessageRequest{
		Model:     d.cfg.Model,
		MaxTokens: d.cfg.MaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt, "5m"),
		Messages:  []anthropic.Message{{Role: "user", Content: userPrompt(req)}},
	})
	if err != nil {
		log.Warn("outreach: draft failed, using template", zap.Error(err))
		return Fallback(req)
	}
	resp.Usage.LogCost(d.cfg.Model, "draft")

	return parseEmail(req, resp.Text())
}

// DraftBulk drafts up to MaxBulk emails, preserving request order. Extra
// requests are ignored.
func (d *Drafter) DraftBulk(ctx context.Context, reqs []Request) []Email {
	if len(reqs) > MaxBulk {
		reqs = reqs[:MaxBulk]
	}
	out := make([]Email, len(reqs))

	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for i, r := range reqs {
		g.Go(func() error {
			out[i] = d.Draft(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func userPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a B2B sales email for %s.\n\n", req.CustomerName)
	if req.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", req.Company)
	}
	if req.Reason != "" {
		fmt.Fprintf(&b, "Context: %s\n", req.Reason)
	}
	b.WriteString("\nInclude a subject line, a greeting, a personalised opening, a value proposition, " +
		"a call to action and a professional closing. Separate paragraphs with \\n\\n in the body.")
	return b.String()
}

// parseEmail reads {"subject","body"} from text. A reply that is not JSON is
// used verbatim as the body; an empty body falls back to the template.
func parseEmail(req Request, text string) Email {
	email := Email{CustomerName: req.CustomerName, Subject: defaultSubject(req)}

	var reply struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(advisor.CleanJSON(text)), &reply); err != nil {
		email.Body = strings.TrimSpace(text)
	} else {
		if s := strings.TrimSpace(reply.Subject); s != "" {
			email.Subject = s
		}
		email.Body = strings.TrimSpace(reply.Body)
	}

	if email.Body == "" {
		email.Body = Fallback(req).Body
	}
	return email
}

func defaultSubject(req Request) string {
	return fmt.Sprintf("Partnership Opportunity for %s", req.CustomerName)
}

// Fallback returns the template email for req.
func Fallback(req Request) Email {
	org := req.Company
	if org == "" {
		org = "your organization"
	}
	reason := req.Reason
	if reason == "" {
		reason = "Based on your company profile, I believe we could provide significant value to your organization."
	}

	body := fmt.Sprintf(`Dear %s,

I hope this email finds you well. I wanted to reach out regarding a potential partnership opportunity that could benefit %s.

%s

I would love to schedule a brief call to discuss how we might work together. Would you have 15-20 minutes available this week?

Looking forward to connecting.

Best regards,
Sales Team`, req.CustomerName, org, reason)

	return Email{CustomerName: req.CustomerName, Subject: defaultSubject(req), Body: body}
}
