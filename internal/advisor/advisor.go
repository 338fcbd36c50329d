// Package advisor asks a reasoning model for a bounded correction to a lead's
// rule score. Every failure is absorbed into a degraded fallback.
package advisor

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/internal/resilience"
	"github.com/revenueradar/radar/pkg/anthropic"
)

// FallbackReasoning is the notice attached to a degraded adjustment.
const FallbackReasoning = "AI analysis unavailable; score is based on rule-based factors only."

// Adjuster produces an AI adjustment for a scored lead. Implementations must
// not return errors; failures surface as a degraded adjustment.
type Adjuster interface {
	Adjust(ctx context.Context, lead model.Lead, rule model.RuleScore) model.AIAdjustment
}

// Config controls model selection and the call budget.
type Config struct {
	Model             string
	MaxTokens         int64
	Timeout           time.Duration // per attempt
	MaxAttempts       int           // capped at 2
	RequestsPerSecond float64       // 0 disables the limiter
}

// MaxAttempts is the hard ceiling on calls per lead.
const MaxAttempts = 2

// Client implements Adjuster on top of the Anthropic Messages API.
type Client struct {
	api     anthropic.Client
	cfg     Config
	limiter *rate.Limiter
}

// New creates an advisor client. A nil api yields a client that always
// returns the fallback.
func New(api anthropic.Client, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.MaxAttempts = max(1, min(cfg.MaxAttempts, MaxAttempts))

	c := &Client{api: api, cfg: cfg}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Fallback returns the degraded adjustment used when no usable reply exists.
func Fallback() model.AIAdjustment {
	return model.AIAdjustment{
		Value:     0,
		Reasoning: FallbackReasoning,
		Actions:   []string{},
		Degraded:  true,
	}
}

// Adjust requests an adjustment for one lead. It never fails; on any error
// the fallback is returned and the cause is logged.
func (c *Client) Adjust(ctx context.Context, lead model.Lead, rule model.RuleScore) model.AIAdjustment {
	log := zap.L().With(zap.String("company", lead.CompanyName))
	if lead.LeadID != "" {
		log = log.With(zap.String("lead_id", lead.LeadID))
	}

	if c.api == nil {
		return Fallback()
	}

	req, err := buildRequest(c.cfg, lead, rule)
	if err != nil {
		log.Warn("advisor: build request failed", zap.Error(err))
		return Fallback()
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = c.cfg.MaxAttempts
	retry.AttemptTimeout = c.cfg.Timeout
	retry.ShouldRetry = shouldRetry
	retry.OnRetry = resilience.RetryLogger("anthropic", "adjust")

	adj, err := resilience.DoVal(ctx, retry, func(actx context.Context) (model.AIAdjustment, error) {
		if err := c.wait(ctx); err != nil {
			return model.AIAdjustment{}, err
		}
		resp, err := c.api.CreateMessage(actx, req)
		if err != nil {
			return model.AIAdjustment{}, classify(err)
		}
		resp.Usage.LogCost(c.cfg.Model, "adjust")
		return ParseAdjustment(resp.Text())
	})
	if err != nil {
		log.Warn("advisor: using fallback adjustment",
			zap.Error(&model.AIServiceError{Op: "adjust", Err: err}))
		return Fallback()
	}
	return adj
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return eris.Wrap(c.limiter.Wait(ctx), "advisor: rate limit wait")
}

// classify marks retryable API failures as transient.
func classify(err error) error {
	if code := anthropic.StatusCode(err); resilience.IsTransientHTTPStatus(code) {
		return resilience.NewTransientError(err, code)
	}
	return err
}

func shouldRetry(err error) bool {
	return resilience.IsTransient(err) || eris.Is(err, ErrMalformed)
}

// Offline is an Adjuster that never contacts a model. Every lead receives
// the degraded fallback.
type Offline struct{}

// Adjust returns the fallback adjustment.
func (Offline) Adjust(context.Context, model.Lead, model.RuleScore) model.AIAdjustment {
	return Fallback()
}
