package main

import (
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/revenueradar/radar/internal/advisor"
	"github.com/revenueradar/radar/internal/outreach"
	"github.com/revenueradar/radar/internal/pipeline"
	"github.com/revenueradar/radar/internal/scorer"
	"github.com/revenueradar/radar/pkg/anthropic"
	sfpkg "github.com/revenueradar/radar/pkg/salesforce"
)

// appEnv holds the wired components shared by commands.
type appEnv struct {
	Pipeline *pipeline.Pipeline
	Drafter  *outreach.Drafter
}

// initEnv wires the scoring pipeline and drafter from cfg. Offline mode, or
// a missing API key, skips the model entirely.
func initEnv(offline bool) (*appEnv, error) {
	sc, err := scorer.New(scorer.DefaultWeights())
	if err != nil {
		return nil, err
	}

	var api anthropic.Client
	switch {
	case offline:
		zap.L().Info("offline mode: AI adjustment disabled")
	case cfg.Anthropic.Key == "":
		zap.L().Warn("anthropic key not set (RADAR_ANTHROPIC_KEY); AI adjustment disabled")
	default:
		api = anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
	}

	var adj advisor.Adjuster = advisor.Offline{}
	if api != nil {
		adj = advisor.New(api, advisor.Config{
			Model:             cfg.Anthropic.Model,
			MaxTokens:         cfg.Anthropic.MaxTokens,
			Timeout:           cfg.Advisor.Timeout(),
			MaxAttempts:       cfg.Advisor.MaxAttempts,
			RequestsPerSecond: cfg.Advisor.RequestsPerSecond,
		})
	}

	return &appEnv{
		Pipeline: pipeline.New(sc, adj, cfg.Batch.MaxConcurrency),
		Drafter: outreach.New(api, outreach.Config{
			Model:       cfg.Anthropic.Model,
			MaxTokens:   cfg.Anthropic.MaxTokens,
			Timeout:     cfg.Advisor.Timeout(),
			Concurrency: cfg.Batch.MaxConcurrency,
		}),
	}, nil
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (RADAR_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(cfg.Salesforce.RequestsPerSecond)), nil
}
