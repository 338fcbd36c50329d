package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/revenueradar/radar/internal/export"
	"github.com/revenueradar/radar/internal/ingest"
	"github.com/revenueradar/radar/internal/model"
)

var (
	analyzeFile    string
	analyzeOutput  string
	analyzeFormat  string
	analyzeOffline bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a CSV or XLSX file of leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(analyzeOffline)
		if err != nil {
			return err
		}

		res, err := runAnalyze(ctx, env, analyzeFile)
		if err != nil {
			return err
		}

		out, err := createOutput(analyzeOutput)
		if err != nil {
			return err
		}
		defer out.Close() //nolint:errcheck

		if strings.EqualFold(filepath.Ext(analyzeOutput), ".xlsx") {
			return export.WriteExcel(out, res.Results)
		}
		return encode(out, formatFor(analyzeOutput, analyzeFormat), res)
	},
}

func runAnalyze(ctx context.Context, env *appEnv, path string) (*model.BatchResult, error) {
	rows, err := ingest.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := env.Pipeline.RunRecords(ctx, rows)
	if err != nil {
		return nil, eris.Wrap(err, "analyze")
	}

	zap.L().Info("analysis complete",
		zap.String("file", path),
		zap.String("run_id", res.RunID),
		zap.Int("leads", res.TotalLeads),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("hot", res.Summary.Hot),
	)
	return res, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "lead file to score (.csv or .xlsx)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "output path (.json, .yaml or .xlsx; default stdout)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "stdout format: json or yaml")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the AI adjustment and score with rules only")
	_ = analyzeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(analyzeCmd)
}
