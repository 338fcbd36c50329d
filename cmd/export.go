package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/revenueradar/radar/internal/export"
	"github.com/revenueradar/radar/internal/model"
)

var (
	exportInput  string
	exportTarget string
	exportOutput string
	exportPush   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analysis results to Excel, HubSpot or Salesforce",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		analyses, err := loadAnalyses(exportInput)
		if err != nil {
			return err
		}

		out, err := createOutput(exportOutput)
		if err != nil {
			return err
		}
		defer out.Close() //nolint:errcheck

		if strings.EqualFold(exportTarget, "excel") {
			return export.WriteExcel(out, analyses)
		}

		if exportPush {
			return pushSalesforce(ctx, out, analyses)
		}

		crm, err := export.MapCRM(exportTarget, analyses)
		if err != nil {
			return err
		}
		return encode(out, formatFor(exportOutput, "json"), crm)
	},
}

func pushSalesforce(ctx context.Context, out io.Writer, analyses []model.LeadAnalysis) error {
	if !strings.EqualFold(exportTarget, export.TargetSalesforce) {
		return eris.Errorf("--push is only supported for --target %s", export.TargetSalesforce)
	}
	sf, err := initSalesforce()
	if err != nil {
		return err
	}
	res, err := export.PushSalesforce(ctx, sf, analyses)
	if err != nil {
		return err
	}
	return encode(out, "json", res)
}

// loadAnalyses reads either a full batch result or a bare array of analyses.
func loadAnalyses(path string) ([]model.LeadAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	var batch model.BatchResult
	if err := json.Unmarshal(data, &batch); err == nil && batch.Results != nil {
		return batch.Results, nil
	}

	var analyses []model.LeadAnalysis
	if err := json.Unmarshal(data, &analyses); err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	return analyses, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "analysis JSON written by analyze")
	exportCmd.Flags().StringVar(&exportTarget, "target", export.TargetHubSpot, "excel, hubspot or salesforce")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output path (default stdout)")
	exportCmd.Flags().BoolVar(&exportPush, "push", false, "insert records into Salesforce instead of printing them")
	_ = exportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(exportCmd)
}
