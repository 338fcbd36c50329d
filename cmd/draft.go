package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/revenueradar/radar/internal/outreach"
)

var draftReq outreach.Request

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a sales email for one lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(false)
		if err != nil {
			return err
		}
		email := env.Drafter.Draft(cmd.Context(), draftReq)
		return encode(os.Stdout, "json", email)
	},
}

func init() {
	draftCmd.Flags().StringVar(&draftReq.CustomerName, "name", "", "recipient name")
	draftCmd.Flags().StringVar(&draftReq.Company, "company", "", "recipient company")
	draftCmd.Flags().StringVar(&draftReq.Reason, "reason", "", "context for the email, e.g. the score reasoning")
	_ = draftCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(draftCmd)
}
