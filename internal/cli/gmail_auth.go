package cli

import (
	"fmt"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/spf13/cobra"
)

func newGmailAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gmail-auth",
		Short: "Authorize the Gmail account used for applicant notifications",
		Long: `Runs the one-time OAuth consent flow. Open the printed link, approve
access, and paste the code back. The token is saved to GMAIL_TOKEN_FILE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			err = auth.AuthorizeGmail(cmd.Context(), cfg.GmailCredentialsFile, cfg.GmailTokenFile, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", cfg.GmailTokenFile)
			return nil
		},
	}
}
