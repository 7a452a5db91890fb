package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/auth"
	"github.com/relgraph/relgraph/internal/config"
	"github.com/relgraph/relgraph/internal/typeid"
)

var tokenCmd = &cobra.Command{
	Use:   "token [publisher-id]",
	Short: "Issues a publish token signed with the server's JWT secret",
	Long: `The token command reads the server configuration from the environment and
issues a publish token. Without an argument a new publisher id is generated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		publisherID := typeid.NewPublisherID()
		if len(args) == 1 {
			publisherID = args[0]
		}

		token, err := auth.NewService(cfg.JWTSecret, cfg.TokenTTL).IssueToken(publisherID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	AddCommand(tokenCmd)
}
