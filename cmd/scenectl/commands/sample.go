package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/snapshot"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Prints a sample snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot.NewSample())
	},
}

func init() {
	AddCommand(sampleCmd)
}
