package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/diagram"
	"github.com/relgraph/relgraph/internal/snapshot"
)

var publishToken string

var publishCmd = &cobra.Command{
	Use:   "publish <diagram-id> <snapshot.json>",
	Short: "Publishes a snapshot to a relgraph server",
	Long: `The publish command validates a snapshot locally and posts it as the
diagram's latest snapshot. The token defaults to the RELGRAPH_TOKEN env var.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		diagramID, path := args[0], args[1]

		data, err := readInput(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := snapshot.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		token := publishToken
		if token == "" {
			token = os.Getenv("RELGRAPH_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("missing token: pass --token or set RELGRAPH_TOKEN")
		}

		endpoint := fmt.Sprintf("%s/api/diagrams/%s/snapshots", resolveServerURL(), url.PathEscape(diagramID))
		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, endpoint, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("publish snapshot: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			var body map[string]string
			json.NewDecoder(resp.Body).Decode(&body)
			return fmt.Errorf("publish snapshot: %s: %s", resp.Status, body["error"])
		}

		var result diagram.PublishResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "published %s sequence %d\n", result.RecordID, result.Sequence)
		s := result.Summary
		fmt.Fprintf(out, "revision %d: %d changed, %d added, %d removed, %d moved\n",
			s.Revision, s.Changed, s.Added, s.Removed, s.Moved)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVarP(&publishToken, "token", "t", "", "Publish token")
	AddCommand(publishCmd)
}
