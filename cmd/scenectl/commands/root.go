package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/snapshot"
)

var (
	noColor   bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "scenectl",
	Short: "scenectl inspects, renders and publishes diagram snapshots",
	Long: `scenectl works with diagram snapshots: it diffs two snapshots the way
viewers reconcile them, lists relation paths, renders previews and publishes
snapshots to a relgraph server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "relgraph server URL (default: RELGRAPH_SERVER_URL env var or http://localhost:8080)")
}

// AddCommand registers a subcommand on the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func resolveServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if v := os.Getenv("RELGRAPH_SERVER_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func loadScene(path string) (*scene.Root, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := snapshot.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene.Build(s)
}
