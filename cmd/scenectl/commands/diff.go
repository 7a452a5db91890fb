package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/animation"
	"github.com/relgraph/relgraph/internal/match"
)

var showUnchanged bool

var diffCmd = &cobra.Command{
	Use:   "diff <old.json> <new.json>",
	Short: "Shows how a viewer would reconcile two snapshots",
	Long: `The diff command matches the elements of two snapshots by id and prints
each element's status, followed by the fields a viewer would interpolate and
the elements it would fade in or out.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		old, err := loadScene(args[0])
		if err != nil {
			return err
		}
		next, err := loadScene(args[1])
		if err != nil {
			return err
		}

		composer := animation.NewComposer(animation.ImmediateScheduler{}, animation.Options{})
		u := composer.Compose(old, next)
		printDiff(cmd.OutOrStdout(), u, showUnchanged)
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVarP(&showUnchanged, "all", "a", false, "Also list unchanged elements")
	AddCommand(diffCmd)
}

var statusColors = map[match.Status]*color.Color{
	match.Unchanged: color.New(color.Faint),
	match.Changed:   color.New(color.FgYellow),
	match.Added:     color.New(color.FgGreen),
	match.Removed:   color.New(color.FgRed),
	match.Moved:     color.New(color.FgCyan),
}

var statusSigils = map[match.Status]string{
	match.Unchanged: " ",
	match.Changed:   "~",
	match.Added:     "+",
	match.Removed:   "-",
	match.Moved:     ">",
}

func printDiff(w io.Writer, u *animation.Update, all bool) {
	for _, e := range u.Match.Entries() {
		if e.Status == match.Unchanged && !all {
			continue
		}
		typ := ""
		if e.Right != nil {
			typ = string(e.Right.Type())
		} else if e.Left != nil {
			typ = string(e.Left.Type())
		}
		statusColors[e.Status].Fprintf(w, "%s %-10s %-9s %s\n", statusSigils[e.Status], e.Status, typ, e.ID)
	}

	if len(u.Interpolations) > 0 {
		fmt.Fprintln(w)
		color.New(color.Bold).Fprintln(w, "interpolations:")
		for _, in := range u.Interpolations {
			parts := make([]string, 0, len(in.Fields))
			for _, name := range in.FieldNames() {
				r := in.Fields[name]
				parts = append(parts, fmt.Sprintf("%s %g -> %g", name, r.From, r.To))
			}
			fmt.Fprintf(w, "  %s: %s\n", in.Element.ID(), strings.Join(parts, ", "))
		}
	}

	if len(u.Fades) > 0 {
		fmt.Fprintln(w)
		color.New(color.Bold).Fprintln(w, "fades:")
		for _, f := range u.Fades {
			dir := "out"
			if f.In {
				dir = "in"
			}
			fmt.Fprintf(w, "  %-3s %s\n", dir, f.Element.ID())
		}
	}

	counts := u.Match.Counts()
	fmt.Fprintf(w, "\n%d changed, %d added, %d removed, %d moved, %d unchanged\n",
		counts[match.Changed], counts[match.Added], counts[match.Removed], counts[match.Moved], counts[match.Unchanged])
}
