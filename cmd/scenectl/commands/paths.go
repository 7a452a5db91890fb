package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/scene"
)

var (
	projectAt  string
	orthogonal bool
	visible    bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths <snapshot.json>",
	Short: "Lists the path data of every relation",
	Long: `The paths command prints each relation's SVG path data and length.
With --at it also projects a canvas point onto every path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadScene(args[0])
		if err != nil {
			return err
		}

		var probe *geom.Point
		if projectAt != "" {
			p, err := parsePoint(projectAt)
			if err != nil {
				return err
			}
			probe = &p
		}

		out := cmd.OutOrStdout()
		scene.Walk(root, func(e scene.Element) bool {
			r, ok := e.(*scene.Relation)
			if !ok {
				return true
			}
			path := r.Path
			if visible {
				path = r.VisiblePath()
			}
			fmt.Fprintf(out, "%s\t%.2f\t%s\n", r.ID(), path.Length(), path)
			for _, m := range r.Markers() {
				fmt.Fprintf(out, "  marker %s at (%g, %g)\n", m.Kind, m.Tip.X, m.Tip.Y)
			}
			if probe != nil {
				hit, ok := path.ProjectPoint(*probe)
				if orthogonal {
					hit, ok = path.ProjectPointOrthogonal(*probe)
				}
				if ok {
					fmt.Fprintf(out, "  nearest (%g, %g) segment %d position %.3f distance %.3f\n",
						hit.Point.X, hit.Point.Y, hit.Segment, hit.Position, hit.Distance)
				}
			}
			return true
		})
		return nil
	},
}

func init() {
	pathsCmd.Flags().StringVar(&projectAt, "at", "", "Project the canvas point x,y onto each path")
	pathsCmd.Flags().BoolVar(&orthogonal, "orthogonal", false, "Use orthogonal foot points when projecting")
	pathsCmd.Flags().BoolVar(&visible, "visible", false, "Print paths shortened for their markers")
	AddCommand(pathsCmd)
}

func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geom.Pt(x, y), nil
}
