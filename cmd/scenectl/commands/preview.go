package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/preview"
)

var (
	previewOutput string
	previewWidth  int
	previewThumb  int
	previewBg     string
)

var previewCmd = &cobra.Command{
	Use:   "preview <snapshot.json>",
	Short: "Renders a snapshot to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadScene(args[0])
		if err != nil {
			return err
		}

		img, err := preview.Render(root, preview.Options{Width: previewWidth, Background: previewBg})
		if err != nil {
			return err
		}
		if previewThumb > 0 {
			img = preview.Thumbnail(img, previewThumb)
		}

		f, err := os.Create(previewOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", previewOutput, err)
		}
		defer f.Close()
		if err := preview.WritePNG(f, img); err != nil {
			return err
		}

		b := img.Bounds()
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", previewOutput, b.Dx(), b.Dy())
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "preview.png", "Output PNG file")
	previewCmd.Flags().IntVarP(&previewWidth, "width", "w", preview.DefaultWidth, "Image width in pixels")
	previewCmd.Flags().IntVar(&previewThumb, "thumb", 0, "Scale the image down to at most this width")
	previewCmd.Flags().StringVar(&previewBg, "background", "", "Background color as hex")
	AddCommand(previewCmd)
}
