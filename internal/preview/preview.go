// Package preview rasterizes a scene tree in its final state.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/relgraph/relgraph/internal/geom"
	"github.com/relgraph/relgraph/internal/marker"
	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/segment"
)

var ErrEmptyScene = errors.New("nothing to draw")

const (
	DefaultWidth   = 800
	DefaultPadding = 16

	// Relations are flattened to this many points per arc segment.
	arcSteps = 24
)

type Options struct {
	Width      int
	MaxWidth   int
	Padding    float64
	Background string
}

// Render draws root into an image Width pixels wide. The height follows the
// aspect ratio of the scene bounds.
func Render(root *scene.Root, opts Options) (image.Image, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.MaxWidth > 0 {
		opts.Width = min(opts.Width, opts.MaxWidth)
	}
	if opts.Padding <= 0 {
		opts.Padding = DefaultPadding
	}
	if opts.Background == "" {
		opts.Background = "#ffffff"
	}

	if scene.ElementBounds(root).IsEmpty() {
		return nil, ErrEmptyScene
	}
	b := Bounds(root, opts.Padding)
	scale := float64(opts.Width) / b.Width
	height := max(1, int(b.Height*scale+0.5))

	dc := gg.NewContext(opts.Width, height)
	defer dc.Close()

	dc.SetHexColor(opts.Background)
	dc.DrawRectangle(0, 0, float64(opts.Width), float64(height))
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill background: %w", err)
	}

	dc.Scale(scale, scale)
	dc.Translate(-b.X, -b.Y)

	var drawErr error
	scene.Walk(root, func(e scene.Element) bool {
		if e.Opacity() <= 0 {
			return false
		}
		if err := drawElement(dc, e); err != nil {
			drawErr = fmt.Errorf("draw %q: %w", e.ID(), err)
			return false
		}
		return true
	})
	if drawErr != nil {
		return nil, drawErr
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return dc.Image(), nil
}

func drawElement(dc *gg.Context, e scene.Element) error {
	abs := scene.AbsolutePosition(e)
	switch v := e.(type) {
	case *scene.Component:
		dc.DrawRectangle(abs.X, abs.Y, v.Width, v.Height)
		return fillAndStroke(dc, orDefault(v.Fill, "#ffffff"), orDefault(v.Stroke, "#333333"), 1)

	case *scene.Interface:
		dc.DrawCircle(abs.X, abs.Y, v.Radius)
		return fillAndStroke(dc, "#ffffff", "#333333", 1)

	case *scene.Issue:
		dc.DrawCircle(abs.X, abs.Y, 6)
		dc.SetHexColor(severityColor(v.Severity))
		return dc.Fill()

	case *scene.Relation:
		return drawRelation(dc, v)
	}
	return nil
}

func drawRelation(dc *gg.Context, r *scene.Relation) error {
	stroke := orDefault(r.Stroke, "#333333")
	path := r.VisiblePath()
	if len(path.Segments) == 0 {
		return nil
	}

	dc.MoveTo(path.Start.X, path.Start.Y)
	for i, seg := range path.Segments {
		start := path.SegmentStart(i)
		switch seg.Kind {
		case segment.KindCubic:
			dc.CubicTo(seg.Control1.X, seg.Control1.Y, seg.Control2.X, seg.Control2.Y, seg.End.X, seg.End.Y)
		case segment.KindArc:
			for s := 1; s <= arcSteps; s++ {
				p := segment.PointAt(float64(s)/arcSteps, 0, seg, start)
				dc.LineTo(p.X, p.Y)
			}
		default:
			dc.LineTo(seg.End.X, seg.End.Y)
		}
	}
	dc.SetHexColor(stroke)
	dc.SetLineWidth(r.StrokeWidth)
	if err := dc.Stroke(); err != nil {
		return err
	}

	for _, m := range r.Markers() {
		eng := marker.Lookup(m.Kind)
		outline := eng.Outline()
		if len(outline) == 0 {
			continue
		}
		tr := m.Transform()
		for i, p := range outline {
			q := tr.TransformPoint(p)
			if i == 0 {
				dc.MoveTo(q.X, q.Y)
			} else {
				dc.LineTo(q.X, q.Y)
			}
		}
		dc.ClosePath()
		fill := "#ffffff"
		if eng.Filled() {
			fill = stroke
		}
		if err := fillAndStroke(dc, fill, stroke, r.StrokeWidth); err != nil {
			return err
		}
	}
	return nil
}

func fillAndStroke(dc *gg.Context, fill, stroke string, width float64) error {
	dc.SetHexColor(fill)
	if err := dc.FillPreserve(); err != nil {
		return err
	}
	dc.SetHexColor(stroke)
	dc.SetLineWidth(width)
	return dc.Stroke()
}

func severityColor(severity string) string {
	switch severity {
	case "error":
		return "#d32f2f"
	case "warning":
		return "#f9a825"
	default:
		return "#1976d2"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Thumbnail scales img down to at most maxWidth pixels wide.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Bounds returns the canvas area Render would draw for root.
func Bounds(root *scene.Root, padding float64) geom.Bounds {
	if padding <= 0 {
		padding = DefaultPadding
	}
	return scene.ElementBounds(root).Expand(padding)
}
