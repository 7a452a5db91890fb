package preview

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/snapshot"
)

func TestRender(t *testing.T) {
	root, err := scene.Build(&snapshot.Snapshot{
		Root: snapshot.NewNode("root", snapshot.TypeRoot, nil,
			snapshot.NewNode("a", snapshot.TypeComponent, snapshot.ComponentData{Width: 100, Height: 50, Fill: "#ff0000"}),
		),
	})
	require.NoError(t, err)

	img, err := Render(root, Options{Width: 240, Padding: 10})
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 140, img.Bounds().Dy())

	r, g, b, _ := img.At(120, 70).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, g, uint32(0x1000))
	assert.Less(t, b, uint32(0x1000))

	r, g, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	thumb := Thumbnail(img, 60)
	assert.Equal(t, 60, thumb.Bounds().Dx())
	assert.Equal(t, 35, thumb.Bounds().Dy())
	assert.Equal(t, img.Bounds(), Thumbnail(img, 1000).Bounds())

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, thumb))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, thumb.Bounds(), decoded.Bounds())
}

func TestRenderSample(t *testing.T) {
	root, err := scene.Build(snapshot.NewSample())
	require.NoError(t, err)

	img, err := Render(root, Options{Width: 4000, MaxWidth: 500})
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
}

func TestRenderEmpty(t *testing.T) {
	_, err := Render(scene.NewRoot("root"), Options{})
	assert.ErrorIs(t, err, ErrEmptyScene)
}
