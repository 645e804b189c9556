package document

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"artboard-studio/internal/artboard"
	"artboard-studio/internal/scene"
	"artboard-studio/pkg/colorutil"
)

func TestCaptureDropsOverlay(t *testing.T) {
	rect := scene.NewRect(10, 10, 50, 50, colorutil.Blue)
	tick := scene.NewLine(0, 0, 0, 5, colorutil.Black, 1)
	tick.Data.Role = scene.RoleRuler
	tick.Data.IgnoreSnapping = true
	guide := scene.NewLine(0, 0, 0, 100, colorutil.Blue, 1)
	guide.Data.Role = scene.RoleGuide

	got := Capture([]*scene.Object{rect, tick, guide})
	require.Len(t, got, 1)
	assert.Equal(t, rect.Data.ID, got[0].Data.ID)
	assert.NotSame(t, rect, got[0])
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster"+Extension)

	doc := New("Poster")
	a := artboard.New("Front", 600, 400)
	doc.AddBoards(a, artboard.New("Back", 600, 400))
	doc.Selected = a.ID
	rect := scene.NewRect(10, 20, 30, 40, colorutil.Blue)
	rect.Angle = 15
	require.True(t, doc.SetObjects(a.ID, []*scene.Object{a.Object(0, 0), rect}))
	assert.False(t, doc.SetObjects("missing", nil))
	require.NoError(t, doc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Poster", loaded.Name)
	assert.Equal(t, Version, loaded.Version)
	require.Len(t, loaded.Boards, 2)

	sel := loaded.SelectedBoard()
	require.NotNil(t, sel)
	assert.Equal(t, "Front", sel.Name)
	require.Len(t, sel.Objects, 2)
	assert.Equal(t, scene.TypeArtboard, sel.Objects[0].Data.Type)
	got := sel.Objects[1]
	assert.Equal(t, rect.Data.ID, got.Data.ID)
	assert.Equal(t, 15.0, got.Angle)
	assert.Equal(t, colorutil.Blue, got.Fill)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future"+Extension)
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "name": "x"}`), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Load(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRemoveBoard(t *testing.T) {
	doc := New("x")
	a, b := artboard.New("A", 10, 10), artboard.New("B", 10, 10)
	doc.AddBoards(a, b)
	doc.Selected = b.ID

	assert.True(t, doc.RemoveBoard(b.ID))
	assert.Empty(t, doc.Selected)
	assert.False(t, doc.RemoveBoard(b.ID))
	assert.Len(t, doc.Boards, 1)
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc"+Extension)

	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "pic.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	doc := New("x")
	a := artboard.New("A", 10, 10)
	doc.AddBoards(a)
	good := scene.NewImage(0, 0, src)
	good.Src = RelativePath(docPath, filepath.Join(dir, "pic.png"))
	bad := scene.NewImage(0, 0, src)
	bad.Src = "nope.png"
	doc.SetObjects(a.ID, []*scene.Object{good, bad})
	for _, o := range doc.Board(a.ID).Objects {
		o.Image = nil
	}

	err = doc.LoadImages(docPath)
	assert.Error(t, err)
	objs := doc.Board(a.ID).Objects
	require.NotNil(t, objs[0].Image)
	assert.Equal(t, 4, objs[0].Image.Bounds().Dx())
	assert.Nil(t, objs[1].Image)
	assert.Equal(t, "pic.png", good.Src)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/docs", "a.png"), ResolvePath("/docs/x.artboard", "a.png"))
	assert.Equal(t, "/abs/a.png", ResolvePath("/docs/x.artboard", "/abs/a.png"))
	assert.Equal(t, "", ResolvePath("/docs/x.artboard", ""))
}

func TestDecodeTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.tif")
	src := image.NewRGBA(image.Rect(0, 0, 6, 2))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, src, nil))
	require.NoError(t, f.Close())

	img, err := decodeImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 2), img.Bounds())
}
