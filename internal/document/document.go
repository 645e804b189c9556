// Package document provides the design document file and its persistence.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decoders for embedded images
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"artboard-studio/internal/artboard"
	"artboard-studio/internal/scene"
)

// Version is the file format version written by Save.
const Version = 1

// Extension is the file extension for documents.
const Extension = ".artboard"

// ErrUnsupportedVersion is returned when a file was written by a newer
// format than this build understands.
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Board is an artboard together with the objects laid out on it.
type Board struct {
	artboard.Artboard
	Objects []*scene.Object `json:"objects"`
}

// File represents a design document (.artboard).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Boards   []*Board `json:"artboards"`
	Selected string   `json:"selected,omitempty"`
}

// New creates an empty document.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  Version,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Load loads a document from a file. Image objects keep their Src path;
// call LoadImages to decode them.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	return &doc, nil
}

// Save saves the document to a file.
func (d *File) Save(path string) error {
	d.Modified = time.Now()
	d.Version = Version

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Capture returns copies of the objects that belong in a saved artboard.
// Ruler elements, snap guides and anything excluded from snapping are
// dropped.
func Capture(objects []*scene.Object) []*scene.Object {
	kept := scene.FilterSaveExcludes(objects)
	out := make([]*scene.Object, len(kept))
	for i, o := range kept {
		out[i] = o.Clone()
	}
	return out
}

// Board returns the board with id, or nil.
func (d *File) Board(id string) *Board {
	for _, b := range d.Boards {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// SelectedBoard returns the selected board, or nil.
func (d *File) SelectedBoard() *Board {
	return d.Board(d.Selected)
}

// AddBoards appends new boards with no objects.
func (d *File) AddBoards(boards ...artboard.Artboard) {
	for _, a := range boards {
		d.Boards = append(d.Boards, &Board{Artboard: a})
	}
	d.Modified = time.Now()
}

// SetObjects stores a captured copy of objects on the board with id.
// It reports whether the board exists.
func (d *File) SetObjects(id string, objects []*scene.Object) bool {
	b := d.Board(id)
	if b == nil {
		return false
	}
	b.Objects = Capture(objects)
	d.Modified = time.Now()
	return true
}

// RemoveBoard deletes the board with id, clearing the selection if it was
// selected.
func (d *File) RemoveBoard(id string) bool {
	for i, b := range d.Boards {
		if b.ID == id {
			d.Boards = append(d.Boards[:i], d.Boards[i+1:]...)
			if d.Selected == id {
				d.Selected = ""
			}
			d.Modified = time.Now()
			return true
		}
	}
	return false
}

// RelativePath returns target relative to the document directory when
// possible.
func RelativePath(docPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(docPath), target)
	if err != nil {
		return target
	}
	return rel
}

// ResolvePath returns the absolute path of a document-relative path.
func ResolvePath(docPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(docPath), p)
}

// LoadImages decodes the Src of every image object. Missing or unreadable
// images are collected and returned together; the other images still load.
func (d *File) LoadImages(docPath string) error {
	var errs []error
	for _, b := range d.Boards {
		for _, o := range b.Objects {
			if o.Data.Type != scene.TypeImage || o.Src == "" || o.Image != nil {
				continue
			}
			img, err := decodeImage(ResolvePath(docPath, o.Src))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			o.Image = img
		}
	}
	return errors.Join(errs...)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
