// Package content reads the script's texts and media assets from disk.
// Texts follow the "{stage}{suffix}.txt" naming convention of the script.
package content

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mafiabot/core/flow"
)

// Loader implements flow.ContentLoader on top of two directories: one with
// the stage texts and one with the image/video assets.
type Loader struct {
	textsDir  string
	assetsDir string
}

// NewLoader returns a loader rooted at the given directories.
func NewLoader(textsDir, assetsDir string) *Loader {
	return &Loader{textsDir: textsDir, assetsDir: assetsDir}
}

// Text reads the UTF-8 text for a stage variant.
func (l *Loader) Text(stage flow.Stage, suffix string) (string, error) {
	name := string(stage) + suffix + ".txt"
	data, err := os.ReadFile(filepath.Join(l.textsDir, name))
	if err != nil {
		return "", fmt.Errorf("content: read %s: %w", name, err)
	}
	return string(data), nil
}

// Asset opens a media file from the assets directory.
func (l *Loader) Asset(_ flow.MediaKind, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.assetsDir, name))
	if err != nil {
		return nil, fmt.Errorf("content: open asset %s: %w", name, err)
	}
	return f, nil
}

var _ flow.ContentLoader = (*Loader)(nil)
