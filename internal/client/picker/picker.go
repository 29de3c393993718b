// Package picker abstracts how files enter the client. A Picker resolves
// user input into picked files; an Opener turns a picked file's local
// reference into a readable stream.
package picker

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vkozyrev/sharebox/internal/client/models"
)

// Picker resolves a set of user-supplied references into picked files.
type Picker interface {
	Pick(refs []string) ([]models.PickedFile, error)
}

// Opener opens the content behind a picked file's local reference.
// The returned size is -1 when it cannot be determined up front.
type Opener interface {
	Open(localRef string) (io.ReadCloser, int64, error)
}

// FS picks and opens files from the local filesystem.
type FS struct{}

func NewFS() *FS { return &FS{} }

// Pick stats every path and builds a PickedFile for each regular file.
// Directories and unreadable paths fail the whole pick, so the user learns
// about a bad selection before any upload starts.
func (p *FS) Pick(refs []string) ([]models.PickedFile, error) {
	picked := make([]models.PickedFile, 0, len(refs))
	for _, ref := range refs {
		info, err := os.Stat(ref)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", ref, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory: %w", ref, fs.ErrInvalid)
		}
		picked = append(picked, models.PickedFile{
			LocalRef: ref,
			Name:     filepath.Base(ref),
			SizeHint: info.Size(),
		})
	}
	return picked, nil
}

func (p *FS) Open(localRef string) (io.ReadCloser, int64, error) {
	f, err := os.Open(localRef)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
