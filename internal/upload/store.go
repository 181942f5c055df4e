package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("file too large, maximum size is 5MB")
	ErrNotAnImage   = errors.New("only image files are allowed")
)

const MaxFileSize = 5 * 1024 * 1024

// Store keeps uploaded images on disk under Dir and hands out public paths
// rooted at PublicPath, which the HTTP layer serves statically.
type Store struct {
	Dir        string
	PublicPath string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, PublicPath: "/uploads"}, nil
}

// Save validates and persists an uploaded image, returning its public path.
// Filenames combine a millisecond timestamp with a random suffix so two
// uploads never collide; the original extension is preserved.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", ErrNotAnImage
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("image-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	return path.Join(s.PublicPath, name), nil
}

// Remove deletes the file behind a public path. Callers treat failures as
// orphans to report, not as fatal errors.
func (s *Store) Remove(publicPath string) error {
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return fmt.Errorf("invalid upload path %q", publicPath)
	}
	return os.Remove(filepath.Join(s.Dir, name))
}
