// Package upload stores post images on disk and reports where they are served from.
package upload

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotImage     = errors.New("only image files can be uploaded")
	ErrImageInvalid = errors.New("image could not be decoded")
)

// Saved describes a stored upload.
type Saved struct {
	Path     string
	URL      string
	FileName string
	Width    int
	Height   int
}

// Saver writes uploaded images into dir and exposes them below urlPath.
type Saver struct {
	dir     string
	urlPath string
	now     func() time.Time
}

// NewSaver creates a Saver.
func NewSaver(dir, urlPath string) *Saver {
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	return &Saver{dir: dir, urlPath: urlPath, now: time.Now}
}

// Dir is the directory uploads are written to.
func (s *Saver) Dir() string {
	return s.dir
}

// URLPath is the path prefix uploads are served from.
func (s *Saver) URLPath() string {
	return s.urlPath
}

// Save validates that file is a decodable image and stores it under a generated name.
func (s *Saver) Save(file *multipart.FileHeader) (*Saved, error) {
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return nil, ErrNotImage
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, ErrImageInvalid
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%s%s", s.now().Format("20060102"), uuid.New().String(), ext)
	dst := filepath.Join(s.dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return nil, err
	}

	return &Saved{
		Path:     dst,
		URL:      path.Join(s.urlPath, name),
		FileName: name,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Remove deletes a stored upload. Missing files are ignored.
func (s *Saver) Remove(saved *Saved) error {
	if saved == nil || saved.Path == "" {
		return nil
	}
	if err := os.Remove(saved.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
