package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var storableImageExts = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpeg",
	".png":  ".png",
}

// ProfileImageStore persists uploaded profile images in a destination
// directory under a collision-resistant name.
type ProfileImageStore struct {
	dir string
}

// NewProfileImageStore returns a store writing into dir.
func NewProfileImageStore(dir string) *ProfileImageStore {
	return &ProfileImageStore{dir: dir}
}

// Save writes the uploaded file under "<login>_<token><ext>" and returns
// the stored name. The forms layer validates uploads first, but the store
// re-checks extension and size itself: an extension it cannot trust fails
// here, before anything touches the filesystem. Write failures surface to
// the caller, never silently.
func (s *ProfileImageStore) Save(login string, fh *multipart.FileHeader) (string, error) {
	ext, ok := storableImageExts[strings.ToLower(filepath.Ext(fh.Filename))]
	if !ok {
		return "", fmt.Errorf("unsupported profile image extension %q", filepath.Ext(fh.Filename))
	}
	if fh.Size > 10<<20 {
		return "", fmt.Errorf("profile image exceeds the 10 MB limit")
	}

	// The uniqueness token makes concurrent uploads collision-free even
	// for the same login.
	name := fmt.Sprintf("%s_%s%s", login, uuid.NewString(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create profile image file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write profile image: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write profile image: %w", err)
	}
	return name, nil
}
