package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrBadName  = errors.New("invalid file name")
)

// Info describes one stored upload. Name is the name on disk; the original
// upload name survives as the prefix before the uuid suffix.
type Info struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store keeps uploads as plain files in a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Info{Name: e.Name(), Size: fi.Size(), UploadedAt: fi.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

// Save writes the upload under a uuid-suffixed name so repeated uploads of
// the same file never collide.
func (s *Store) Save(fh *multipart.FileHeader) (*Info, error) {
	base := filepath.Base(fh.Filename)
	if base == "." || base == "/" || base == "" {
		return nil, ErrBadName
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s-%s%s", stem, uuid.NewString(), ext)

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, err
	}
	return &Info{Name: name, Size: size, UploadedAt: time.Now()}, nil
}

// Delete removes a stored file. The name must resolve inside the uploads
// directory; anything with path separators is rejected outright.
func (s *Store) Delete(name string) error {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return ErrBadName
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// Path resolves a stored file for download, with the same traversal guard as
// Delete.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", ErrBadName
	}
	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return p, nil
}
