// Package attachment stores uploaded product files in a path-addressed area
// and serves them back as static content.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	// ErrUnsupportedExtension is returned by Put for file names outside the allow-list.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrInvalidReference is returned for references outside the attachment area.
	ErrInvalidReference = errors.New("invalid attachment reference")
)

// Store persists attachment content. A reference returned by Put is the
// value stored on a product, e.g. "uploads/0190f6c2-....jpg".
type Store interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
	Handler() http.Handler
}

var _ Store = (*FSStore)(nil)

// FSStore keeps attachments in the root of an afero filesystem.
type FSStore struct {
	fs                afero.Fs
	refPrefix         string
	allowedExtensions []string
}

// NewFSStore returns a store writing into fs. References are built as
// refPrefix + "/" + generated name. An empty allowedExtensions accepts any
// extension.
func NewFSStore(fs afero.Fs, refPrefix string, allowedExtensions []string) *FSStore {
	exts := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}

	return &FSStore{
		fs:                fs,
		refPrefix:         strings.Trim(refPrefix, "/"),
		allowedExtensions: exts,
	}
}

// NewOSStore returns an FSStore rooted at dir on the local disk, creating
// dir when missing.
func NewOSStore(dir, refPrefix string, allowedExtensions []string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	return NewFSStore(fs, refPrefix, allowedExtensions), nil
}

func (s *FSStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(s.allowedExtensions) > 0 && !slices.Contains(s.allowedExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid v7: %w", err)
	}

	name := id.String() + ext
	if err := afero.WriteReader(s.fs, "/"+name, r); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}

	return path.Join(s.refPrefix, name), nil
}

func (s *FSStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := s.nameFromRef(ref)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open("/" + name)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return f, nil
}

func (s *FSStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, err := s.nameFromRef(ref)
	if err != nil {
		return err
	}

	if err := s.fs.Remove("/" + name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}

// Handler serves stored attachments by name through Open. Mount it with
// the public prefix stripped.
func (s *FSStore) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		rc, err := s.Open(r.Context(), path.Join(s.refPrefix, name))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer rc.Close()

		f, ok := rc.(afero.File)
		if !ok {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}

func (s *FSStore) nameFromRef(ref string) (string, error) {
	prefix := s.refPrefix + "/"
	if s.refPrefix == "" {
		prefix = ""
	}

	name, ok := strings.CutPrefix(strings.TrimPrefix(ref, "/"), prefix)
	if !ok || name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return name, nil
}
