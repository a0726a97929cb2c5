package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// IndexFile is served for the root path.
const IndexFile = "index.html"

// ErrNotFound is returned for paths that do not name a regular file inside the root.
var ErrNotFound = errors.New("file not found")

// File describes a servable file under the root directory.
type File struct {
	// Name is the slash-separated path relative to the root.
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Service resolves request paths to files under a single root directory.
type Service struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger
}

// NewService serves files from root on the OS filesystem.
func NewService(root string, logger *zap.Logger) *Service {
	return NewServiceFs(afero.NewBasePathFs(afero.NewOsFs(), root), root, logger)
}

// NewServiceFs serves files from fsys, which must already be rooted at root.
func NewServiceFs(fsys afero.Fs, root string, logger *zap.Logger) *Service {
	return &Service{fs: fsys, root: root, logger: logger}
}

// Root returns the directory files are served from.
func (s *Service) Root() string {
	return s.root
}

// Resolve maps a URL path onto a clean slash-separated name relative to the root.
// The empty path and "/" map to IndexFile. Any ".." segment is rejected.
func Resolve(requestPath string) (string, error) {
	p, err := url.PathUnescape(requestPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, requestPath)
	}

	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s escapes the root directory", ErrNotFound, requestPath)
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" {
		return IndexFile, nil
	}
	return name, nil
}

// Lookup resolves requestPath and returns the file's metadata.
func (s *Service) Lookup(requestPath string) (*File, error) {
	name, err := Resolve(requestPath)
	if err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, name)
	}

	ct, err := s.contentType(name)
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        name,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: ct,
	}, nil
}

// Open opens a file previously returned by Lookup.
func (s *Service) Open(f *File) (afero.File, error) {
	file, err := s.fs.Open(f.Name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Name)
		}
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	return file, nil
}

// contentType infers the MIME type from the extension, sniffing the
// content when the extension is unknown.
func (s *Service) contentType(name string) (string, error) {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct, nil
	}

	f, err := s.fs.Open(name)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug("Content sniffing failed", zap.String("file", name), zap.Error(err))
		return "application/octet-stream", nil
	}
	return mt.String(), nil
}
