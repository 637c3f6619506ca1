// package blob turns user selected files into the opaque references stored on releases and tracks.
//
// Blob contents are never copied; a reference is a file:// URI pointing at the original file.
package blob

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/kedoo/internal/shared"
)

// DefaultMaxCoverBytes is the cover image size cap (10 MB).
const DefaultMaxCoverBytes int64 = 10 * 1024 * 1024

// Kind distinguishes the blobs a release can reference.
type Kind int

const (
	KindCover Kind = iota
	KindAudio
)

func (k Kind) String() string {
	if k == KindCover {
		return "cover image"
	}
	return "audio file"
}

// Resolver turns a local path into a storable reference.
type Resolver interface {
	Resolve(path string, kind Kind) (string, error)
}

// FileResolver resolves local files into file:// references.
type FileResolver struct {
	maxCoverBytes int64
}

// NewFileResolver creates a new [FileResolver]. A non-positive cap falls back to [DefaultMaxCoverBytes].
func NewFileResolver(maxCoverBytes int64) *FileResolver {
	if maxCoverBytes <= 0 {
		maxCoverBytes = DefaultMaxCoverBytes
	}
	return &FileResolver{maxCoverBytes: maxCoverBytes}
}

// Resolve checks the file at path and returns its reference.
//
// Empty paths resolve to an empty reference. Values that already carry a URI scheme are returned unchanged.
// Covers must be images no larger than the configured cap; audio files are not size-limited.
func (r *FileResolver) Resolve(path string, kind Kind) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.Contains(path, "://") {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path: %w", kind, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s %s is not readable: %v", shared.ErrValidation, kind, path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s %s is a directory", shared.ErrValidation, kind, path)
	}

	if kind == KindCover {
		if info.Size() > r.maxCoverBytes {
			return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", shared.ErrBlobTooLarge, path, info.Size(), r.maxCoverBytes)
		}

		contentType, err := sniff(abs)
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(contentType, "image/") {
			return "", fmt.Errorf("%w: cover image %s has content type %s", shared.ErrValidation, path, contentType)
		}
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// ReferenceResolver accepts only values that are already references and never touches the filesystem.
//
// It serves callers that must not name local files, such as remote API clients.
type ReferenceResolver struct{}

// Resolve returns ref when it is an absolute URI; any other non-empty value is rejected.
func (ReferenceResolver) Resolve(ref string, kind Kind) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || !strings.Contains(ref, "://") {
		return "", fmt.Errorf("%w: %s must be a URI reference", shared.ErrValidation, kind)
	}
	return ref, nil
}

// sniff detects the content type from the first 512 bytes of the file.
func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}
