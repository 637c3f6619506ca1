package blob

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/kedoo/internal/shared"
	th "github.com/desertthunder/kedoo/internal/testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()

	cover := filepath.Join(dir, "cover.png")
	th.MustWriteFile(t, cover, pngHeader)

	large := filepath.Join(dir, "large.png")
	th.MustWriteFile(t, large, append(pngHeader, bytes.Repeat([]byte{0}, 2048)...))

	text := filepath.Join(dir, "notes.txt")
	th.MustWriteFile(t, text, []byte("not an image"))

	audio := filepath.Join(dir, "track.wav")
	th.MustWriteFile(t, audio, bytes.Repeat([]byte{1}, 4096))

	r := NewFileResolver(1024)

	t.Run("cover", func(t *testing.T) {
		ref, err := r.Resolve(cover, KindCover)
		if err != nil {
			t.Fatalf("failed to resolve cover: %v", err)
		}
		if !strings.HasPrefix(ref, "file://") || !strings.HasSuffix(ref, "/cover.png") {
			t.Errorf("unexpected reference %s", ref)
		}
	})

	t.Run("cover too large", func(t *testing.T) {
		_, err := r.Resolve(large, KindCover)
		if !errors.Is(err, shared.ErrBlobTooLarge) {
			t.Fatalf("expected blob too large, got %v", err)
		}
		if !errors.Is(err, shared.ErrValidation) {
			t.Error("blob too large should be a validation error")
		}
	})

	t.Run("cover must be an image", func(t *testing.T) {
		if _, err := r.Resolve(text, KindCover); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("audio has no cap", func(t *testing.T) {
		if _, err := r.Resolve(audio, KindAudio); err != nil {
			t.Errorf("audio should resolve regardless of size: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := r.Resolve(filepath.Join(dir, "nope.png"), KindCover); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		if _, err := r.Resolve(dir, KindAudio); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("empty and existing references", func(t *testing.T) {
		if ref, err := r.Resolve("  ", KindAudio); err != nil || ref != "" {
			t.Errorf("expected empty reference, got %q/%v", ref, err)
		}
		if ref, err := r.Resolve("https://cdn.example.com/c.jpg", KindCover); err != nil || ref != "https://cdn.example.com/c.jpg" {
			t.Errorf("expected passthrough, got %q/%v", ref, err)
		}
	})

	t.Run("default cap", func(t *testing.T) {
		if NewFileResolver(0).maxCoverBytes != DefaultMaxCoverBytes {
			t.Error("expected default cap")
		}
	})
}

func TestReferenceResolver(t *testing.T) {
	var r ReferenceResolver

	tests := []struct {
		name  string
		input string
		want  string
		err   bool
	}{
		{"empty", "  ", "", false},
		{"https", "https://cdn.example.com/c.jpg", "https://cdn.example.com/c.jpg", false},
		{"file uri", "file:///srv/media/c.png", "file:///srv/media/c.png", false},
		{"absolute path", "/etc/passwd", "", true},
		{"relative path", "cover.png", "", true},
		{"scheme without authority", "mailto:a@x.com", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(tc.input, KindCover)
			if tc.err {
				if !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected validation error, got %q/%v", got, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("expected %q, got %q/%v", tc.want, got, err)
			}
		})
	}
}
