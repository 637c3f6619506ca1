// package formatter provides functions to export release data to various formats (JSON, YAML, Markdown, CSV)
// and to render releases and tickets as terminal tables.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Format is a release export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatCSV}

// ParseFormat converts a user supplied format name into a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrValidation, s)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json"
	}
}

// Filename returns the default file name for exporting r as f, e.g. release-<id>.json
func Filename(r models.Release, f Format) string {
	return fmt.Sprintf("release-%s.%s", r.ID, f)
}

// ExportRelease renders r in format f
func ExportRelease(r models.Release, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(r)
	case FormatYAML:
		return ExportToYAML(r)
	case FormatMarkdown:
		return ExportToMarkdown(r)
	case FormatCSV:
		return ExportToCSV(r)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrValidation, f)
	}
}

// ExportToJSON renders the full release record as indented JSON
func ExportToJSON(r models.Release) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal release: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML renders the full release record as YAML
func ExportToYAML(r models.Release) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal release: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush yaml encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a release sheet with album details followed by the numbered track list
func ExportToMarkdown(r models.Release) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", r.Title))

	if r.CoverImage != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", r.CoverImage))
	}

	buf.WriteString(fmt.Sprintf("**Artist**: %s\n", r.Artist))
	buf.WriteString(fmt.Sprintf("**Genre**: %s\n", r.Genre))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", r.Status))
	for _, field := range []struct{ label, value string }{
		{"Release date", r.ReleaseDate},
		{"Original release date", r.OldReleaseDate},
		{"UPC", r.UPC},
		{"Rejection reason", r.RejectionReason},
	} {
		if field.value != "" {
			buf.WriteString(fmt.Sprintf("**%s**: %s\n", field.label, field.value))
		}
	}
	if !r.CreatedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Submitted**: %s\n", r.CreatedAt.Format("2006-01-02 15:04")))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(r.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, t := range r.Tracks {
		explicit := ""
		if t.HasProfanity {
			explicit = " [explicit]"
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, t.Performers, t.Title, explicit))
		buf.WriteString(fmt.Sprintf("   - Music: %s; Lyrics: %s; Language: %s\n", t.MusicAuthor, t.LyricsAuthor, t.Language))
		if t.Producers != "" {
			buf.WriteString(fmt.Sprintf("   - Producers: %s\n", t.Producers))
		}
		if t.ISRC != "" {
			buf.WriteString(fmt.Sprintf("   - ISRC: %s\n", t.ISRC))
		}
	}

	return buf.Bytes(), nil
}

// ExportToCSV converts the track list of a release to CSV, one row per track in release order
func ExportToCSV(r models.Release) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{
		"Position", "ID", "Title", "Performers", "MusicAuthor", "LyricsAuthor",
		"Producers", "Language", "ISRC", "Explicit", "TikTokMoment", "AudioFile",
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, t := range r.Tracks {
		record := []string{
			strconv.Itoa(i + 1),
			t.ID,
			t.Title,
			t.Performers,
			t.MusicAuthor,
			t.LyricsAuthor,
			t.Producers,
			t.Language,
			t.ISRC,
			strconv.FormatBool(t.HasProfanity),
			t.TikTokMoment,
			t.AudioFile,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteExport renders r as f and writes it to path.
//
// Defaults to [Filename] in the working directory when path is empty. Returns the path written.
func WriteExport(r models.Release, f Format, path string) (string, error) {
	if path == "" {
		path = Filename(r, f)
	}

	data, err := ExportRelease(r, f)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
