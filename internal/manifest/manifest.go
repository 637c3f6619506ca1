// package manifest reads release descriptions (TOML files for the CLI, JSON bodies for the HTTP API)
// and runs them through the authoring stages.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/desertthunder/kedoo/internal/blob"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
)

// Manifest describes an album and its tracks.
//
// Cover and Audio hold either a local path, resolved through a [blob.Resolver], or an existing reference.
type Manifest struct {
	Title          string  `toml:"title" json:"title"`
	Artist         string  `toml:"artist" json:"artist"`
	Genre          string  `toml:"genre" json:"genre"`
	ReleaseDate    string  `toml:"release_date" json:"releaseDate"`
	UPC            string  `toml:"upc" json:"upc"`
	OldReleaseDate string  `toml:"old_release_date" json:"oldReleaseDate"`
	Cover          string  `toml:"cover" json:"coverImage"`
	Draft          bool    `toml:"draft" json:"draft"`
	Tracks         []Track `toml:"tracks" json:"tracks"`
}

// Track is one [[tracks]] entry.
type Track struct {
	Title        string `toml:"title" json:"title"`
	TikTokMoment string `toml:"tiktok_moment" json:"tiktokMoment"`
	MusicAuthor  string `toml:"music_author" json:"musicAuthor"`
	LyricsAuthor string `toml:"lyrics_author" json:"lyricsAuthor"`
	HasProfanity bool   `toml:"has_profanity" json:"hasProfanity"`
	Performers   string `toml:"performers" json:"performers"`
	Producers    string `toml:"producers" json:"producers"`
	ISRC         string `toml:"isrc" json:"isrc"`
	Language     string `toml:"language" json:"language"`
	Audio        string `toml:"audio" json:"audioFile"`
}

// Load reads the TOML manifest at path.
//
// Relative cover and audio paths are taken relative to the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	m.Cover = relativeTo(dir, m.Cover)
	for i := range m.Tracks {
		m.Tracks[i].Audio = relativeTo(dir, m.Tracks[i].Audio)
	}
	return m, nil
}

// Parse decodes a TOML manifest. Unknown keys are rejected so typos do not silently drop fields.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse manifest: %v", shared.ErrValidation, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%w: unknown manifest keys: %s", shared.ErrValidation, strings.Join(keys, ", "))
	}
	return &m, nil
}

// Build resolves blobs through r, passes the album gate and admits every track in order.
func (m *Manifest) Build(r blob.Resolver) (*models.TrackCollection, error) {
	cover, err := r.Resolve(m.Cover, blob.KindCover)
	if err != nil {
		return nil, err
	}

	c, err := models.AlbumDraft{
		Title:          m.Title,
		Artist:         m.Artist,
		Genre:          m.Genre,
		ReleaseDate:    strings.TrimSpace(m.ReleaseDate),
		UPC:            m.UPC,
		OldReleaseDate: strings.TrimSpace(m.OldReleaseDate),
		CoverImage:     cover,
	}.Advance()
	if err != nil {
		return nil, err
	}

	for i, t := range m.Tracks {
		audio, err := r.Resolve(t.Audio, blob.KindAudio)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}

		_, err = c.AddTrack(models.TrackDraft{
			Title:        t.Title,
			TikTokMoment: t.TikTokMoment,
			MusicAuthor:  t.MusicAuthor,
			LyricsAuthor: t.LyricsAuthor,
			HasProfanity: t.HasProfanity,
			Performers:   t.Performers,
			Producers:    t.Producers,
			ISRC:         t.ISRC,
			Language:     t.Language,
			AudioFile:    audio,
		})
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}
	}

	return c, nil
}

func relativeTo(dir, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.Contains(p, "://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
