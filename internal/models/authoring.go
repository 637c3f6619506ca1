package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/kedoo/internal/shared"
)

// DateLayout is the format of release dates.
const DateLayout = time.DateOnly

// AlbumDraft is the album detail stage of authoring a release.
type AlbumDraft struct {
	Title          string
	Artist         string
	Genre          string
	ReleaseDate    string
	UPC            string
	OldReleaseDate string
	CoverImage     string // opaque blob reference
}

// validate checks the album gate: title, artist, genre from [Genres], a cover reference, and well formed optional dates.
func (a AlbumDraft) validate() error {
	var missing []string
	if shared.IsBlank(a.Title) {
		missing = append(missing, "title")
	}
	if shared.IsBlank(a.Artist) {
		missing = append(missing, "artist")
	}
	if shared.IsBlank(a.Genre) {
		missing = append(missing, "genre")
	}
	if shared.IsBlank(a.CoverImage) {
		missing = append(missing, "coverImage")
	}
	if err := shared.MissingFields(missing...); err != nil {
		return err
	}

	if _, ok := ParseGenre(a.Genre); !ok {
		return fmt.Errorf("%w: genre %q is not one of %s", shared.ErrValidation, a.Genre, strings.Join(Genres, ", "))
	}

	for name, value := range map[string]string{"releaseDate": a.ReleaseDate, "oldReleaseDate": a.OldReleaseDate} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, value); err != nil {
			return fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", shared.ErrValidation, name, value)
		}
	}

	return nil
}

// Advance moves the album into the track collection stage.
//
// Fails with a validation error, leaving a untouched, when the album gate is not met.
func (a AlbumDraft) Advance() (*TrackCollection, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	album := a
	album.Title = strings.TrimSpace(a.Title)
	album.Artist = strings.TrimSpace(a.Artist)
	album.Genre, _ = ParseGenre(a.Genre)
	album.UPC = strings.TrimSpace(a.UPC)

	return &TrackCollection{album: album}, nil
}

// TrackDraft is a track before it is admitted to a collection.
type TrackDraft struct {
	Title        string
	TikTokMoment string
	MusicAuthor  string
	LyricsAuthor string
	HasProfanity bool
	Performers   string
	Producers    string
	ISRC         string
	Language     string
	AudioFile    string // opaque blob reference
}

// Admit applies the track admission rule and returns the track with the given id.
func (d TrackDraft) Admit(id string) (Track, error) {
	t := Track{
		ID:           id,
		Title:        strings.TrimSpace(d.Title),
		TikTokMoment: strings.TrimSpace(d.TikTokMoment),
		MusicAuthor:  strings.TrimSpace(d.MusicAuthor),
		LyricsAuthor: strings.TrimSpace(d.LyricsAuthor),
		HasProfanity: d.HasProfanity,
		Performers:   strings.TrimSpace(d.Performers),
		Producers:    strings.TrimSpace(d.Producers),
		ISRC:         strings.TrimSpace(d.ISRC),
		Language:     strings.TrimSpace(d.Language),
		AudioFile:    d.AudioFile,
	}
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	return t, nil
}

// TrackCollection is the track collection stage: a validated album plus tracks in insertion order.
//
// It can only be obtained through [AlbumDraft.Advance].
type TrackCollection struct {
	album  AlbumDraft
	tracks []Track
}

// Album returns the validated album details.
func (c *TrackCollection) Album() AlbumDraft { return c.album }

// Tracks returns a copy of the admitted tracks in insertion order.
func (c *TrackCollection) Tracks() []Track { return slices.Clone(c.tracks) }

// Len returns the number of admitted tracks.
func (c *TrackCollection) Len() int { return len(c.tracks) }

// AddTrack admits d under a freshly generated id and appends it.
func (c *TrackCollection) AddTrack(d TrackDraft) (Track, error) {
	t, err := d.Admit(shared.GenerateID())
	if err != nil {
		return Track{}, err
	}
	c.tracks = append(c.tracks, t)
	return t, nil
}

// RemoveTrack drops the track with id, keeping the order of the rest.
func (c *TrackCollection) RemoveTrack(id string) error {
	idx := slices.IndexFunc(c.tracks, func(t Track) bool { return t.ID == id })
	if idx < 0 {
		return fmt.Errorf("track %s: %w", id, shared.ErrNotFound)
	}
	c.tracks = slices.Delete(c.tracks, idx, idx+1)
	return nil
}

// Draft builds the persisted draft form of the collection owned by owner.
func (c *TrackCollection) Draft(id, owner string) Release {
	tracks := c.Tracks()
	if tracks == nil {
		tracks = []Track{}
	}
	return Release{
		ID:             id,
		UserEmail:      owner,
		Title:          c.album.Title,
		Artist:         c.album.Artist,
		Genre:          c.album.Genre,
		ReleaseDate:    c.album.ReleaseDate,
		UPC:            c.album.UPC,
		OldReleaseDate: c.album.OldReleaseDate,
		CoverImage:     c.album.CoverImage,
		Tracks:         tracks,
		Status:         StatusDraft,
	}
}
