package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/kedoo/internal/shared"
)

// ReleaseStatus is the review state of a persisted release.
type ReleaseStatus string

const (
	// StatusDraft is a release saved while still being authored; it is never reviewed.
	StatusDraft ReleaseStatus = "draft"
	// StatusModeration is a submitted release waiting for the moderator.
	StatusModeration ReleaseStatus = "moderation"
	// StatusApproved is a release accepted by the moderator.
	StatusApproved ReleaseStatus = "approved"
	// StatusRejected is a release turned down with a reason.
	StatusRejected ReleaseStatus = "rejected"
	// StatusDeleted is the result of a delete transition; records in this state are removed, never stored.
	StatusDeleted ReleaseStatus = "deleted"
)

// ReleaseStatuses lists the statuses a stored release can have.
var ReleaseStatuses = []ReleaseStatus{StatusDraft, StatusModeration, StatusApproved, StatusRejected}

// ParseReleaseStatus converts a user supplied filter into a [ReleaseStatus].
func ParseReleaseStatus(s string) (ReleaseStatus, error) {
	for _, status := range ReleaseStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: unknown release status %q", shared.ErrValidation, s)
}

func (s ReleaseStatus) String() string { return string(s) }

// Track is one song of a release. Tracks belong to exactly one release.
type Track struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	TikTokMoment string `json:"tiktokMoment" yaml:"tiktok_moment,omitempty"`
	MusicAuthor  string `json:"musicAuthor" yaml:"music_author"`
	LyricsAuthor string `json:"lyricsAuthor" yaml:"lyrics_author"`
	HasProfanity bool   `json:"hasProfanity" yaml:"has_profanity"`
	Performers   string `json:"performers" yaml:"performers"`
	Producers    string `json:"producers" yaml:"producers,omitempty"`
	ISRC         string `json:"isrc" yaml:"isrc,omitempty"`
	Language     string `json:"language" yaml:"language"`
	AudioFile    string `json:"audioFile,omitempty" yaml:"audio_file,omitempty"`
}

// Validate applies the track admission rule.
func (t Track) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"title", t.Title},
		{"musicAuthor", t.MusicAuthor},
		{"lyricsAuthor", t.LyricsAuthor},
		{"performers", t.Performers},
		{"language", t.Language},
	} {
		if shared.IsBlank(f.value) {
			missing = append(missing, f.name)
		}
	}
	return shared.MissingFields(missing...)
}

// Release is an album with its ordered track list moving through review.
type Release struct {
	ID              string        `json:"id" yaml:"id"`
	UserEmail       string        `json:"userEmail" yaml:"user_email"`
	Title           string        `json:"title" yaml:"title"`
	Artist          string        `json:"artist" yaml:"artist"`
	Genre           string        `json:"genre" yaml:"genre"`
	ReleaseDate     string        `json:"releaseDate" yaml:"release_date,omitempty"`
	UPC             string        `json:"upc" yaml:"upc,omitempty"`
	OldReleaseDate  string        `json:"oldReleaseDate" yaml:"old_release_date,omitempty"`
	CoverImage      string        `json:"coverImage" yaml:"cover_image"`
	Tracks          []Track       `json:"tracks" yaml:"tracks"`
	Status          ReleaseStatus `json:"status" yaml:"status"`
	RejectionReason string        `json:"rejectionReason,omitempty" yaml:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"createdAt,omitzero" yaml:"created_at,omitempty"`
}

// Key implements [Record].
func (r Release) Key() string { return r.ID }

// OwnedBy reports whether email owns the release.
func (r Release) OwnedBy(email string) bool { return r.UserEmail == email }

// Album returns the album detail stage of the release, used to re-check the album gate on draft submission.
func (r Release) Album() AlbumDraft {
	return AlbumDraft{
		Title:          r.Title,
		Artist:         r.Artist,
		Genre:          r.Genre,
		ReleaseDate:    r.ReleaseDate,
		UPC:            r.UPC,
		OldReleaseDate: r.OldReleaseDate,
		CoverImage:     r.CoverImage,
	}
}

// Validate checks the invariants every stored release satisfies.
func (r Release) Validate() error {
	if r.ID == "" {
		return shared.MissingFields("id")
	}
	if r.UserEmail == "" {
		return shared.MissingFields("userEmail")
	}
	if err := r.Album().validate(); err != nil {
		return err
	}

	switch r.Status {
	case StatusDraft:
	case StatusModeration, StatusApproved, StatusRejected:
		if len(r.Tracks) == 0 {
			return fmt.Errorf("%w: a %s release needs at least one track", shared.ErrValidation, r.Status)
		}
		if r.CreatedAt.IsZero() {
			return shared.MissingFields("createdAt")
		}
	default:
		return fmt.Errorf("%w: unknown release status %q", shared.ErrValidation, r.Status)
	}

	if (r.Status == StatusRejected) != (r.RejectionReason != "") {
		return fmt.Errorf("%w: rejection reason must be set exactly when rejected", shared.ErrValidation)
	}

	for i, t := range r.Tracks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("track %d: %w", i+1, err)
		}
	}

	return nil
}
