package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/kedoo/internal/shared"
)

func validAlbum() AlbumDraft {
	return AlbumDraft{
		Title:      "Demo",
		Artist:     "The Testers",
		Genre:      "Рок",
		CoverImage: "file:///tmp/cover.jpg",
	}
}

func validTrack(title string) TrackDraft {
	return TrackDraft{
		Title:        title,
		MusicAuthor:  "Ivan Petrov",
		LyricsAuthor: "Anna Petrova",
		Performers:   "The Testers",
		Language:     "ru",
	}
}

func TestAlbumDraftAdvance(t *testing.T) {
	tt := []struct {
		name    string
		mutate  func(*AlbumDraft)
		wantErr string
	}{
		{name: "complete album", mutate: func(*AlbumDraft) {}},
		{name: "missing title", mutate: func(a *AlbumDraft) { a.Title = "" }, wantErr: "title"},
		{name: "blank artist", mutate: func(a *AlbumDraft) { a.Artist = "   " }, wantErr: "artist"},
		{name: "missing genre", mutate: func(a *AlbumDraft) { a.Genre = "" }, wantErr: "genre"},
		{name: "missing cover", mutate: func(a *AlbumDraft) { a.CoverImage = "" }, wantErr: "coverImage"},
		{name: "genre outside list", mutate: func(a *AlbumDraft) { a.Genre = "Polka" }, wantErr: "Polka"},
		{name: "malformed release date", mutate: func(a *AlbumDraft) { a.ReleaseDate = "31.12.2025" }, wantErr: "releaseDate"},
		{name: "valid dates", mutate: func(a *AlbumDraft) {
			a.ReleaseDate = "2025-12-31"
			a.OldReleaseDate = "2019-01-01"
		}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			album := validAlbum()
			tc.mutate(&album)

			collection, err := album.Advance()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected advance to succeed, got %v", err)
				}
				if collection.Len() != 0 {
					t.Errorf("new collection should be empty, got %d tracks", collection.Len())
				}
				return
			}

			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error to mention %q, got %v", tc.wantErr, err)
			}
			if collection != nil {
				t.Error("failed advance should not return a collection")
			}
		})
	}

	t.Run("normalizes fields", func(t *testing.T) {
		album := validAlbum()
		album.Title = "  Demo  "
		album.Genre = " Рок "

		collection, err := album.Advance()
		if err != nil {
			t.Fatalf("failed to advance: %v", err)
		}
		if got := collection.Album().Title; got != "Demo" {
			t.Errorf("expected trimmed title, got %q", got)
		}
		if got := collection.Album().Genre; got != "Рок" {
			t.Errorf("expected normalized genre, got %q", got)
		}
	})
}

func TestTrackAdmission(t *testing.T) {
	t.Run("defaults optional fields", func(t *testing.T) {
		track, err := validTrack("T1").Admit("t-1")
		if err != nil {
			t.Fatalf("expected admission, got %v", err)
		}
		if track.HasProfanity {
			t.Error("hasProfanity should default to false")
		}
		if track.ISRC != "" || track.Producers != "" || track.TikTokMoment != "" {
			t.Error("optional fields should default to empty")
		}
		if track.ID != "t-1" {
			t.Errorf("expected id t-1, got %s", track.ID)
		}
	})

	for _, field := range []string{"title", "musicAuthor", "lyricsAuthor", "performers", "language"} {
		t.Run("requires "+field, func(t *testing.T) {
			draft := validTrack("T1")
			switch field {
			case "title":
				draft.Title = ""
			case "musicAuthor":
				draft.MusicAuthor = ""
			case "lyricsAuthor":
				draft.LyricsAuthor = ""
			case "performers":
				draft.Performers = ""
			case "language":
				draft.Language = ""
			}

			_, err := draft.Admit("t-1")
			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("expected error to name %s, got %v", field, err)
			}
		})
	}
}

func TestTrackCollection(t *testing.T) {
	newCollection := func(t *testing.T) *TrackCollection {
		t.Helper()
		c, err := validAlbum().Advance()
		if err != nil {
			t.Fatalf("failed to advance album: %v", err)
		}
		return c
	}

	t.Run("keeps insertion order", func(t *testing.T) {
		c := newCollection(t)
		for _, title := range []string{"One", "Two", "Three"} {
			if _, err := c.AddTrack(validTrack(title)); err != nil {
				t.Fatalf("failed to add %s: %v", title, err)
			}
		}

		tracks := c.Tracks()
		for i, want := range []string{"One", "Two", "Three"} {
			if tracks[i].Title != want {
				t.Errorf("position %d: expected %s, got %s", i, want, tracks[i].Title)
			}
		}
	})

	t.Run("rejected track is not appended", func(t *testing.T) {
		c := newCollection(t)
		if _, err := c.AddTrack(TrackDraft{Title: "Lonely"}); err == nil {
			t.Fatal("expected admission failure")
		}
		if c.Len() != 0 {
			t.Errorf("expected empty collection, got %d", c.Len())
		}
	})

	t.Run("remove track", func(t *testing.T) {
		c := newCollection(t)
		first, _ := c.AddTrack(validTrack("One"))
		second, _ := c.AddTrack(validTrack("Two"))
		third, _ := c.AddTrack(validTrack("Three"))

		if err := c.RemoveTrack(second.ID); err != nil {
			t.Fatalf("failed to remove track: %v", err)
		}

		tracks := c.Tracks()
		if len(tracks) != 2 || tracks[0].ID != first.ID || tracks[1].ID != third.ID {
			t.Errorf("unexpected tracks after removal: %+v", tracks)
		}

		if err := c.RemoveTrack(second.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found on second removal, got %v", err)
		}
	})

	t.Run("Tracks returns a copy", func(t *testing.T) {
		c := newCollection(t)
		c.AddTrack(validTrack("One"))

		tracks := c.Tracks()
		tracks[0].Title = "Changed"

		if c.Tracks()[0].Title != "One" {
			t.Error("mutating the returned slice should not change the collection")
		}
	})

	t.Run("Draft", func(t *testing.T) {
		c := newCollection(t)
		draft := c.Draft("r-1", "a@x.com")

		if draft.Status != StatusDraft {
			t.Errorf("expected draft status, got %s", draft.Status)
		}
		if draft.Tracks == nil {
			t.Error("draft tracks should be an empty slice, not nil")
		}
		if err := draft.Validate(); err != nil {
			t.Errorf("empty draft should validate: %v", err)
		}
	})
}
