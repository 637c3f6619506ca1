package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	th "github.com/desertthunder/kedoo/internal/testing"
)

func testRelease(id, owner string, status models.ReleaseStatus) models.Release {
	r := models.Release{
		ID:         id,
		UserEmail:  owner,
		Title:      "Album " + id,
		Artist:     "Artist",
		Genre:      "Поп",
		CoverImage: "file:///tmp/" + id + ".jpg",
		Tracks:     []models.Track{},
		Status:     status,
	}
	if status != models.StatusDraft {
		r.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		r.Tracks = []models.Track{{ID: id + "-t1", Title: "Song", MusicAuthor: "M", LyricsAuthor: "L", Performers: "P", Language: "en"}}
	}
	return r
}

func TestCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("List empty", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))

		releases, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if releases == nil || len(releases) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", releases)
		}
	})

	t.Run("Append keeps insertion order", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))

		for _, id := range []string{"r1", "r2", "r3"} {
			if err := repo.Append(ctx, testRelease(id, "a@x.com", models.StatusModeration)); err != nil {
				t.Fatalf("failed to append %s: %v", id, err)
			}
		}

		releases, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(releases) != 3 {
			t.Fatalf("expected 3 releases, got %d", len(releases))
		}
		for i, id := range []string{"r1", "r2", "r3"} {
			if releases[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, releases[i].ID)
			}
		}
	})

	t.Run("Append duplicate key", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		r := testRelease("r1", "a@x.com", models.StatusDraft)

		if err := repo.Append(ctx, r); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
		if err := repo.Append(ctx, r); !errors.Is(err, shared.ErrDuplicate) {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		want := testRelease("r1", "a@x.com", models.StatusModeration)
		if err := repo.Append(ctx, want); err != nil {
			t.Fatalf("failed to append: %v", err)
		}

		got, err := repo.Get(ctx, "r1")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.Title != want.Title || !got.CreatedAt.Equal(want.CreatedAt) || len(got.Tracks) != 1 {
			t.Errorf("round trip mismatch: %+v", got)
		}

		if _, err := repo.Get(ctx, "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("Replace keeps position", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		for _, id := range []string{"r1", "r2"} {
			if err := repo.Append(ctx, testRelease(id, "a@x.com", models.StatusModeration)); err != nil {
				t.Fatalf("failed to append: %v", err)
			}
		}

		updated := testRelease("r1", "a@x.com", models.StatusApproved)
		if err := repo.Replace(ctx, updated); err != nil {
			t.Fatalf("failed to replace: %v", err)
		}

		releases, _ := repo.List(ctx)
		if releases[0].ID != "r1" || releases[0].Status != models.StatusApproved {
			t.Errorf("expected r1 approved first, got %s/%s", releases[0].ID, releases[0].Status)
		}

		if err := repo.Replace(ctx, testRelease("nope", "a@x.com", models.StatusDraft)); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("RemoveByKey removes exactly one", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		for _, id := range []string{"r1", "r2", "r3"} {
			if err := repo.Append(ctx, testRelease(id, "a@x.com", models.StatusDraft)); err != nil {
				t.Fatalf("failed to append: %v", err)
			}
		}

		if err := repo.RemoveByKey(ctx, "r2"); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}

		releases, _ := repo.List(ctx)
		if len(releases) != 2 || releases[0].ID != "r1" || releases[1].ID != "r3" {
			t.Errorf("expected [r1 r3], got %v", releases)
		}

		if err := repo.RemoveByKey(ctx, "r2"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("Modify error leaves collection unchanged", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		if err := repo.Append(ctx, testRelease("r1", "a@x.com", models.StatusModeration)); err != nil {
			t.Fatalf("failed to append: %v", err)
		}

		err := repo.Modify(ctx, "r1", func(r models.Release) (models.Release, error) {
			r.Status = models.StatusApproved
			return r, shared.ErrUnauthorized
		})
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Fatalf("expected authorization error, got %v", err)
		}

		got, _ := repo.Get(ctx, "r1")
		if got.Status != models.StatusModeration {
			t.Errorf("expected status unchanged, got %s", got.Status)
		}
	})

	t.Run("Modify cannot change key", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		if err := repo.Append(ctx, testRelease("r1", "a@x.com", models.StatusModeration)); err != nil {
			t.Fatalf("failed to append: %v", err)
		}

		err := repo.Modify(ctx, "r1", func(r models.Release) (models.Release, error) {
			r.ID = "r2"
			return r, nil
		})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("invalid releases are not stored", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))

		empty := testRelease("r0", "a@x.com", models.StatusModeration)
		empty.Tracks = nil
		if err := repo.Append(ctx, empty); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if releases, _ := repo.List(ctx); len(releases) != 0 {
			t.Fatalf("expected nothing stored, got %v", releases)
		}

		if err := repo.Append(ctx, testRelease("r1", "a@x.com", models.StatusModeration)); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
		err := repo.Modify(ctx, "r1", func(r models.Release) (models.Release, error) {
			r.Status = models.StatusRejected
			return r, nil
		})
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error for a rejection without reason, got %v", err)
		}
		if got, _ := repo.Get(ctx, "r1"); got.Status != models.StatusModeration {
			t.Errorf("expected status unchanged, got %s", got.Status)
		}
	})

	t.Run("RemoveIf check failure keeps record", func(t *testing.T) {
		repo := NewReleaseRepository(th.NewStore(t))
		if err := repo.Append(ctx, testRelease("r1", "a@x.com", models.StatusApproved)); err != nil {
			t.Fatalf("failed to append: %v", err)
		}

		err := repo.RemoveIf(ctx, "r1", func(models.Release) error { return shared.ErrInvalidTransition })
		if !errors.Is(err, shared.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
		if _, err := repo.Get(ctx, "r1"); err != nil {
			t.Errorf("record should still exist: %v", err)
		}
	})
}

func TestReleaseRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewReleaseRepository(th.NewStore(t))

	seed := []models.Release{
		testRelease("r1", "a@x.com", models.StatusModeration),
		testRelease("r2", "b@x.com", models.StatusModeration),
		testRelease("r3", "a@x.com", models.StatusApproved),
		testRelease("r4", "a@x.com", models.StatusDraft),
	}
	for _, r := range seed {
		if err := repo.Append(ctx, r); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}

	t.Run("ListByOwner", func(t *testing.T) {
		mine, err := repo.ListByOwner(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(mine) != 3 {
			t.Errorf("expected 3 releases, got %d", len(mine))
		}
		for _, r := range mine {
			if r.UserEmail != "a@x.com" {
				t.Errorf("unexpected owner %s", r.UserEmail)
			}
		}
	})

	t.Run("ListByStatus", func(t *testing.T) {
		pending, err := repo.ListByStatus(ctx, models.StatusModeration)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(pending) != 2 || pending[0].ID != "r1" || pending[1].ID != "r2" {
			t.Errorf("expected [r1 r2], got %v", pending)
		}
	})
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and FindByCredentials", func(t *testing.T) {
		repo := NewAccountRepository(th.NewStore(t))
		if err := repo.Create(ctx, models.NewAccount("a@x.com", "pw1")); err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		found, err := repo.FindByCredentials(ctx, "a@x.com", "pw1")
		if err != nil {
			t.Fatalf("failed to find: %v", err)
		}
		if found == nil || found.Email != "a@x.com" {
			t.Fatalf("expected account, got %+v", found)
		}

		for _, creds := range [][2]string{{"a@x.com", "pw2"}, {"A@x.com", "pw1"}} {
			found, err := repo.FindByCredentials(ctx, creds[0], creds[1])
			if err != nil || found != nil {
				t.Errorf("expected no match for %v, got %+v/%v", creds, found, err)
			}
		}
	})

	t.Run("Create duplicate", func(t *testing.T) {
		repo := NewAccountRepository(th.NewStore(t))
		if err := repo.Create(ctx, models.NewAccount("a@x.com", "pw1")); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if err := repo.Create(ctx, models.NewAccount("a@x.com", "other")); !errors.Is(err, shared.ErrDuplicate) {
			t.Errorf("expected duplicate, got %v", err)
		}
		if err := repo.Create(ctx, models.NewAccount("A@x.com", "pw1")); err != nil {
			t.Errorf("emails differing in case are distinct: %v", err)
		}
	})

	t.Run("Create rejects invalid and moderator accounts", func(t *testing.T) {
		repo := NewAccountRepository(th.NewStore(t))
		if err := repo.Create(ctx, models.NewAccount("", "pw")); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		if err := repo.Create(ctx, models.Account{Email: "m@x.com", Password: "pw", IsModerator: true}); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestTicketRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(th.NewStore(t))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, owner := range []string{"a@x.com", "b@x.com", "a@x.com"} {
		ticket, err := models.NewTicket(string(rune('1'+i)), owner, "Help", "Why?", now)
		if err != nil {
			t.Fatalf("failed to build ticket: %v", err)
		}
		if err := repo.Append(ctx, ticket); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}

	mine, err := repo.ListByOwner(ctx, "a@x.com")
	if err != nil || len(mine) != 2 {
		t.Errorf("expected 2 tickets for a@x.com, got %d/%v", len(mine), err)
	}

	open, err := repo.ListByStatus(ctx, models.TicketOpen)
	if err != nil || len(open) != 3 {
		t.Errorf("expected 3 open tickets, got %d/%v", len(open), err)
	}
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(th.NewStore(t))

	if got, err := repo.Load(ctx); err != nil || got != nil {
		t.Fatalf("expected empty session, got %+v/%v", got, err)
	}

	moderator := models.Account{Email: "moder@olprod.ru", Password: "zzzz-2014", IsModerator: true}
	if err := repo.Save(ctx, moderator); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got == nil || *got != moderator {
		t.Errorf("expected snapshot %+v, got %+v", moderator, got)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear should be idempotent: %v", err)
	}
	if got, _ := repo.Load(ctx); got != nil {
		t.Errorf("expected cleared session, got %+v", got)
	}
}

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(th.NewStore(t))

	theme, err := repo.Theme(ctx)
	if err != nil || theme != models.ThemeDark {
		t.Fatalf("expected default dark, got %s/%v", theme, err)
	}

	theme, err = repo.ToggleTheme(ctx)
	if err != nil || theme != models.ThemeLight {
		t.Fatalf("expected light after toggle, got %s/%v", theme, err)
	}

	if err := repo.SetTheme(ctx, models.ThemeDark); err != nil {
		t.Fatalf("failed to set theme: %v", err)
	}
	if theme, _ := repo.Theme(ctx); theme != models.ThemeDark {
		t.Errorf("expected dark, got %s", theme)
	}

	if err := repo.SetTheme(ctx, models.Theme("sepia")); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
