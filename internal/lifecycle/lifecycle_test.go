package lifecycle

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/kedoo/internal/auth"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/repositories"
	"github.com/desertthunder/kedoo/internal/shared"
	th "github.com/desertthunder/kedoo/internal/testing"
)

type harness struct {
	auth        *auth.Service
	releases    *ReleaseEngine
	tickets     *TicketEngine
	dashboard   *Dashboard
	releaseRepo *repositories.ReleaseRepository
	ticketRepo  *repositories.TicketRepository
	clock       *th.Clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	s := th.NewStore(t)
	logger := shared.NewLogger(io.Discard)
	clock := th.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	authSvc := auth.NewService(repositories.NewAccountRepository(s), repositories.NewSessionRepository(s), logger)
	releaseRepo := repositories.NewReleaseRepository(s)
	ticketRepo := repositories.NewTicketRepository(s)

	return &harness{
		auth:        authSvc,
		releases:    NewReleaseEngine(releaseRepo, authSvc, clock.Now, logger),
		tickets:     NewTicketEngine(ticketRepo, authSvc, clock.Now, logger),
		dashboard:   NewDashboard(releaseRepo, ticketRepo, authSvc),
		releaseRepo: releaseRepo,
		ticketRepo:  ticketRepo,
		clock:       clock,
	}
}

// as signs in email, registering it on first use.
func (h *harness) as(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()

	if _, err := h.auth.Login(ctx, email, "pw1"); err == nil {
		return
	}
	if _, err := h.auth.Register(ctx, email, "pw1"); err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
}

func (h *harness) asModerator(t *testing.T) {
	t.Helper()
	if _, err := h.auth.Login(context.Background(), auth.ModeratorEmail, "zzzz-2014"); err != nil {
		t.Fatalf("failed to login as moderator: %v", err)
	}
}

func (h *harness) logout(t *testing.T) {
	t.Helper()
	if err := h.auth.Logout(context.Background()); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}
}

// collection builds an album titled title with the given track titles.
func collection(t *testing.T, title string, tracks ...string) *models.TrackCollection {
	t.Helper()

	c, err := models.AlbumDraft{
		Title:      title,
		Artist:     "The Testers",
		Genre:      "Рок",
		CoverImage: "file:///tmp/cover.jpg",
	}.Advance()
	if err != nil {
		t.Fatalf("failed to advance album: %v", err)
	}

	for _, name := range tracks {
		_, err := c.AddTrack(models.TrackDraft{
			Title:        name,
			MusicAuthor:  "Ivan",
			LyricsAuthor: "Anna",
			Performers:   "The Testers",
			Language:     "ru",
		})
		if err != nil {
			t.Fatalf("failed to add track %s: %v", name, err)
		}
	}
	return c
}

// submitted signs in as owner and submits a one-track release.
func (h *harness) submitted(t *testing.T, owner, title string) models.Release {
	t.Helper()
	h.as(t, owner)

	r, err := h.releases.Submit(context.Background(), collection(t, title, "T1"))
	if err != nil {
		t.Fatalf("failed to submit %s: %v", title, err)
	}
	return r
}

func (h *harness) count(t *testing.T) int {
	t.Helper()
	all, err := h.releaseRepo.List(context.Background())
	if err != nil {
		t.Fatalf("failed to list releases: %v", err)
	}
	return len(all)
}
