package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/kedoo/internal/auth"
	"github.com/desertthunder/kedoo/internal/blob"
	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/lifecycle"
	"github.com/desertthunder/kedoo/internal/manifest"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/repositories"
)

// Deps are the services the API handlers call into.
type Deps struct {
	Auth        *auth.Service
	Releases    *lifecycle.ReleaseEngine
	Tickets     *lifecycle.TicketEngine
	Dashboard   *lifecycle.Dashboard
	Preferences *repositories.PreferenceRepository
	Resolver    blob.Resolver // blob.ReferenceResolver unless clients share the server's filesystem
	Logger      *log.Logger
}

// Handlers returns every API handler built from d.
func Handlers(d Deps) []Handler {
	return []Handler{
		&AuthHandler{d},
		&ReleaseHandler{d},
		&TicketHandler{d},
		&ModerationHandler{d},
		&PreferenceHandler{d},
	}
}

type identity struct {
	Email       string `json:"email"`
	IsModerator bool   `json:"isModerator"`
}

func identityOf(a models.Account) identity {
	return identity{Email: a.Email, IsModerator: a.IsModerator}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves login, registration, logout and the current session.
type AuthHandler struct{ Deps }

func (h *AuthHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/api/auth/login", Handler: h.login},
		{Method: http.MethodPost, Path: "/api/auth/register", Handler: h.register},
		{Method: http.MethodPost, Path: "/api/auth/logout", Handler: h.logout},
		{Method: http.MethodGet, Path: "/api/session", Handler: h.session},
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	account, err := h.Auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, identityOf(account))
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	account, err := h.Auth.Register(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusCreated, identityOf(account))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	account, err := h.Auth.RequireSession()
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, identityOf(account))
}

// ReleaseHandler serves the signed-in user's releases and dashboard.
type ReleaseHandler struct{ Deps }

func (h *ReleaseHandler) Routes() []Route {
	gate := []Middleware{RequireSession(h.Auth)}
	return []Route{
		{Method: http.MethodGet, Path: "/api/releases", Handler: h.list, Middleware: gate},
		{Method: http.MethodPost, Path: "/api/releases", Handler: h.create, Middleware: gate},
		{Method: http.MethodGet, Path: "/api/releases/{id}", Handler: h.show, Middleware: gate},
		{Method: http.MethodDelete, Path: "/api/releases/{id}", Handler: h.delete, Middleware: gate},
		{Method: http.MethodPost, Path: "/api/releases/{id}/submit", Handler: h.submit, Middleware: gate},
		{Method: http.MethodGet, Path: "/api/releases/{id}/export", Handler: h.export, Middleware: gate},
		{Method: http.MethodGet, Path: "/api/dashboard", Handler: h.dashboard, Middleware: gate},
	}
}

func (h *ReleaseHandler) list(w http.ResponseWriter, r *http.Request) {
	var status models.ReleaseStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := models.ParseReleaseStatus(s)
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		status = parsed
	}

	releases, err := h.Releases.ListMine(r.Context(), status)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, releases)
}

// create accepts a manifest body; "draft": true saves it without submitting.
func (h *ReleaseHandler) create(w http.ResponseWriter, r *http.Request) {
	var body manifest.Manifest
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	collection, err := body.Build(h.Resolver)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	var release models.Release
	if body.Draft {
		release, err = h.Releases.SaveDraft(r.Context(), collection)
	} else {
		release, err = h.Releases.Submit(r.Context(), collection)
	}
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusCreated, release)
}

func (h *ReleaseHandler) show(w http.ResponseWriter, r *http.Request) {
	release, err := h.Releases.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, release)
}

func (h *ReleaseHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Releases.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReleaseHandler) submit(w http.ResponseWriter, r *http.Request) {
	release, err := h.Releases.SubmitDraft(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, release)
}

func (h *ReleaseHandler) export(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(formatter.FormatJSON)
	}
	format, err := formatter.ParseFormat(name)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	id := r.PathValue("id")
	data, err := h.Releases.Export(r.Context(), id, format)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", formatter.Filename(models.Release{ID: id}, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write export", "id", id, "error", err)
	}
}

func (h *ReleaseHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, summary)
}

type ticketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// TicketHandler serves the signed-in user's tickets.
type TicketHandler struct{ Deps }

func (h *TicketHandler) Routes() []Route {
	gate := []Middleware{RequireSession(h.Auth)}
	return []Route{
		{Method: http.MethodGet, Path: "/api/tickets", Handler: h.list, Middleware: gate},
		{Method: http.MethodPost, Path: "/api/tickets", Handler: h.create, Middleware: gate},
	}
}

func (h *TicketHandler) list(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Tickets.ListMine(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, tickets)
}

func (h *TicketHandler) create(w http.ResponseWriter, r *http.Request) {
	var body ticketRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	ticket, err := h.Tickets.Create(r.Context(), body.Subject, body.Message)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusCreated, ticket)
}

type approveRequest struct {
	UPC string `json:"upc"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type answerRequest struct {
	Response string `json:"response"`
}

// ModerationHandler serves the moderator's queue and transitions.
type ModerationHandler struct{ Deps }

func (h *ModerationHandler) Routes() []Route {
	gate := []Middleware{RequireModerator(h.Auth)}
	return []Route{
		{Method: http.MethodGet, Path: "/api/moderation/summary", Handler: h.summary, Middleware: gate},
		{Method: http.MethodGet, Path: "/api/moderation/releases", Handler: h.releases, Middleware: gate},
		{Method: http.MethodPost, Path: "/api/moderation/releases/{id}/approve", Handler: h.approve, Middleware: gate},
		{Method: http.MethodPost, Path: "/api/moderation/releases/{id}/reject", Handler: h.reject, Middleware: gate},
		{Method: http.MethodGet, Path: "/api/moderation/tickets", Handler: h.tickets, Middleware: gate},
		{Method: http.MethodPost, Path: "/api/moderation/tickets/{id}/answer", Handler: h.answer, Middleware: gate},
	}
}

func (h *ModerationHandler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Dashboard.ModerationSummary(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, summary)
}

func (h *ModerationHandler) releases(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Releases.ListPending(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, pending)
}

// approve accepts an optional body; an empty body keeps the stored UPC.
func (h *ModerationHandler) approve(w http.ResponseWriter, r *http.Request) {
	var body approveRequest
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			writeError(w, h.Logger, err)
			return
		}
	}

	release, err := h.Releases.Approve(r.Context(), r.PathValue("id"), body.UPC)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, release)
}

func (h *ModerationHandler) reject(w http.ResponseWriter, r *http.Request) {
	var body rejectRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	release, err := h.Releases.Reject(r.Context(), r.PathValue("id"), body.Reason)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, release)
}

func (h *ModerationHandler) tickets(w http.ResponseWriter, r *http.Request) {
	open, err := h.Tickets.ListOpen(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, open)
}

func (h *ModerationHandler) answer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	ticket, err := h.Tickets.Answer(r.Context(), r.PathValue("id"), body.Response)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, ticket)
}

type themeBody struct {
	Theme models.Theme `json:"theme"`
}

// PreferenceHandler serves the UI theme preference. It needs no session.
type PreferenceHandler struct{ Deps }

func (h *PreferenceHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/theme", Handler: h.get},
		{Method: http.MethodPut, Path: "/api/theme", Handler: h.set},
		{Method: http.MethodPost, Path: "/api/theme/toggle", Handler: h.toggle},
	}
}

func (h *PreferenceHandler) get(w http.ResponseWriter, r *http.Request) {
	theme, err := h.Preferences.Theme(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, themeBody{Theme: theme})
}

func (h *PreferenceHandler) set(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := decode(r, &body); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Preferences.SetTheme(r.Context(), body.Theme); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, body)
}

func (h *PreferenceHandler) toggle(w http.ResponseWriter, r *http.Request) {
	theme, err := h.Preferences.ToggleTheme(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, themeBody{Theme: theme})
}
