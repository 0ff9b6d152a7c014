package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"secure.links/config"
	"secure.links/internal/access"
	"secure.links/internal/catalog"
	"secure.links/internal/history"
	"secure.links/internal/links"
	"secure.links/internal/models"
	"secure.links/internal/session"
	"secure.links/web"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	registry *links.Registry
	catalog  *catalog.Catalog
	sessions *session.Manager
	history  *history.Log
	access   *access.Manager
	config   *config.Config
	logger   *slog.Logger
}

type Deps struct {
	Registry *links.Registry
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	History  *history.Log
	Access   *access.Manager
	Logger   *slog.Logger
}

func NewHandler(d Deps, cfg *config.Config) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registry: d.Registry,
		catalog:  d.Catalog,
		sessions: d.Sessions,
		history:  d.History,
		access:   d.Access,
		config:   cfg,
		logger:   logger,
	}
}

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	SessionID string    `json:"session_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ResolveResponse struct {
	LinkID       string    `json:"link_id"`
	DocumentID   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ShareRequest struct {
	Members []access.Share `json:"members"`
}

type UpdateAccessRequest struct {
	Permission models.Permission `json:"permission"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessions.Login(req.Email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.config.Server.BaseURL, "https://"),
		SameSite: http.SameSiteStrictMode,
	})
	h.json(w, http.StatusCreated, LoginResponse{
		SessionID: sess.ID,
		Email:     sess.Email,
		CreatedAt: sess.CreatedAt,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFrom(r.Context()); sess != nil {
		h.sessions.Logout(sess.ID)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, h.catalog.List())
}

func (h *Handler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.authorize(w, r)
	if !ok {
		return
	}

	doc, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	link, err := h.registry.Generate(r.Context(), sess, doc)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.json(w, http.StatusCreated, links.NewView(link))
}

func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, links.NewViews(h.registry.List()))
}

func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, links.NewView(link))
}

func (h *Handler) RevokeLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	link, err := h.registry.Revoke(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, links.NewView(link))
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, h.catalog.Members())
}

func (h *Handler) ListAccess(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	doc, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, h.access.List(doc.ID))
}

func (h *Handler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	grants, err := h.access.Share(doc.ID, req.Members, sess.Email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "document shared",
		slog.String("document_id", doc.ID),
		slog.Int("members", len(req.Members)),
	)
	h.json(w, http.StatusCreated, grants)
}

func (h *Handler) UpdateAccess(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	var req UpdateAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grant, err := h.access.Update(chi.URLParam(r, "id"), chi.URLParam(r, "memberID"), req.Permission)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, grant)
}

func (h *Handler) RemoveAccess(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	if err := h.access.Remove(chi.URLParam(r, "id"), chi.URLParam(r, "memberID")); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListDownloads(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, h.history.List())
}

// ResolveLink answers a download URL and records the outcome in the download history.
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	record, err := h.registry.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		attempt := models.DownloadAttempt{Result: models.DownloadFailed, Reason: err.Error()}
		if errors.Is(err, links.ErrExpired) || errors.Is(err, links.ErrRevoked) || errors.Is(err, links.ErrNotFound) {
			h.history.Record(attempt)
		}
		h.handleError(w, r, err)
		return
	}

	h.history.Record(models.DownloadAttempt{
		LinkID:       record.LinkID,
		DocumentName: record.DocumentName,
		Result:       models.DownloadSuccess,
	})
	h.json(w, http.StatusOK, ResolveResponse{
		LinkID:       record.LinkID,
		DocumentID:   record.DocumentID,
		DocumentName: record.DocumentName,
		ExpiresAt:    record.ExpiresAt,
	})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, "index.html")
}

func (h *Handler) serveFile(w http.ResponseWriter, filename string) {
	content, err := web.GetFile(filename)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

// authorize writes 401 and reports false unless the request carries an
// authenticated session.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	sess := SessionFrom(r.Context())
	if err := links.Authorize(sess); err != nil {
		h.handleError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) json(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) error(w http.ResponseWriter, status int, message string) {
	h.json(w, status, ErrorResponse{Error: message})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, links.ErrAuthRequired):
		h.error(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, links.ErrNotFound):
		h.error(w, http.StatusNotFound, "link not found")
	case errors.Is(err, links.ErrExpired):
		h.error(w, http.StatusGone, "link has expired")
	case errors.Is(err, links.ErrRevoked):
		h.error(w, http.StatusGone, "link has been revoked")
	case errors.Is(err, catalog.ErrNotFound):
		h.error(w, http.StatusNotFound, "document not found")
	case errors.Is(err, catalog.ErrMemberNotFound):
		h.error(w, http.StatusNotFound, "team member not found")
	case errors.Is(err, access.ErrNotFound):
		h.error(w, http.StatusNotFound, "access grant not found")
	case errors.Is(err, access.ErrNoMembers):
		h.error(w, http.StatusBadRequest, "select at least one team member")
	case errors.Is(err, access.ErrInvalidPermission):
		h.error(w, http.StatusBadRequest, "permission must be read or edit")
	case errors.Is(err, session.ErrInvalidEmail):
		h.error(w, http.StatusBadRequest, "a valid email is required")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		h.error(w, http.StatusInternalServerError, "internal error")
	}
}
