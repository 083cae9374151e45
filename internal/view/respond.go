package view

import (
	"log/slog"
	"net/http"

	"github.com/stockdesk/stockdesk/internal/shared"
)

// Responder renders pages with the per-request session chrome (CSRF token and
// flash message) that every screen needs.
type Responder struct {
	Templates *Engine
	CSRF      *shared.CSRFManager
	Logger    *slog.Logger
}

// Render writes template with status.
func (rs Responder) Render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	var (
		csrfToken string
		flash     *shared.FlashMessage
	)
	if sess != nil && rs.CSRF != nil {
		csrfToken, _ = rs.CSRF.EnsureToken(r.Context(), sess)
	}
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		User:        shared.PrincipalFromContext(r.Context()),
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := rs.Templates.Render(w, template, viewData); err != nil {
		logger := rs.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("render template", "error", err, "template", template)
	}
}

// RedirectWithFlash queues a flash message and redirects with 303.
func (rs Responder) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
