package categories

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/view"
)

// Handler serves the category screens.
type Handler struct {
	logger  *slog.Logger
	service *Service
	view.Responder
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, responder view.Responder) *Handler {
	return &Handler{logger: logger, service: service, Responder: responder}
}

// MountRoutes registers the category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/new", h.New)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.List(r.Context())
	status := http.StatusOK
	if err != nil {
		h.logger.Error("list categories failed", "error", err)
		status = http.StatusBadGateway
	}
	h.Render(w, r, "pages/categories_list.html", "Categories", map[string]any{
		"Categories": cats,
		"Error":      err,
	}, status)
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, h.service.NewForm(nil, nil), http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	cat, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get category failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/categories", "error", "Category not found")
		return
	}
	h.renderForm(w, r, h.service.NewForm(&cat, nil), http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.service.NewForm(nil, nil))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	h.submit(w, r, h.service.NewForm(&Category{ID: id}, nil))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		h.logger.Error("delete category failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/categories", "error", "Failed to delete category")
		return
	}
	h.RedirectWithFlash(w, r, "/categories", "success", "Category deleted")
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, form *console.Form[Category]) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	_ = form.Bind(r.PostForm)
	if _, err := form.Submit(r.Context()); err != nil {
		if !errors.Is(err, console.ErrInvalid) && !errors.Is(err, apiclient.ErrValidation) {
			h.logger.Error("save category failed", "error", err)
		}
		h.renderForm(w, r, form, http.StatusUnprocessableEntity)
		return
	}
	msg, _ := form.Message()
	h.RedirectWithFlash(w, r, "/categories", "success", msg)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form *console.Form[Category], status int) {
	msg, failed := form.Message()
	h.Render(w, r, "pages/category_form.html", "Categories", map[string]any{
		"Category": form.Draft(),
		"EditMode": form.EditMode(),
		"EditID":   form.EditID(),
		"Errors":   form.Errors(),
		"Message":  msg,
		"Failed":   failed,
	}, status)
}
