package suppliers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

const screen = "suppliers"

// Handler serves the supplier screens.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pages   console.PageStore
	submits *shared.IdempotencyStore
	view.Responder
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, pages console.PageStore, submits *shared.IdempotencyStore, responder view.Responder) *Handler {
	return &Handler{logger: logger, service: service, pages: pages, submits: submits, Responder: responder}
}

// MountRoutes registers the supplier routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/page/{dir}", h.Page)
	r.Get("/new", h.New)
	r.Post("/", h.Create)
	r.Get("/{id}/edit", h.Edit)
	r.Post("/{id}", h.Update)
	r.Post("/{id}/delete", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, memo := h.openList(r)
	defer list.Close()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = list.Snapshot().Meta.CurrentPage
	}
	err := list.Load(r.Context(), page)
	h.renderList(w, r, list, memo, err)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	list, memo := h.openList(r)
	defer list.Close()
	var (
		moved bool
		err   error
	)
	switch chi.URLParam(r, "dir") {
	case "prev":
		moved, err = list.GoToPreviousPage(r.Context())
	case "next":
		moved, err = list.GoToNextPage(r.Context())
	default:
		http.Error(w, "Unknown page direction", http.StatusNotFound)
		return
	}
	if !moved && !list.Snapshot().Loaded {
		err = list.Load(r.Context(), 1)
	}
	h.renderList(w, r, list, memo, err)
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, h.service.NewForm(nil, nil), uuid.NewString(), http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	supplier, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, h.service.NewForm(&supplier, nil), uuid.NewString(), http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, nil)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	supplier, ok := h.load(w, r)
	if !ok {
		return
	}
	h.submit(w, r, &supplier)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		h.logger.Error("delete supplier failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/suppliers", "error", "Failed to delete supplier")
		return
	}
	h.RedirectWithFlash(w, r, "/suppliers", "success", "Supplier deleted")
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, existing *Supplier) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	submissionID := r.PostFormValue("submission_id")
	if submissionID != "" && h.submits != nil {
		if err := h.submits.CheckAndInsert(r.Context(), submissionID, screen); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				h.RedirectWithFlash(w, r, "/suppliers", "info", "This form was already submitted.")
				return
			}
			h.logger.Warn("claim submission failed", "error", err)
		}
	}

	form := h.service.NewForm(existing, func(Supplier) {
		list, memo := h.openList(r)
		defer list.Close()
		if err := list.OnMutationSucceeded(r.Context()); err == nil {
			_ = memo.Remember(r.Context(), list)
		}
	})
	_ = form.Bind(r.PostForm)
	if _, err := form.Submit(r.Context()); err != nil {
		if submissionID != "" && h.submits != nil {
			_ = h.submits.Delete(r.Context(), submissionID, screen)
		}
		if !errors.Is(err, console.ErrInvalid) && !errors.Is(err, apiclient.ErrValidation) {
			h.logger.Error("save supplier failed", "error", err)
		}
		h.renderForm(w, r, form, submissionID, http.StatusUnprocessableEntity)
		return
	}
	h.renderForm(w, r, form, submissionID, http.StatusOK)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Supplier, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid supplier ID", http.StatusBadRequest)
		return Supplier{}, false
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get supplier failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/suppliers", "error", "Supplier not found")
		return Supplier{}, false
	}
	return supplier, true
}

func (h *Handler) openList(r *http.Request) (*console.List[Supplier], console.Memo[Supplier]) {
	list := h.service.NewList()
	memo := console.NewMemo[Supplier](nil, "")
	if sess := shared.SessionFromContext(r.Context()); sess != nil && h.pages != nil {
		memo = console.NewMemo[Supplier](h.pages, sess.ID+":"+screen)
	}
	memo.Recall(r.Context(), list)
	return list, memo
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, list *console.List[Supplier], memo console.Memo[Supplier], err error) {
	if err != nil {
		h.logger.Error("list suppliers failed", "error", err)
	} else if rememberErr := memo.Remember(r.Context(), list); rememberErr != nil {
		h.logger.Warn("remember supplier page failed", "error", rememberErr)
	}
	state := list.Snapshot()
	h.Render(w, r, "pages/suppliers_list.html", "Suppliers", map[string]any{
		"List":      state,
		"Suppliers": state.Items,
		"Summary":   Summarize(state.Items),
	}, http.StatusOK)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form *console.Form[Supplier], submissionID string, status int) {
	msg, failed := form.Message()
	h.Render(w, r, "pages/supplier_form.html", "Suppliers", map[string]any{
		"Supplier":     form.Draft(),
		"EditMode":     form.EditMode(),
		"EditID":       form.EditID(),
		"State":        form.State().String(),
		"Errors":       form.Errors(),
		"Message":      msg,
		"Failed":       failed,
		"SubmissionID": submissionID,
		"CloseAfter":   closeAfter(h.service.closeDelay),
		"ReturnTo":     "/suppliers",
	}, status)
}

func closeAfter(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
