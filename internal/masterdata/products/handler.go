package products

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/masterdata/categories"
	"github.com/stockdesk/stockdesk/internal/masterdata/suppliers"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

const screen = "products"

// Handler serves the inventory screens.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	categories *categories.Service
	suppliers  *suppliers.Service
	pages      console.PageStore
	submits    *shared.IdempotencyStore
	sidecars   []console.Sidecar
	view.Responder
}

// NewHandler constructs the handler. sidecars load alongside every page of
// the product table.
func NewHandler(
	logger *slog.Logger,
	service *Service,
	categoryService *categories.Service,
	supplierService *suppliers.Service,
	pages console.PageStore,
	submits *shared.IdempotencyStore,
	responder view.Responder,
	sidecars ...console.Sidecar,
) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		categories: categoryService,
		suppliers:  supplierService,
		pages:      pages,
		submits:    submits,
		sidecars:   sidecars,
		Responder:  responder,
	}
}

// MountRoutes registers the product routes.
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

// Page moves the cursor one page back or forward. At either end it
// re-renders the current page without a backend call.
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
	product, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, h.service.NewForm(&product, nil), uuid.NewString(), http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, nil)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r)
	if !ok {
		return
	}
	h.submit(w, r, &product)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		h.logger.Error("delete product failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/products", "error", "Failed to delete product")
		return
	}
	h.RedirectWithFlash(w, r, "/products", "success", "Product deleted")
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, existing *Product) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	submissionID := r.PostFormValue("submission_id")
	if submissionID != "" && h.submits != nil {
		if err := h.submits.CheckAndInsert(r.Context(), submissionID, screen); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				h.RedirectWithFlash(w, r, "/products", "info", "This form was already submitted.")
				return
			}
			h.logger.Warn("claim submission failed", "error", err)
		}
	}

	form := h.service.NewForm(existing, func(Product) {
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
			h.logger.Error("save product failed", "error", err)
		}
		h.renderForm(w, r, form, submissionID, http.StatusUnprocessableEntity)
		return
	}
	h.renderForm(w, r, form, submissionID, http.StatusOK)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return Product{}, false
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get product failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/products", "error", "Product not found")
		return Product{}, false
	}
	return product, true
}

func (h *Handler) openList(r *http.Request) (*console.List[Product], console.Memo[Product]) {
	sidecars := append([]console.Sidecar{{
		Name: "categories",
		Load: func(ctx context.Context) (any, error) { return h.categories.Names(ctx) },
	}}, h.sidecars...)
	list := h.service.NewList(sidecars...)
	memo := console.NewMemo[Product](nil, "")
	if sess := shared.SessionFromContext(r.Context()); sess != nil && h.pages != nil {
		memo = console.NewMemo[Product](h.pages, sess.ID+":"+screen)
	}
	memo.Recall(r.Context(), list)
	return list, memo
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, list *console.List[Product], memo console.Memo[Product], err error) {
	if err != nil {
		h.logger.Error("list products failed", "error", err)
	} else if rememberErr := memo.Remember(r.Context(), list); rememberErr != nil {
		h.logger.Warn("remember product page failed", "error", rememberErr)
	}
	state := list.Snapshot()
	names, _ := state.Extras["categories"].(map[int64]string)
	h.Render(w, r, "pages/products_list.html", "Inventory", map[string]any{
		"List":       state,
		"Products":   state.Items,
		"Summary":    Summarize(state.Items),
		"Categories": names,
		"Extras":     state.Extras,
		"ExtraErrs":  state.ExtraErrs,
	}, http.StatusOK)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form *console.Form[Product], submissionID string, status int) {
	var (
		cats []categories.Category
		sups []suppliers.Supplier
	)
	refErrs := console.FetchAll(r.Context(), h.logger,
		console.Fetch{Name: "categories", Run: func(ctx context.Context) (err error) {
			cats, err = h.categories.List(ctx)
			return err
		}},
		console.Fetch{Name: "suppliers", Run: func(ctx context.Context) (err error) {
			sups, err = h.suppliers.Options(ctx)
			return err
		}},
	)
	msg, failed := form.Message()
	h.Render(w, r, "pages/product_form.html", "Inventory", map[string]any{
		"Product":      form.Draft(),
		"EditMode":     form.EditMode(),
		"EditID":       form.EditID(),
		"State":        form.State().String(),
		"Errors":       form.Errors(),
		"Message":      msg,
		"Failed":       failed,
		"Categories":   cats,
		"Suppliers":    sups,
		"RefErrors":    refErrs,
		"SubmissionID": submissionID,
		"CloseAfter":   closeAfter(h.service.closeDelay),
		"ReturnTo":     "/products",
	}, status)
}

// closeAfter is the delay before a saved form returns to the list, in whole
// seconds for the refresh header.
func closeAfter(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
