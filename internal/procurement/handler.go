package procurement

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
	"github.com/stockdesk/stockdesk/internal/masterdata/products"
	"github.com/stockdesk/stockdesk/internal/masterdata/suppliers"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

const screen = "orders"

// References are the services backing the order form selects.
type References struct {
	Products   *products.Service
	Suppliers  *suppliers.Service
	Categories *categories.Service
}

// Handler serves the order screens.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	refs     References
	pages    console.PageStore
	submits  *shared.IdempotencyStore
	sidecars []console.Sidecar
	view.Responder
}

// NewHandler constructs the handler.
func NewHandler(
	logger *slog.Logger,
	service *Service,
	refs References,
	pages console.PageStore,
	submits *shared.IdempotencyStore,
	responder view.Responder,
	sidecars ...console.Sidecar,
) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		refs:      refs,
		pages:     pages,
		submits:   submits,
		sidecars:  sidecars,
		Responder: responder,
	}
}

// MountRoutes registers the order routes.
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
	h.renderForm(w, r, h.service.NewForm(r.Context(), nil, nil), uuid.NewString(), http.StatusOK)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, h.service.NewForm(r.Context(), &order, nil), uuid.NewString(), http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, nil)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	order, ok := h.load(w, r)
	if !ok {
		return
	}
	h.submit(w, r, &order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Remove(r.Context(), id); err != nil {
		h.logger.Error("delete order failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/orders", "error", "Failed to delete order")
		return
	}
	h.RedirectWithFlash(w, r, "/orders", "success", "Order deleted")
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, existing *PurchaseOrder) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	submissionID := r.PostFormValue("submission_id")
	if submissionID != "" && h.submits != nil {
		if err := h.submits.CheckAndInsert(r.Context(), submissionID, screen); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				h.RedirectWithFlash(w, r, "/orders", "info", "This form was already submitted.")
				return
			}
			h.logger.Warn("claim submission failed", "error", err)
		}
	}

	form := h.service.NewForm(r.Context(), existing, func(PurchaseOrder) {
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
			h.logger.Error("save order failed", "error", err)
		}
		h.renderForm(w, r, form, submissionID, http.StatusUnprocessableEntity)
		return
	}
	h.renderForm(w, r, form, submissionID, http.StatusOK)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (PurchaseOrder, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return PurchaseOrder{}, false
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get order failed", "error", err, "id", id)
		h.RedirectWithFlash(w, r, "/orders", "error", "Order not found")
		return PurchaseOrder{}, false
	}
	return order, true
}

func (h *Handler) openList(r *http.Request) (*console.List[PurchaseOrder], console.Memo[PurchaseOrder]) {
	list := h.service.NewList(h.sidecars...)
	memo := console.NewMemo[PurchaseOrder](nil, "")
	if sess := shared.SessionFromContext(r.Context()); sess != nil && h.pages != nil {
		memo = console.NewMemo[PurchaseOrder](h.pages, sess.ID+":"+screen)
	}
	memo.Recall(r.Context(), list)
	return list, memo
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, list *console.List[PurchaseOrder], memo console.Memo[PurchaseOrder], err error) {
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
	} else if rememberErr := memo.Remember(r.Context(), list); rememberErr != nil {
		h.logger.Warn("remember order page failed", "error", rememberErr)
	}
	state := list.Snapshot()
	h.Render(w, r, "pages/orders_list.html", "Orders", map[string]any{
		"List":      state,
		"Orders":    state.Items,
		"Summary":   Summarize(state.Items),
		"Extras":    state.Extras,
		"ExtraErrs": state.ExtraErrs,
	}, http.StatusOK)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form *console.Form[PurchaseOrder], submissionID string, status int) {
	var (
		prods []products.Product
		sups  []suppliers.Supplier
		cats  []categories.Category
	)
	fetches := make([]console.Fetch, 0, 3)
	if h.refs.Products != nil {
		fetches = append(fetches, console.Fetch{Name: "products", Run: func(ctx context.Context) (err error) {
			prods, err = h.refs.Products.Options(ctx)
			return err
		}})
	}
	if h.refs.Suppliers != nil {
		fetches = append(fetches, console.Fetch{Name: "suppliers", Run: func(ctx context.Context) (err error) {
			sups, err = h.refs.Suppliers.Options(ctx)
			return err
		}})
	}
	if h.refs.Categories != nil {
		fetches = append(fetches, console.Fetch{Name: "categories", Run: func(ctx context.Context) (err error) {
			cats, err = h.refs.Categories.List(ctx)
			return err
		}})
	}
	refErrs := console.FetchAll(r.Context(), h.logger, fetches...)
	msg, failed := form.Message()
	h.Render(w, r, "pages/order_form.html", "Orders", map[string]any{
		"Order":        form.Draft(),
		"EditMode":     form.EditMode(),
		"EditID":       form.EditID(),
		"State":        form.State().String(),
		"Errors":       form.Errors(),
		"Message":      msg,
		"Failed":       failed,
		"Products":     prods,
		"Suppliers":    sups,
		"Categories":   cats,
		"Statuses":     KnownStatuses,
		"RefErrors":    refErrs,
		"SubmissionID": submissionID,
		"CloseAfter":   closeAfter(h.service.closeDelay),
		"ReturnTo":     "/orders",
	}, status)
}

func closeAfter(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
