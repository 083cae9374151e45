package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

var loginMessages = map[string]string{
	"email.required":    "Enter your email address.",
	"email.email":       "Enter a valid email address.",
	"password.required": "Enter your password.",
}

var registerMessages = map[string]string{
	"name.required":     "Enter your name.",
	"email.required":    "Enter your email address.",
	"email.email":       "Enter a valid email address.",
	"password.required": "Choose a password.",
	"password.min":      "The password must be at least 8 characters.",
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	login    *console.Validator[LoginInput]
	register *console.Validator[RegisterInput]
	view.Responder
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, responder view.Responder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		login:     console.NewValidator[LoginInput](loginMessages),
		register:  console.NewValidator[RegisterInput](registerMessages),
		Responder: responder,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if shared.PrincipalFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Render(w, r, "pages/login.html", "Sign in", map[string]any{"Form": LoginInput{}}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := LoginInput{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	errs := h.login.Validate(form)
	if len(errs) == 0 {
		p, err := h.service.Login(r.Context(), form)
		if err == nil {
			h.service.Init(shared.SessionFromContext(r.Context()), p)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		errs = map[string]string{"general": loginFailure(err)}
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("login failed", "error", err)
		}
	}
	form.Password = ""
	h.Render(w, r, "pages/login.html", "Sign in", map[string]any{"Form": form, "Errors": errs}, http.StatusBadRequest)
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "pages/register.html", "Create account", map[string]any{"Form": RegisterInput{}}, http.StatusOK)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := RegisterInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	errs := h.register.Validate(form)
	if len(errs) == 0 {
		p, err := h.service.Register(r.Context(), form)
		if err == nil {
			h.service.Init(shared.SessionFromContext(r.Context()), p)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		switch {
		case errors.Is(err, ErrEmailTaken):
			errs = map[string]string{"email": "This email is already registered."}
		default:
			errs = apiclient.FieldErrors(err)
			if len(errs) == 0 {
				h.logger.Error("register failed", "error", err)
				errs = map[string]string{"general": "Registration failed. Please try again."}
			}
		}
	}
	form.Password = ""
	h.Render(w, r, "pages/register.html", "Create account", map[string]any{"Form": form, "Errors": errs}, http.StatusBadRequest)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.Teardown(r.Context(), shared.SessionFromContext(r.Context()))
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func loginFailure(err error) string {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, apiclient.ErrNetwork):
		return "Could not reach the server. Please try again."
	}
	return "Sign in failed. Please try again."
}
