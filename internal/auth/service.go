package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
)

// ErrEmailTaken is returned when registration collides with an existing account.
var ErrEmailTaken = errors.New("email already registered")

// Service wraps the sign-in lifecycle: credentials are checked by the
// backend, the resulting principal lives in the session.
type Service struct {
	client *Client
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(client *Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// Login validates credentials with the backend.
func (s *Service) Login(ctx context.Context, in LoginInput) (shared.Principal, error) {
	in.Email = strings.TrimSpace(in.Email)
	resp, err := s.client.Login(ctx, in)
	if err != nil {
		if apiclient.IsUnauthorized(err) || errors.Is(err, apiclient.ErrValidation) {
			return shared.Principal{}, shared.ErrInvalidCredentials
		}
		return shared.Principal{}, err
	}
	return principal(resp)
}

// Register creates an account and returns its principal.
func (s *Service) Register(ctx context.Context, in RegisterInput) (shared.Principal, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	resp, err := s.client.Register(ctx, in)
	if err != nil {
		if _, taken := apiclient.FieldErrors(err)["email"]; taken {
			return shared.Principal{}, ErrEmailTaken
		}
		return shared.Principal{}, err
	}
	return principal(resp)
}

// Init binds principal to the session.
func (s *Service) Init(sess *shared.Session, p shared.Principal) {
	if sess == nil {
		return
	}
	sess.SetPrincipal(p)
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back, " + firstNonEmpty(p.User.Name, p.User.Email)})
}

// Teardown revokes the backend token and signs the session out. A failing
// backend logout is logged and otherwise ignored.
func (s *Service) Teardown(ctx context.Context, sess *shared.Session) {
	if sess == nil {
		return
	}
	if p, ok := sess.Principal(); ok {
		if err := s.client.Logout(apiclient.WithToken(ctx, p.Token)); err != nil {
			s.logger.Warn("backend logout failed", "error", err, "user", p.User.Email)
		}
	}
	sess.ClearPrincipal()
	sess.AddFlash(shared.FlashMessage{Kind: "info", Message: "You have been signed out."})
}

func principal(resp authResponse) (shared.Principal, error) {
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "no token in response"
		}
		return shared.Principal{}, errors.New("auth: " + msg)
	}
	return shared.Principal{Token: resp.Token, User: resp.User}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
