package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stockdesk/stockdesk/internal/platform/httpx"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenOwner returns the email bound to a bearer token issued by /login or /register.
func (s *Server) TokenOwner(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	return email, ok
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(in.Email)]
	if !ok || u.password != in.Password {
		httpx.JSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged in",
		"token":   s.issueToken(u.Email),
		"user":    u,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(in.Email)
	if _, exists := s.users[email]; exists {
		httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"email": {"The email has already been taken."}},
		})
		return
	}
	u := user{ID: int64(len(s.users) + 1), Name: in.Name, Email: email, password: in.Password}
	s.users[email] = u
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Registered",
		"token":   s.issueToken(email),
		"user":    u,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

// issueToken must be called with s.mu held.
func (s *Server) issueToken(email string) string {
	s.nextToken++
	token := "token-" + strconv.Itoa(s.nextToken)
	s.tokens[token] = email
	return token
}
