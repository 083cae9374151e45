package shared

import "encoding/json"

// PrincipalSessionKey stores the signed-in principal in the session.
const PrincipalSessionKey = "principal"

// User is the backend account behind a session.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal is the authenticated caller: the backend bearer token and its user.
type Principal struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SetPrincipal stores p in the session.
func (s *Session) SetPrincipal(p Principal) {
	raw, _ := json.Marshal(p)
	s.Set(PrincipalSessionKey, string(raw))
	s.SetUser(p.User.Email)
}

// Principal returns the principal stored in the session, if any.
func (s *Session) Principal() (*Principal, bool) {
	raw := s.Get(PrincipalSessionKey)
	if raw == "" {
		return nil, false
	}
	var p Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Token == "" {
		return nil, false
	}
	return &p, true
}

// ClearPrincipal signs the session out while keeping queued flashes.
func (s *Session) ClearPrincipal() {
	s.Delete(PrincipalSessionKey)
	s.Delete(CSRFSessionKey)
	s.SetUser("")
}
