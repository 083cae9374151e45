package auth

import (
	"net/http"
	"strings"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
)

// LoginPath is where anonymous requests are sent.
const LoginPath = "/auth/login"

var publicPrefixes = []string{"/auth/", "/static/", "/healthz", "/metrics", "/jobs/health"}

// Middleware loads the principal from the session into the request context
// and forwards its token to backend calls. Anonymous requests for protected
// paths are redirected to the sign-in page.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := shared.SessionFromContext(r.Context()); sess != nil {
			if p, ok := sess.Principal(); ok {
				ctx := shared.ContextWithPrincipal(r.Context(), p)
				ctx = apiclient.WithToken(ctx, p.Token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	})
}

func isPublic(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
