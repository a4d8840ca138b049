package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/auth"
	"github.com/msc-org/msc-backend/internal/model"
	"github.com/msc-org/msc-backend/internal/service"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	tokenKey
)

// claimsFrom returns the authenticated caller's claims, if any.
func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// tokenFrom returns the raw bearer token the caller presented.
func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

// Logger is a minimal access-log middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// CORS applies a permissive CORS policy suitable for the web frontend.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Guard authenticates requests and enforces role checks.
type Guard struct {
	tokens    *auth.TokenManager
	blacklist service.TokenBlacklist
}

// NewGuard constructs a Guard.
func NewGuard(tokens *auth.TokenManager, blacklist service.TokenBlacklist) *Guard {
	return &Guard{tokens: tokens, blacklist: blacklist}
}

// Authenticate rejects requests without a valid, unrevoked bearer token and
// stores the caller's claims in the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, apperr.Auth("missing bearer token"))
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := g.tokens.Validate(token)
		if err != nil {
			writeError(w, err)
			return
		}

		revoked, err := g.blacklist.Contains(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		if revoked {
			writeError(w, apperr.Auth("token has been revoked"))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOfficer rejects authenticated callers who are not officers. It must
// run after Authenticate.
func (g *Guard) RequireOfficer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r.Context())
		if !ok {
			writeError(w, apperr.Auth("not authenticated"))
			return
		}
		if claims.Role != model.RoleOfficer {
			writeError(w, apperr.Forbidden("insufficient privileges"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
