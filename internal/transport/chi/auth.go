package chi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
)

type ctxKey int

const userIDKey ctxKey = iota

// TokenVerifier validates an access token and returns the subject user id.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// UserReader loads users for the admin guard.
type UserReader interface {
	GetByID(ctx context.Context, id string) (domuser.User, error)
}

// Authenticator validates Bearer tokens and guards admin routes.
type Authenticator struct {
	tokens TokenVerifier
	users  UserReader
}

// NewAuthenticator creates the request authenticator.
func NewAuthenticator(tokens TokenVerifier, users UserReader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate validates the Bearer token and stores the user id in the
// request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "missing authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(auth, bearerPrefix) {
			writeError(w, http.StatusUnauthorized,
				codeInvalidCredentials, "authorization header must use Bearer scheme")
			return
		}

		uid, err := a.tokens.Verify(auth[len(bearerPrefix):])
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// Must run after Authenticate.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := a.users.GetByID(r.Context(), userID(r))
		if err != nil || !u.IsAdmin() {
			writeError(w, http.StatusForbidden, codeNotWhitelisted, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userID returns the authenticated user id stored by Authenticate.
func userID(r *http.Request) string {
	uid, _ := r.Context().Value(userIDKey).(string)
	return uid
}

// RateLimitMiddleware throttles requests per client IP. Limiters are pruned
// wholesale once the map grows past its bound; a pruned client only regains
// a fresh burst, so correctness is unaffected.
func RateLimitMiddleware(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	const maxClients = 10000

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if len(limiters) >= maxClients {
			limiters = make(map[string]*rate.Limiter)
		}
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(limit, burst)
			limiters[ip] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiterFor(ip).Allow() {
				writeError(w, http.StatusTooManyRequests, codeRateLimited, "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
