package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/spartacus-fitness/backend/internal/auth"
	"github.com/spartacus-fitness/backend/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const (
	sessionCookieName = "sid"
	authTokenHeader   = "X-SPARTACUS-TOKEN"
)

type sessionChecker interface {
	UserIDForToken(ctx context.Context, token string) (int, error)
}

type AuthMiddlewareHandler struct {
	sessionChecker       sessionChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(checker sessionChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessionChecker: checker,
		allowedPaths: map[string]bool{
			// leaderboard was always public
			"/api/leaderboard": true,
			"/version":         true,
		},
		allowedPathsPrefixes: []string{
			"/export/leaderboard/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func requestAuthToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get(authTokenHeader)
}

// AuthCheck resolves the session token to a user id and stores the
// CallerContext in the request context. Handlers never see a request
// without an authenticated caller unless the path is explicitly public.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := requestAuthToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.sessionChecker.UserIDForToken(ctx, token)
			if err != nil {
				if err == auth.ErrUnauthenticated {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
					http.Error(w, "no can do", http.StatusUnauthorized)
					span.SetStatus(codes.Error, "not-logged")
					return
				}
				log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-session-err")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			ctx = auth.ContextWithCaller(ctx, auth.CallerContext{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
