package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const usernameKey ctxKey = "username"

// UsernameFrom returns the authenticated admin stored by requireAdmin.
func UsernameFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(usernameKey).(string)
	return v, ok && v != ""
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get(common.AuthorizationHeaderName), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAdmin rejects requests without a valid bearer token with 403.
func (s *HTTPServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}

		username, err := s.svc.Users.Authenticate(token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logFormatter routes chi's access log through the structured logger.
type logFormatter struct {
	logger logging.Logger
}

func (f *logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{
		ctx: r.Context(),
		logger: f.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		),
	}
}

type logEntry struct {
	ctx    context.Context
	logger logging.Logger
}

func (e *logEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	e.logger.Info(e.ctx, "request", "status", status, "bytes", bytes, "elapsed", elapsed.String())
}

func (e *logEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error(e.ctx, "panic", "value", v, "stack", string(stack))
}
