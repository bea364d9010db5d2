// Package visitor identifies anonymous site visitors. The gateway keeps a
// signed cookie per browser and forwards the id to upstream services in the
// X-Visitor-Id header.
package visitor

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ClimaStore/pkg/kit"
)

const (
	Header     = "X-Visitor-Id"
	CookieName = "clima_visitor"

	idPrefix = "v_"
)

type ctxKey struct{}

func NewID() string {
	return idPrefix + uuid.NewString()
}

func ValidID(id string) bool {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Ensure reads the visitor cookie, issuing a fresh one when it is missing or
// invalid, and replaces any client-supplied X-Visitor-Id header with the
// verified id.
func Ensure(tm *TokenMaker, ttl time.Duration, secure bool, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del(Header)

			id := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if claims, err := tm.Parse(c.Value); err == nil {
					id = claims.VisitorID
				}
			}

			if id == "" {
				id = NewID()
				tok, err := tm.New(id, ttl)
				if err != nil {
					if log != nil {
						log.Error("issue visitor token", zap.Error(err))
					}
					kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    tok,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			r.Header.Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// RequireHeader is used behind the gateway: it trusts X-Visitor-Id and
// rejects requests without a well-formed one.
func RequireHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if !ValidID(id) {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing visitor", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
