package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"social-api/internal/apperr"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Wrap adapts an error-returning handler to http.Handler, translating
// apperr kinds into status codes. Unknown errors become a generic 500
// so storage details never reach the client.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		if kind := apperr.Kind(err); kind != "" {
			WriteError(w, statusFor(err), kind, err.Error())
			return
		}
		log.Printf("internal error on %s %s: %v", r.Method, r.URL.Path, err)
		WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Decode[T any](r *http.Request) (T, error) {
	var t T
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		return t, apperr.Wrap(apperr.ErrInvalidInput, "malformed request body")
	}
	return t, nil
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, kind, message string) {
	WriteJSON(w, map[string]string{"error": kind, "message": message}, code)
}

type ctxKey string

const userKey ctxKey = "user_id"

var ErrNoUser = apperr.Wrap(apperr.ErrUnauthenticated, "no user in context")

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Parse(token string) (uint, error)
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware rejects requests without a valid bearer token and puts
// the resolved user id on the request context for downstream handlers.
func AuthMiddleware(tokens TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			WriteError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
			return
		}
		uid, err := tokens.Parse(tok)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromCtx(r *http.Request) (uint, error) {
	uid, ok := r.Context().Value(userKey).(uint)
	if !ok || uid == 0 {
		return 0, ErrNoUser
	}
	return uid, nil
}
