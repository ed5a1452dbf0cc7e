package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"social-api/internal/auth"
	"social-api/internal/health"
	"social-api/internal/post"
	"social-api/internal/ratelimit"
	"social-api/internal/shared/httpx"
)

type Deps struct {
	Tokens  httpx.TokenVerifier
	Auth    *auth.Handler
	Posts   *post.Handler
	Health  *health.Handler
	Limiter *ratelimit.Limiter // optional, nil disables throttling
}

const (
	authRateLimit  = 20
	authRateWindow = time.Minute
)

func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /health", httpx.Wrap(d.Health.Check))
	mux.Handle("GET /metrics", promhttp.Handler())

	throttle := func(h http.Handler) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.LimitHTTP(authRateLimit, authRateWindow, h)
	}
	mux.Handle("POST /auth/signup", throttle(httpx.Wrap(d.Auth.Signup)))
	mux.Handle("POST /auth/login", throttle(httpx.Wrap(d.Auth.Login)))

	protect := func(pattern string, fn httpx.HandlerFunc) {
		mux.Handle(pattern, httpx.AuthMiddleware(d.Tokens, httpx.Wrap(fn)))
	}
	protect("POST /posts", d.Posts.Create)
	protect("POST /posts/{$}", d.Posts.Create)
	protect("GET /posts", d.Posts.List)
	protect("GET /posts/{$}", d.Posts.List)
	protect("GET /posts/stats", d.Posts.Stats)
	protect("DELETE /posts/{post_id}", d.Posts.Delete)

	return mux
}
