package routes

import (
	"encoding/json"
	"net"
	"net/http"

	"golang.org/x/time/rate"

	"pixbatch/history"
	"pixbatch/models"
	"pixbatch/ratelimit"
	"pixbatch/store"
)

// JobLauncher starts a job's background processing. Implemented by
// job.Runner; faked in handler tests.
type JobLauncher interface {
	Launch(id string, batch []models.NamedFile, settings models.OptimizationSettings)
}

// Handler carries the dependencies of every HTTP endpoint so nothing lives
// in package globals.
type Handler struct {
	Store    *store.Store
	Limiter  *ratelimit.Limiter
	Runner   JobLauncher
	History  *history.Store
	MaxBatch int
}

// clientIdentity derives the admission-control identity from the request's
// source address. Unresolvable addresses share the unknown-origin bucket.
func clientIdentity(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return ratelimit.UnknownIdentity
	}
	return host
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// RateLimitMiddleware applies the server-wide token bucket in front of an
// endpoint. This is a coarse overload guard; the per-identity fixed-window
// limiter in the submit handler is the admission-control policy.
func RateLimitMiddleware(l *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
