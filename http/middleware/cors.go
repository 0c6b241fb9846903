package middleware

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
)

// Origins is the allow-list of origins CORS admits.
// An empty Origins admits every origin.
//
// Origins is safe for concurrent use; the last write wins.
type Origins struct {
	mu  sync.RWMutex
	val map[string]struct{}
}

// NewOrigins constructs an *Origins admitting origins.
func NewOrigins(origins ...string) *Origins {
	return &Origins{val: originSet(origins)}
}

// Add admits origins in addition to those already admitted.
func (o *Origins) Add(origins ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, origin := range origins {
		if origin = normalizeOrigin(origin); origin != "" {
			o.val[origin] = struct{}{}
		}
	}
}

// Set replaces every admitted origin with origins.
func (o *Origins) Set(origins ...string) {
	val := originSet(origins)

	o.mu.Lock()
	o.val = val
	o.mu.Unlock()
}

// List returns the admitted origins, sorted.
func (o *Origins) List() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	list := make([]string, 0, len(o.val))
	for origin := range o.val {
		list = append(list, origin)
	}

	sort.Strings(list)
	return list
}

// Allowed reports whether origin is admitted.
func (o *Origins) Allowed(origin string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(o.val) == 0 {
		return true
	}

	_, ok := o.val[normalizeOrigin(origin)]
	return ok
}

func originSet(origins []string) map[string]struct{} {
	val := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin = normalizeOrigin(origin); origin != "" {
			val[origin] = struct{}{}
		}
	}

	return val
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// CORS sets "Access-Control-Allow" style headers on a response
// for requests from an origin origins admits.
// Requests from other origins pass through without those headers.
//
// CORS answers preflight requests itself,
// so it ought wrap the whole router and not a single route.
//
// If origins is nil, NoopAdapter returns and this middleware does nothing.
func CORS(origins *Origins) Adapter {
	if origins == nil {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Authorization",
			"Content-Type",
			"X-Api-Key",
			"X-CSRF-Token",
		}),
		handlers.AllowedOriginValidator(origins.Allowed),
		handlers.AllowedMethods([]string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPost,
			http.MethodPut,
		}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
}
