package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	val   map[string]Visitor
	limit rate.Limit
	burst int
	sync.Mutex
}

const (
	DefaultRateLimit = 5
	DefaultRateBurst = 20
)

// NewVisitors constructs a Visitors limiting each IP address
// to DefaultRateLimit requests every second with bursts of up to DefaultRateBurst.
func NewVisitors() *Visitors { return NewVisitorsWithLimit(DefaultRateLimit, DefaultRateBurst) }

// NewVisitorsWithLimit constructs a Visitors limiting each IP address
// to perSec requests every second with bursts of up to burst.
// Values less than 1 fall back to the defaults.
func NewVisitorsWithLimit(perSec float64, burst int) *Visitors {
	if perSec <= 0 {
		perSec = DefaultRateLimit
	}

	if burst < 1 {
		burst = DefaultRateBurst
	}

	return &Visitors{val: make(map[string]Visitor), limit: rate.Limit(perSec), burst: burst}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = time.Now().UTC()
	vs.val[ip] = v
	return v
}

// cleanup deletes a Visitor from Visitors if they have not been seen in over an hour.
func (vs *Visitors) cleanup() {
	vs.Lock()
	defer vs.Unlock()
	for ip, v := range vs.val {
		if time.Since(v.LastSeen) > 60*time.Minute {
			delete(vs.val, ip)
		}
	}
}

// RateLimit encloses the Visitors map and serves the http.Handler,
// responding 429 to an IP address exceeding its limit.
//
// RateLimit prefers the IP address InjectClientIP stored in the request context.
//
// If visitors is nil, NoopAdapter returns and this middleware does nothing.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
func RateLimit(visitors *Visitors) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, ok := ClientIPFromContext(r.Context())
			if !ok {
				ip = ClientIP(r)
			}

			if !visitors.Fetch(ip).Limiter.Allow() {
				http.Error(w, http.StatusText(429), http.StatusTooManyRequests)
				return
			}

			visitors.cleanup()
			h.ServeHTTP(w, r)
		})
	}
}
