package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/logger"
)

// MaskedParams are query parameters LogRequest never logs the values of.
var MaskedParams = []string{"password", "key", "token", "jwt"}

// LogRequest logs the request's originating IP address, method and requested URL
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for MaskedParams.
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			checkpoint.Mask(q, MaskedParams...)
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if val, ok := ClientIPFromContext(r.Context()); ok {
				strs = append([]string{val}, strs...)
			}

			var ctx *logger.LogContext
			if id, ok := r.Context().Value(checkpoint.RequestIDKey).(string); ok {
				ctx = &logger.LogContext{Data: map[string]any{"requestId": id}}
			}

			ls.Info(strings.Join(strs, " "), ctx)
			h.ServeHTTP(w, r)
		})
	}
}
