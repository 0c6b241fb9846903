package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/checkpoint"
)

// ReportPanic recovers and reports panics to Sentry through sentryhttp,
// leaving the response untouched.
//
// In development, panics are left for the server to handle.
func ReportPanic(env checkpoint.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler {
		return sh.Handle(h)
	}
}
