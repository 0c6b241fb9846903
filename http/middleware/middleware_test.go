package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint/http/middleware"
)

func NoopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { order = append(order, "handler") })

	// Act
	middleware.Chain(h, mark("first"), mark("second")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.Equal(t, "first,second,handler", strings.Join(order, ","))
}

func TestChainStops(t *testing.T) {
	// Arrange
	called := false
	stop := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	w := httptest.NewRecorder()

	// Act
	middleware.Chain(h, stop).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// Assert
	require.False(t, called)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoopAdapter(t *testing.T) {
	// Arrange
	h := NoopHandler()

	// Act
	actual := middleware.NoopAdapter(h)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", h), fmt.Sprintf("%p", actual))
}
