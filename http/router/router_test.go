package router_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/middleware"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/resp"
	"github.com/xy-planning-network/checkpoint/http/router"
	"github.com/xy-planning-network/checkpoint/logger"
)

func newRouter() (*router.Router, *resp.Responder) {
	rp := resp.NewResponder(resp.WithLogger(logger.New(logger.WithOutput(io.Discard))))
	d := endpoint.NewDispatcher(endpoint.WithResponder(rp))
	return router.New(checkpoint.Testing, d, nil), rp
}

func success(rp *resp.Responder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rp.Json(w, r, resp.Ok("Success"))
	})
}

// cancelHook ends requests asking for it before they reach an endpoint.
func cancelHook(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cancel") != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message":"Cancelled"}`)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func TestRouterMethods(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	body := req.Group{Context: req.Body, Properties: []req.Property{{Name: "id", Type: req.Number}}}

	require.Nil(t, rt.HandleEndpoints([]endpoint.Endpoint{
		endpoint.Get("/test", success(rp)),
		endpoint.Post("/test", success(rp), body),
		endpoint.Put("/test", success(rp), body),
		endpoint.Delete("/test", success(rp), body),
	}))

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(method, "/test", strings.NewReader(`{"id":1}`))

			// Act
			rt.ServeHTTP(w, r)

			// Assert
			require.Equal(t, http.StatusOK, w.Code)
			require.JSONEq(t, `{"status":"Ok","message":"Success"}`, w.Body.String())
		})
	}
}

func TestRouterNotFound(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	require.Nil(t, rt.Handle(endpoint.Get("/test", success(rp))))

	tcs := []struct {
		name   string
		method string
		url    string
	}{
		{"Unknown-Path", http.MethodGet, "/nope"},
		{"Unknown-Method", http.MethodPatch, "/test"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.url, nil)

			// Act
			rt.ServeHTTP(w, r)

			// Assert
			require.Equal(t, http.StatusNotFound, w.Code)
			require.JSONEq(t, `{"status":"Error","message":"Not Found"}`, w.Body.String())
		})
	}
}

func TestRouterMiddlewareHook(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	plain := rt.Subrouter("/route1")
	hooked := rt.Subrouter("/route2")
	hooked.OnEveryRequest(cancelHook)

	require.Nil(t, plain.Handle(endpoint.Get("/test", success(rp))))
	require.Nil(t, hooked.Handle(endpoint.Get("/test", success(rp))))

	tcs := []struct {
		name     string
		url      string
		code     int
		expected string
	}{
		{"Plain", "/route1/test", http.StatusOK, `{"status":"Ok","message":"Success"}`},
		{"Plain-Ignores-Cancel", "/route1/test?cancel=true", http.StatusOK, `{"status":"Ok","message":"Success"}`},
		{"Hooked", "/route2/test", http.StatusOK, `{"status":"Ok","message":"Success"}`},
		{"Hooked-Cancel", "/route2/test?cancel=true", http.StatusBadRequest, `{"message":"Cancelled"}`},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tc.url, nil)

			// Act
			rt.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}

func TestRouterHookRunsBeforeValidation(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	rt.OnEveryRequest(cancelHook)
	g := req.Group{Context: req.Query, Properties: []req.Property{{Name: "required", Type: req.String}}}
	require.Nil(t, rt.Handle(endpoint.Get("/test", success(rp), g)))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test?cancel=true", nil)

	// Act
	rt.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"message":"Cancelled"}`, w.Body.String())
}

func TestRouterUseChecks(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	keyMatch, err := check.NewKeyMatch(check.Config{check.IDKey: "test", "key": "valid"})
	require.Nil(t, err)

	checked := rt.Subrouter("/checked")
	checked.UseChecks(keyMatch)
	require.Nil(t, checked.Handle(endpoint.Get("/test", endpoint.Echo(rp))))
	require.Nil(t, rt.Handle(endpoint.Get("/open", success(rp))))

	tcs := []struct {
		name     string
		url      string
		code     int
		expected string
	}{
		{
			"Approved",
			"/checked/test?key=valid",
			http.StatusOK,
			`{"message":"Success","query":{"key":"valid"},"params":{},"body":{},"checkResults":{"test":{"message":"Accepted"}}}`,
		},
		{"Rejected", "/checked/test?key=nope", http.StatusUnauthorized, `{"message":"key does not match"}`},
		{"Denied", "/checked/test", http.StatusUnauthorized, `{"message":"Unknown reason"}`},
		{"Unchecked", "/open", http.StatusOK, `{"status":"Ok","message":"Success"}`},
		{"Unknown-Under-Prefix", "/checked/nope", http.StatusNotFound, `{"status":"Error","message":"Not Found"}`},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tc.url, nil)

			// Act
			rt.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}

func TestRouterHandleInvalid(t *testing.T) {
	// Arrange
	rt, rp := newRouter()

	// Act
	err := rt.HandleEndpoints([]endpoint.Endpoint{
		endpoint.Get("/valid", success(rp)),
		endpoint.Get("invalid", success(rp)),
	})

	// Assert
	require.True(t, errors.Is(err, checkpoint.ErrBadConfig))

	routes, err := rt.Routes()
	require.Nil(t, err)
	require.Empty(t, routes)
}

func TestRouterRoutes(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	require.Nil(t, rt.Handle(endpoint.Post("/b", success(rp))))
	require.Nil(t, rt.Subrouter("/api").Handle(endpoint.Get("/a/{id}", success(rp))))

	// Act
	routes, err := rt.Routes()

	// Assert
	require.Nil(t, err)
	require.Equal(t, []string{"GET /api/a/{id}", "POST /b"}, routes)
}

func TestRouterEndpointMiddlewares(t *testing.T) {
	// Arrange
	rt, rp := newRouter()
	var order []string
	mark := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	rt.OnEveryRequest(mark("every"))
	e := endpoint.Get("/test", success(rp)).WithMiddlewares(mark("endpoint"))
	require.Nil(t, rt.HandleEndpoints([]endpoint.Endpoint{e}, mark("group")))

	// Act
	rt.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	// Assert
	require.Equal(t, []string{"every", "group", "endpoint"}, order)
}
