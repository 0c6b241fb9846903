package endpoint_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/middleware"
	"github.com/xy-planning-network/checkpoint/http/req"
)

func TestMethodHelpers(t *testing.T) {
	// Arrange
	h := http.NotFoundHandler()
	g := req.Group{Context: req.Query, Properties: []req.Property{{Name: "x", Type: req.String}}}

	tcs := []struct {
		method string
		fn     func(string, http.Handler, ...req.Group) endpoint.Endpoint
	}{
		{http.MethodGet, endpoint.Get},
		{http.MethodPost, endpoint.Post},
		{http.MethodPut, endpoint.Put},
		{http.MethodDelete, endpoint.Delete},
	}

	for _, tc := range tcs {
		t.Run(tc.method, func(t *testing.T) {
			// Act
			e := tc.fn("/test", h, g)

			// Assert
			require.Equal(t, tc.method, e.Method)
			require.Equal(t, "/test", e.Path)
			require.Equal(t, req.Groups{g}, e.Groups)
			require.Nil(t, e.Valid())
			require.Equal(t, tc.method+" /test", e.String())
		})
	}
}

func TestEndpointValid(t *testing.T) {
	h := http.NotFoundHandler()
	dup := req.Group{Context: req.Query, Properties: []req.Property{{Name: "x", Type: req.String}, {Name: "x", Type: req.Number}}}

	tcs := []struct {
		name string
		e    endpoint.Endpoint
	}{
		{"No-Path", endpoint.Endpoint{Method: http.MethodGet, Handler: h}},
		{"Relative-Path", endpoint.Endpoint{Path: "test", Method: http.MethodGet, Handler: h}},
		{"Bad-Method", endpoint.Endpoint{Path: "/test", Method: "FETCH", Handler: h}},
		{"No-Handler", endpoint.Endpoint{Path: "/test", Method: http.MethodGet}},
		{"Duplicate-Property", endpoint.Get("/test", h, dup)},
		{"Nil-Check", endpoint.Get("/test", h).WithChecks(nil)},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := tc.e.Valid()

			// Assert
			require.ErrorIs(t, err, checkpoint.ErrBadConfig)
		})
	}
}

func TestEndpointWith(t *testing.T) {
	// Arrange
	first, err := check.NewRefuse(check.Config{check.IDKey: "first"})
	require.Nil(t, err)
	second, err := check.NewRefuse(check.Config{check.IDKey: "second"})
	require.Nil(t, err)

	e := endpoint.Get("/test", http.NotFoundHandler()).WithChecks(first)

	// Act
	withSecond := e.WithChecks(second)
	withCfg := e.WithCheckConfig(check.Config{"code": 403})
	withMw := e.WithMiddlewares(middleware.NoopAdapter)

	// Assert
	require.Len(t, e.Checks, 1)
	require.Equal(t, []check.Check{first, second}, withSecond.Checks)
	require.Nil(t, e.CheckConfig)
	require.Equal(t, check.Config{"code": 403}, withCfg.CheckConfig)
	require.Len(t, withMw.Middlewares, 1)
	require.Empty(t, e.Middlewares)
	require.Nil(t, withSecond.Valid())
}
