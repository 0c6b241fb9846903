package manifest_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/resp"
	"github.com/xy-planning-network/checkpoint/http/router"
	"github.com/xy-planning-network/checkpoint/logger"
	"github.com/xy-planning-network/checkpoint/manifest"
)

const testManifest = `
checks:
  - id: partner-key
    variant: key-match
    config:
      key: valid
  - id: closed
    variant: refuse
    config:
      code: 403
      message: Closed
routers:
  - prefix: /api
    checks: [partner-key]
    endpoints:
      - method: GET
        path: /things/{id}
        handler: echo
        groups:
          - context: params
            properties:
              - {name: id, type: number}
      - method: POST
        path: /closed
        handler: echo
        checks: [closed]
        checkConfig:
          message: Closed today
  - endpoints:
      - method: GET
        path: /open
        handler: echo
`

func newRouter() (*router.Router, *resp.Responder) {
	rp := resp.NewResponder(resp.WithLogger(logger.New(logger.WithOutput(io.Discard))))
	return router.New(checkpoint.Testing, endpoint.NewDispatcher(endpoint.WithResponder(rp)), nil), rp
}

func TestParse(t *testing.T) {
	// Act
	m, err := manifest.Parse([]byte(testManifest))

	// Assert
	require.Nil(t, err)
	require.Len(t, m.Checks, 2)
	require.Equal(t, "key-match", m.Checks[0].Variant)
	require.Equal(t, 403, m.Checks[1].Config["code"])
	require.Len(t, m.Routers, 2)
	require.Equal(t, []string{"partner-key"}, m.Routers[0].Checks)
	require.Equal(t, []req.Group{{
		Context:    req.Params,
		Properties: []req.Property{{Name: "id", Type: req.Number}},
	}}, m.Routers[0].Endpoints[0].Groups)
}

func TestParseInvalid(t *testing.T) {
	// Act
	_, err := manifest.Parse([]byte("checks: [oops"))

	// Assert
	require.ErrorIs(t, err, checkpoint.ErrBadFormat)
}

func TestLoad(t *testing.T) {
	// Arrange
	f := filepath.Join(t.TempDir(), "manifest.yaml")
	require.Nil(t, os.WriteFile(f, []byte(testManifest), 0o600))

	// Act
	m, err := manifest.Load(f)
	_, missingErr := manifest.Load(filepath.Join(t.TempDir(), "nope.yaml"))

	// Assert
	require.Nil(t, err)
	require.Len(t, m.Routers, 2)
	require.ErrorIs(t, missingErr, checkpoint.ErrNotExist)
}

func TestApply(t *testing.T) {
	// Arrange
	m, err := manifest.Parse([]byte(testManifest))
	require.Nil(t, err)

	rt, rp := newRouter()
	require.Nil(t, m.Apply(rt, check.NewRegistry(), map[string]http.Handler{"echo": endpoint.Echo(rp)}))

	tcs := []struct {
		name     string
		method   string
		url      string
		code     int
		expected string
	}{
		{
			"Approved",
			http.MethodGet,
			"/api/things/7?key=valid",
			http.StatusOK,
			`{"message":"Success","query":{"key":"valid"},"params":{"id":"7"},"body":{},"checkResults":{"partner-key":{"message":"Accepted"}}}`,
		},
		{"Invalid", http.MethodGet, "/api/things/seven?key=valid", http.StatusBadRequest, `{"status":"Error","message":"Parameters 'id' have invalid type"}`},
		{"Rejected", http.MethodGet, "/api/things/7?key=nope", http.StatusUnauthorized, `{"message":"key does not match"}`},
		{"Shared-Then-Own", http.MethodPost, "/api/closed?key=valid", http.StatusForbidden, `{"message":"Closed today"}`},
		{"Shared-First", http.MethodPost, "/api/closed", http.StatusUnauthorized, `{"message":"Unknown reason"}`},
		{
			"Open",
			http.MethodGet,
			"/open",
			http.StatusOK,
			`{"message":"Success","query":{},"params":{},"body":{},"checkResults":{}}`,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.url, nil)

			// Act
			rt.ServeHTTP(w, r)

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tcs := []struct {
		name     string
		yml      string
		expected error
	}{
		{"Unknown-Variant", "checks: [{id: a, variant: nope}]", checkpoint.ErrNotExist},
		{"No-ID", "checks: [{variant: refuse}]", checkpoint.ErrBadConfig},
		{"Repeated-ID", "checks: [{id: a, variant: refuse}, {id: a, variant: refuse}]", checkpoint.ErrBadConfig},
		{"Unknown-Check", "routers: [{checks: [a], endpoints: [{method: GET, path: /a, handler: echo}]}]", checkpoint.ErrNotExist},
		{"Unknown-Handler", "routers: [{endpoints: [{method: GET, path: /a, handler: nope}]}]", checkpoint.ErrNotExist},
		{"Bad-Group", "routers: [{endpoints: [{method: GET, path: /a, handler: echo, groups: [{context: cookies}]}]}]", checkpoint.ErrBadConfig},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			m, err := manifest.Parse([]byte(tc.yml))
			require.Nil(t, err)
			rt, rp := newRouter()

			// Act
			err = m.Apply(rt, check.NewRegistry(), map[string]http.Handler{"echo": endpoint.Echo(rp)})

			// Assert
			require.ErrorIs(t, err, tc.expected)
		})
	}
}
