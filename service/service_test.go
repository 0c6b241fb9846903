package service_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/config"
	"github.com/xy-planning-network/checkpoint/http/check/apikey"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/resp"
	"github.com/xy-planning-network/checkpoint/logger"
	"github.com/xy-planning-network/checkpoint/service"
)

func testConfig() config.Config {
	cfg := config.Config{
		Env:      checkpoint.Testing,
		Port:     ":0",
		LogLevel: "ERROR",
	}
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func newService(t *testing.T, opts ...service.ServiceOpt) *service.Service {
	t.Helper()

	opts = append([]service.ServiceOpt{service.WithLogger(logger.New(logger.WithOutput(io.Discard)))}, opts...)
	s, err := service.New(testConfig(), opts...)
	require.Nil(t, err)

	return s
}

func TestNewInvalid(t *testing.T) {
	// Arrange
	cfg := testConfig()
	cfg.Env = "NOPE"

	// Act
	s, err := service.New(cfg)

	// Assert
	require.ErrorIs(t, err, checkpoint.ErrBadConfig)
	require.Nil(t, s)
}

func TestNewRegistersChecks(t *testing.T) {
	tcs := []struct {
		name string
		opts []service.ServiceOpt
		has  []string
		not  []string
	}{
		{"defaults", nil, []string{"jwt", "google", "key-match"}, []string{"api-key", "session"}},
		{"credentials", []service.ServiceOpt{service.WithCredentialStore(apikey.NewMemoryStore())}, []string{"jwt", "google", "api-key"}, []string{"session"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange + Act
			s := newService(t, tc.opts...)

			// Assert
			variants := s.Registry().Variants()
			for _, v := range tc.has {
				require.Contains(t, variants, v)
			}

			for _, v := range tc.not {
				require.NotContains(t, variants, v)
			}
		})
	}
}

func TestBuiltinEndpoints(t *testing.T) {
	// Arrange
	s := newService(t)

	tcs := []struct {
		name     string
		path     string
		code     int
		contains string
		hasReqID bool
	}{
		{"working", "/", http.StatusOK, service.WorkingMsg, true},
		{"metrics", "/metrics", http.StatusOK, "checkpoint_requests_total", true},
		{"not found", "/nope", http.StatusNotFound, `"message":"Not Found"`, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Contains(t, w.Body.String(), tc.contains)
			require.Equal(t, tc.hasReqID, w.Header().Get("X-Request-Id") != "")
		})
	}
}

func TestHandleEchoEndpoint(t *testing.T) {
	// Arrange
	s := newService(t)
	err := s.Handle(endpoint.Post("/echo", endpoint.Echo(s.Responder())))
	require.Nil(t, err)

	// Act
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo?a=b", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), endpoint.EchoMsg)
}

func TestRunInitError(t *testing.T) {
	// Arrange
	s := newService(t)
	initErr := errors.New("no dice")

	// Act
	res := s.Run(func() error { return initErr })

	// Assert
	require.Equal(t, resp.StatusBody{Status: resp.StatusError, Message: service.InitErrMsg, Error: "no dice"}, res)
	require.Nil(t, s.Shutdown())
}

func TestRunClose(t *testing.T) {
	// Arrange
	s := newService(t)
	var inited, closed bool

	// Act
	res := s.Run(func() error { inited = true; return nil })

	// Assert
	require.Equal(t, resp.StatusBody{Status: resp.StatusOk, Message: service.InitializedMsg}, res)
	require.True(t, inited)

	// Act
	r, err := http.Get("http://" + s.Addr() + "/")

	// Assert
	require.Nil(t, err)
	b, err := io.ReadAll(r.Body)
	r.Body.Close()
	require.Nil(t, err)
	require.Equal(t, service.WorkingMsg, string(b))

	// Act
	res = s.Close(func() error { closed = true; return nil })

	// Assert
	require.Equal(t, resp.StatusBody{Status: resp.StatusOk, Message: service.ClosedMsg}, res)
	require.True(t, closed)
}

func TestRunAfterClose(t *testing.T) {
	// Arrange
	s := newService(t)
	require.Equal(t, resp.StatusOk, s.Run(nil).Status)
	require.Equal(t, resp.StatusOk, s.Close(nil).Status)

	// Act
	res := s.Run(nil)
	defer s.Shutdown()

	// Assert
	require.Equal(t, resp.StatusBody{Status: resp.StatusOk, Message: service.InitializedMsg}, res)

	r, err := http.Get("http://" + s.Addr() + "/")
	require.Nil(t, err)
	b, err := io.ReadAll(r.Body)
	r.Body.Close()
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, r.StatusCode)
	require.Equal(t, service.WorkingMsg, string(b))
}

func TestErrMsgs(t *testing.T) {
	// Assert
	require.Equal(t, "An error has ocurred in the initialization function", service.InitErrMsg)
	require.Equal(t, "An error has ocurred in the closing function", service.CloseErrMsg)
}

func TestCloseError(t *testing.T) {
	// Arrange
	s := newService(t)
	require.Equal(t, resp.StatusOk, s.Run(nil).Status)

	// Act
	res := s.Close(func() error { return errors.New("still open") })

	// Assert
	require.Equal(t, resp.StatusBody{Status: resp.StatusError, Message: service.CloseErrMsg, Error: "still open"}, res)
}
