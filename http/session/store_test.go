package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/session"
)

func TestNewStoreService(t *testing.T) {
	// Arrange
	notHex := "ðŸ˜…"
	hex := "ABCD"

	tcs := []struct {
		name string
		cfg  session.Config
	}{
		{"bad-env", session.Config{Env: "nowhere", SessionName: "s", AuthKey: hex, EncryptKey: hex}},
		{"no-name", session.Config{Env: checkpoint.Testing, AuthKey: hex, EncryptKey: hex}},
		{"bad-auth-key", session.Config{Env: checkpoint.Testing, SessionName: "s", AuthKey: notHex, EncryptKey: hex}},
		{"bad-encrypt-key", session.Config{Env: checkpoint.Testing, SessionName: "s", AuthKey: hex, EncryptKey: notHex}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			svc, err := session.NewStoreService(tc.cfg)

			// Assert
			require.ErrorIs(t, err, checkpoint.ErrBadConfig)
			require.Zero(t, svc)
		})
	}

	// Arrange
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	svc, err := session.NewStoreService(session.Config{
		Env:         checkpoint.Testing,
		SessionName: "checkpoint",
		AuthKey:     hex,
		EncryptKey:  hex,
	}, session.WithMaxAge(60))

	// Assert
	require.NoError(t, err)
	require.NotZero(t, svc)

	s, err := svc.GetSession(r)
	require.NoError(t, err)
	_, err = s.Principal()
	require.ErrorIs(t, err, session.ErrNoPrincipal)
}

func TestSessionPrincipal(t *testing.T) {
	// Arrange
	stub := session.NewStub("")
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := stub.GetSession(r)
	require.NoError(t, err)

	// Act
	_, err = s.Principal()

	// Assert
	require.ErrorIs(t, err, checkpoint.ErrNotExist)

	// Act
	require.NoError(t, s.RegisterPrincipal(w, r, "user-1"))
	actual, err := s.Principal()

	// Assert
	require.NoError(t, err)
	require.Equal(t, "user-1", actual)

	// Act
	require.NoError(t, s.Set(w, r, "checkpoint-principal", 1))
	_, err = s.Principal()

	// Assert
	require.ErrorIs(t, err, checkpoint.ErrNotValid)
	require.Equal(t, 1, s.Get("checkpoint-principal"))

	// Act
	require.NoError(t, s.DeregisterPrincipal(w, r))
	_, err = s.Principal()

	// Assert
	require.ErrorIs(t, err, session.ErrNoPrincipal)
	require.NoError(t, s.ResetExpiry(w, r))
}
