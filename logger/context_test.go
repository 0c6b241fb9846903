package logger_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/logger"
)

func TestLogContextMarshalText(t *testing.T) {
	tcs := []struct {
		name     string
		lc       logger.LogContext
		expected string
	}{
		{"zero-value", logger.LogContext{}, `{}`},
		{"data", logger.LogContext{Data: map[string]any{"test": "data"}}, `{"data":{"test":"data"}}`},
		{"error", logger.LogContext{Error: errors.New("test")}, `{"error":"test"}`},
		{"caller", logger.LogContext{Caller: "checkpoint/logger/context.go:1"}, `{}`},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			b, err := tc.lc.MarshalText()

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, string(b))
			require.Equal(t, tc.expected, tc.lc.String())
		})
	}
}

func TestLogContextMarshalTextRequest(t *testing.T) {
	// Arrange
	expected := map[string]any{
		"request": map[string]any{
			"method":    http.MethodGet,
			"url":       "https://example.com/things",
			"requestId": "abc-123",
			"header": map[string]any{
				"X-Api-Key": []any{"secret"},
			},
		},
	}

	r := httptest.NewRequest(http.MethodGet, "https://example.com/things", nil)
	r.Header.Set("X-Api-Key", "secret")
	r = r.WithContext(context.WithValue(r.Context(), checkpoint.RequestIDKey, "abc-123"))

	// Act
	b, err := logger.LogContext{Request: r}.MarshalText()

	// Assert
	require.Nil(t, err)
	m := make(map[string]any)
	require.Nil(t, json.Unmarshal(b, &m))
	require.Equal(t, expected, m)
}

func TestLogContextMarshalTextForm(t *testing.T) {
	// Arrange
	expected := map[string]any{
		"request": map[string]any{
			"method": http.MethodPost,
			"url":    "https://example.com/test?some=param",
			"header": map[string]any{
				"Content-Type": []any{"application/x-www-form-urlencoded"},
			},
			"form": map[string]any{
				"some": []any{"param"},
				"name": []any{"Edmund Husserl"},
			},
		},
	}

	form := url.Values{}
	form.Set("name", "Edmund Husserl")
	r := httptest.NewRequest(http.MethodPost, "https://example.com/test?some=param", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Nil(t, r.ParseForm())

	// Act
	b, err := logger.LogContext{Request: r}.MarshalText()

	// Assert
	require.Nil(t, err)
	m := make(map[string]any)
	require.Nil(t, json.Unmarshal(b, &m))
	require.Equal(t, expected, m)
}

func TestLogContextMarshalTextLeavesBody(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodPost, "https://example.com", strings.NewReader(`{"name":"Edmund Husserl"}`))
	r.Header.Set("Content-Type", "application/json")

	// Act
	_, err := logger.LogContext{Request: r}.MarshalText()

	// Assert
	require.Nil(t, err)
	b, err := io.ReadAll(r.Body)
	require.Nil(t, err)
	require.Equal(t, `{"name":"Edmund Husserl"}`, string(b))
}
