package req_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/req"
)

func TestParseInput(t *testing.T) {
	// Arrange
	body := `{"time":"t","timestamp":1600000000,"nested":{"a":[1,2]}}`
	r := httptest.NewRequest(http.MethodPost, "/test/get/type?value=get&many=1&many=2", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Add("X-Multi", "a")
	r.Header.Add("X-Multi", "b")

	// Act
	in, err := req.ParseInput(r, map[string]string{"method": "get"})

	// Assert
	require.NoError(t, err)
	require.Equal(t, "get", in.Query["value"])
	require.Equal(t, []any{"1", "2"}, in.Query["many"])
	require.Equal(t, map[string]any{"method": "get"}, in.Params)
	require.Equal(t, "a, b", in.Headers["x-multi"])
	require.Equal(t, "application/json", in.Headers["content-type"])
	require.Equal(t, "t", in.Body["time"])
	require.Equal(t, json.Number("1600000000"), in.Body["timestamp"])
	require.IsType(t, map[string]any{}, in.Body["nested"])

	// Assert body is restored for handlers
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.Equal(t, body, string(b))
}

func TestParseInputBody(t *testing.T) {
	tcs := []struct {
		name        string
		contentType string
		body        string
		expected    map[string]any
		err         error
	}{
		{"empty", "application/json", "", map[string]any{}, nil},
		{"whitespace", "", "  \n", map[string]any{}, nil},
		{"no-content-type", "", `{"a":"b"}`, map[string]any{"a": "b"}, nil},
		{"json-charset", "application/json; charset=utf-8", `{"a":true}`, map[string]any{"a": true}, nil},
		{"vendor-json", "application/vnd.api+json", `{"a":null}`, map[string]any{"a": nil}, nil},
		{"form", "application/x-www-form-urlencoded", "a=b&c=1&c=2", map[string]any{"a": "b", "c": []any{"1", "2"}}, nil},
		{"text", "text/plain", "hello", map[string]any{}, nil},
		{"malformed", "application/json", `{"a":`, nil, req.ErrInvalidJSON},
		{"array", "application/json", `[1,2]`, nil, checkpoint.ErrBadFormat},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			if tc.contentType != "" {
				r.Header.Set("Content-Type", tc.contentType)
			}

			// Act
			in, err := req.ParseInput(r, nil)

			// Assert
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, in.Body)
		})
	}
}

func TestParseInputNoBody(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	in, err := req.ParseInput(r, nil)

	// Assert
	require.NoError(t, err)
	require.Empty(t, in.Body)
	require.Empty(t, in.Query)
	require.Empty(t, in.Params)
}

func TestParseInputFormBody(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Act
	in, err := req.ParseInput(r, nil)

	// Assert
	require.NoError(t, err)
	require.True(t, in.FormBody)

	// Arrange
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`))

	// Act
	in, err = req.ParseInput(r, nil)

	// Assert
	require.NoError(t, err)
	require.False(t, in.FormBody)
}

func TestParseInputBodyTooLarge(t *testing.T) {
	tcs := []struct {
		name string
		size int
		err  bool
	}{
		{"at-limit", req.MaxBodyBytes, false},
		{"over-limit", req.MaxBodyBytes + 1, true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			body := strings.Repeat("a", tc.size)
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/octet-stream")

			// Act
			_, err := req.ParseInput(r, nil)

			// Assert
			if !tc.err {
				require.NoError(t, err)
				b, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				require.Len(t, b, tc.size)
				return
			}

			require.ErrorIs(t, err, req.ErrBodyTooLarge)
			require.ErrorIs(t, err, checkpoint.ErrBadFormat)
			require.True(t, req.IsBodyTooLarge(err))

			var tooLarge *http.MaxBytesError
			require.ErrorAs(t, err, &tooLarge)
			require.Equal(t, int64(req.MaxBodyBytes), tooLarge.Limit)
		})
	}
}

func TestIsInvalidJSON(t *testing.T) {
	require.True(t, req.IsInvalidJSON(req.ErrInvalidJSON))
	require.False(t, req.IsInvalidJSON(checkpoint.ErrBadFormat))
}

func TestInputItems(t *testing.T) {
	// Arrange
	in := req.Input{Body: map[string]any{req.ItemsField: []any{1}}}

	// Act
	items, ok := in.Items()

	// Assert
	require.True(t, ok)
	require.Len(t, items, 1)

	// Act
	_, ok = req.Input{}.Items()

	// Assert
	require.False(t, ok)
}

func TestInputContext(t *testing.T) {
	// Act
	_, err := req.InputFromContext(context.Background())

	// Assert
	require.ErrorIs(t, err, checkpoint.ErrMissingData)

	// Arrange
	expected := req.Input{Query: map[string]any{"a": "b"}}
	ctx := req.NewInputContext(context.Background(), expected)

	// Act
	actual, err := req.InputFromContext(ctx)

	// Assert
	require.NoError(t, err)
	require.Equal(t, expected, actual)
	require.Equal(t, expected.Query, actual.Values(req.Query))
	require.Nil(t, actual.Values(req.Context("cookies")))
}
