package req

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xy-planning-network/checkpoint"
)

// ItemsField is the body field whose array, when present, is validated element by element.
const ItemsField = "values"

// MaxBodyBytes caps the size of a request body ParseInput reads.
const MaxBodyBytes = 1 << 20

var (
	// ErrInvalidJSON is returned by ParseInput when a body declared as JSON cannot be decoded.
	ErrInvalidJSON = fmt.Errorf("%w: Request body is not valid JSON", checkpoint.ErrBadFormat)

	// ErrBodyTooLarge is returned by ParseInput when a body exceeds MaxBodyBytes.
	// The error returned also wraps an [*http.MaxBytesError].
	ErrBodyTooLarge = fmt.Errorf("%w: Request body is too large", checkpoint.ErrBadFormat)
)

// Input is the parsed view of a request the validator reads from.
//
// Values read from the query, path params or headers are strings,
// or []any of strings when a query key repeats.
// Body values keep the shapes JSON decodes to, with numbers as json.Number,
// unless FormBody is set and they are strings as well.
type Input struct {
	Query   map[string]any `json:"query"`
	Params  map[string]any `json:"params"`
	Headers map[string]any `json:"headers"`
	Body    map[string]any `json:"body"`

	// FormBody marks Body as read from an urlencoded form.
	FormBody bool `json:"-"`
}

// Values returns the values read from c.
func (in Input) Values(c Context) map[string]any {
	switch c {
	case Query:
		return in.Query
	case Params:
		return in.Params
	case Headers:
		return in.Headers
	case Body:
		return in.Body
	default:
		return nil
	}
}

// Items returns the body's items field when it holds an array.
func (in Input) Items() ([]any, bool) {
	items, ok := in.Body[ItemsField].([]any)
	return items, ok
}

// ParseInput reads r and params, the path parameters matched by a router, into an Input.
//
// A JSON body must be an object.
// A form body is read the way [http.Request.ParseForm] reads it.
// ParseInput restores r.Body so handlers can read it again.
func ParseInput(r *http.Request, params map[string]string) (Input, error) {
	in := Input{
		Query:   make(map[string]any),
		Params:  make(map[string]any, len(params)),
		Headers: make(map[string]any, len(r.Header)),
		Body:    make(map[string]any),
	}

	for k, vals := range r.URL.Query() {
		in.Query[k] = flatten(vals)
	}

	for k, v := range params {
		in.Params[k] = v
	}

	for k, vals := range r.Header {
		in.Headers[strings.ToLower(k)] = strings.Join(vals, ", ")
	}

	body, form, err := parseBody(r)
	if err != nil {
		return Input{}, err
	}

	if body != nil {
		in.Body = body
		in.FormBody = form
	}

	return in, nil
}

// parseBody reads the body of r, reporting whether it was a form.
func parseBody(r *http.Request) (map[string]any, bool, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false, nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, false, fmt.Errorf("%w: %w", ErrBodyTooLarge, tooLarge)
		}

		return nil, false, fmt.Errorf("%w: failed reading request body: %s", checkpoint.ErrBadFormat, err)
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	ct := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, false, fmt.Errorf("%w: %s", checkpoint.ErrBadFormat, err)
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))

		body := make(map[string]any, len(r.PostForm))
		for k, vals := range r.PostForm {
			body[k] = flatten(vals)
		}

		return body, true, nil

	case ct == "" || strings.Contains(ct, "json"):
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, false, nil
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, false, ErrInvalidJSON
		}

		body, ok := v.(map[string]any)
		if !ok {
			return nil, false, fmt.Errorf("%w: request body must be a JSON object", checkpoint.ErrBadFormat)
		}

		return body, false, nil

	default:
		return nil, false, nil
	}
}

func flatten(vals []string) any {
	if len(vals) == 1 {
		return vals[0]
	}

	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}

	return out
}

// NewInputContext stores in on ctx.
func NewInputContext(ctx context.Context, in Input) context.Context {
	return context.WithValue(ctx, checkpoint.InputKey, in)
}

// InputFromContext retrieves the Input stored on ctx.
func InputFromContext(ctx context.Context) (Input, error) {
	in, ok := ctx.Value(checkpoint.InputKey).(Input)
	if !ok {
		return Input{}, fmt.Errorf("%w: no input on context", checkpoint.ErrMissingData)
	}

	return in, nil
}

// IsInvalidJSON reports whether err came from a body that could not be decoded.
func IsInvalidJSON(err error) bool { return errors.Is(err, ErrInvalidJSON) }

// IsBodyTooLarge reports whether err came from a body exceeding MaxBodyBytes.
func IsBodyTooLarge(err error) bool { return errors.Is(err, ErrBodyTooLarge) }
