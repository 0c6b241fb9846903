package resp

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/xy-planning-network/checkpoint/logger"
)

// Responder maintains reusable pieces for responding to HTTP requests.
// It exposes common methods for writing structured data as an HTTP response.
//
// Most oftentimes, setting up a single instance of a Responder suffices for a service.
//
// When handling a specific HTTP request, calling code supplies additional data, structure,
// and so forth through Fn functions.
type Responder struct {
	logger logger.Logger

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool: &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New()
	}

	return d
}

// Logger exposes the Logger the Responder logs through.
func (doer *Responder) Logger() logger.Logger { return doer.logger }

// Err logs err and responds with the generic failure:
//
//	{"status":"Error","message":"Unexpected error"}
//
// The default status code is 500.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	opts = append([]Fn{Fail(http.StatusInternalServerError, UnexpectedMsg), Err(err)}, opts...)
	if nested := doer.Json(w, r, opts...); nested != nil {
		doer.logger.Error(fmt.Sprintf("failed responding to error: %s", nested), newLogContext(r, err, nil))
	}
}

// Json responds with the value Data set, encoded as JSON.
// Without Data, the body is an empty object.
//
// The default status code is 200.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	if rr.data == nil {
		rr.data = struct{}{}
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(rr.data); err != nil {
		http.Error(w, UnexpectedMsg, http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// Text responds with the string Data set as plain text.
//
// The default status code is 200.
func (doer *Responder) Text(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(rr.code)
	if rr.data == nil {
		return nil
	}

	_, err = fmt.Fprint(w, rr.data)
	return err
}

// do applies all options to the passed in http.ResponseWriter and *http.Request.
//
// Calling code ought to pass options in the correct order:
// later options overwrite what earlier ones set.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	resp := &Response{w: w, r: r}
	for _, opt := range opts {
		select {
		case <-r.Context().Done():
			return nil, fmt.Errorf("%w: %s", ErrDone, r.Context().Err())
		default:
			if err := opt(*doer, resp); err != nil {
				return nil, err
			}
		}
	}

	return resp, nil
}
