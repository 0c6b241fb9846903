package resp

import (
	"net/http"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w    http.ResponseWriter
	r    *http.Request
	code int
	data any
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r.r, e, r.data))
		}

		return Code(http.StatusInternalServerError)(d, r)
	}
}

// Fail sets the status code and a StatusBody reporting msg.
func Fail(code int, msg string) Fn {
	return func(d Responder, r *Response) error {
		r.code = code
		r.data = StatusBody{Status: StatusError, Message: msg}
		return nil
	}
}

// Header sets a response header.
func Header(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		r.w.Header().Set(key, val)
		return nil
	}
}

// Ok sets the status code http.StatusOK and a StatusBody reporting msg.
func Ok(msg string) Fn {
	return func(_ Responder, r *Response) error {
		r.code = http.StatusOK
		r.data = StatusBody{Status: StatusOk, Message: msg}
		return nil
	}
}
