package endpoint

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/middleware"
	"github.com/xy-planning-network/checkpoint/http/req"
)

// An Endpoint describes a request an HTTP route accepts.
type Endpoint struct {
	Path   string
	Method string

	// Groups describe the inputs a request carries.
	Groups req.Groups

	// Checks apply, in order, to requests passing validation.
	Checks []check.Check

	// CheckConfig overrides the Config of every check applied to requests to the Endpoint.
	CheckConfig check.Config

	Handler     http.Handler
	Middlewares []middleware.Adapter
}

// Valid asserts e describes a request a router can serve.
func (e Endpoint) Valid() error {
	if e.Path == "" || !strings.HasPrefix(e.Path, "/") {
		return fmt.Errorf("%w: endpoint path %q must begin with /", checkpoint.ErrBadConfig, e.Path)
	}

	switch e.Method {
	case http.MethodDelete, http.MethodGet, http.MethodHead, http.MethodOptions,
		http.MethodPatch, http.MethodPost, http.MethodPut:
	default:
		return fmt.Errorf("%w: endpoint %s has unsupported method %q", checkpoint.ErrBadConfig, e.Path, e.Method)
	}

	if e.Handler == nil {
		return fmt.Errorf("%w: endpoint %s %s has no handler", checkpoint.ErrBadConfig, e.Method, e.Path)
	}

	if err := e.Groups.Valid(); err != nil {
		return fmt.Errorf("%w: endpoint %s %s: %s", checkpoint.ErrBadConfig, e.Method, e.Path, err)
	}

	for i, chk := range e.Checks {
		if chk == nil {
			return fmt.Errorf("%w: endpoint %s %s: check %d is nil", checkpoint.ErrBadConfig, e.Method, e.Path, i)
		}
	}

	return nil
}

// String describes e as its method and path.
func (e Endpoint) String() string { return e.Method + " " + e.Path }

// Get describes a GET Endpoint.
func Get(path string, handler http.Handler, groups ...req.Group) Endpoint {
	return newEndpoint(http.MethodGet, path, handler, groups)
}

// Post describes a POST Endpoint.
func Post(path string, handler http.Handler, groups ...req.Group) Endpoint {
	return newEndpoint(http.MethodPost, path, handler, groups)
}

// Put describes a PUT Endpoint.
func Put(path string, handler http.Handler, groups ...req.Group) Endpoint {
	return newEndpoint(http.MethodPut, path, handler, groups)
}

// Delete describes a DELETE Endpoint.
func Delete(path string, handler http.Handler, groups ...req.Group) Endpoint {
	return newEndpoint(http.MethodDelete, path, handler, groups)
}

func newEndpoint(method, path string, handler http.Handler, groups []req.Group) Endpoint {
	return Endpoint{Path: path, Method: method, Groups: groups, Handler: handler}
}

// WithChecks returns a copy of e applying checks after those e already applies.
func (e Endpoint) WithChecks(checks ...check.Check) Endpoint {
	e.Checks = append(append([]check.Check(nil), e.Checks...), checks...)
	return e
}

// WithCheckConfig returns a copy of e overriding the Config of its checks with cfg.
func (e Endpoint) WithCheckConfig(cfg check.Config) Endpoint {
	e.CheckConfig = cfg
	return e
}

// WithMiddlewares returns a copy of e wrapped in adapters after those e already uses.
func (e Endpoint) WithMiddlewares(adapters ...middleware.Adapter) Endpoint {
	e.Middlewares = append(append([]middleware.Adapter(nil), e.Middlewares...), adapters...)
	return e
}
