package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/middleware"
	"github.com/xy-planning-network/checkpoint/http/resp"
)

// NotFoundMsg is the message sent when no endpoint matches a request.
const NotFoundMsg = "Not Found"

// Router routes requests for endpoints to the handlers a Dispatcher builds for them.
type Router struct {
	Env           checkpoint.Environment
	checks        []check.Check
	d             *endpoint.Dispatcher
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment,
// serving endpoints through d.
//
// logReq is applied to requests matching no endpoint; it may be nil.
func New(env checkpoint.Environment, d *endpoint.Dispatcher, logReq middleware.Adapter) *Router {
	if d == nil {
		d = endpoint.NewDispatcher()
	}

	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	rt := &Router{Env: env, d: d, logReq: logReq, r: mux.NewRouter()}
	rt.HandleNotFound(NotFound(d.Responder()))

	return rt
}

// NotFound constructs the http.Handler responding 404 for requests matching no endpoint:
//
//	{"status":"Error","message":"Not Found"}
func NotFound(rp *resp.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rp.Json(w, r, resp.Fail(http.StatusNotFound, NotFoundMsg))
	}
}

// Handle applies the [endpoint.Endpoint] to the [*Router].
func (r *Router) Handle(e endpoint.Endpoint) error {
	return r.HandleEndpoints([]endpoint.Endpoint{e})
}

// HandleEndpoints registers the set of Endpoints on the Router
// and includes all the [middleware.Adapter] on each Endpoint.
// Any [middleware.Adapter] already assigned to an Endpoint is appended to middlewares,
// so are called after the default set.
//
// HandleEndpoints registers none of the Endpoints if any is not valid.
func (r *Router) HandleEndpoints(endpoints []endpoint.Endpoint, middlewares ...middleware.Adapter) error {
	handlers := make([]http.Handler, len(endpoints))
	for i, e := range endpoints {
		h, err := r.d.Handler(e, r.checks...)
		if err != nil {
			return err
		}

		mws := append(append([]middleware.Adapter(nil), r.everyReqStack...), middlewares...)
		mws = append(mws, e.Middlewares...)
		handlers[i] = middleware.Chain(middleware.ReportPanic(r.Env)(h), mws...)
	}

	for i, e := range endpoints {
		r.r.Handle(e.Path, handlers[i]).Methods(e.Method)
	}

	return nil
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no endpoint matches a request, by path or by method.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	h := middleware.Chain(middleware.ReportPanic(r.Env)(handler), r.logReq)
	r.r.NotFoundHandler = h
	r.r.MethodNotAllowedHandler = h
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request for an endpoint
// handled afterwards.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// UseChecks appends the checks to those the [*Router] applies,
// before an Endpoint's own, to every endpoint handled afterwards.
func (r *Router) UseChecks(checks ...check.Check) {
	r.checks = append(r.checks, checks...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
// The Subrouter starts with the checks and middlewares of r.
//
// e.g., r.Subrouter("/api/v1") handles requests to endpoints like /api/v1/users
func (r *Router) Subrouter(prefix string) *Router {
	sub := &Router{
		Env:           r.Env,
		checks:        append([]check.Check(nil), r.checks...),
		d:             r.d,
		everyReqStack: append([]middleware.Adapter(nil), r.everyReqStack...),
		logReq:        r.logReq,
		r:             r.r.PathPrefix(prefix).Subrouter(),
	}
	sub.r.NotFoundHandler = r.r.NotFoundHandler
	sub.r.MethodNotAllowedHandler = r.r.MethodNotAllowedHandler

	return sub
}

// Routes lists every registered endpoint as its method and full path, sorted.
func (r *Router) Routes() ([]string, error) {
	var routes []string
	err := r.r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}

		path, err := route.GetPathTemplate()
		if err != nil {
			return fmt.Errorf("%w: %s", checkpoint.ErrUnexpected, err)
		}

		routes = append(routes, strings.Join(methods, ",")+" "+path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(routes)
	return routes, nil
}
