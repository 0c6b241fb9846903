package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/resp"
	"github.com/xy-planning-network/checkpoint/logger"
)

// An Outcome classifies how the Dispatcher concluded a request.
type Outcome string

const (
	OutcomeBadRequest Outcome = "bad_request"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeRejected   Outcome = "rejected"
	OutcomeUnexpected Outcome = "unexpected"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeHandled    Outcome = "handled"
	OutcomePanicked   Outcome = "panicked"
)

// An Observer is notified as the Dispatcher concludes each request.
type Observer interface {
	ObserveRequest(e Endpoint, outcome Outcome, elapsed time.Duration)
}

// A Dispatcher serves Endpoints.
type Dispatcher struct {
	checkObs  check.Observer
	logger    logger.Logger
	observer  Observer
	responder *resp.Responder
}

// A DispatcherOpt configures a Dispatcher.
type DispatcherOpt func(*Dispatcher)

// WithCheckObserver sets the check.Observer notified as each check concludes.
func WithCheckObserver(o check.Observer) DispatcherOpt {
	return func(d *Dispatcher) {
		d.checkObs = o
	}
}

// WithObserver sets the Observer notified as each request concludes.
func WithObserver(o Observer) DispatcherOpt {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithResponder sets the *resp.Responder the Dispatcher responds with.
func WithResponder(rp *resp.Responder) DispatcherOpt {
	return func(d *Dispatcher) {
		d.responder = rp
	}
}

// NewDispatcher constructs a *Dispatcher.
//
// Without a *resp.Responder, NewDispatcher uses one logging through a default logger.Logger.
func NewDispatcher(opts ...DispatcherOpt) *Dispatcher {
	d := new(Dispatcher)
	for _, opt := range opts {
		opt(d)
	}

	if d.responder == nil {
		d.responder = resp.NewResponder()
	}
	d.logger = d.responder.Logger()

	return d
}

// Responder exposes the *resp.Responder d responds with.
func (d *Dispatcher) Responder() *resp.Responder { return d.responder }

// Handler constructs the http.Handler serving e.
//
// shared are checks applied before e's own checks, in order.
// The returned handler does not apply e.Middlewares; a router does.
func (d *Dispatcher) Handler(e Endpoint, shared ...check.Check) (http.Handler, error) {
	e.Checks = append(append([]check.Check(nil), shared...), e.Checks...)
	if err := e.Valid(); err != nil {
		return nil, err
	}

	opts := make([]check.PipelineOpt, 0, 1)
	if d.checkObs != nil {
		opts = append(opts, check.WithObserver(d.checkObs))
	}

	return &dispatch{
		d:        d,
		endpoint: e,
		pipeline: check.NewPipeline(e.Checks, opts...),
	}, nil
}

// A dispatch serves a single Endpoint.
type dispatch struct {
	d        *Dispatcher
	endpoint Endpoint
	pipeline *check.Pipeline
}

func (h *dispatch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := h.serve(w, r)
	if h.d.observer != nil {
		h.d.observer.ObserveRequest(h.endpoint, outcome, time.Since(start))
	}
}

func (h *dispatch) serve(w http.ResponseWriter, r *http.Request) Outcome {
	in, err := req.ParseInput(r, mux.Vars(r))
	if err != nil {
		code := http.StatusBadRequest
		if req.IsBodyTooLarge(err) {
			code = http.StatusRequestEntityTooLarge
		}

		h.d.responder.Json(w, r, resp.Fail(code, badFormatMsg(err)))
		return OutcomeBadRequest
	}

	if err := req.Validate(h.endpoint.Groups, in); err != nil {
		var invalid *req.InvalidParams
		if !errors.As(err, &invalid) {
			h.d.responder.Err(w, r, err)
			return OutcomeUnexpected
		}

		h.d.responder.Json(w, r, resp.Fail(http.StatusBadRequest, invalid.Error()))
		return OutcomeInvalid
	}

	ctx := req.NewInputContext(r.Context(), in)
	r = r.Clone(ctx)

	results, err := h.pipeline.Run(ctx, r, h.endpoint.CheckConfig)
	if err != nil {
		return h.fail(w, r, err)
	}

	r = r.Clone(check.NewResultsContext(r.Context(), results))
	return h.handle(w, r)
}

// fail responds to a request the check pipeline did not approve.
func (h *dispatch) fail(w http.ResponseWriter, r *http.Request, err error) Outcome {
	var rej *check.Rejection
	if errors.As(err, &rej) {
		h.d.responder.Json(w, r, resp.Code(rej.Code), resp.Data(rej.Payload))
		return OutcomeRejected
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.d.logger.Debug(fmt.Sprintf("%s abandoned: %s", h.endpoint, err), nil)
		return OutcomeCancelled
	}

	var unexpected *check.UnexpectedError
	if errors.As(err, &unexpected) {
		err = fmt.Errorf("%s: %w", h.endpoint, unexpected)
	}

	h.d.responder.Err(w, r, err)
	return OutcomeUnexpected
}

// handle calls the Endpoint's Handler, recovering from a panic.
func (h *dispatch) handle(w http.ResponseWriter, r *http.Request) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %s handler panicked: %v", checkpoint.ErrUnexpected, h.endpoint, rec)
			h.d.responder.Err(w, r, err)
			outcome = OutcomePanicked
		}
	}()

	h.endpoint.Handler.ServeHTTP(w, r)
	return OutcomeHandled
}

// badFormatMsg is the message reported for a request that cannot be parsed.
func badFormatMsg(err error) string {
	if req.IsInvalidJSON(err) {
		return "Request body is not valid JSON"
	}

	if req.IsBodyTooLarge(err) {
		return "Request body is too large"
	}

	return strings.TrimPrefix(err.Error(), checkpoint.ErrBadFormat.Error()+": ")
}
