package check

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/checkpoint"
)

// UnknownReason is the payload sent when a check rejects without a reason.
var UnknownReason = map[string]any{"message": "Unknown reason"}

// A Result is the decision of a Check.
type Result struct {
	Approved bool

	// Code is the HTTP status code sent on rejection.
	Code int

	// Payload is stored in Results on approval,
	// or sent as the response body on rejection.
	Payload any
}

// Approve approves a request, storing payload for handlers.
func Approve(payload any) Result {
	return Result{Approved: true, Payload: payload}
}

// Reject refuses a request, responding with code and payload.
func Reject(code int, payload any) Result {
	return Result{Code: code, Payload: payload}
}

// Deny refuses a request without a reason.
func Deny() Result { return Result{} }

// Results holds the payloads of approving checks, keyed by check identifier.
type Results map[string]any

// NewResultsContext stores res on ctx.
func NewResultsContext(ctx context.Context, res Results) context.Context {
	return context.WithValue(ctx, checkpoint.CheckResultsKey, res)
}

// ResultsFromContext retrieves the Results stored on ctx.
func ResultsFromContext(ctx context.Context) (Results, error) {
	res, ok := ctx.Value(checkpoint.CheckResultsKey).(Results)
	if !ok {
		return nil, fmt.Errorf("%w: no check results on context", checkpoint.ErrMissingData)
	}

	return res, nil
}

// A Rejection is a Check refusing a request.
type Rejection struct {
	CheckID string
	Code    int
	Payload any
}

func newRejection(id string, res Result) *Rejection {
	rej := &Rejection{CheckID: id, Code: res.Code, Payload: res.Payload}
	if rej.Code == 0 {
		rej.Code = http.StatusUnauthorized
	}

	if rej.Payload == nil {
		rej.Payload = UnknownReason
	}

	return rej
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: check %q rejected request with status %d", checkpoint.ErrUnauthorized, r.CheckID, r.Code)
}

func (*Rejection) Unwrap() error { return checkpoint.ErrUnauthorized }

// An UnexpectedError is a Check failing to reach a decision.
type UnexpectedError struct {
	CheckID string
	Err     error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: check %q: %s", checkpoint.ErrUnexpected, e.CheckID, e.Err)
}

func (e *UnexpectedError) Unwrap() []error { return []error{checkpoint.ErrUnexpected, e.Err} }
