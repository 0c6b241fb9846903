package resp

import (
	"net/http"

	"github.com/xy-planning-network/checkpoint/logger"
)

// newLogContext helps structure a logger.LogContext from the provided parts.
func newLogContext(r *http.Request, err error, data any) *logger.LogContext {
	if r == nil && err == nil && data == nil {
		return nil
	}

	ctx := &logger.LogContext{Request: r, Error: err}
	if mapped, ok := data.(map[string]any); ok {
		ctx.Data = mapped
	}

	return ctx
}

// A Status is the outcome the service itself reports in a response body.
type Status string

const (
	StatusOk    Status = "Ok"
	StatusError Status = "Error"
)

// A StatusBody is the shape of bodies the service itself composes.
type StatusBody struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// UnexpectedMsg is the message sent when the service cannot complete a request.
const UnexpectedMsg = "Unexpected error"
