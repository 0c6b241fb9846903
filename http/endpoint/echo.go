package endpoint

import (
	"net/http"

	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/resp"
)

// EchoMsg is the message an Echo handler reports.
const EchoMsg = "Success"

// An EchoBody is what an Echo handler responds with.
type EchoBody struct {
	Message      string         `json:"message"`
	Query        map[string]any `json:"query"`
	Params       map[string]any `json:"params"`
	Body         map[string]any `json:"body"`
	CheckResults check.Results  `json:"checkResults"`
}

// Echo constructs an http.Handler responding with the validated inputs of a request
// and the payloads of the checks approving it.
//
// Echo must be served by a Dispatcher.
func Echo(rp *resp.Responder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in, err := req.InputFromContext(r.Context())
		if err != nil {
			rp.Err(w, r, err)
			return
		}

		results, err := check.ResultsFromContext(r.Context())
		if err != nil {
			rp.Err(w, r, err)
			return
		}

		rp.Json(w, r, resp.Data(EchoBody{
			Message:      EchoMsg,
			Query:        in.Query,
			Params:       in.Params,
			Body:         in.Body,
			CheckResults: results,
		}))
	})
}
