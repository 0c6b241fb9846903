package check

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xy-planning-network/checkpoint"
)

// An Outcome classifies how a single check concluded.
type Outcome string

const (
	OutcomeApproved   Outcome = "approved"
	OutcomeRejected   Outcome = "rejected"
	OutcomeDenied     Outcome = "denied"
	OutcomeUnexpected Outcome = "unexpected"
)

// An Observer is notified as each check concludes.
type Observer interface {
	ObserveCheck(id string, outcome Outcome, elapsed time.Duration)
}

// A Pipeline applies checks to a request in order.
//
// A Pipeline is safe for concurrent use once constructed.
type Pipeline struct {
	checks   []Check
	observer Observer
}

// A PipelineOpt configures a Pipeline.
type PipelineOpt func(*Pipeline)

// WithObserver sets the Observer notified of each check's Outcome.
func WithObserver(o Observer) PipelineOpt {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// NewPipeline constructs a Pipeline applying checks in the order given.
func NewPipeline(checks []Check, opts ...PipelineOpt) *Pipeline {
	p := &Pipeline{checks: append([]Check(nil), checks...)}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Checks returns the checks p applies, in order.
func (p *Pipeline) Checks() []Check { return append([]Check(nil), p.checks...) }

// Run applies every check to r, stopping at the first that does not approve.
//
// Each check applies with its Config merged with override.
// On approval, the check's payload, or an empty object, is stored under its identifier.
// Run returns a [*Rejection] when a check refuses r
// and an [*UnexpectedError] when a check errors or panics.
// If ctx ends between checks, Run abandons the remaining checks and returns ctx's error.
func (p *Pipeline) Run(ctx context.Context, r *http.Request, override Config) (Results, error) {
	results := make(Results, len(p.checks))
	for _, chk := range p.checks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg := chk.Config().Merge(override)
		id := checkID(chk, chk.Config())

		start := time.Now()
		res, err := apply(ctx, chk, cfg, r)
		elapsed := time.Since(start)

		if err != nil {
			p.observe(id, OutcomeUnexpected, elapsed)
			return nil, &UnexpectedError{CheckID: id, Err: err}
		}

		if !res.Approved {
			if res.Code == 0 && res.Payload == nil {
				p.observe(id, OutcomeDenied, elapsed)
			} else {
				p.observe(id, OutcomeRejected, elapsed)
			}

			return nil, newRejection(id, res)
		}

		p.observe(id, OutcomeApproved, elapsed)
		if res.Payload == nil {
			res.Payload = map[string]any{}
		}
		results[id] = res.Payload
	}

	return results, nil
}

func (p *Pipeline) observe(id string, outcome Outcome, elapsed time.Duration) {
	if p.observer != nil {
		p.observer.ObserveCheck(id, outcome, elapsed)
	}
}

// apply calls chk.Apply, converting a panic into an error.
func apply(ctx context.Context, chk Check, cfg Config, r *http.Request) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: check panicked: %v", checkpoint.ErrUnexpected, rec)
		}
	}()

	return chk.Apply(ctx, cfg, r)
}
