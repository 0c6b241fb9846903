package req

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xy-planning-network/checkpoint"
)

// InvalidParams reports the properties of one Context's resolved Group
// that are missing or have the wrong type.
type InvalidParams struct {
	Context     Context
	Missing     []string
	InvalidType []string

	// Item is the 1-based position of the failing element of the body's items field;
	// 0 when the body was validated as a whole.
	Item int
}

// Error is the message the client sees, e.g.:
//
//	Parameters 'time' were not found in body and 'timestamp' have invalid type
func (e *InvalidParams) Error() string {
	var b strings.Builder
	b.WriteString("Parameters ")

	if len(e.Missing) > 0 {
		b.WriteString(quote(e.Missing))
		b.WriteString(" were not found in ")
		b.WriteString(e.Context.String())
	}

	if len(e.InvalidType) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(quote(e.InvalidType))
		b.WriteString(" have invalid type")
	}

	if e.Item > 0 {
		if len(e.InvalidType) > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, ", item %d", e.Item)
	}

	return b.String()
}

func (*InvalidParams) Unwrap() error { return checkpoint.ErrNotValid }

func quote(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}

	return strings.Join(quoted, ", ")
}

// A ValidationError is an issue with a concrete value not matching the rule set on its field.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

// ValidationErrors is a set of ValidationError.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msg := fmt.Sprintf("field=%q rule=%q got=%q", err.Field, err.Rule, fmt.Sprint(err.Got))
		msgs = append(msgs, msg)
	}

	return strings.Join(msgs, "\n")
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	var errs struct {
		E []ValidationError `json:"validationErrors,omitempty"`
	}

	errs.E = append(errs.E, v...)

	return json.Marshal(errs)
}

func (ValidationErrors) Unwrap() error { return checkpoint.ErrNotValid }
