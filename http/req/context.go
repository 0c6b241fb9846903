package req

import (
	"fmt"

	"github.com/xy-planning-network/checkpoint"
)

var (
	_ checkpoint.Enumerable = Context("")
	_ checkpoint.Enumerable = PropertyType("")
)

// A Context is the part of an HTTP request a property is read from.
type Context string

const (
	Query   Context = "query"
	Params  Context = "params"
	Headers Context = "headers"
	Body    Context = "body"
)

// Contexts lists every Context in the order they are validated.
var Contexts = []Context{Query, Params, Headers, Body}

func (c Context) String() string { return string(c) }

func (c Context) Valid() error {
	switch c {
	case Query, Params, Headers, Body:
		return nil
	default:
		return fmt.Errorf("%w: context %q", checkpoint.ErrNotValid, string(c))
	}
}

// A PropertyType governs the type check applied to a property's value.
type PropertyType string

const (
	String  PropertyType = "string"
	Number  PropertyType = "number"
	Boolean PropertyType = "boolean"
	Object  PropertyType = "object"
)

func (pt PropertyType) String() string { return string(pt) }

func (pt PropertyType) Valid() error {
	switch pt {
	case String, Number, Boolean, Object:
		return nil
	default:
		return fmt.Errorf("%w: property type %q", checkpoint.ErrNotValid, string(pt))
	}
}
