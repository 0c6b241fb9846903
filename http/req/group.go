package req

import (
	"fmt"

	"github.com/xy-planning-network/checkpoint"
)

// A Property is a named, typed input expected in a Context.
type Property struct {
	Name string       `json:"name" yaml:"name"`
	Type PropertyType `json:"type" yaml:"type"`
}

// A Group is one alternative set of properties, all required together,
// for satisfying the inputs of its Context.
type Group struct {
	Context    Context    `json:"context" yaml:"context"`
	Properties []Property `json:"properties" yaml:"properties"`
}

// Valid asserts the Group has a known Context
// and that its properties have names, known types and are not repeated.
func (g Group) Valid() error {
	if err := g.Context.Valid(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(g.Properties))
	for _, p := range g.Properties {
		if p.Name == "" {
			return fmt.Errorf("%w: %s group has a property without a name", checkpoint.ErrNotValid, g.Context)
		}

		if err := p.Type.Valid(); err != nil {
			return fmt.Errorf("%s property %q: %w", g.Context, p.Name, err)
		}

		if seen[p.Name] {
			return fmt.Errorf("%w: %s group repeats property %q", checkpoint.ErrNotValid, g.Context, p.Name)
		}

		seen[p.Name] = true
	}

	return nil
}

// Groups is the complete description of the inputs of a request.
type Groups []Group

// Valid asserts every Group is valid.
func (gs Groups) Valid() error {
	for i, g := range gs {
		if err := g.Valid(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}

	return nil
}

// For filters the Groups down to those for c, preserving declaration order.
func (gs Groups) For(c Context) []Group {
	var out []Group
	for _, g := range gs {
		if g.Context == c {
			out = append(out, g)
		}
	}

	return out
}

// without returns a copy of g lacking the property called name.
func (g Group) without(name string) Group {
	props := make([]Property, 0, len(g.Properties))
	for _, p := range g.Properties {
		if p.Name != name {
			props = append(props, p)
		}
	}

	return Group{Context: g.Context, Properties: props}
}
