package manifest

import (
	"fmt"
	"net/http"
	"os"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/router"
	"gopkg.in/yaml.v3"
)

// A Manifest declares checks and the routers serving endpoints.
type Manifest struct {
	Checks  []CheckDef  `yaml:"checks"`
	Routers []RouterDef `yaml:"routers"`
}

// A CheckDef declares a check built by the Factory registered under Variant.
type CheckDef struct {
	ID      string         `yaml:"id"`
	Variant string         `yaml:"variant"`
	Config  map[string]any `yaml:"config"`
}

// A RouterDef declares endpoints served under a common prefix
// and the checks applied to every one of them.
type RouterDef struct {
	Prefix    string        `yaml:"prefix"`
	Checks    []string      `yaml:"checks"`
	Endpoints []EndpointDef `yaml:"endpoints"`
}

// An EndpointDef declares an endpoint.Endpoint.
type EndpointDef struct {
	Method      string         `yaml:"method"`
	Path        string         `yaml:"path"`
	Handler     string         `yaml:"handler"`
	Groups      []req.Group    `yaml:"groups"`
	Checks      []string       `yaml:"checks"`
	CheckConfig map[string]any `yaml:"checkConfig"`
}

// Parse reads a Manifest from YAML.
func Parse(b []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %s", checkpoint.ErrBadFormat, err)
	}

	return m, nil
}

// Load reads the Manifest at path.
func Load(path string) (Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %s", checkpoint.ErrNotExist, err)
	}

	return Parse(b)
}

// BuildChecks constructs every check m declares using reg, keyed by id.
func (m Manifest) BuildChecks(reg *check.Registry) (map[string]check.Check, error) {
	checks := make(map[string]check.Check, len(m.Checks))
	for _, def := range m.Checks {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: manifest check of variant %q has no id", checkpoint.ErrBadConfig, def.Variant)
		}

		if _, ok := checks[def.ID]; ok {
			return nil, fmt.Errorf("%w: manifest repeats check %q", checkpoint.ErrBadConfig, def.ID)
		}

		cfg := make(check.Config, len(def.Config)+1)
		for k, v := range def.Config {
			cfg[k] = v
		}
		cfg[check.IDKey] = def.ID

		chk, err := reg.Build(def.Variant, cfg)
		if err != nil {
			return nil, err
		}

		checks[def.ID] = chk
	}

	return checks, nil
}

// endpoints constructs the endpoints def declares,
// each applying the checks of def before its own.
func (def RouterDef) endpoints(checks map[string]check.Check, handlers map[string]http.Handler) ([]endpoint.Endpoint, error) {
	shared, err := lookup(checks, def.Checks)
	if err != nil {
		return nil, fmt.Errorf("router %q: %w", def.Prefix, err)
	}

	endpoints := make([]endpoint.Endpoint, len(def.Endpoints))
	for i, ed := range def.Endpoints {
		h, ok := handlers[ed.Handler]
		if !ok {
			return nil, fmt.Errorf("%w: %s %s: handler %q", checkpoint.ErrNotExist, ed.Method, ed.Path, ed.Handler)
		}

		chks, err := lookup(checks, ed.Checks)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", ed.Method, ed.Path, err)
		}

		e := endpoint.Endpoint{
			Path:    ed.Path,
			Method:  ed.Method,
			Groups:  ed.Groups,
			Checks:  append(append([]check.Check(nil), shared...), chks...),
			Handler: h,
		}

		if ed.CheckConfig != nil {
			e.CheckConfig = check.Config(ed.CheckConfig)
		}

		endpoints[i] = e
	}

	return endpoints, nil
}

// Apply registers every endpoint m declares on rt,
// serving each with the handler of handlers it names.
func (m Manifest) Apply(rt *router.Router, reg *check.Registry, handlers map[string]http.Handler) error {
	checks, err := m.BuildChecks(reg)
	if err != nil {
		return err
	}

	for _, def := range m.Routers {
		sub := rt
		if def.Prefix != "" {
			sub = rt.Subrouter(def.Prefix)
		}

		endpoints, err := def.endpoints(checks, handlers)
		if err != nil {
			return err
		}

		if err := sub.HandleEndpoints(endpoints); err != nil {
			return err
		}
	}

	return nil
}

func lookup(checks map[string]check.Check, ids []string) ([]check.Check, error) {
	found := make([]check.Check, len(ids))
	for i, id := range ids {
		chk, ok := checks[id]
		if !ok {
			return nil, fmt.Errorf("%w: check %q", checkpoint.ErrNotExist, id)
		}

		found[i] = chk
	}

	return found, nil
}
