package manifest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/strada/router"
)

var (
	// ErrUnknownHandler is returned by Apply when a route references a
	// handler name that is not present in the Registry.
	ErrUnknownHandler = errors.New("manifest: unknown handler")

	// ErrUnknownPipeline is returned by Apply when a mount references a
	// pipeline name that is not present in the Registry.
	ErrUnknownPipeline = errors.New("manifest: unknown pipeline")

	// ErrUnknownRoute is returned by Apply when a redirect endpoint names
	// a route defined neither in the manifest nor on the router.
	ErrUnknownRoute = errors.New("manifest: unknown route name")
)

// MethodList is a list of HTTP method names. In YAML it decodes from
// either a single scalar or a sequence:
//
//	methods: GET
//	methods: [GET, POST]
type MethodList []string

// UnmarshalYAML implements yaml.Unmarshaler, accepting a scalar or a
// sequence node.
func (m *MethodList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*m = MethodList{s}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*m = MethodList(s)
		return nil
	default:
		return fmt.Errorf("manifest: methods must be a string or a list, got %v", node.Kind)
	}
}

// RouteDef describes one route entry in a manifest.
type RouteDef struct {
	// Name optionally names the route for URL generation and redirect
	// destination lookup.
	Name string `yaml:"name"`

	// Methods lists the HTTP methods the route accepts. Empty means all
	// known methods.
	Methods MethodList `yaml:"methods"`

	// Path is the route's path template.
	Path string `yaml:"path"`

	// Handler is the registry name of the handler to invoke.
	Handler string `yaml:"handler"`
}

// RedirectDef describes one redirect entry in a manifest. Destination may
// be a literal path or the name of a route defined in the same manifest.
type RedirectDef struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`

	// Code is the redirect status code. Zero means 301.
	Code int `yaml:"code"`
}

// MountDef describes one mount entry in a manifest. The referenced
// pipeline handles every request whose path starts with Path.
type MountDef struct {
	Path     string `yaml:"path"`
	Pipeline string `yaml:"pipeline"`
}

// Manifest is a declarative route table decoded from YAML.
type Manifest struct {
	Routes    []RouteDef    `yaml:"routes"`
	Redirects []RedirectDef `yaml:"redirects"`
	Mounts    []MountDef    `yaml:"mounts"`
}

// Registry supplies the handler and pipeline implementations that a
// manifest's entries reference by name.
type Registry struct {
	Handlers  map[string]router.HandlerFunc
	Pipelines map[string]router.Pipeline
}

// Load decodes a manifest from r. Decoding is strict: unknown fields
// are an error. Structural validation (missing paths, empty handler
// names) happens here; registry references are checked in Apply.
func Load(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) validate() error {
	for i, rt := range m.Routes {
		if rt.Path == "" {
			return fmt.Errorf("manifest: route %d: path is required", i)
		}
		if rt.Handler == "" {
			return fmt.Errorf("manifest: route %d (%s): handler is required", i, rt.Path)
		}
	}

	for i, rd := range m.Redirects {
		if rd.Source == "" {
			return fmt.Errorf("manifest: redirect %d: source is required", i)
		}
		if rd.Destination == "" {
			return fmt.Errorf("manifest: redirect %d (%s): destination is required", i, rd.Source)
		}
	}

	for i, mt := range m.Mounts {
		if mt.Path == "" {
			return fmt.Errorf("manifest: mount %d: path is required", i)
		}
		if mt.Pipeline == "" {
			return fmt.Errorf("manifest: mount %d (%s): pipeline is required", i, mt.Path)
		}
	}

	return nil
}

// Apply registers every entry of the manifest on r. All registry
// references are resolved before any registration, so a failed Apply
// leaves the router untouched.
func (m *Manifest) Apply(r *router.Router, reg Registry) error {
	for i, rt := range m.Routes {
		if _, ok := reg.Handlers[rt.Handler]; !ok {
			return fmt.Errorf("%w: route %d (%s) references %q", ErrUnknownHandler, i, rt.Path, rt.Handler)
		}
	}

	for i, mt := range m.Mounts {
		if _, ok := reg.Pipelines[mt.Pipeline]; !ok {
			return fmt.Errorf("%w: mount %d (%s) references %q", ErrUnknownPipeline, i, mt.Path, mt.Pipeline)
		}
	}

	names := make(map[string]struct{}, len(m.Routes))
	for _, rt := range m.Routes {
		if rt.Name != "" {
			names[rt.Name] = struct{}{}
		}
	}
	resolvable := func(s string) bool {
		if strings.HasPrefix(s, "/") {
			return true
		}
		if _, ok := names[s]; ok {
			return true
		}
		return r.RouteByName(s) != nil
	}
	for i, rd := range m.Redirects {
		if !resolvable(rd.Source) {
			return fmt.Errorf("%w: redirect %d source %q", ErrUnknownRoute, i, rd.Source)
		}
		if !resolvable(rd.Destination) {
			return fmt.Errorf("%w: redirect %d destination %q", ErrUnknownRoute, i, rd.Destination)
		}
	}

	for _, rt := range m.Routes {
		var route *router.Route
		if len(rt.Methods) == 0 {
			route = r.All(rt.Path, reg.Handlers[rt.Handler])
		} else {
			route = r.Method([]string(rt.Methods), rt.Path, reg.Handlers[rt.Handler])
		}
		if rt.Name != "" {
			route.Name(rt.Name)
		}
	}

	for _, rd := range m.Redirects {
		if rd.Code > 0 {
			r.Redirect(rd.Source, rd.Destination, rd.Code)
		} else {
			r.Redirect(rd.Source, rd.Destination)
		}
	}

	for _, mt := range m.Mounts {
		r.Mount(mt.Path, reg.Pipelines[mt.Pipeline])
	}

	return nil
}
