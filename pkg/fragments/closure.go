package fragments

import (
	"slices"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"

	"github.com/wundergraph/persisted-query-ids/pkg/astwalk"
)

// Closure is the ordered set of fragments a definition depends on.
// Fragments are kept in the order they were first discovered.
type Closure struct {
	names       []string
	definitions map[string]Definition
}

func newClosure() *Closure {
	return &Closure{
		definitions: map[string]Definition{},
	}
}

func (c *Closure) add(name string, definition Definition) {
	c.names = append(c.names, name)
	c.definitions[name] = definition
}

func (c *Closure) Len() int {
	return len(c.names)
}

func (c *Closure) Contains(name string) bool {
	_, ok := c.definitions[name]
	return ok
}

// Names returns the fragment names in discovery order.
func (c *Closure) Names() []string {
	return slices.Clone(c.names)
}

// Definitions returns the fragment definitions in discovery order.
func (c *Closure) Definitions() []Definition {
	out := make([]Definition, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.definitions[name])
	}
	return out
}

// Resolver computes fragment closures against a Registry.
// A Resolver must not be used concurrently, create one per goroutine.
type Resolver struct {
	registry *Registry
	walker   *astwalk.Walker
	spreads  *spreadCollector
}

func NewResolver(registry *Registry) *Resolver {
	walker := astwalk.NewWalker(48)
	spreads := &spreadCollector{
		walker:   &walker,
		registry: registry,
	}
	walker.RegisterEnterFragmentSpreadVisitor(spreads)

	return &Resolver{
		registry: registry,
		walker:   &walker,
		spreads:  spreads,
	}
}

// Resolve returns every fragment reachable from definition by following fragment spreads.
// A fragment is added before the fragments it spreads itself, so the order is depth-first by discovery.
func (r *Resolver) Resolve(definition Definition) (*Closure, error) {
	closure := newClosure()

	var expanding []string
	if definition.Kind == ast.NodeKindFragmentDefinition {
		expanding = append(expanding, definition.Name())
	}

	if err := r.expand(definition, closure, expanding); err != nil {
		return nil, err
	}
	return closure, nil
}

func (r *Resolver) expand(definition Definition, closure *Closure, expanding []string) error {
	names, err := r.collectSpreads(definition)
	if err != nil {
		return err
	}

	for _, name := range names {
		if i := slices.Index(expanding, name); i != -1 {
			path := append(slices.Clone(expanding[i:]), name)
			return &FragmentCycleError{Path: path}
		}
		if closure.Contains(name) {
			continue
		}

		fragment, _ := r.registry.Lookup(name)

		closure.add(name, fragment)

		if err := r.expand(fragment, closure, append(expanding, name)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) collectSpreads(definition Definition) ([]string, error) {
	r.spreads.document = definition.Document
	r.spreads.names = nil

	if err := r.walker.WalkDefinition(definition.Document, definition.Node()); err != nil {
		return nil, err
	}
	return r.spreads.names, nil
}

// spreadCollector records the spread names of one definition and stops at the first unknown fragment.
type spreadCollector struct {
	walker   *astwalk.Walker
	registry *Registry
	document *ast.Document
	names    []string
}

func (s *spreadCollector) EnterFragmentSpread(ref int) {
	name := s.document.FragmentSpreadNameString(ref)
	if _, ok := s.registry.Lookup(name); !ok {
		s.walker.StopWithErr(&UnknownFragmentError{Name: name})
		return
	}
	s.names = append(s.names, name)
}
