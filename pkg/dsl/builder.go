// Package dsl offers a fluent builder for assembling story graphs in
// code, as an alternative to constructing schema.Graph by hand.
package dsl

import (
	"errors"

	"github.com/mverett/fabula/internal/validation"
	"github.com/mverett/fabula/pkg/schema"
)

// edge is a connection recorded while building, resolved in Build once
// every node exists.
type edge struct {
	fromNode string
	fromPort string
	toNode   string
}

// Builder accumulates nodes, variables, and connections for a graph.
// Errors are collected and reported together by Build.
type Builder struct {
	graph *schema.Graph
	edges []edge
	errs  []error
}

// New creates a builder for a graph with the given name.
func New(name string) *Builder {
	return &Builder{graph: schema.NewGraph(name)}
}

// Describe sets the graph description.
func (b *Builder) Describe(desc string) *Builder {
	b.graph.Description = desc
	return b
}

// Var declares a graph variable with a default value.
func (b *Builder) Var(name string, def schema.Value) *Builder {
	if err := b.graph.DeclareVariable(schema.Variable{Name: name, Type: def.Type, Default: def}); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *Builder) add(n schema.Node) {
	if err := b.graph.AddNode(n); err != nil {
		b.errs = append(b.errs, err)
	}
}

func (b *Builder) connect(fromNode, fromPort, toNode string) {
	b.edges = append(b.edges, edge{fromNode: fromNode, fromPort: fromPort, toNode: toNode})
}

// Connect records an explicit port-to-port connection.
func (b *Builder) Connect(fromNode, fromPort, toNode string) *Builder {
	b.connect(fromNode, fromPort, toNode)
	return b
}

// Build resolves all recorded connections, validates the graph, and
// returns it. All accumulated errors are joined.
func (b *Builder) Build() (*schema.Graph, error) {
	errs := b.errs
	for _, e := range b.edges {
		if _, err := b.graph.AddConnection(e.fromNode, e.fromPort, e.toNode, schema.PortInput); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if problems := validation.ValidateGraph(b.graph); len(problems) > 0 {
		joined := make([]error, 0, len(problems))
		for _, p := range problems {
			joined = append(joined, schema.NewError(schema.ErrCodeValidation, p))
		}
		return nil, errors.Join(joined...)
	}
	return b.graph, nil
}

// MustBuild is Build that panics on error. Intended for fixed graphs
// in tests and examples.
func (b *Builder) MustBuild() *schema.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
