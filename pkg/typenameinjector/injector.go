// Package typenameinjector adds the __typename meta field to the selection sets of executable documents.
//
// Normalized client caches need a type discriminator on every object they store.
// Adding it before an operation is persisted keeps the persisted text identical
// to what the client sends at runtime.
package typenameinjector

import (
	"bytes"
	"slices"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"

	"github.com/wundergraph/persisted-query-ids/pkg/astwalk"
)

const typeNameField = "__typename"

var introspectionPrefix = []byte("__")

// Injector appends a __typename field to every selection set that is not the root
// selection set of an operation, is not empty and does not already select a field
// starting with "__".
type Injector struct {
	walker  *astwalk.Walker
	visitor *selectionSetVisitor
}

// NewInjector returns a reusable Injector. An Injector must not be used concurrently.
func NewInjector() *Injector {
	walker := astwalk.NewWalker(48)
	visitor := &selectionSetVisitor{
		walker: &walker,
	}
	walker.RegisterSelectionSetVisitor(visitor)
	walker.RegisterEnterFieldVisitor(visitor)

	return &Injector{
		walker:  &walker,
		visitor: visitor,
	}
}

// Inject is a convenience function for one-off usage.
func Inject(document *ast.Document) (*ast.Document, error) {
	return NewInjector().Inject(document)
}

// Inject returns a copy of document with __typename fields added.
// The input document is not modified. Arrays that do not change are shared
// between the input and the returned document.
func (i *Injector) Inject(document *ast.Document) (*ast.Document, error) {
	i.visitor.document = document
	i.visitor.targets = i.visitor.targets[:0]
	i.visitor.candidates = i.visitor.candidates[:0]

	if err := i.walker.Walk(document); err != nil {
		return nil, err
	}

	out := *document
	if len(i.visitor.targets) == 0 {
		return &out, nil
	}

	// appending to a clipped slice always reallocates, so the input keeps its arrays
	out.Input.RawBytes = slices.Clip(out.Input.RawBytes)
	out.Fields = slices.Clip(out.Fields)
	out.Selections = slices.Clip(out.Selections)
	out.SelectionSets = slices.Clone(out.SelectionSets)

	name := out.Input.AppendInputString(typeNameField)

	for _, set := range i.visitor.targets {
		field := out.AddField(ast.Field{
			Name:         name,
			SelectionSet: ast.InvalidRef,
		})
		selection := out.AddSelectionToDocument(ast.Selection{
			Kind: ast.SelectionKindField,
			Ref:  field.Ref,
		})

		refs := out.SelectionSets[set].SelectionRefs
		out.SelectionSets[set].SelectionRefs = append(slices.Clip(refs), selection)
	}

	return &out, nil
}

// selectionSetVisitor keeps one candidate per open selection set. A candidate is dropped
// when the set is an operation root, is empty or directly selects a "__" field.
// Sets still standing when they are left become targets.
type selectionSetVisitor struct {
	walker     *astwalk.Walker
	document   *ast.Document
	candidates []int
	targets    []int
}

func (v *selectionSetVisitor) EnterSelectionSet(ref int) {
	if v.isOperationRoot() || len(v.document.SelectionSets[ref].SelectionRefs) == 0 {
		v.candidates = append(v.candidates, ast.InvalidRef)
		return
	}
	v.candidates = append(v.candidates, ref)
}

func (v *selectionSetVisitor) LeaveSelectionSet(ref int) {
	last := len(v.candidates) - 1
	if v.candidates[last] != ast.InvalidRef {
		v.targets = append(v.targets, ref)
	}
	v.candidates = v.candidates[:last]
}

// EnterField runs before the field's own selection set is entered,
// so the last candidate is the set holding the field.
func (v *selectionSetVisitor) EnterField(ref int) {
	if bytes.HasPrefix(v.document.FieldNameBytes(ref), introspectionPrefix) {
		v.candidates[len(v.candidates)-1] = ast.InvalidRef
	}
}

func (v *selectionSetVisitor) isOperationRoot() bool {
	ancestors := v.walker.Ancestors
	if len(ancestors) == 0 {
		return false
	}
	return ancestors[len(ancestors)-1].Kind == ast.NodeKindOperationDefinition
}
