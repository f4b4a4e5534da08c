// Package astwalk walks executable GraphQL documents without a schema.
//
// The walker visits operation definitions, fragment definitions and everything
// reachable through their selection sets in document order. Unlike
// astvisitor.Walker from graphql-go-tools it never resolves field types, so it
// works on operations collected from client code where no schema is available.
package astwalk

import (
	"fmt"

	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

var (
	ErrDocumentMustNotBeNil = fmt.Errorf("document must not be nil")
)

// Walker orchestrates the walk over a document and calls all registered visitors.
// Always use NewWalker to instantiate a new Walker.
type Walker struct {
	// Ancestors is the slice of Nodes leading to the current Node in a callback.
	// Don't keep a reference to this slice, copy it if you need it after the callback returned.
	Ancestors []ast.Node
	// Depth is the nesting depth of the current Node.
	Depth int

	document *ast.Document
	visitors visitors
	stop     bool
	err      error
}

type visitors struct {
	enterOperation      []EnterOperationDefinitionVisitor
	enterFragment       []EnterFragmentDefinitionVisitor
	enterSelectionSet   []EnterSelectionSetVisitor
	leaveSelectionSet   []LeaveSelectionSetVisitor
	enterField          []EnterFieldVisitor
	enterInlineFragment []EnterInlineFragmentVisitor
	enterFragmentSpread []EnterFragmentSpreadVisitor
}

// NewWalker returns a fully initialized Walker
func NewWalker(ancestorSize int) Walker {
	return Walker{
		Ancestors: make([]ast.Node, 0, ancestorSize),
	}
}

type (
	// EnterOperationDefinitionVisitor is called when the walker enters an operation definition
	EnterOperationDefinitionVisitor interface {
		EnterOperationDefinition(ref int)
	}
	// EnterFragmentDefinitionVisitor is called when the walker enters a fragment definition
	EnterFragmentDefinitionVisitor interface {
		EnterFragmentDefinition(ref int)
	}
	// EnterSelectionSetVisitor is called when the walker enters a selection set
	EnterSelectionSetVisitor interface {
		EnterSelectionSet(ref int)
	}
	// LeaveSelectionSetVisitor is called when the walker leaves a selection set
	LeaveSelectionSetVisitor interface {
		LeaveSelectionSet(ref int)
	}
	// SelectionSetVisitor is called when the walker enters or leaves a selection set
	SelectionSetVisitor interface {
		EnterSelectionSetVisitor
		LeaveSelectionSetVisitor
	}
	// EnterFieldVisitor is called when the walker enters a field
	EnterFieldVisitor interface {
		EnterField(ref int)
	}
	// EnterInlineFragmentVisitor is called when the walker enters an inline fragment
	EnterInlineFragmentVisitor interface {
		EnterInlineFragment(ref int)
	}
	// EnterFragmentSpreadVisitor is called when the walker enters a fragment spread
	EnterFragmentSpreadVisitor interface {
		EnterFragmentSpread(ref int)
	}
)

func (w *Walker) RegisterEnterOperationVisitor(visitor EnterOperationDefinitionVisitor) {
	w.visitors.enterOperation = append(w.visitors.enterOperation, visitor)
}

func (w *Walker) RegisterEnterFragmentDefinitionVisitor(visitor EnterFragmentDefinitionVisitor) {
	w.visitors.enterFragment = append(w.visitors.enterFragment, visitor)
}

func (w *Walker) RegisterEnterSelectionSetVisitor(visitor EnterSelectionSetVisitor) {
	w.visitors.enterSelectionSet = append(w.visitors.enterSelectionSet, visitor)
}

func (w *Walker) RegisterLeaveSelectionSetVisitor(visitor LeaveSelectionSetVisitor) {
	w.visitors.leaveSelectionSet = append(w.visitors.leaveSelectionSet, visitor)
}

func (w *Walker) RegisterSelectionSetVisitor(visitor SelectionSetVisitor) {
	w.RegisterEnterSelectionSetVisitor(visitor)
	w.RegisterLeaveSelectionSetVisitor(visitor)
}

func (w *Walker) RegisterEnterFieldVisitor(visitor EnterFieldVisitor) {
	w.visitors.enterField = append(w.visitors.enterField, visitor)
}

func (w *Walker) RegisterEnterInlineFragmentVisitor(visitor EnterInlineFragmentVisitor) {
	w.visitors.enterInlineFragment = append(w.visitors.enterInlineFragment, visitor)
}

func (w *Walker) RegisterEnterFragmentSpreadVisitor(visitor EnterFragmentSpreadVisitor) {
	w.visitors.enterFragmentSpread = append(w.visitors.enterFragmentSpread, visitor)
}

// StopWithErr stops the walk after the current callback returned.
// Walk and WalkDefinition return err.
func (w *Walker) StopWithErr(err error) {
	w.stop = true
	w.err = err
}

// Walk visits all operation and fragment definitions of the document in order.
// Root nodes of other kinds are ignored.
func (w *Walker) Walk(document *ast.Document) error {
	if !w.reset(document) {
		return w.err
	}

	for i := range document.RootNodes {
		w.walkRootNode(document.RootNodes[i])
		if w.stop {
			break
		}
	}

	return w.err
}

// WalkDefinition visits a single operation or fragment definition of the document.
func (w *Walker) WalkDefinition(document *ast.Document, node ast.Node) error {
	if !w.reset(document) {
		return w.err
	}

	switch node.Kind {
	case ast.NodeKindOperationDefinition, ast.NodeKindFragmentDefinition:
		w.walkRootNode(node)
	default:
		return fmt.Errorf("astwalk: cannot walk node of kind %v", node.Kind)
	}

	return w.err
}

func (w *Walker) reset(document *ast.Document) bool {
	w.Ancestors = w.Ancestors[:0]
	w.Depth = 0
	w.stop = false
	w.err = nil
	w.document = document
	if document == nil {
		w.err = ErrDocumentMustNotBeNil
		return false
	}
	return true
}

func (w *Walker) walkRootNode(node ast.Node) {
	switch node.Kind {
	case ast.NodeKindOperationDefinition:
		w.walkOperationDefinition(node.Ref)
	case ast.NodeKindFragmentDefinition:
		w.walkFragmentDefinition(node.Ref)
	}
}

func (w *Walker) appendAncestor(ref int, kind ast.NodeKind) {
	w.Ancestors = append(w.Ancestors, ast.Node{
		Kind: kind,
		Ref:  ref,
	})
}

func (w *Walker) removeLastAncestor() {
	w.Ancestors = w.Ancestors[:len(w.Ancestors)-1]
}

func (w *Walker) walkOperationDefinition(ref int) {
	w.Depth++

	for i := range w.visitors.enterOperation {
		w.visitors.enterOperation[i].EnterOperationDefinition(ref)
		if w.stop {
			return
		}
	}

	w.appendAncestor(ref, ast.NodeKindOperationDefinition)

	if w.document.OperationDefinitions[ref].HasSelections {
		w.walkSelectionSet(w.document.OperationDefinitions[ref].SelectionSet)
		if w.stop {
			return
		}
	}

	w.removeLastAncestor()

	w.Depth--
}

func (w *Walker) walkFragmentDefinition(ref int) {
	w.Depth++

	for i := range w.visitors.enterFragment {
		w.visitors.enterFragment[i].EnterFragmentDefinition(ref)
		if w.stop {
			return
		}
	}

	w.appendAncestor(ref, ast.NodeKindFragmentDefinition)

	if w.document.FragmentDefinitions[ref].HasSelections {
		w.walkSelectionSet(w.document.FragmentDefinitions[ref].SelectionSet)
		if w.stop {
			return
		}
	}

	w.removeLastAncestor()

	w.Depth--
}

func (w *Walker) walkSelectionSet(ref int) {
	w.Depth++

	for i := range w.visitors.enterSelectionSet {
		w.visitors.enterSelectionSet[i].EnterSelectionSet(ref)
		if w.stop {
			return
		}
	}

	w.appendAncestor(ref, ast.NodeKindSelectionSet)

	// visitors may append to the selection set while it is walked,
	// only the selections present on enter are visited
	selections := w.document.SelectionSets[ref].SelectionRefs
	for _, j := range selections {
		switch w.document.Selections[j].Kind {
		case ast.SelectionKindField:
			w.walkField(w.document.Selections[j].Ref)
		case ast.SelectionKindFragmentSpread:
			w.walkFragmentSpread(w.document.Selections[j].Ref)
		case ast.SelectionKindInlineFragment:
			w.walkInlineFragment(w.document.Selections[j].Ref)
		}
		if w.stop {
			return
		}
	}

	w.removeLastAncestor()

	for i := len(w.visitors.leaveSelectionSet) - 1; i > -1; i-- {
		w.visitors.leaveSelectionSet[i].LeaveSelectionSet(ref)
		if w.stop {
			return
		}
	}

	w.Depth--
}

func (w *Walker) walkField(ref int) {
	w.Depth++

	for i := range w.visitors.enterField {
		w.visitors.enterField[i].EnterField(ref)
		if w.stop {
			return
		}
	}

	w.appendAncestor(ref, ast.NodeKindField)

	if w.document.Fields[ref].HasSelections {
		w.walkSelectionSet(w.document.Fields[ref].SelectionSet)
		if w.stop {
			return
		}
	}

	w.removeLastAncestor()

	w.Depth--
}

func (w *Walker) walkFragmentSpread(ref int) {
	w.Depth++

	for i := range w.visitors.enterFragmentSpread {
		w.visitors.enterFragmentSpread[i].EnterFragmentSpread(ref)
		if w.stop {
			return
		}
	}

	w.Depth--
}

func (w *Walker) walkInlineFragment(ref int) {
	w.Depth++

	for i := range w.visitors.enterInlineFragment {
		w.visitors.enterInlineFragment[i].EnterInlineFragment(ref)
		if w.stop {
			return
		}
	}

	w.appendAncestor(ref, ast.NodeKindInlineFragment)

	if w.document.InlineFragments[ref].HasSelections {
		w.walkSelectionSet(w.document.InlineFragments[ref].SelectionSet)
		if w.stop {
			return
		}
	}

	w.removeLastAncestor()

	w.Depth--
}
