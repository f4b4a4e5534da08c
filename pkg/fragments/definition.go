// Package fragments collects fragment definitions across documents and resolves
// the transitive set of fragments an operation depends on.
package fragments

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astprinter"
)

// Definition points to an operation or fragment definition inside one document.
type Definition struct {
	// Source identifies the document, usually the file path.
	Source   string
	Document *ast.Document
	Kind     ast.NodeKind
	Ref      int
}

// OperationDefinition returns a Definition for the operation ref of document.
func OperationDefinition(source string, document *ast.Document, ref int) Definition {
	return Definition{
		Source:   source,
		Document: document,
		Kind:     ast.NodeKindOperationDefinition,
		Ref:      ref,
	}
}

// FragmentDefinition returns a Definition for the fragment ref of document.
func FragmentDefinition(source string, document *ast.Document, ref int) Definition {
	return Definition{
		Source:   source,
		Document: document,
		Kind:     ast.NodeKindFragmentDefinition,
		Ref:      ref,
	}
}

func (d Definition) Node() ast.Node {
	return ast.Node{Kind: d.Kind, Ref: d.Ref}
}

// Name returns the name of the definition, empty for anonymous operations.
func (d Definition) Name() string {
	switch d.Kind {
	case ast.NodeKindOperationDefinition:
		return d.Document.OperationDefinitionNameString(d.Ref)
	case ast.NodeKindFragmentDefinition:
		return d.Document.FragmentDefinitionNameString(d.Ref)
	default:
		return ""
	}
}

// Print prints the definition on its own, indented with two spaces.
func (d Definition) Print() (string, error) {
	view := *d.Document
	view.RootNodes = []ast.Node{d.Node()}
	return astprinter.PrintStringIndent(&view, "  ")
}
