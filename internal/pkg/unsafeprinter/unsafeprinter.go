// Package unsafeprinter prints documents in tests, panicking on errors.
package unsafeprinter

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astprinter"

	"github.com/wundergraph/persisted-query-ids/internal/pkg/unsafeparser"
)

func Print(document *ast.Document) string {
	str, err := astprinter.PrintString(document)
	if err != nil {
		panic(err)
	}
	return str
}

func PrettyPrint(document *ast.Document) string {
	str, err := astprinter.PrintStringIndent(document, "  ")
	if err != nil {
		panic(err)
	}
	return str
}

// Prettify parses input and prints it with the indentation used for canonical query text.
func Prettify(input string) string {
	doc := unsafeparser.ParseGraphqlDocumentString(input)
	return PrettyPrint(&doc)
}
