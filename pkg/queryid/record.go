// Package queryid computes persisted query ids for the operations of a set of GraphQL documents.
//
// Every named operation is printed together with the fragments it depends on.
// The hash of that canonical text is the id a client sends instead of the query,
// the canonical text is what a server executes for the id.
package queryid

import (
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

// Source is one parsed input document.
type Source struct {
	// Name identifies the document, usually the path of the file it was loaded from.
	Name     string
	Document *ast.Document
}

// Location points to the operation keyword inside its source document.
type Location struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Record is the result for a single operation.
type Record struct {
	Name          string   `json:"name"`
	OperationType string   `json:"operationType"`
	Query         string   `json:"query"`
	Hash          string   `json:"hash"`
	UsesVariables bool     `json:"usesVariables"`
	Fragments     []string `json:"fragments,omitempty"`
	Location      Location `json:"location"`
}

// Result holds the records of one generation run in document order.
// When two operations share a name only the one processed last is kept.
type Result struct {
	records []Record
	index   map[string]int
}

// NewResult builds a Result from records in document order.
// For records sharing a name only the last one is kept.
func NewResult(records []Record) *Result {
	last := make(map[string]int, len(records))
	for i := range records {
		last[records[i].Name] = i
	}

	result := &Result{
		records: make([]Record, 0, len(last)),
		index:   make(map[string]int, len(last)),
	}
	for i := range records {
		if last[records[i].Name] != i {
			continue
		}
		result.index[records[i].Name] = len(result.records)
		result.records = append(result.records, records[i])
	}
	return result
}

// Records returns all records in document order.
func (r *Result) Records() []Record {
	return r.records
}

func (r *Result) Len() int {
	return len(r.records)
}

func (r *Result) Lookup(operationName string) (Record, bool) {
	i, ok := r.index[operationName]
	if !ok {
		return Record{}, false
	}
	return r.records[i], true
}
