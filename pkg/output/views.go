package output

import (
	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

// ClientMetadata is the client view entry written when metadata is enabled.
type ClientMetadata struct {
	Hash          string `json:"hash" yaml:"hash"`
	Query         string `json:"query" yaml:"query"`
	UsesVariables bool   `json:"usesVariables" yaml:"usesVariables"`
}

// ClientView maps every operation name to its hash.
func ClientView(result *queryid.Result) map[string]string {
	view := make(map[string]string, result.Len())
	for _, record := range result.Records() {
		view[record.Name] = record.Hash
	}
	return view
}

// ClientMetadataView maps every operation name to its hash, query and variable usage.
func ClientMetadataView(result *queryid.Result) map[string]ClientMetadata {
	view := make(map[string]ClientMetadata, result.Len())
	for _, record := range result.Records() {
		view[record.Name] = ClientMetadata{
			Hash:          record.Hash,
			Query:         record.Query,
			UsesVariables: record.UsesVariables,
		}
	}
	return view
}

// ServerView maps every hash to its canonical query text.
func ServerView(result *queryid.Result) map[string]string {
	view := make(map[string]string, result.Len())
	for _, record := range result.Records() {
		view[record.Hash] = record.Query
	}
	return view
}
