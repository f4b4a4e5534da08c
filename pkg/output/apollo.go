package output

import (
	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

const (
	ApolloManifestFormat  = "apollo-persisted-query-manifest"
	ApolloManifestVersion = 1
)

// ApolloManifest is the persisted query manifest format understood by Apollo Router and GraphOS.
type ApolloManifest struct {
	Format     string            `json:"format"`
	Version    int               `json:"version"`
	Operations []ApolloOperation `json:"operations"`
}

type ApolloOperation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Body string `json:"body"`
}

// NewApolloManifest builds a manifest with one operation per record in document order.
func NewApolloManifest(result *queryid.Result) ApolloManifest {
	manifest := ApolloManifest{
		Format:     ApolloManifestFormat,
		Version:    ApolloManifestVersion,
		Operations: make([]ApolloOperation, 0, result.Len()),
	}
	for _, record := range result.Records() {
		manifest.Operations = append(manifest.Operations, ApolloOperation{
			ID:   record.Hash,
			Name: record.Name,
			Type: record.OperationType,
			Body: record.Query,
		})
	}
	return manifest
}
