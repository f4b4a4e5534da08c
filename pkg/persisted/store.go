package persisted

import (
	_ "embed"
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/wundergraph/persisted-query-ids/pkg/output"
)

var ErrPersistedQueryNotFound = errors.New("PersistedQueryNotFound")

//go:embed apollo_manifest.schema.json
var apolloManifestSchema string

var apolloManifest = jsonschema.MustCompileString("apollo_manifest.schema.json", apolloManifestSchema)

// Store maps persisted query hashes to query documents.
type Store struct {
	queries map[string]string
}

func NewStore(queries map[string]string) *Store {
	return &Store{
		queries: queries,
	}
}

// LoadStore reads a server view or an Apollo persisted query manifest.
func LoadStore(data []byte) (*Store, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("store: invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("store: expected a json object")
	}

	if root.Get("format").Exists() && root.Get("operations").Exists() {
		return loadApolloManifest(data, root)
	}

	queries := map[string]string{}
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = errors.Errorf("store: query for hash %s must be a string", key.String())
			return false
		}
		queries[key.String()] = value.String()
		return true
	})
	if err != nil {
		return nil, err
	}
	return NewStore(queries), nil
}

func loadApolloManifest(data []byte, root gjson.Result) (*Store, error) {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	if err := apolloManifest.Validate(value); err != nil {
		return nil, errors.Wrap(err, "store: invalid "+output.ApolloManifestFormat)
	}

	operations := root.Get("operations").Array()
	queries := make(map[string]string, len(operations))
	for _, operation := range operations {
		queries[operation.Get("id").String()] = operation.Get("body").String()
	}
	return NewStore(queries), nil
}

func (s *Store) Query(hash string) (string, bool) {
	query, ok := s.queries[hash]
	return query, ok
}

func (s *Store) Len() int {
	return len(s.queries)
}

// ResolveRequest replaces the persisted query extension of a GraphQL request body with the stored query.
// Bodies without the extension, or with a query already set, are returned unchanged.
func (s *Store) ResolveRequest(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("request: invalid json")
	}

	hash, err := jsonparser.GetString(body, "extensions", "persistedQuery", "sha256Hash")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return body, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "request: reading persisted query hash")
	}

	if _, dataType, _, err := jsonparser.Get(body, "query"); err == nil && dataType != jsonparser.Null {
		return body, nil
	}

	query, ok := s.queries[hash]
	if !ok {
		return nil, errors.Wrapf(ErrPersistedQueryNotFound, "hash %s", hash)
	}

	out, err := sjson.SetBytes(body, "query", query)
	if err != nil {
		return nil, err
	}
	return sjson.DeleteBytes(out, "extensions.persistedQuery")
}
