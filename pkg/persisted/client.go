// Package persisted uses generated persisted query maps at runtime.
//
// ClientHashes looks up the hash a client sends for an operation,
// Store resolves the hash a server receives back into the query document.
package persisted

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
)

const persistedQueryVersion = 1

var (
	ErrOperationMissing     = errors.New("operation missing from graphql query")
	ErrOperationNameMissing = errors.New("name missing from operation definition")
)

type HashNotFoundError struct {
	OperationName string
}

func (e *HashNotFoundError) Error() string {
	return "cannot find pregenerated hash for " + e.OperationName
}

// ClientHashes maps operation names to persisted query hashes.
type ClientHashes struct {
	hashes map[string]string
}

func NewClientHashes(hashes map[string]string) *ClientHashes {
	return &ClientHashes{
		hashes: hashes,
	}
}

// LoadClientHashes reads a client view, with or without metadata.
func LoadClientHashes(data []byte) (*ClientHashes, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("client hashes: invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("client hashes: expected a json object")
	}

	hashes := map[string]string{}
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.String:
			hashes[key.String()] = value.String()
		case value.IsObject() && value.Get("hash").Type == gjson.String:
			hashes[key.String()] = value.Get("hash").String()
		default:
			err = errors.Errorf("client hashes: no hash for operation %s", key.String())
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	return NewClientHashes(hashes), nil
}

func (c *ClientHashes) HashForOperation(operationName string) (string, error) {
	hash, ok := c.hashes[operationName]
	if !ok || hash == "" {
		return "", &HashNotFoundError{OperationName: operationName}
	}
	return hash, nil
}

// HashForDocument returns the hash of the first operation definition in document.
func (c *ClientHashes) HashForDocument(document *ast.Document) (string, error) {
	for _, node := range document.RootNodes {
		if node.Kind != ast.NodeKindOperationDefinition {
			continue
		}
		name := document.OperationDefinitionNameString(node.Ref)
		if name == "" {
			return "", ErrOperationNameMissing
		}
		return c.HashForOperation(name)
	}
	return "", ErrOperationMissing
}

// Extensions returns the request extensions announcing the persisted query of operationName.
func (c *ClientHashes) Extensions(operationName string) ([]byte, error) {
	hash, err := c.HashForOperation(operationName)
	if err != nil {
		return nil, err
	}

	extensions, err := sjson.SetBytes([]byte(`{}`), "persistedQuery.version", persistedQueryVersion)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(extensions, "persistedQuery.sha256Hash", hash)
}
