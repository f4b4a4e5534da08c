package persisted

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/wundergraph/persisted-query-ids/internal/pkg/unsafeparser"
	"github.com/wundergraph/persisted-query-ids/pkg/output"
	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

func testResult() *queryid.Result {
	return queryid.NewResult([]queryid.Record{
		{
			Name:          "Foo",
			OperationType: "query",
			Query:         "query Foo {\n  bar\n}",
			Hash:          "c0ffee02",
		},
		{
			Name:          "AddTodo",
			OperationType: "mutation",
			Query:         "mutation AddTodo($text: String!) {\n  addTodo(text: $text) {\n    id\n    __typename\n  }\n}",
			Hash:          "c0ffee01",
			UsesVariables: true,
		},
	})
}

func marshal(t *testing.T, options output.Options) []byte {
	t.Helper()
	data, err := output.Marshal(testResult(), options)
	require.NoError(t, err)
	return data
}

func TestLoadClientHashes(t *testing.T) {
	t.Run("client view", func(t *testing.T) {
		hashes, err := LoadClientHashes(marshal(t, output.Options{Mode: output.ModeClient}))
		require.NoError(t, err)

		hash, err := hashes.HashForOperation("Foo")
		require.NoError(t, err)
		assert.Equal(t, "c0ffee02", hash)
	})
	t.Run("client view with metadata", func(t *testing.T) {
		hashes, err := LoadClientHashes(marshal(t, output.Options{Mode: output.ModeClient, WithMetadata: true}))
		require.NoError(t, err)

		hash, err := hashes.HashForOperation("AddTodo")
		require.NoError(t, err)
		assert.Equal(t, "c0ffee01", hash)
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := LoadClientHashes([]byte(`{"Foo":`))
		assert.Error(t, err)
		_, err = LoadClientHashes([]byte(`["c0ffee02"]`))
		assert.Error(t, err)
		_, err = LoadClientHashes([]byte(`{"Foo":{"query":"query Foo { bar }"}}`))
		assert.Error(t, err)
	})
}

func TestClientHashes_HashForDocument(t *testing.T) {
	hashes := NewClientHashes(map[string]string{"Foo": "c0ffee02"})

	t.Run("first operation", func(t *testing.T) {
		doc := unsafeparser.ParseGraphqlDocumentString(`
			fragment F on Query { a }
			query Foo { ...F }
			query Bar { b }`)
		hash, err := hashes.HashForDocument(&doc)
		require.NoError(t, err)
		assert.Equal(t, "c0ffee02", hash)
	})
	t.Run("no operation", func(t *testing.T) {
		doc := unsafeparser.ParseGraphqlDocumentString(`fragment F on Query { a }`)
		_, err := hashes.HashForDocument(&doc)
		assert.Equal(t, ErrOperationMissing, err)
		assert.Equal(t, "operation missing from graphql query", err.Error())
	})
	t.Run("unnamed operation", func(t *testing.T) {
		doc := unsafeparser.ParseGraphqlDocumentString(`{ a }`)
		_, err := hashes.HashForDocument(&doc)
		assert.Equal(t, ErrOperationNameMissing, err)
	})
	t.Run("unknown operation", func(t *testing.T) {
		doc := unsafeparser.ParseGraphqlDocumentString(`query Bar { b }`)
		_, err := hashes.HashForDocument(&doc)

		var notFound *HashNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "Bar", notFound.OperationName)
		assert.Equal(t, "cannot find pregenerated hash for Bar", err.Error())
	})
}

func TestClientHashes_Extensions(t *testing.T) {
	hashes := NewClientHashes(map[string]string{"Foo": "c0ffee02"})

	extensions, err := hashes.Extensions("Foo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"persistedQuery":{"version":1,"sha256Hash":"c0ffee02"}}`, string(extensions))

	_, err = hashes.Extensions("Bar")
	assert.Error(t, err)
}

func TestLoadStore(t *testing.T) {
	t.Run("server view", func(t *testing.T) {
		store, err := LoadStore(marshal(t, output.Options{Mode: output.ModeServer}))
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())

		query, ok := store.Query("c0ffee02")
		assert.True(t, ok)
		assert.Equal(t, "query Foo {\n  bar\n}", query)

		_, ok = store.Query("c0ffee03")
		assert.False(t, ok)
	})
	t.Run("apollo manifest", func(t *testing.T) {
		store, err := LoadStore(marshal(t, output.Options{Mode: output.ModeServer, Format: output.FormatApollo}))
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())

		query, ok := store.Query("c0ffee01")
		assert.True(t, ok)
		assert.Contains(t, query, "mutation AddTodo")
	})
	t.Run("apollo manifest with wrong version", func(t *testing.T) {
		_, err := LoadStore([]byte(`{"format":"apollo-persisted-query-manifest","version":2,"operations":[]}`))
		assert.Error(t, err)
	})
	t.Run("apollo manifest operation without body", func(t *testing.T) {
		_, err := LoadStore([]byte(`{"format":"apollo-persisted-query-manifest","version":1,"operations":[{"id":"c0ffee01"}]}`))
		assert.Error(t, err)
	})
	t.Run("non string query", func(t *testing.T) {
		_, err := LoadStore([]byte(`{"c0ffee01":1}`))
		assert.Error(t, err)
	})
	t.Run("invalid json", func(t *testing.T) {
		_, err := LoadStore([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestStore_ResolveRequest(t *testing.T) {
	store := NewStore(map[string]string{"c0ffee02": "query Foo {\n  bar\n}"})

	t.Run("persisted query", func(t *testing.T) {
		out, err := store.ResolveRequest([]byte(`{"operationName":"Foo","variables":{"a":1},"extensions":{"persistedQuery":{"version":1,"sha256Hash":"c0ffee02"},"tracing":true}}`))
		require.NoError(t, err)

		assert.Equal(t, "query Foo {\n  bar\n}", gjson.GetBytes(out, "query").String())
		assert.Equal(t, "Foo", gjson.GetBytes(out, "operationName").String())
		assert.Equal(t, int64(1), gjson.GetBytes(out, "variables.a").Int())
		assert.False(t, gjson.GetBytes(out, "extensions.persistedQuery").Exists())
		assert.True(t, gjson.GetBytes(out, "extensions.tracing").Bool())
	})
	t.Run("query already set", func(t *testing.T) {
		body := []byte(`{"query":"{ a }","extensions":{"persistedQuery":{"version":1,"sha256Hash":"c0ffee02"}}}`)
		out, err := store.ResolveRequest(body)
		require.NoError(t, err)
		assert.Equal(t, string(body), string(out))
	})
	t.Run("no persisted query", func(t *testing.T) {
		body := []byte(`{"query":"{ a }"}`)
		out, err := store.ResolveRequest(body)
		require.NoError(t, err)
		assert.Equal(t, string(body), string(out))
	})
	t.Run("unknown hash", func(t *testing.T) {
		_, err := store.ResolveRequest([]byte(`{"extensions":{"persistedQuery":{"version":1,"sha256Hash":"c0ffee03"}}}`))
		assert.True(t, errors.Is(err, ErrPersistedQueryNotFound))
	})
	t.Run("invalid json", func(t *testing.T) {
		_, err := store.ResolveRequest([]byte(`{"extensions":`))
		assert.Error(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	hashes, err := LoadClientHashes(marshal(t, output.Options{Mode: output.ModeClient}))
	require.NoError(t, err)
	store, err := LoadStore(marshal(t, output.Options{Mode: output.ModeServer}))
	require.NoError(t, err)

	extensions, err := hashes.Extensions("AddTodo")
	require.NoError(t, err)

	body := append([]byte(`{"operationName":"AddTodo","extensions":`), extensions...)
	body = append(body, '}')

	out, err := store.ResolveRequest(body)
	require.NoError(t, err)

	record, _ := testResult().Lookup("AddTodo")
	assert.Equal(t, record.Query, gjson.GetBytes(out, "query").String())
}
