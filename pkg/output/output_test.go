package output

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
	"github.com/wundergraph/persisted-query-ids/pkg/testing/goldie"
)

func testResult() *queryid.Result {
	return queryid.NewResult([]queryid.Record{
		{
			Name:          "Foo",
			OperationType: "query",
			Query:         "fragment myFragment on Ding {\n  name\n}\nquery Foo {\n  bar(filter: \"<a&b>\")\n  ...myFragment\n}",
			Hash:          "c0ffee02",
			Fragments:     []string{"myFragment"},
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

func TestParseMode(t *testing.T) {
	for _, mode := range []string{"server", "client"} {
		parsed, err := ParseMode(mode)
		require.NoError(t, err)
		assert.Equal(t, Mode(mode), parsed)
	}

	for _, mode := range []string{"", "Server", "both"} {
		_, err := ParseMode(mode)

		var invalid *InvalidModeError
		require.True(t, errors.As(err, &invalid), mode)
		assert.Contains(t, err.Error(), "must configure output to 'server' or 'client'")
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.NoError(t, CheckFormat(ModeServer, FormatApollo))
	assert.Error(t, CheckFormat(ModeClient, FormatApollo))
	assert.NoError(t, CheckFormat(ModeClient, FormatGo))
}

func TestViews(t *testing.T) {
	result := testResult()

	client := ClientView(result)
	server := ServerView(result)

	assert.Equal(t, map[string]string{"Foo": "c0ffee02", "AddTodo": "c0ffee01"}, client)
	for name, hash := range client {
		assert.NotEmpty(t, server[hash], name)
	}

	metadata := ClientMetadataView(result)
	assert.True(t, metadata["AddTodo"].UsesVariables)
	assert.Equal(t, server["c0ffee02"], metadata["Foo"].Query)
}

func TestMarshal_JSON(t *testing.T) {
	run := func(name string, options Options) func(t *testing.T) {
		return func(t *testing.T) {
			data, err := Marshal(testResult(), options)
			require.NoError(t, err)
			goldie.AssertWithDiffView(t, name, data)
		}
	}

	t.Run("client view", run("client_view", Options{Mode: ModeClient}))
	t.Run("client view with metadata", run("client_metadata_view", Options{Mode: ModeClient, WithMetadata: true}))
	t.Run("server view", run("server_view", Options{Mode: ModeServer, Format: FormatJSON}))
	t.Run("apollo manifest", run("apollo_manifest", Options{Mode: ModeServer, Format: FormatApollo}))
}

func TestMarshal_YAML(t *testing.T) {
	data, err := Marshal(testResult(), Options{Mode: ModeServer, Format: FormatYAML})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, ServerView(testResult()), decoded)

	t.Run("client metadata", func(t *testing.T) {
		data, err := Marshal(testResult(), Options{Mode: ModeClient, Format: FormatYAML, WithMetadata: true})
		require.NoError(t, err)

		var decoded map[string]ClientMetadata
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.Equal(t, ClientMetadataView(testResult()), decoded)
	})
}

func TestMarshal_Go(t *testing.T) {
	t.Run("client", func(t *testing.T) {
		data, err := Marshal(testResult(), Options{Mode: ModeClient, Format: FormatGo, PackageName: "queries"})
		require.NoError(t, err)

		file, err := parser.ParseFile(token.NewFileSet(), "queries.go", data, parser.ParseComments)
		require.NoError(t, err)
		assert.Equal(t, "queries", file.Name.Name)

		source := string(data)
		assert.Contains(t, source, "DO NOT EDIT")
		assert.Contains(t, source, `FooHash`)
		assert.Contains(t, source, `AddTodoHash`)
		assert.Contains(t, source, `"c0ffee01"`)
		assert.Contains(t, source, "OperationHashes")
	})
	t.Run("server", func(t *testing.T) {
		data, err := Marshal(testResult(), Options{Mode: ModeServer, Format: FormatGo})
		require.NoError(t, err)

		file, err := parser.ParseFile(token.NewFileSet(), "queries.go", data, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultPackageName, file.Name.Name)
		assert.Contains(t, string(data), "PersistedQueries")
	})
	t.Run("conflicting identifiers", func(t *testing.T) {
		result := queryid.NewResult([]queryid.Record{
			{Name: "getUser", Hash: "1"},
			{Name: "GetUser", Hash: "2"},
		})
		_, err := Marshal(result, Options{Mode: ModeClient, Format: FormatGo})
		assert.Error(t, err)
	})
	t.Run("identifiers are exported", func(t *testing.T) {
		assert.Equal(t, "GetUserHash", hashIdentifier("getUser"))
	})
}

func TestMarshal_Errors(t *testing.T) {
	_, err := Marshal(testResult(), Options{Mode: "both"})
	var invalid *InvalidModeError
	assert.True(t, errors.As(err, &invalid))

	_, err = Marshal(testResult(), Options{Mode: ModeClient, Format: FormatApollo})
	var unsupported *UnsupportedFormatError
	assert.True(t, errors.As(err, &unsupported))
}

func TestWrite(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, testResult(), Options{Mode: ModeClient}))
	assert.Equal(t, "{\n  \"AddTodo\": \"c0ffee01\",\n  \"Foo\": \"c0ffee02\"\n}\n", buf.String())

	t.Run("nothing is written on error", func(t *testing.T) {
		buf := &bytes.Buffer{}
		assert.Error(t, Write(buf, testResult(), Options{Mode: "invalid"}))
		assert.Equal(t, 0, buf.Len())
	})
}
