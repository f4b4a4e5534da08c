package output

import (
	"bytes"
	"fmt"
	"sort"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"

	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

// marshalGo renders a Go file. Client mode declares one constant per operation
// plus an OperationHashes map, server mode declares a PersistedQueries map.
func marshalGo(result *queryid.Result, options Options) ([]byte, error) {
	packageName := options.PackageName
	if packageName == "" {
		packageName = DefaultPackageName
	}

	file := jen.NewFile(packageName)
	file.HeaderComment("Code generated by persisted-query-ids. DO NOT EDIT.")

	switch options.Mode {
	case ModeServer:
		renderServer(file, result)
	default:
		if err := renderClient(file, result); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := file.Render(buf); err != nil {
		return nil, errors.Wrap(err, "rendering go file")
	}
	return buf.Bytes(), nil
}

func renderClient(file *jen.File, result *queryid.Result) error {
	records := result.Records()
	names := make(map[string]string, len(records))

	constants := make([]jen.Code, 0, len(records))
	for _, record := range sortedByName(records) {
		identifier := hashIdentifier(record.Name)
		if other, exists := names[identifier]; exists {
			return errors.Errorf("operations %s and %s map to the same Go identifier %s", other, record.Name, identifier)
		}
		names[identifier] = record.Name

		constants = append(constants, jen.Comment(fmt.Sprintf("%s is the persisted query hash of %s %s.", identifier, record.OperationType, record.Name)))
		constants = append(constants, jen.Id(identifier).Op("=").Lit(record.Hash))
	}

	if len(constants) > 0 {
		file.Const().Defs(constants...)
	}

	file.Comment("OperationHashes maps operation names to persisted query hashes.")
	file.Var().Id("OperationHashes").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(dict jen.Dict) {
		for _, record := range records {
			dict[jen.Lit(record.Name)] = jen.Id(hashIdentifier(record.Name))
		}
	}))

	return nil
}

func renderServer(file *jen.File, result *queryid.Result) {
	file.Comment("PersistedQueries maps persisted query hashes to query documents.")
	file.Var().Id("PersistedQueries").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(dict jen.Dict) {
		for _, record := range result.Records() {
			dict[jen.Lit(record.Hash)] = jen.Lit(record.Query)
		}
	}))
}

func hashIdentifier(operationName string) string {
	identifier := strcase.ToCamel(operationName)
	if identifier == "" || !unicode.IsUpper([]rune(identifier)[0]) {
		identifier = "Operation" + identifier
	}
	return identifier + "Hash"
}

func sortedByName(records []queryid.Record) []queryid.Record {
	out := append([]queryid.Record(nil), records...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
