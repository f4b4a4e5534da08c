package output

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

const DefaultPackageName = "persisted"

// Options configure Write.
type Options struct {
	Mode   Mode
	Format Format
	// WithMetadata writes hash, query and variable usage per operation in client mode.
	WithMetadata bool
	// PackageName is the package clause of FormatGo output.
	PackageName string
}

// Write encodes the view selected by options.Mode in options.Format.
// Nothing is written if encoding fails.
func Write(w io.Writer, result *queryid.Result, options Options) error {
	data, err := Marshal(result, options)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal returns the view selected by options.Mode encoded in options.Format.
func Marshal(result *queryid.Result, options Options) ([]byte, error) {
	if _, err := ParseMode(string(options.Mode)); err != nil {
		return nil, err
	}
	format, err := ParseFormat(string(options.Format))
	if err != nil {
		return nil, err
	}
	if err := CheckFormat(options.Mode, format); err != nil {
		return nil, err
	}

	switch format {
	case FormatYAML:
		return marshalYAML(view(result, options))
	case FormatGo:
		return marshalGo(result, options)
	case FormatApollo:
		return marshalJSON(NewApolloManifest(result))
	default:
		return marshalJSON(view(result, options))
	}
}

func view(result *queryid.Result, options Options) interface{} {
	if options.Mode == ModeServer {
		return ServerView(result)
	}
	if options.WithMetadata {
		return ClientMetadataView(result)
	}
	return ClientView(result)
}

// marshalJSON indents with two spaces and leaves <, > and & unescaped.
func marshalJSON(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encoding json")
	}
	return buf.Bytes(), nil
}

func marshalYAML(v interface{}) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding yaml")
	}
	return data, nil
}
