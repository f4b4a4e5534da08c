// Package config holds the options of a generation run and loads them from files, flags and the environment.
package config

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/jensneuse/abstractlogger"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wundergraph/persisted-query-ids/pkg/output"
	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

const EnvPrefix = "PQID"

// Config keys, also used as flag names with camel case replaced by dashes.
const (
	KeyOutput                   = "output"
	KeyAlgorithm                = "algorithm"
	KeyAddTypeName              = "addTypeName"
	KeyFormat                   = "format"
	KeyWithMetadata             = "withMetadata"
	KeyPackageName              = "packageName"
	KeyFailOnDuplicateFragments = "failOnDuplicateFragments"
	KeyConcurrency              = "concurrency"
)

var flagNames = map[string]string{
	KeyOutput:                   "output",
	KeyAlgorithm:                "algorithm",
	KeyAddTypeName:              "add-typename",
	KeyFormat:                   "format",
	KeyWithMetadata:             "with-metadata",
	KeyPackageName:              "package-name",
	KeyFailOnDuplicateFragments: "fail-on-duplicate-fragments",
	KeyConcurrency:              "concurrency",
}

type Config struct {
	// Output is either "server" or "client" and has no default.
	Output                   string `mapstructure:"output" yaml:"output" json:"output"`
	Algorithm                string `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
	AddTypeName              bool   `mapstructure:"addTypeName" yaml:"addTypeName" json:"addTypeName"`
	Format                   string `mapstructure:"format" yaml:"format" json:"format"`
	WithMetadata             bool   `mapstructure:"withMetadata" yaml:"withMetadata" json:"withMetadata"`
	PackageName              string `mapstructure:"packageName" yaml:"packageName" json:"packageName"`
	FailOnDuplicateFragments bool   `mapstructure:"failOnDuplicateFragments" yaml:"failOnDuplicateFragments" json:"failOnDuplicateFragments"`
	Concurrency              int    `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
}

// Default returns a Config with every option but Output set to its default.
func Default() Config {
	return Config{
		Algorithm:   queryid.DefaultAlgorithm,
		AddTypeName: true,
		Format:      string(output.FormatJSON),
		PackageName: output.DefaultPackageName,
		Concurrency: 1,
	}
}

// Error is returned for configurations that cannot be used. It is reported before any document is processed.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validate checks every option and returns the first *Error.
func (c Config) Validate() error {
	mode, err := output.ParseMode(c.Output)
	if err != nil {
		return &Error{Field: KeyOutput, Err: err}
	}
	if _, err := queryid.NewHasher(c.Algorithm); err != nil {
		return &Error{Field: KeyAlgorithm, Err: err}
	}
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return &Error{Field: KeyFormat, Err: err}
	}
	if err := output.CheckFormat(mode, format); err != nil {
		return &Error{Field: KeyFormat, Err: err}
	}
	if format == output.FormatGo && c.PackageName != "" && !token.IsIdentifier(c.PackageName) {
		return &Error{Field: KeyPackageName, Err: errors.Errorf("%q is not a valid Go package name", c.PackageName)}
	}
	if c.Concurrency < 1 {
		return &Error{Field: KeyConcurrency, Err: errors.Errorf("must be at least 1, got %d", c.Concurrency)}
	}
	return nil
}

// GeneratorOptions returns the queryid options for c.
func (c Config) GeneratorOptions(logger abstractlogger.Logger) []queryid.Option {
	return []queryid.Option{
		queryid.WithAlgorithm(c.Algorithm),
		queryid.WithAddTypeName(c.AddTypeName),
		queryid.WithFailOnDuplicateFragments(c.FailOnDuplicateFragments),
		queryid.WithConcurrency(c.Concurrency),
		queryid.WithLogger(logger),
	}
}

// OutputOptions returns the output options for c. Call Validate first.
func (c Config) OutputOptions() output.Options {
	return output.Options{
		Mode:         output.Mode(c.Output),
		Format:       output.Format(c.Format),
		WithMetadata: c.WithMetadata,
		PackageName:  c.PackageName,
	}
}

// RegisterFlags adds one flag per option to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	defaults := Default()
	flags.String(flagNames[KeyOutput], "", "view to write, 'server' or 'client'")
	flags.String(flagNames[KeyAlgorithm], defaults.Algorithm, fmt.Sprintf("hash algorithm, one of %s", strings.Join(queryid.SupportedAlgorithms(), ", ")))
	flags.Bool(flagNames[KeyAddTypeName], defaults.AddTypeName, "add __typename to nested selection sets")
	flags.String(flagNames[KeyFormat], defaults.Format, "output encoding, one of json, yaml, go, apollo")
	flags.Bool(flagNames[KeyWithMetadata], defaults.WithMetadata, "write query and variable usage next to the hash in client output")
	flags.String(flagNames[KeyPackageName], defaults.PackageName, "package name of go output")
	flags.Bool(flagNames[KeyFailOnDuplicateFragments], defaults.FailOnDuplicateFragments, "fail when two different fragments share a name")
	flags.Int(flagNames[KeyConcurrency], defaults.Concurrency, "number of operations resolved in parallel")
}

// Load reads the config file at path (YAML or JSON, may be empty), environment variables
// prefixed with PQID_ and flags registered with RegisterFlags, in increasing priority.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault(KeyOutput, defaults.Output)
	v.SetDefault(KeyAlgorithm, defaults.Algorithm)
	v.SetDefault(KeyAddTypeName, defaults.AddTypeName)
	v.SetDefault(KeyFormat, defaults.Format)
	v.SetDefault(KeyWithMetadata, defaults.WithMetadata)
	v.SetDefault(KeyPackageName, defaults.PackageName)
	v.SetDefault(KeyFailOnDuplicateFragments, defaults.FailOnDuplicateFragments)
	v.SetDefault(KeyConcurrency, defaults.Concurrency)

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "expanding config path %s", path)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config file %s", expanded)
		}
	}

	if flags != nil {
		for key, name := range flagNames {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, errors.Wrapf(err, "binding flag %s", name)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	return config, nil
}
