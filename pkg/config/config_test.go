package config

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wundergraph/persisted-query-ids/pkg/output"
	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := Default()
		c.Output = "client"
		return c
	}

	t.Run("defaults with output are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	cases := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{name: "missing output", modify: func(c *Config) { c.Output = "" }, field: KeyOutput},
		{name: "invalid output", modify: func(c *Config) { c.Output = "both" }, field: KeyOutput},
		{name: "unknown algorithm", modify: func(c *Config) { c.Algorithm = "crc32" }, field: KeyAlgorithm},
		{name: "unknown format", modify: func(c *Config) { c.Format = "xml" }, field: KeyFormat},
		{name: "apollo manifest for client output", modify: func(c *Config) { c.Format = "apollo" }, field: KeyFormat},
		{name: "invalid package name", modify: func(c *Config) { c.Format = "go"; c.PackageName = "persisted-queries" }, field: KeyPackageName},
		{name: "concurrency below one", modify: func(c *Config) { c.Concurrency = 0 }, field: KeyConcurrency},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.modify(&c)

			err := c.Validate()

			var configErr *Error
			require.True(t, errors.As(err, &configErr), "expected *config.Error, got %v", err)
			assert.Equal(t, tc.field, configErr.Field)
		})
	}

	t.Run("invalid output keeps the underlying error", func(t *testing.T) {
		c := valid()
		c.Output = "both"

		var invalidMode *output.InvalidModeError
		assert.True(t, errors.As(c.Validate(), &invalidMode))
	})
	t.Run("unknown algorithm keeps the underlying error", func(t *testing.T) {
		c := valid()
		c.Algorithm = "crc32"

		var unsupported *queryid.UnsupportedAlgorithmError
		assert.True(t, errors.As(c.Validate(), &unsupported))
	})
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), c)
	})
	t.Run("yaml file", func(t *testing.T) {
		c, err := Load("testdata/codegen.yml", nil)
		require.NoError(t, err)

		expected := Default()
		expected.Output = "client"
		expected.Algorithm = "sha512"
		expected.AddTypeName = false
		expected.WithMetadata = true
		expected.Concurrency = 4
		assert.Equal(t, expected, c)
	})
	t.Run("json file", func(t *testing.T) {
		c, err := Load("testdata/codegen.json", nil)
		require.NoError(t, err)
		assert.Equal(t, "server", c.Output)
		assert.Equal(t, "apollo", c.Format)
		assert.True(t, c.FailOnDuplicateFragments)
		assert.True(t, c.AddTypeName)
		assert.NoError(t, c.Validate())
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load("testdata/missing.yml", nil)
		assert.Error(t, err)
	})
	t.Run("flags override the file", func(t *testing.T) {
		flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
		RegisterFlags(flags)
		require.NoError(t, flags.Parse([]string{"--output", "server", "--concurrency", "2"}))

		c, err := Load("testdata/codegen.yml", flags)
		require.NoError(t, err)
		assert.Equal(t, "server", c.Output)
		assert.Equal(t, 2, c.Concurrency)
		assert.Equal(t, "sha512", c.Algorithm)
		assert.False(t, c.AddTypeName)
	})
	t.Run("unset flags keep defaults", func(t *testing.T) {
		flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
		RegisterFlags(flags)
		require.NoError(t, flags.Parse(nil))

		c, err := Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, Default(), c)
	})
	t.Run("environment", func(t *testing.T) {
		t.Setenv("PQID_OUTPUT", "server")
		t.Setenv("PQID_ALGORITHM", "sha1")

		c, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "server", c.Output)
		assert.Equal(t, "sha1", c.Algorithm)
	})
}

func TestConfig_Options(t *testing.T) {
	c := Default()
	c.Output = "client"
	c.WithMetadata = true

	assert.Equal(t, output.Options{
		Mode:         output.ModeClient,
		Format:       output.FormatJSON,
		WithMetadata: true,
		PackageName:  output.DefaultPackageName,
	}, c.OutputOptions())

	generator, err := queryid.NewGenerator(c.GeneratorOptions(nil)...)
	require.NoError(t, err)
	assert.NotNil(t, generator)
}
