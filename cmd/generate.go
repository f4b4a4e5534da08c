package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wundergraph/persisted-query-ids/pkg/config"
	"github.com/wundergraph/persisted-query-ids/pkg/documents"
	"github.com/wundergraph/persisted-query-ids/pkg/output"
	"github.com/wundergraph/persisted-query-ids/pkg/queryid"
)

var (
	documentPatterns []string
	outFile          string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the client or server view of persisted query ids",
	Long: `generate loads every document matching --documents, following #import comments,
and writes either the client view (operation name to hash) or the server view (hash to query).
Nothing is written if any document or operation fails.`,
	Example: `persisted-query-ids generate --documents 'src/**/*.graphql' --output client --out queries.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if len(documentPatterns) == 0 {
			return errors.New("generate: at least one --documents pattern is required")
		}

		log, err := logger()
		if err != nil {
			return err
		}

		sources, err := documents.Load(documentPatterns...)
		if err != nil {
			return err
		}

		generator, err := queryid.NewGenerator(c.GeneratorOptions(log)...)
		if err != nil {
			return err
		}
		result, err := generator.Generate(cmd.Context(), sources)
		if err != nil {
			return err
		}

		data, err := output.Marshal(result, c.OutputOptions())
		if err != nil {
			return err
		}

		if outFile == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return os.WriteFile(outFile, data, 0644)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	config.RegisterFlags(generateCmd.Flags())
	generateCmd.Flags().StringSliceVarP(&documentPatterns, "documents", "d", nil, "glob patterns of the graphql documents to load")
	generateCmd.Flags().StringVarP(&outFile, "out", "o", "", "file to write to, stdout if empty")
}
