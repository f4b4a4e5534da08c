package cmd

import (
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/wundergraph/persisted-query-ids/pkg/persisted"
)

var storeFile string

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Replaces the persisted query hash of a request with its query",
	Long: `resolve reads a GraphQL request body from stdin and writes it to stdout with the query
looked up from a server view or Apollo manifest. Requests that already carry a query pass through unchanged.`,
	Example: `persisted-query-ids resolve --store server.json < request.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := homedir.Expand(storeFile)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		store, err := persisted.LoadStore(data)
		if err != nil {
			return err
		}

		body, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		out, err := store.ResolveRequest(body)
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&storeFile, "store", "s", "", "server view or apollo manifest to resolve hashes with (required)")
	_ = resolveCmd.MarkFlagRequired("store")
}
