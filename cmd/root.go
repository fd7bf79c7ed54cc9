package cmd

import (
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	envPath    string
}

func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	serveCmd := newServeCmd(opts)

	cmd := &cobra.Command{
		Use:   "bookfinder",
		Short: "Book discovery API aggregating catalog, store, chat and note services",
		Long: `Bookfinder serves a book discovery API. It searches the OpenLibrary catalog
and Google Books concurrently, merges and ranks the results, exports books to a
Notion reading list, proxies a book-recommendation chat and extracts book
mentions from short-video pages.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envPath, "env", ".env", "Path to a .env file (ignored when missing)")

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(newSearchCmd(opts))

	return cmd
}
