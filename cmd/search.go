package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookfinder/be/internal/aggregator"
	"bookfinder/be/internal/config"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var (
		limit   int
		offset  int
		sources string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one multi-source search and print the aggregated result",
		Example: `  bookfinder search "Octavia Butler" --limit 5
  bookfinder search dune --sources google --output yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output = strings.ToLower(output)
			if output != outputJSON && output != outputYAML {
				return fmt.Errorf("unsupported output %q (want json or yaml)", output)
			}

			cfg, err := config.LoadConfig(opts.configPath, opts.envPath)
			if err != nil {
				return err
			}

			src := newSources(cfg.Search, &http.Client{})
			service := aggregator.NewService(src.adapters, cfg.Search.SourceTimeout, nil)
			res, err := service.MultiSearch(cmd.Context(), aggregator.Request{
				Query:   strings.Join(args, " "),
				Limit:   limit,
				Offset:  offset,
				Sources: aggregator.ParseSources(sources),
			})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, output)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", aggregator.DefaultLimit, "Maximum records per source")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip per source")
	cmd.Flags().StringVarP(&sources, "sources", "s", "all", "Comma-separated sources: openlibrary, google or all")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or yaml")

	return cmd
}

// writeResult prints res in the API's JSON shape, or the same document as YAML.
func writeResult(w io.Writer, res *aggregator.Response, format string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	// JSON is valid YAML; re-encoding the node tree in block style keeps the
	// JSON field names and source order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
