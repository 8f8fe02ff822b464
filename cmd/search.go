package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/searchgate-io/searchgate-cli/internal/search"
	"github.com/searchgate-io/searchgate-cli/internal/table"
	"github.com/searchgate-io/searchgate-cli/pkg/errors"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		num             int
		start           int
		siteSearch      string
		safe            string
		gl              string
		hl              string
		lr              string
		useSiteRestrict bool
	)

	cmd := &cobra.Command{
		Use:     "search [query...]",
		Aliases: []string{"q"},
		Short:   "Run a one-shot search from the command line",
		Long: `Search runs a single Custom Search query with the same normalization the
MCP tool applies, useful for checking credentials and result quality without
an MCP client in the loop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.NewUsageError("no query given. Usage: searchgate search <query>")
			}

			client, err := newSearchClient()
			if err != nil {
				return wrapError("create search client", err)
			}

			query := search.Query{
				Q:               strings.Join(args, " "),
				Num:             num,
				Start:           start,
				SiteSearch:      siteSearch,
				Safe:            safe,
				GL:              gl,
				HL:              hl,
				LR:              lr,
				UseSiteRestrict: useSiteRestrict,
			}

			resp, err := client.Search(cmd.Context(), query)
			if err != nil {
				return wrapError("execute search", err)
			}

			format := getEffectiveOutputFormat()
			if format != OutputFormatTable {
				return formatOutput(resp, format)
			}

			if len(resp.Results) == 0 {
				fmt.Println("No results")
				return nil
			}

			rows := make([]table.Row, 0, len(resp.Results))
			for _, r := range resp.Results {
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", r.Rank),
					r.Title,
					color.CyanString(r.URL),
				})
			}
			table.RenderTable(table.TableOptions{
				Headers: []string{"#", "Title", "URL"},
				SortBy:  -1,
				GroupBy: -1,
			}, rows)

			if resp.NextPage > 0 {
				fmt.Printf("\nNext page: searchgate search --start %d %s\n", resp.NextPage, query.Q)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&num, "num", "n", 5, "Number of results (1-10)")
	cmd.Flags().IntVar(&start, "start", 1, "1-based result offset")
	cmd.Flags().StringVar(&siteSearch, "site", "", "Restrict results to a site")
	cmd.Flags().StringVar(&safe, "safe", "", "SafeSearch level (off, medium, high)")
	cmd.Flags().StringVar(&gl, "gl", "", "Geolocation country code")
	cmd.Flags().StringVar(&hl, "hl", "", "Interface language")
	cmd.Flags().StringVar(&lr, "lr", "", "Language restrict (e.g. lang_en)")
	cmd.Flags().BoolVar(&useSiteRestrict, "site-restrict", false, "Use the siterestrict endpoint")

	return cmd
}
