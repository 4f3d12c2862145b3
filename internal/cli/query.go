package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/abbrbot/internal/abbr"
)

const maxParallelQueries = 4

func newQueryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "query <abbr>...",
		Short: "Look up abbreviations and print the replies",
		Example: `  API_URL=https://lab.magiconch.com/api/nbnhhsh/guess abbrbot query yyds xswl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			resolver := abbr.NewResolver(a.cfg.Abbr.APIURL,
				abbr.WithTimeout(a.cfg.Abbr.Timeout),
				abbr.WithLogger(a.logger))

			replies := make([]string, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxParallelQueries)
			for i, arg := range args {
				i, arg := i, arg
				g.Go(func() error {
					reply, err := resolver.Resolve(ctx, arg)
					if err != nil {
						return fmt.Errorf("query %q: %w", arg, err)
					}
					replies[i] = reply
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, arg := range args {
				fmt.Fprintf(out, "%s\t%s\n", arg, replies[i])
			}
			return nil
		},
	}
}
