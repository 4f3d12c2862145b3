package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/abbrbot/internal/bot"
)

func newMetadataCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Print the plugin manifest as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := bot.PluginMetadata(a.version).YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
