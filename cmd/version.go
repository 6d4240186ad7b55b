package cmd

import (
	"github.com/aviadshiber/adsapi/internal/output"
	"github.com/aviadshiber/adsapi/pkg/client"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of ads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := getIO()

			if jsonOutputRequested(cmd) {
				data := map[string]any{
					"version": versionInfo.version,
					"commit":  versionInfo.commit,
					"date":    versionInfo.date,
					"library": client.Version,
				}
				return output.PrintJSON(s.Out, data)
			}

			s.Printf("ads version %s (commit: %s, built: %s, client library: %s)\n",
				versionInfo.version, versionInfo.commit, versionInfo.date, client.Version)
			return nil
		},
	}
}
