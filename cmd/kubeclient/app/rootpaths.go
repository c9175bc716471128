package app

import (
	"github.com/spf13/cobra"

	"github.com/kunghenryyong/kubernetes-client/pkg/client"
)

func newRootPathsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "root-paths",
		Short: "List the API root paths the server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolveConfig()
			if err != nil {
				return err
			}

			c, err := client.New(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			paths, err := c.RootPaths(cmd.Context())
			if err != nil {
				return err
			}
			for _, path := range paths {
				cmd.Println(path)
			}
			return nil
		},
	}
}
