// Package app provides the entry point for the kubeclient command-line
// application.
package app

import (
	"github.com/spf13/cobra"

	"github.com/kunghenryyong/kubernetes-client/pkg/config"
	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

// rootFlags holds the persistent flag values for one command tree.
type rootFlags struct {
	master     string
	kubeconfig string
	token      string
	insecure   bool
}

// NewRootCmd creates a new root command for the kubeclient CLI. Each call
// builds an independent command tree with its own flag state.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:               "kubeclient",
		DisableAutoGenTag: true,
		Short:             "kubeclient inspects cluster control plane connectivity",
		Long: `kubeclient resolves control plane credentials the same way the client
library does (service account mount, kubeconfig file, environment variables,
flags) and lets you inspect the result or probe the server with it.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				logger.Errorf("Error displaying help: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.master, "master", "", "Control plane URL (overrides discovery)")
	rootCmd.PersistentFlags().StringVar(&flags.kubeconfig, "kubeconfig", "", "Path to the kubeconfig file to probe")
	rootCmd.PersistentFlags().StringVar(&flags.token, "token", "", "Bearer token (overrides discovery)")
	rootCmd.PersistentFlags().BoolVar(&flags.insecure, "insecure-skip-tls-verify", false,
		"Skip server certificate validation")

	rootCmd.AddCommand(newConfigCmd(flags))
	rootCmd.AddCommand(newRootPathsCmd(flags))

	return rootCmd
}

// resolveConfig runs credential discovery and layers the command-line
// flags on top.
func (f *rootFlags) resolveConfig() (config.Config, error) {
	var opts []config.BuilderOption
	if f.kubeconfig != "" {
		opts = append(opts, config.WithKubeconfigPath(f.kubeconfig))
	}

	b := config.NewBuilder(opts...)
	if f.master != "" {
		b.MasterURL(f.master)
	}
	if f.token != "" {
		b.Token(f.token)
	}
	if f.insecure {
		b.TrustCerts(true)
	}
	return b.Build()
}
