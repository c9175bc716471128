package app

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved client configuration",
	}
	configCmd.AddCommand(newConfigViewCmd(flags))
	return configCmd
}

// configView is the printable shape of a resolved configuration. Secrets
// are redacted rather than omitted so their presence stays visible.
type configView struct {
	MasterURL        string   `yaml:"masterUrl"`
	OpenShiftURL     string   `yaml:"openShiftUrl"`
	APIVersion       string   `yaml:"apiVersion"`
	OAPIVersion      string   `yaml:"oapiVersion"`
	TrustCerts       bool     `yaml:"trustCerts"`
	CACertFile       string   `yaml:"caCertFile,omitempty"`
	CACertData       string   `yaml:"caCertData,omitempty"`
	ClientCertFile   string   `yaml:"clientCertFile,omitempty"`
	ClientKeyFile    string   `yaml:"clientKeyFile,omitempty"`
	ClientKeyAlgo    string   `yaml:"clientKeyAlgo"`
	Username         string   `yaml:"username,omitempty"`
	Password         string   `yaml:"password,omitempty"`
	OAuthToken       string   `yaml:"oauthToken,omitempty"`
	EnabledProtocols []string `yaml:"enabledProtocols"`
}

const redacted = "REDACTED"

func newConfigViewCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the configuration discovery would produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolveConfig()
			if err != nil {
				return err
			}

			view := configView{
				MasterURL:        cfg.MasterURL,
				OpenShiftURL:     cfg.OpenShiftURL,
				APIVersion:       cfg.APIVersion,
				OAPIVersion:      cfg.OAPIVersion,
				TrustCerts:       cfg.TrustCerts,
				CACertFile:       cfg.CACertFile,
				CACertData:       cfg.CACertData,
				ClientCertFile:   cfg.ClientCertFile,
				ClientKeyFile:    cfg.ClientKeyFile,
				ClientKeyAlgo:    cfg.ClientKeyAlgo,
				Username:         cfg.Username,
				EnabledProtocols: cfg.EnabledProtocols,
			}
			if cfg.Password != "" {
				view.Password = redacted
			}
			if cfg.OAuthToken != "" {
				view.OAuthToken = redacted
			}

			out, err := yaml.Marshal(view)
			if err != nil {
				return err
			}
			cmd.Print(string(out))
			return nil
		},
	}
}
