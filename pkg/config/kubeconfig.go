package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kunghenryyong/kubernetes-client/pkg/errors"
	"github.com/kunghenryyong/kubernetes-client/pkg/logger"
)

// kubeconfigFile is the subset of the local credential file format this
// probe consumes: named clusters and users paired by named contexts, one
// of which is current.
type kubeconfigFile struct {
	CurrentContext string         `yaml:"current-context"`
	Clusters       []namedCluster `yaml:"clusters"`
	Users          []namedUser    `yaml:"users"`
	Contexts       []namedContext `yaml:"contexts"`
}

type namedCluster struct {
	Name    string       `yaml:"name"`
	Cluster clusterEntry `yaml:"cluster"`
}

type clusterEntry struct {
	Server                   string `yaml:"server"`
	InsecureSkipTLSVerify    *bool  `yaml:"insecure-skip-tls-verify"`
	CertificateAuthority     string `yaml:"certificate-authority"`
	CertificateAuthorityData string `yaml:"certificate-authority-data"`
}

type namedUser struct {
	Name string    `yaml:"name"`
	User userEntry `yaml:"user"`
}

type userEntry struct {
	ClientCertificate     string `yaml:"client-certificate"`
	ClientCertificateData string `yaml:"client-certificate-data"`
	ClientKey             string `yaml:"client-key"`
	ClientKeyData         string `yaml:"client-key-data"`
	Token                 string `yaml:"token"`
	Username              string `yaml:"username"`
	Password              string `yaml:"password"`
}

type namedContext struct {
	Name    string       `yaml:"name"`
	Context contextEntry `yaml:"context"`
}

type contextEntry struct {
	Cluster string `yaml:"cluster"`
	User    string `yaml:"user"`
}

func (k *kubeconfigFile) context(name string) *contextEntry {
	for i := range k.Contexts {
		if k.Contexts[i].Name == name {
			return &k.Contexts[i].Context
		}
	}
	return nil
}

func (k *kubeconfigFile) cluster(name string) *clusterEntry {
	for i := range k.Clusters {
		if k.Clusters[i].Name == name {
			return &k.Clusters[i].Cluster
		}
	}
	return nil
}

func (k *kubeconfigFile) user(name string) *userEntry {
	for i := range k.Users {
		if k.Users[i].Name == name {
			return &k.Users[i].User
		}
	}
	return nil
}

// applyKubeconfig parses the local credential file at path and applies the
// current context's cluster and user entries to the draft. An absent file
// contributes nothing; a present but unparsable file is reported and
// likewise contributes nothing — it never aborts construction.
func applyKubeconfig(cfg *Config, path string) {
	if path == "" {
		return
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return
	}

	raw, err := os.ReadFile(path) // #nosec G304 - path is caller configuration
	if err != nil {
		logger.Errorw("could not read credential file",
			"path", path,
			"error", errors.NewProbeIOError("failed to read kubeconfig", err))
		return
	}

	var kc kubeconfigFile
	if err := yaml.Unmarshal(raw, &kc); err != nil {
		logger.Errorw("could not load credential file",
			"path", path,
			"error", errors.NewCredentialFileParseError(fmt.Sprintf("failed to parse kubeconfig at %s", path), err))
		return
	}

	context := kc.context(kc.CurrentContext)
	if context == nil {
		logger.Errorw("could not load credential file",
			"path", path,
			"error", errors.NewCredentialFileParseError(
				fmt.Sprintf("current context %q not found in kubeconfig", kc.CurrentContext), nil))
		return
	}

	cluster := kc.cluster(context.Cluster)
	if cluster == nil {
		return
	}
	if cluster.Server != "" {
		cfg.MasterURL = cluster.Server
	}
	if cluster.InsecureSkipTLSVerify != nil {
		cfg.TrustCerts = *cluster.InsecureSkipTLSVerify
	}
	if cluster.CertificateAuthority != "" {
		cfg.CACertFile = cluster.CertificateAuthority
	}
	if cluster.CertificateAuthorityData != "" {
		cfg.CACertData = cluster.CertificateAuthorityData
	}

	user := kc.user(context.User)
	if user == nil {
		return
	}
	if user.ClientCertificate != "" {
		cfg.ClientCertFile = user.ClientCertificate
	}
	if user.ClientCertificateData != "" {
		cfg.ClientCertData = user.ClientCertificateData
	}
	if user.ClientKey != "" {
		cfg.ClientKeyFile = user.ClientKey
	}
	if user.ClientKeyData != "" {
		cfg.ClientKeyData = user.ClientKeyData
	}
	if user.Token != "" {
		cfg.OAuthToken = user.Token
	}
	if user.Username != "" {
		cfg.Username = user.Username
	}
	if user.Password != "" {
		cfg.Password = user.Password
	}
}
