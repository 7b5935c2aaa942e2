package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wisperia/jwt"
)

// algorithmFlags collects the key-material flags shared by sign and verify.
// A configuration file is the base; any flag set on the command line
// overrides the corresponding file value.
type algorithmFlags struct {
	config     string
	name       string
	secret     string
	privateKey string
	publicKey  string
}

func (f *algorithmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "path to a YAML or JSON algorithm configuration")
	cmd.Flags().StringVarP(&f.name, "alg", "a", "", "algorithm name, e.g. HS256 or ES384")
	cmd.Flags().StringVar(&f.secret, "secret", "", "HMAC secret for the HS algorithms")
	cmd.Flags().StringVar(&f.privateKey, "private-key", "", "path to a PEM private key")
	cmd.Flags().StringVar(&f.publicKey, "public-key", "", "path to a PEM public key")
}

func (f *algorithmFlags) load() (*jwt.Config, error) {
	cfg := &jwt.Config{}
	if f.config != "" {
		loaded, err := jwt.LoadConfig(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if f.name != "" {
		cfg.Algorithm = f.name
	}
	if f.secret != "" {
		cfg.Secret = f.secret
	}
	if f.privateKey != "" {
		cfg.PrivateKey = ""
		cfg.PrivateKeyFile = f.privateKey
	}
	if f.publicKey != "" {
		cfg.PublicKey = ""
		cfg.PublicKeyFile = f.publicKey
	}
	if cfg.Algorithm == "" {
		return nil, errors.New("algorithm is required: set --alg or provide a config")
	}
	return cfg, nil
}

// algorithm builds the algorithm the flags describe. The configuration is
// returned as well so callers can reach settings such as the key ID.
func (f *algorithmFlags) algorithm() (jwt.Algorithm, *jwt.Config, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	alg, err := cfg.NewAlgorithm()
	if err != nil {
		return nil, nil, err
	}
	return alg, cfg, nil
}
