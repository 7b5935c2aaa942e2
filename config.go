package jwt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes an algorithm in a form loadable from YAML or JSON.
// Key material may be given inline or as a path to a file; the inline
// value wins when both are set.
type Config struct {
	// Algorithm is the name passed to NewAlgorithm, e.g. "HS256" or "ES384".
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	// Secret is the inline HMAC secret.
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
	// SecretFile is a path to a file holding the HMAC secret. Surrounding
	// whitespace, such as a trailing newline, is trimmed.
	SecretFile string `json:"secret_file,omitempty" yaml:"secret_file,omitempty"`
	// PrivateKey is an inline PEM private key.
	PrivateKey string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
	// PrivateKeyFile is a path to a PEM private key.
	PrivateKeyFile string `json:"private_key_file,omitempty" yaml:"private_key_file,omitempty"`
	// PublicKey is an inline PEM public key.
	PublicKey string `json:"public_key,omitempty" yaml:"public_key,omitempty"`
	// PublicKeyFile is a path to a PEM public key.
	PublicKeyFile string `json:"public_key_file,omitempty" yaml:"public_key_file,omitempty"`
	// KeyID is an optional "kid" header value for signing.
	KeyID string `json:"kid,omitempty" yaml:"kid,omitempty"`
}

// LoadConfig reads a configuration file. The extension selects the format:
// .yaml and .yml parse as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}

	cfg := new(Config)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.WithMessage(err, "parse config")
		}
	default:
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, errors.WithMessage(err, "parse config")
		}
	}
	return cfg, nil
}

// NewAlgorithm builds the algorithm the configuration describes.
func (c *Config) NewAlgorithm(opts ...Option) (Algorithm, error) {
	secret, err := c.secret()
	if err != nil {
		return nil, err
	}
	privateKey, err := keyMaterial(c.PrivateKey, c.PrivateKeyFile)
	if err != nil {
		return nil, err
	}
	publicKey, err := keyMaterial(c.PublicKey, c.PublicKeyFile)
	if err != nil {
		return nil, err
	}
	return NewAlgorithm(c.Algorithm, Keys{
		Secret:        secret,
		PrivateKeyPEM: privateKey,
		PublicKeyPEM:  publicKey,
	}, opts...)
}

func (c *Config) secret() ([]byte, error) {
	if c.Secret != "" {
		return []byte(c.Secret), nil
	}
	if c.SecretFile == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.SecretFile)
	if err != nil {
		return nil, errors.WithMessage(err, "read secret")
	}
	return bytes.TrimSpace(raw), nil
}

func keyMaterial(inline, file string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if file == "" {
		return "", nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return "", errors.WithMessage(err, "read key")
	}
	return string(raw), nil
}
