package config

import (
	"os"
	"strings"
	"time"

	dserrors "github.com/systmms/linepush/internal/errors"
	"github.com/systmms/linepush/internal/logging"
	"gopkg.in/yaml.v3"
)

// Defaults used when the configuration file leaves a field unset
const (
	DefaultStoreType   = "aws.secretsmanager"
	DefaultSecretEnv   = "LN_SECRET"
	DefaultTokenField  = "YOUR_CHANNEL_ACCESS_TOKEN"
	DefaultBaseURL     = "https://api.line.me"
	DefaultTimeoutMs   = 30000
	DefaultAddr        = ":8080"
	DefaultMetricsPath = "/metrics"
)

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the linepush.yaml structure
type Definition struct {
	Version     int               `yaml:"version"`
	SecretStore SecretStoreConfig `yaml:"secretStore"`
	Token       TokenConfig       `yaml:"token"`
	Line        LineConfig        `yaml:"line"`
	Server      ServerConfig      `yaml:"server"`
}

// SecretStoreConfig holds secret store-specific configuration. Keys other
// than type and timeout_ms are passed to the store factory.
type SecretStoreConfig struct {
	Type      string                 `yaml:"type"`
	Name      string                 `yaml:"name,omitempty"`
	TimeoutMs int                    `yaml:"timeout_ms,omitempty"`
	Config    map[string]interface{} `yaml:",inline"`
}

// TokenConfig describes where the channel access token lives
type TokenConfig struct {
	// SecretEnv names the environment variable holding the secret identifier
	SecretEnv string `yaml:"secret_env"`
	// SecretID is used when SecretEnv is unset in the environment
	SecretID string `yaml:"secret_id"`
	// Field is the key (or dotted path) of the token inside the secret payload
	Field string `yaml:"field"`
}

// LineConfig configures the push endpoint
type LineConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ServerConfig configures the HTTP ingress
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsPath string `yaml:"metrics_path"`
}

// Default returns a definition with every field at its default
func Default() *Definition {
	def := &Definition{}
	def.applyDefaults()
	return def
}

func (d *Definition) applyDefaults() {
	if d.SecretStore.Type == "" {
		d.SecretStore.Type = DefaultStoreType
	}
	if d.SecretStore.Name == "" {
		d.SecretStore.Name = d.SecretStore.Type
	}
	if d.SecretStore.TimeoutMs == 0 {
		d.SecretStore.TimeoutMs = DefaultTimeoutMs
	}
	if d.SecretStore.Config == nil {
		d.SecretStore.Config = map[string]interface{}{}
	}
	if d.Token.SecretEnv == "" {
		d.Token.SecretEnv = DefaultSecretEnv
	}
	if d.Token.Field == "" {
		d.Token.Field = DefaultTokenField
	}
	if d.Line.BaseURL == "" {
		d.Line.BaseURL = DefaultBaseURL
	}
	if d.Line.TimeoutMs == 0 {
		d.Line.TimeoutMs = DefaultTimeoutMs
	}
	if d.Server.Addr == "" {
		d.Server.Addr = DefaultAddr
	}
	if d.Server.MetricsPath == "" {
		d.Server.MetricsPath = DefaultMetricsPath
	}
}

// Load reads and parses the linepush.yaml file. An empty Path loads the
// built-in defaults.
func (c *Config) Load() error {
	if c.Path == "" {
		c.Definition = Default()
		return nil
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create the file or omit --config to use defaults",
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}

	c.Definition = def
	if c.Logger != nil {
		c.Logger.Debug("Loaded configuration from %s (store type %s)", c.Path, def.SecretStore.Type)
	}
	return nil
}

// Parse validates raw YAML against the schema and decodes it
func Parse(data []byte) (*Definition, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "configuration does not match the expected structure",
			Suggestion: err.Error(),
		}
	}

	if def.Version != 0 {
		return nil, dserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your linepush.yaml file",
		}
	}

	def.applyDefaults()
	return &def, nil
}

// SecretID returns the identifier of the secret holding the access token.
// The environment variable named by token.secret_env wins over
// token.secret_id. An empty result means the token is not configured.
func (d *Definition) SecretID() string {
	return d.SecretIDFrom(os.LookupEnv)
}

// SecretIDFrom is SecretID with an injectable environment lookup
func (d *Definition) SecretIDFrom(lookup func(string) (string, bool)) string {
	if d.Token.SecretEnv != "" {
		if v, ok := lookup(d.Token.SecretEnv); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(d.Token.SecretID)
}

// LineTimeout returns the push request timeout
func (d *Definition) LineTimeout() time.Duration {
	return time.Duration(d.Line.TimeoutMs) * time.Millisecond
}

// StoreTimeout returns the secret lookup timeout
func (d *Definition) StoreTimeout() time.Duration {
	return time.Duration(d.SecretStore.TimeoutMs) * time.Millisecond
}
