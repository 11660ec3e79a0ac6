// Package testutil provides test utilities and helpers for linepush tests.
//
// This package contains shared test infrastructure: a configuration builder,
// a capturing logger, secret-leak assertions and a fake LINE push endpoint.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/systmms/linepush/internal/config"
	"gopkg.in/yaml.v3"
)

// TestConfigBuilder provides a fluent API for building test configurations.
//
// Example usage:
//
//	path := NewTestConfig(t).
//	    WithLiteralStore(map[string]string{"line/channel": `{"YOUR_CHANNEL_ACCESS_TOKEN":"tok"}`}).
//	    WithSecretID("line/channel").
//	    WithBaseURL(api.URL()).
//	    Write()
type TestConfigBuilder struct {
	def     map[string]any
	tempDir string
	t       *testing.T
}

// NewTestConfig creates a builder with "version: 0" and nothing else set.
// The token secret variable points at a name tests never export so the
// process environment cannot leak into the result.
func NewTestConfig(t *testing.T) *TestConfigBuilder {
	t.Helper()

	return &TestConfigBuilder{
		def: map[string]any{
			"version": 0,
			"token": map[string]any{
				"secret_env": "LINEPUSH_TESTUTIL_UNSET",
			},
		},
		tempDir: t.TempDir(),
		t:       t,
	}
}

// WithSecretStore sets the secret store type and its inline keys
func (b *TestConfigBuilder) WithSecretStore(storeType string, cfg map[string]any) *TestConfigBuilder {
	store := map[string]any{"type": storeType}
	for k, v := range cfg {
		store[k] = v
	}
	b.def["secretStore"] = store
	return b
}

// WithLiteralStore configures a literal store holding the given payloads
func (b *TestConfigBuilder) WithLiteralStore(values map[string]string) *TestConfigBuilder {
	payloads := make(map[string]any, len(values))
	for k, v := range values {
		payloads[k] = v
	}
	return b.WithSecretStore("literal", map[string]any{"values": payloads})
}

// WithSecretID sets token.secret_id
func (b *TestConfigBuilder) WithSecretID(id string) *TestConfigBuilder {
	b.section("token")["secret_id"] = id
	return b
}

// WithSecretEnv sets token.secret_env
func (b *TestConfigBuilder) WithSecretEnv(name string) *TestConfigBuilder {
	b.section("token")["secret_env"] = name
	return b
}

// WithTokenField sets token.field
func (b *TestConfigBuilder) WithTokenField(field string) *TestConfigBuilder {
	b.section("token")["field"] = field
	return b
}

// WithBaseURL points the sender at url
func (b *TestConfigBuilder) WithBaseURL(url string) *TestConfigBuilder {
	b.section("line")["base_url"] = url
	return b
}

// WithLineTimeoutMs sets line.timeout_ms
func (b *TestConfigBuilder) WithLineTimeoutMs(ms int) *TestConfigBuilder {
	b.section("line")["timeout_ms"] = ms
	return b
}

// WithServer sets the ingress address and metrics path
func (b *TestConfigBuilder) WithServer(addr, metricsPath string) *TestConfigBuilder {
	s := b.section("server")
	s["addr"] = addr
	s["metrics_path"] = metricsPath
	return b
}

func (b *TestConfigBuilder) section(name string) map[string]any {
	if s, ok := b.def[name].(map[string]any); ok {
		return s
	}
	s := map[string]any{}
	b.def[name] = s
	return s
}

// Build parses the configuration exactly as Load would
func (b *TestConfigBuilder) Build() *config.Definition {
	b.t.Helper()

	data, err := yaml.Marshal(b.def)
	if err != nil {
		b.t.Fatalf("Failed to marshal config: %v", err)
	}
	def, err := config.Parse(data)
	if err != nil {
		b.t.Fatalf("Failed to parse config: %v", err)
	}
	return def
}

// Write writes linepush.yaml to a temp directory and returns its path
func (b *TestConfigBuilder) Write() string {
	b.t.Helper()

	data, err := yaml.Marshal(b.def)
	if err != nil {
		b.t.Fatalf("Failed to marshal config: %v", err)
	}
	return WriteTestConfig(b.t, string(data))
}

// WriteTestConfig writes raw YAML to a temporary linepush.yaml
func WriteTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "linepush.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}
