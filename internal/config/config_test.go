package config

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-soap/pkg/envelope"
	"github.com/sirosfoundation/go-soap/pkg/keystyle"
	"github.com/sirosfoundation/go-soap/pkg/transport"
)

const minimalConfig = `
service:
  endpoint: https://users.example.com/soap
  namespace: http://users.example.com/v1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "1.1", cfg.SOAP.Version)
	assert.Equal(t, "lowerCamelcase", cfg.SOAP.KeyStyle)
	assert.Equal(t, "wsdl", cfg.SOAP.NamespaceIdentifier)
	assert.Equal(t, "env", cfg.SOAP.EnvPrefix)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 90*time.Second, cfg.HTTP.IdleConnTimeout)
	assert.Equal(t, transport.DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, "1.2", cfg.HTTP.TLS.MinVersion)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/metrics", cfg.Metrics.Metrics.Path)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[service]
endpoint = "https://users.example.com/soap"
namespace = "http://users.example.com/v1"
operations = ["getUser"]

[soap]
version = "1.2"

[http]
timeout = "5s"

[http.headers]
x-client = "billing"

[logging]
filter = ["password"]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.2", cfg.SOAP.Version)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "billing", cfg.HTTP.Headers["x-client"])
	assert.Equal(t, []string{"getUser"}, cfg.Service.Operations)
	assert.Equal(t, []string{"password"}, cfg.Logging.Filter)
	assert.Equal(t, "env", cfg.SOAP.EnvPrefix)
}

func TestParseTOML_UnknownKey(t *testing.T) {
	_, err := ParseTOML([]byte(`
[service]
endpoint = "https://users.example.com/soap"
namespace = "http://users.example.com/v1"
endpiont = "typo"
`))
	assert.ErrorContains(t, err, "endpiont")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("USERS_ENDPOINT", "https://env.example.com/soap")
	cfg, err := Parse([]byte(`
service:
  endpoint: ${USERS_ENDPOINT}
  namespace: http://users.example.com/v1
`))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/soap", cfg.Service.Endpoint)
}

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
service:
  endpoint: https://users.example.com/soap
  namespace: http://users.example.com/v1
  operations: [getUser, GetAllUsers]
soap:
  version: "1.2"
  keyStyle: camelcase
  namespaceIdentifier: tns
  envPrefix: soapenv
  elementFormQualified: true
  ignoreFaults: true
http:
  timeout: 5s
  compress: true
  headers:
    x-client: billing
  tls:
    minVersion: "1.3"
logging:
  level: debug
  format: json
  filter: [password]
  prettyPrint: true
`))
	require.NoError(t, err)

	cc, err := cfg.ClientConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, envelope.SOAP12, cc.Version)
	assert.Equal(t, keystyle.CamelCase, cc.KeyStyle)
	assert.Equal(t, "tns", cc.NamespaceIdentifier)
	assert.Equal(t, "soapenv", cc.EnvPrefix)
	assert.True(t, cc.ElementFormQualified)
	assert.True(t, cc.IgnoreFaults)
	assert.Equal(t, []keystyle.Key{keystyle.Lit("getUser"), keystyle.Lit("GetAllUsers")}, cc.Service.Operations)
	assert.Equal(t, "billing", cc.Headers.Get("X-Client"))
	assert.Equal(t, []string{"password"}, cc.LogFilter)
	assert.True(t, cc.PrettyPrint)

	require.NotNil(t, cc.HTTPSConfig)
	assert.Equal(t, 5*time.Second, cc.HTTPSConfig.Timeout)
	assert.True(t, cc.HTTPSConfig.Compress)
	assert.Equal(t, uint16(transport.TLS13), cc.HTTPSConfig.MinTLSVersion)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"missing endpoint", "service:\n  namespace: urn:x\n"},
		{"missing namespace", "service:\n  endpoint: http://x\n"},
		{"bad version", minimalConfig + "soap:\n  version: \"3\"\n"},
		{"bad key style", minimalConfig + "soap:\n  keyStyle: kebab\n"},
		{"bad tls version", minimalConfig + "http:\n  tls:\n    minVersion: \"1.0\"\n"},
		{"cert without key", minimalConfig + "http:\n  tls:\n    certFile: /tmp/c.pem\n"},
		{"bad log format", minimalConfig + "logging:\n  format: xml\n"},
		{"bad log level", minimalConfig + "logging:\n  level: loud\n"},
		{"bad yaml", "service: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.config))
			assert.Error(t, err)
		})
	}
}

func TestHTTPSConfig_CAFile(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)

	cfg.HTTP.TLS.CAFile = filepath.Join(t.TempDir(), "missing.pem")
	_, err = cfg.HTTPSConfig()
	assert.Error(t, err)

	cfg.HTTP.TLS.CAFile = writeConfig(t, "not a certificate")
	_, err = cfg.HTTPSConfig()
	assert.Error(t, err)

	_, err = cfg.ClientConfig(nil)
	assert.Error(t, err)
}

func TestClientConfig_Headers(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)

	cc, err := cfg.ClientConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, http.Header{}, cc.Headers)
	assert.Empty(t, cc.Service.Operations)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "debug", Format: "json"}.NewLogger(&buf)
	logger.Debug("hello", "operation", "getUser")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "getUser", entry["operation"])

	buf.Reset()
	logger = LoggingConfig{Level: "warn", Format: "text"}.NewLogger(&buf)
	logger.Info("dropped")
	assert.Empty(t, buf.String())
	logger.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}
