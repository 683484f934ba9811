// Package config handles configuration loading for SOAP clients.
//
// Configuration is loaded from a YAML or TOML file with support for
// environment variable expansion (${VAR} or $VAR syntax). This allows
// endpoints and secrets to be injected at runtime. Files ending in .toml
// are read as TOML, everything else as YAML; both use the same keys.
//
// # Configuration Sections
//
//   - service: endpoint, target namespace and the declared operations
//   - soap: envelope version, key style and namespace prefixes
//   - http: timeouts, compression, extra headers and TLS files
//   - logging: level, format and the elements masked in logs
//   - observability: Prometheus metrics endpoint
//
// # Example Configuration
//
//	service:
//	  endpoint: ${USERS_ENDPOINT}
//	  namespace: http://users.example.com/v1
//	  operations: [getUser, GetAllUsers]
//
//	soap:
//	  version: "1.2"
//	  keyStyle: lowerCamelcase
//
//	http:
//	  timeout: 10s
//	  compress: true
//	  tls:
//	    caFile: /etc/ssl/users-ca.pem
//
//	logging:
//	  level: debug
//	  filter: [password]
//
// See [Load] for loading configuration from a file.
package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-soap/pkg/envelope"
	"github.com/sirosfoundation/go-soap/pkg/keystyle"
	"github.com/sirosfoundation/go-soap/pkg/soap"
	"github.com/sirosfoundation/go-soap/pkg/transport"
)

// Config is the root configuration structure
type Config struct {
	Service ServiceConfig `yaml:"service" toml:"service"`
	SOAP    SOAPConfig    `yaml:"soap" toml:"soap"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"observability" toml:"observability"`
}

// ServiceConfig describes the remote service
type ServiceConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Namespace string `yaml:"namespace" toml:"namespace"`
	// Operation element names as the service spells them
	Operations []string `yaml:"operations" toml:"operations"`
}

// SOAPConfig holds envelope settings
type SOAPConfig struct {
	Version              string `yaml:"version" toml:"version"`
	KeyStyle             string `yaml:"keyStyle" toml:"keyStyle"`
	NamespaceIdentifier  string `yaml:"namespaceIdentifier" toml:"namespaceIdentifier"`
	EnvPrefix            string `yaml:"envPrefix" toml:"envPrefix"`
	ElementFormQualified bool   `yaml:"elementFormQualified" toml:"elementFormQualified"`
	IgnoreFaults         bool   `yaml:"ignoreFaults" toml:"ignoreFaults"`
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	Timeout         time.Duration     `yaml:"timeout" toml:"timeout"`
	IdleConnTimeout time.Duration     `yaml:"idleConnTimeout" toml:"idleConnTimeout"`
	Compress        bool              `yaml:"compress" toml:"compress"`
	UserAgent       string            `yaml:"userAgent" toml:"userAgent"`
	MaxResponseSize int64             `yaml:"maxResponseSize" toml:"maxResponseSize"`
	Headers         map[string]string `yaml:"headers" toml:"headers"`
	TLS             struct {
		MinVersion string `yaml:"minVersion" toml:"minVersion"`
		CAFile     string `yaml:"caFile" toml:"caFile"`
		CertFile   string `yaml:"certFile" toml:"certFile"`
		KeyFile    string `yaml:"keyFile" toml:"keyFile"`
	} `yaml:"tls" toml:"tls"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text or json
	// Element names whose text is masked in logged envelopes
	Filter      []string `yaml:"filter" toml:"filter"`
	PrettyPrint bool     `yaml:"prettyPrint" toml:"prettyPrint"`
}

// MetricsConfig holds observability settings
type MetricsConfig struct {
	Metrics struct {
		Enabled bool   `yaml:"enabled" toml:"enabled"`
		Address string `yaml:"address" toml:"address"`
		Path    string `yaml:"path" toml:"path"`
	} `yaml:"metrics" toml:"metrics"`
}

// Load reads configuration from a YAML or TOML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// ParseTOML decodes configuration from TOML bytes. Unknown keys are
// rejected.
func ParseTOML(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	meta, err := toml.Decode(expanded, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing config file: unknown key %q", undecoded[0].String())
	}

	return cfg.finish()
}

// Parse decodes configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg.finish()
}

func (c *Config) finish() (*Config, error) {
	c.applyDefaults()

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.SOAP.Version == "" {
		c.SOAP.Version = "1.1"
	}
	if c.SOAP.KeyStyle == "" {
		c.SOAP.KeyStyle = "lowerCamelcase"
	}
	if c.SOAP.NamespaceIdentifier == "" {
		c.SOAP.NamespaceIdentifier = envelope.DefaultNamespaceIdentifier
	}
	if c.SOAP.EnvPrefix == "" {
		c.SOAP.EnvPrefix = envelope.DefaultEnvPrefix
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.IdleConnTimeout == 0 {
		c.HTTP.IdleConnTimeout = 90 * time.Second
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = transport.DefaultUserAgent
	}
	if c.HTTP.MaxResponseSize == 0 {
		c.HTTP.MaxResponseSize = transport.DefaultMaxResponseSize
	}
	if c.HTTP.TLS.MinVersion == "" {
		c.HTTP.TLS.MinVersion = "1.2"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.Metrics.Address == "" {
		c.Metrics.Metrics.Address = ":9090"
	}
	if c.Metrics.Metrics.Path == "" {
		c.Metrics.Metrics.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	if c.Service.Endpoint == "" {
		return fmt.Errorf("service.endpoint is required")
	}
	if c.Service.Namespace == "" {
		return fmt.Errorf("service.namespace is required")
	}
	if _, err := envelope.ParseVersion(c.SOAP.Version); err != nil {
		return fmt.Errorf("soap.version: %w", err)
	}
	if _, err := keystyle.ParseStyle(c.SOAP.KeyStyle); err != nil {
		return fmt.Errorf("soap.keyStyle: %w", err)
	}

	switch c.HTTP.TLS.MinVersion {
	case "1.2", "1.3":
		// Valid versions
	default:
		return fmt.Errorf("http.tls.minVersion must be '1.2' or '1.3', got '%s'", c.HTTP.TLS.MinVersion)
	}
	if (c.HTTP.TLS.CertFile == "") != (c.HTTP.TLS.KeyFile == "") {
		return fmt.Errorf("http.tls.certFile and http.tls.keyFile must be set together")
	}

	switch c.Logging.Format {
	case "text", "json":
		// Valid formats
	default:
		return fmt.Errorf("logging.format must be 'text' or 'json', got '%s'", c.Logging.Format)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// HTTPSConfig builds the transport configuration, reading TLS files.
func (c *Config) HTTPSConfig() (*transport.HTTPSConfig, error) {
	hc := transport.DefaultHTTPSConfig()
	hc.Timeout = c.HTTP.Timeout
	hc.IdleConnTimeout = c.HTTP.IdleConnTimeout
	hc.Compress = c.HTTP.Compress
	hc.UserAgent = c.HTTP.UserAgent
	hc.MaxResponseSize = c.HTTP.MaxResponseSize
	if c.HTTP.TLS.MinVersion == "1.3" {
		hc.MinTLSVersion = transport.TLS13
	}

	if c.HTTP.TLS.CAFile != "" {
		pem, err := os.ReadFile(c.HTTP.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", c.HTTP.TLS.CAFile)
		}
		hc.RootCAs = pool
	}
	if c.HTTP.TLS.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.HTTP.TLS.CertFile, c.HTTP.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate: %w", err)
		}
		hc.Certificates = []tls.Certificate{cert}
	}
	return hc, nil
}

// ClientConfig maps the configuration onto a soap.ClientConfig. The logger
// is used for call logging.
func (c *Config) ClientConfig(logger *slog.Logger) (*soap.ClientConfig, error) {
	version, err := envelope.ParseVersion(c.SOAP.Version)
	if err != nil {
		return nil, err
	}
	style, err := keystyle.ParseStyle(c.SOAP.KeyStyle)
	if err != nil {
		return nil, err
	}
	hc, err := c.HTTPSConfig()
	if err != nil {
		return nil, err
	}

	operations := make([]keystyle.Key, 0, len(c.Service.Operations))
	for _, op := range c.Service.Operations {
		operations = append(operations, keystyle.Lit(op))
	}

	headers := make(http.Header, len(c.HTTP.Headers))
	for k, v := range c.HTTP.Headers {
		headers.Set(k, v)
	}

	return &soap.ClientConfig{
		Service: soap.Service{
			Endpoint:   c.Service.Endpoint,
			Namespace:  c.Service.Namespace,
			Operations: operations,
		},
		Version:              version,
		HTTPSConfig:          hc,
		KeyStyle:             style,
		NamespaceIdentifier:  c.SOAP.NamespaceIdentifier,
		EnvPrefix:            c.SOAP.EnvPrefix,
		ElementFormQualified: c.SOAP.ElementFormQualified,
		IgnoreFaults:         c.SOAP.IgnoreFaults,
		Headers:              headers,
		Logger:               logger,
		LogFilter:            append([]string(nil), c.Logging.Filter...),
		PrettyPrint:          c.Logging.PrettyPrint,
	}, nil
}

// NewLogger builds the logger described by the logging section.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
