package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"github.com/xwui-dev/xwui/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 3000

	// DefaultBoltPath is the bolt database file, relative to the config
	// directory.
	DefaultBoltPath = "xwui.db"

	DefaultHTTPTimeout = "30s"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"xwui.yaml", "xwui.yml", "xwui.json", "xwui.jsonc"}

// Storage backend names.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendS3     = "s3"
)

// Config is the file configuration of an xwui app.
type Config struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	RootID        string `json:"rootId,omitempty" yaml:"rootId,omitempty"`
	AutoRender    bool   `json:"autoRender" yaml:"autoRender"`
	ClearOnRender bool   `json:"clearOnRender" yaml:"clearOnRender"`
	Router        bool   `json:"router" yaml:"router"`

	Style   StyleConfig   `json:"style" yaml:"style"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`

	configPath string
}

// StyleConfig configures generated class names.
type StyleConfig struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	// Backend is memory, bolt or s3. Default: memory.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Prefix is prepended to every key.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Quota limits the memory backend in bytes. Zero means unlimited.
	Quota int `json:"quota,omitempty" yaml:"quota,omitempty"`

	Bolt BoltConfig `json:"bolt" yaml:"bolt"`
	S3   S3Config   `json:"s3" yaml:"s3"`
}

// BoltConfig configures the bolt backend.
type BoltConfig struct {
	// Path is relative to the config file's directory unless absolute.
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// S3Config configures the S3 backend. Credentials come from the
// environment.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// HTTPConfig configures the HTTP helper.
type HTTPConfig struct {
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`

	// Timeout is a Go duration string, e.g. "10s".
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ServerConfig configures xwui serve.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// Devtools serves the event websocket.
	Devtools bool `json:"devtools" yaml:"devtools"`

	// Metrics serves /metrics.
	Metrics bool `json:"metrics" yaml:"metrics"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Title:         "XWUI App",
		RootID:        "root",
		AutoRender:    true,
		ClearOnRender: true,
		Router:        true,
		Style:         StyleConfig{Prefix: "xwui-"},
		Storage: StorageConfig{
			Backend: BackendMemory,
			Prefix:  "xwui_",
			Bolt:    BoltConfig{Path: DefaultBoltPath, Bucket: "xwui"},
		},
		HTTP:   HTTPConfig{Timeout: DefaultHTTPTimeout},
		Server: ServerConfig{Host: DefaultHost, Port: DefaultPort, Devtools: true, Metrics: true},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the first config file found in dir.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("X100").
		WithDetail("No " + strings.Join(FileNames, ", ") + " found in " + dir).
		WithSuggestion("Run 'xwui init' to write a default xwui.yaml")
}

// LoadFile reads the config at path. The format follows the extension:
// .yaml and .yml are YAML, anything else is JSON with comments allowed.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("X100").WithDetail("No config file at " + path)
		}
		return nil, errors.New("X102").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = decodeYAML(path, data, cfg)
	} else {
		err = decodeJSON(path, data, cfg)
	}
	if err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// an empty document decodes to io.EOF and leaves the defaults
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		xe := errors.New("X102").Wrap(err).WithSuggestion("Check the YAML syntax and field names")
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ := strconv.Atoi(m[1])
			xe.WithLocation(path, line, 0)
		}
		return xe
	}
	return nil
}

func decodeJSON(path string, data []byte, cfg *Config) error {
	// comments are blanked in place, so offsets still point into data
	stripped := jsonc.ToJSON(data)
	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		xe := errors.New("X102").Wrap(err).WithSuggestion("Check that the file is valid JSON")
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syn):
			line, col := position(data, syn.Offset)
			xe.WithLocation(path, line, col)
		case stderrors.As(err, &typ):
			line, col := position(data, typ.Offset)
			xe.WithLocation(path, line, col)
		}
		return xe
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

// SaveTo writes the config to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("X103").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("X103").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the config was loaded from or saved to.
func (c *Config) Path() string { return c.configPath }

// Dir returns the directory of Path, or "." when unset.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	d := New()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.RootID == "" {
		c.RootID = d.RootID
	}
	if c.Style.Prefix == "" {
		c.Style.Prefix = d.Style.Prefix
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = d.Storage.Prefix
	}
	if c.Storage.Bolt.Path == "" {
		c.Storage.Bolt.Path = d.Storage.Bolt.Path
	}
	if c.Storage.Bolt.Bucket == "" {
		c.Storage.Bolt.Bucket = d.Storage.Bolt.Bucket
	}
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = d.HTTP.Timeout
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	invalid := func(detail, hint string) error {
		return errors.New("X101").WithDetail(detail).WithSuggestion(hint)
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendBolt:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return invalid("storage.s3.bucket is required for the s3 backend", "Set storage.s3.bucket")
		}
	default:
		return invalid("Unknown storage backend "+strconv.Quote(c.Storage.Backend), "Use memory, bolt or s3")
	}
	if c.Storage.Quota < 0 {
		return invalid("storage.quota must not be negative", "Use 0 for no quota")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port must be between 0 and 65535", "Pick a free TCP port")
	}
	if _, err := c.HTTPTimeout(); err != nil {
		return invalid("http.timeout is not a duration: "+err.Error(), `Use a Go duration such as "10s"`)
	}
	if _, err := c.LogLevel(); err != nil {
		return invalid(err.Error(), "Use debug, info, warn or error")
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return invalid("log.format must be text or json", "Use text or json")
	}
	return nil
}

// HTTPTimeout parses HTTP.Timeout.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	return time.ParseDuration(c.HTTP.Timeout)
}

// Address returns host:port for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Exists reports whether dir holds a config file.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
