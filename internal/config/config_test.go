package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xwui-dev/xwui/internal/errors"
	"github.com/xwui-dev/xwui/pkg/storage"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort || cfg.Server.Host != DefaultHost {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if !cfg.AutoRender || !cfg.ClearOnRender || !cfg.Router {
		t.Error("render and router flags should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.HasCode(err, "X100") {
		t.Errorf("Load() error = %v, want X100", err)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "xwui.yaml", `
title: Shop
autoRender: false
storage:
  backend: bolt
  bolt:
    path: data/shop.db
http:
  baseUrl: https://api.example.com
  timeout: 5s
server:
  port: 8080
log:
  level: debug
  format: json
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Title != "Shop" || cfg.AutoRender {
		t.Errorf("title/autoRender = %q %v", cfg.Title, cfg.AutoRender)
	}
	if !cfg.Router {
		t.Error("unset router should keep its default")
	}
	if cfg.RootID != "root" || cfg.Storage.Bolt.Bucket != "xwui" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if got, want := cfg.BoltPath(), filepath.Join(dir, "data", "shop.db"); got != want {
		t.Errorf("BoltPath() = %q, want %q", got, want)
	}
	if got := cfg.Address(); got != "localhost:8080" {
		t.Errorf("Address() = %q", got)
	}
	if d, _ := cfg.HTTPTimeout(); d != 5*time.Second {
		t.Errorf("HTTPTimeout() = %v", d)
	}
	if cfg.Path() != filepath.Join(dir, "xwui.yaml") {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadJSONWithComments(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "xwui.jsonc", `{
  // shown in the tab
  "title": "Docs",
  "storage": {
    "backend": "MEMORY", /* case-insensitive */
    "quota": 4096,
  },
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Title != "Docs" || cfg.Storage.Backend != BackendMemory || cfg.Storage.Quota != 4096 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFileErrorsCarryLocation(t *testing.T) {
	dir := t.TempDir()

	jsonPath := writeFile(t, dir, "bad.json", "{\n  \"title\": \"x\",\n  \"server\": {\"port\": \"high\"}\n}")
	_, err := LoadFile(jsonPath)
	xe := errors.FromError(err, "")
	if xe == nil || xe.Code != "X102" {
		t.Fatalf("LoadFile(json) error = %v", err)
	}
	if xe.Location == nil || xe.Location.Line != 3 {
		t.Errorf("json location = %v", xe.Location)
	}

	yamlPath := writeFile(t, dir, "bad.yaml", "title: x\nserver:\n  port: [1, 2]\n")
	_, err = LoadFile(yamlPath)
	xe = errors.FromError(err, "")
	if xe == nil || xe.Code != "X102" {
		t.Fatalf("LoadFile(yaml) error = %v", err)
	}
	if xe.Location == nil || xe.Location.Line != 3 {
		t.Errorf("yaml location = %v", xe.Location)
	}

	unknown := writeFile(t, dir, "unknown.yaml", "titel: typo\n")
	if _, err := LoadFile(unknown); !errors.HasCode(err, "X102") {
		t.Errorf("unknown field error = %v", err)
	}
}

func TestEmptyYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "xwui.yml", "")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "XWUI App" {
		t.Errorf("Title = %q", cfg.Title)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "disk" }},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = BackendS3 }},
		{"negative quota", func(c *Config) { c.Storage.Quota = -1 }},
		{"port range", func(c *Config) { c.Server.Port = 70000 }},
		{"timeout", func(c *Config) { c.HTTP.Timeout = "soon" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, "X101") {
				t.Errorf("Validate() = %v, want X101", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"xwui.yaml", "xwui.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := New()
			cfg.Title = "Saved"
			cfg.Storage.S3 = S3Config{Bucket: "b", Region: "eu-west-1"}
			if err := cfg.SaveTo(path); err != nil {
				t.Fatal(err)
			}
			got, err := LoadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(cfg, got, cmp.AllowUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("json output = %s", out)
	}
	if lvl, _ := cfg.LogLevel(); lvl != slog.LevelWarn {
		t.Errorf("LogLevel() = %v", lvl)
	}
}

type nopS3 struct{ storage.S3API }

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	cfg := New()
	cfg.Storage.Quota = 10
	mem, err := cfg.OpenStorage()
	if err != nil || mem.Name() != "memory" {
		t.Fatalf("memory backend = %v, %v", mem, err)
	}

	cfg = New()
	cfg.configPath = filepath.Join(dir, "xwui.yaml")
	cfg.Storage.Backend = BackendBolt
	bolt, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("bolt backend: %v", err)
	}
	defer bolt.Close()
	if bolt.Name() != "bolt" {
		t.Errorf("Name() = %q", bolt.Name())
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultBoltPath)); err != nil {
		t.Errorf("bolt file not created: %v", err)
	}

	var gotRegion string
	orig := S3ClientFunc
	S3ClientFunc = func(c storage.S3Config) storage.S3API {
		gotRegion = c.Region
		return nopS3{}
	}
	defer func() { S3ClientFunc = orig }()

	cfg = New()
	cfg.Storage.Backend = BackendS3
	cfg.Storage.S3 = S3Config{Bucket: "assets", Region: "us-east-2"}
	s3b, err := cfg.OpenStorage()
	if err != nil || s3b.Name() != "s3" || gotRegion != "us-east-2" {
		t.Errorf("s3 backend = %v, %v, region %q", s3b, err, gotRegion)
	}
}

func TestAppConfig(t *testing.T) {
	cfg := New()
	cfg.Title = "Converted"
	cfg.Router = false
	cfg.HTTP = HTTPConfig{BaseURL: "http://api", Timeout: "2s"}

	app, closeFn, err := cfg.AppConfig()
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()

	if app.Title != "Converted" || app.Router || app.BaseURL != "http://api" {
		t.Errorf("app config = %+v", app)
	}
	if app.HTTPClient.Timeout != 2*time.Second {
		t.Errorf("client timeout = %v", app.HTTPClient.Timeout)
	}
	if app.StorageBackend == nil || app.StorageBackend.Name() != "memory" {
		t.Error("expected the memory backend")
	}
}
