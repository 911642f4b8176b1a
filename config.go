package xwui

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/xwui-dev/xwui/pkg/metrics"
	"github.com/xwui-dev/xwui/pkg/storage"
)

// Config configures an App.
type Config struct {
	// Title is written to the document title on Init.
	// Default: "XWUI App".
	Title string

	// RootID is the id of the mount point. When no element has it, the
	// body is used. Default: "root".
	RootID string

	// AutoRender renders once after Init and after the first creation
	// notification following a clear.
	AutoRender bool

	// ClearOnRender wipes the mount point before every render. Without it
	// repeated renders append.
	ClearOnRender bool

	// Router constructs a router on Init and resolves the current
	// location.
	Router bool

	// StylePrefix prefixes generated class names. Default: "xwui-".
	StylePrefix string

	// StoragePrefix prefixes storage keys. Default: "xwui_".
	StoragePrefix string

	// StorageBackend holds persisted values. Default: memory.
	StorageBackend storage.Backend

	// BaseURL is the HTTP helper's base URL.
	BaseURL string

	// HTTPClient replaces the HTTP helper's client.
	HTTPClient *http.Client

	// Logger is the structured logger for the app.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records toolkit metrics. Nil records nothing.
	Metrics *metrics.Metrics

	// Clock stamps hub events. Default: time.Now.
	Clock func() time.Time
}

// DefaultConfig returns a Config with auto-render, clear-on-render and the
// router enabled.
func DefaultConfig() Config {
	return Config{
		Title:         "XWUI App",
		RootID:        "root",
		AutoRender:    true,
		ClearOnRender: true,
		Router:        true,
		StylePrefix:   "xwui-",
		StoragePrefix: storage.DefaultPrefix,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.RootID == "" {
		c.RootID = d.RootID
	}
	if c.StylePrefix == "" {
		c.StylePrefix = d.StylePrefix
	}
	if c.StoragePrefix == "" {
		c.StoragePrefix = d.StoragePrefix
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
}
