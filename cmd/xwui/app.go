package main

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xwui-dev/xwui"
	"github.com/xwui-dev/xwui/internal/config"
	"github.com/xwui-dev/xwui/internal/demo"
	"github.com/xwui-dev/xwui/internal/errors"
	"github.com/xwui-dev/xwui/pkg/dom"
	"github.com/xwui-dev/xwui/pkg/metrics"
)

// loadConfig reads the config in dir, falling back to defaults when there
// is none.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if errors.HasCode(err, "X100") {
		return config.New(), nil
	}
	return cfg, err
}

type site struct {
	app      *xwui.App
	doc      *dom.Document
	registry *prometheus.Registry
	close    func() error
}

// newSite builds the demo app described by cfg. Logs go to logw.
func newSite(cfg *config.Config, location string, logw io.Writer) (*site, error) {
	appCfg, closeStorage, err := cfg.AppConfig()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(logw)
	reg := prometheus.NewRegistry()
	appCfg.Logger = logger
	appCfg.Metrics = metrics.New(metrics.WithRegistry(reg))

	doc := dom.New(dom.WithLocation(location), dom.WithLogger(logger))
	app := xwui.New(doc, appCfg)
	app.SetOnload(func(a *xwui.App) { demo.Setup(a) })
	return &site{app: app, doc: doc, registry: reg, close: closeStorage}, nil
}
