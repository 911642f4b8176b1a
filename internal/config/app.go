package config

import (
	"net/http"
	"path/filepath"

	"github.com/xwui-dev/xwui"
	"github.com/xwui-dev/xwui/internal/errors"
	"github.com/xwui-dev/xwui/pkg/storage"
)

// S3ClientFunc builds the S3 client for the s3 backend. Tests replace it.
var S3ClientFunc = func(cfg storage.S3Config) storage.S3API {
	return storage.NewS3Client(cfg)
}

// BoltPath returns the bolt file path resolved against Dir.
func (c *Config) BoltPath() string {
	if filepath.IsAbs(c.Storage.Bolt.Path) {
		return c.Storage.Bolt.Path
	}
	return filepath.Join(c.Dir(), c.Storage.Bolt.Path)
}

// OpenStorage opens the configured backend. The caller closes it.
func (c *Config) OpenStorage() (storage.Backend, error) {
	switch c.Storage.Backend {
	case BackendBolt:
		b, err := storage.OpenBolt(c.BoltPath(), c.Storage.Bolt.Bucket)
		if err != nil {
			return nil, errors.New("X200").Wrap(err).
				WithDetail("Could not open bolt database " + c.BoltPath())
		}
		return b, nil
	case BackendS3:
		client := S3ClientFunc(storage.S3Config{
			Region:    c.Storage.S3.Region,
			Endpoint:  c.Storage.S3.Endpoint,
			PathStyle: c.Storage.S3.PathStyle,
		})
		return storage.NewS3Backend(client, c.Storage.S3.Bucket, c.Storage.S3.Prefix), nil
	default:
		return storage.NewMemoryBackend(c.Storage.Quota), nil
	}
}

// AppConfig converts the file config to an xwui.Config with its storage
// backend open. The returned close func releases the backend.
func (c *Config) AppConfig() (xwui.Config, func() error, error) {
	backend, err := c.OpenStorage()
	if err != nil {
		return xwui.Config{}, nil, err
	}
	timeout, err := c.HTTPTimeout()
	if err != nil {
		backend.Close()
		return xwui.Config{}, nil, errors.New("X101").Wrap(err)
	}
	return xwui.Config{
		Title:          c.Title,
		RootID:         c.RootID,
		AutoRender:     c.AutoRender,
		ClearOnRender:  c.ClearOnRender,
		Router:         c.Router,
		StylePrefix:    c.Style.Prefix,
		StoragePrefix:  c.Storage.Prefix,
		StorageBackend: backend,
		BaseURL:        c.HTTP.BaseURL,
		HTTPClient:     &http.Client{Timeout: timeout},
	}, backend.Close, nil
}
