// Package storage persists JSON-encoded values under a key prefix.
//
// Storage mirrors a browser key/value store: every operation reports
// failure through its return value (false, the default, or an empty key
// list) instead of an error, and logs and counts the failure. Err returns
// the most recent failure for callers that need it.
//
// Three backends are provided: MemoryBackend (optionally bounded),
// BoltBackend (a bbolt file) and S3Backend (objects under a prefix).
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xwui-dev/xwui/pkg/metrics"
)

// DefaultPrefix namespaces keys written through a Storage.
const DefaultPrefix = "xwui_"

// ErrQuotaExceeded is returned by bounded backends when a write does not
// fit.
var ErrQuotaExceeded = errors.New("storage: quota exceeded")

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage: backend closed")

// Backend is a flat byte store. Implementations must be safe for
// concurrent use. Get reports a missing key with ok == false and a nil
// error.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Storage is a prefixed, JSON-encoding view over a Backend.
type Storage struct {
	backend Backend
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	lastErr error
}

// Option configures a Storage.
type Option func(*Storage)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Storage) { s.prefix = prefix }
}

// WithTimeout bounds every backend call. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(s *Storage) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger for swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics counts operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Storage) { s.metrics = m }
}

// New creates a Storage over backend. A nil backend gets a fresh
// unbounded MemoryBackend.
func New(backend Backend, opts ...Option) *Storage {
	if backend == nil {
		backend = NewMemoryBackend(0)
	}
	s := &Storage{
		backend: backend,
		prefix:  DefaultPrefix,
		timeout: 5 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Storage) Backend() Backend { return s.backend }

// Prefix returns the key prefix.
func (s *Storage) Prefix() string { return s.prefix }

// Err returns the most recent failure, or nil.
func (s *Storage) Err() error { return s.lastErr }

// Set JSON-encodes v under key and reports success.
func (s *Storage) Set(key string, v any) bool {
	data, err := json.Marshal(v)
	if err == nil {
		ctx, cancel := s.context()
		defer cancel()
		err = s.backend.Set(ctx, s.prefix+key, data)
	}
	return s.done("set", key, err)
}

// Get returns the decoded value for key, or def when the key is missing or
// cannot be read. Values decode as encoding/json decodes into an any.
func (s *Storage) Get(key string, def any) any {
	var v any
	if !s.Load(key, &v) {
		return def
	}
	return v
}

// Load decodes the value for key into dst and reports whether it did.
func (s *Storage) Load(key string, dst any) bool {
	ctx, cancel := s.context()
	defer cancel()

	data, ok, err := s.backend.Get(ctx, s.prefix+key)
	if err == nil && ok {
		err = json.Unmarshal(data, dst)
	}
	if !s.done("get", key, err) {
		return false
	}
	return ok
}

// Remove deletes key and reports success. Removing a missing key succeeds.
func (s *Storage) Remove(key string) bool {
	ctx, cancel := s.context()
	defer cancel()
	return s.done("remove", key, s.backend.Delete(ctx, s.prefix+key))
}

// Clear deletes every key under the prefix and reports success.
func (s *Storage) Clear() bool {
	ctx, cancel := s.context()
	defer cancel()

	keys, err := s.backend.Keys(ctx, s.prefix)
	for _, k := range keys {
		if err != nil {
			break
		}
		err = s.backend.Delete(ctx, k)
	}
	return s.done("clear", "", err)
}

// Keys returns the keys under the prefix, without it, sorted.
func (s *Storage) Keys() []string {
	ctx, cancel := s.context()
	defer cancel()

	keys, err := s.backend.Keys(ctx, s.prefix)
	if !s.done("keys", "", err) {
		return []string{}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, s.prefix))
	}
	sort.Strings(out)
	return out
}

// Close closes the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}

func (s *Storage) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Storage) done(op, key string, err error) bool {
	s.metrics.RecordStorage(s.backend.Name(), op, err)
	if err != nil {
		s.lastErr = err
		s.logger.Warn("storage operation failed",
			"backend", s.backend.Name(), "op", op, "key", key, "error", err)
		return false
	}
	return true
}
