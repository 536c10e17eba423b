// Package dataset holds named tables loaded from disk once and reused until
// invalidated.
//
// A Cache replaces process-wide memoized loaders: callers register sources
// up front, share the cache by reference, and decide explicitly when a
// dataset must be re-read.
package dataset

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/ingest"
	"github.com/ajitpratap0/quarry/pkg/logger"
	"github.com/ajitpratap0/quarry/pkg/metrics"
)

// LoadFunc reads one source into a table.
type LoadFunc func(ctx context.Context, path string, opts ingest.Options) (*frame.Table, ingest.Stats, error)

// Source describes where a dataset comes from.
type Source struct {
	Path    string
	Options ingest.Options
}

// Options configures a Cache.
type Options struct {
	// Load reads a source. Nil selects ingest.ReadFileParallel.
	Load LoadFunc
	// Logger receives load events. Nil disables logging.
	Logger *zap.Logger
}

// Info describes the state of a registered dataset.
type Info struct {
	Name     string
	Path     string
	Loaded   bool
	Rows     int
	LoadedAt time.Time
	Duration time.Duration
	Err      error
}

type entry struct {
	source   Source
	table    *frame.Table
	err      error
	gen      uint64
	loadedAt time.Time
	took     time.Duration
}

// Cache maps names to lazily loaded tables. Tables handed out are shared
// and must be treated as read-only; every frame operation returns a new
// table so this holds for ordinary use.
type Cache struct {
	load   LoadFunc
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache(opts Options) *Cache {
	load := opts.Load
	if load == nil {
		load = ingest.ReadFileParallel
	}
	return &Cache{
		load:    load,
		logger:  logger.OrNop(opts.Logger).Named("dataset"),
		entries: make(map[string]*entry),
	}
}

// Register adds or replaces a source. Replacing a source drops any table
// loaded from the previous one.
func (c *Cache) Register(name string, src Source) error {
	if name == "" {
		return errors.New(errors.ErrorTypeValidation, "dataset name is required")
	}
	if src.Path == "" {
		return errors.New(errors.ErrorTypeValidation, "dataset path is required").WithDetail("dataset", name)
	}
	if src.Options.Source == "" {
		src.Options.Source = name
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[name]; ok {
		e.source = src
		e.reset()
		c.group.Forget(name)
		metrics.DatasetRows.DeleteLabelValues(name)
		return nil
	}
	c.entries[name] = &entry{source: src}
	c.order = append(c.order, name)
	return nil
}

// Names returns registered dataset names in registration order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Get returns the named table, loading it on first use. Concurrent callers
// for the same dataset share one load. A failed load is not cached; the
// next Get retries.
func (c *Cache) Get(ctx context.Context, name string) (*frame.Table, error) {
	c.mu.RLock()
	e, ok := c.entries[name]
	var table *frame.Table
	var gen uint64
	var src Source
	if ok {
		table, gen, src = e.table, e.gen, e.source
	}
	c.mu.RUnlock()

	if !ok {
		metrics.DatasetCacheRequests.WithLabelValues(name, "unknown").Inc()
		return nil, errors.Newf(errors.ErrorTypeNotFound, "dataset %q is not registered", name).WithDetail("dataset", name)
	}
	if table != nil {
		metrics.DatasetCacheRequests.WithLabelValues(name, "hit").Inc()
		return table, nil
	}
	metrics.DatasetCacheRequests.WithLabelValues(name, "miss").Inc()

	ch := c.group.DoChan(name, func() (interface{}, error) {
		return c.fill(ctx, name, gen, src)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*frame.Table), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fill(ctx context.Context, name string, gen uint64, src Source) (*frame.Table, error) {
	// another caller may have finished a load between our check and DoChan
	c.mu.RLock()
	if e, ok := c.entries[name]; ok && e.gen == gen && e.table != nil {
		t := e.table
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	ctx = logger.WithDataset(context.WithoutCancel(ctx), name)
	log := logger.WithContext(ctx, c.logger)
	opts := src.Options
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	table, stats, err := c.load(ctx, src.Path, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	current := ok && e.gen == gen
	if err != nil {
		metrics.DatasetLoads.WithLabelValues(name, "error").Inc()
		log.Error("dataset load failed",
			zap.String("path", src.Path),
			zap.Error(err))
		if current {
			e.err = err
		}
		return nil, errors.Wrap(err, errors.TypeOf(err), "failed to load dataset").WithDetail("dataset", name)
	}

	metrics.DatasetLoads.WithLabelValues(name, "success").Inc()
	fields := []zap.Field{
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration),
	}
	if usage, err := metrics.SampleResources(); err == nil {
		fields = append(fields,
			zap.Uint64("rss_bytes", usage.ResidentBytes),
			zap.Float64("host_memory_used_pct", usage.HostUsedPct))
	}
	log.Info("dataset loaded", fields...)
	if current {
		e.table = table
		e.err = nil
		e.loadedAt = time.Now()
		e.took = stats.Duration
		metrics.DatasetRows.WithLabelValues(name).Set(float64(table.NumRows()))
	}
	return table, nil
}

// Invalidate drops the loaded table for name so the next Get reloads it.
// Loads already in flight complete for their callers but are not cached.
func (c *Cache) Invalidate(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	if !ok {
		return false
	}
	e.reset()
	c.group.Forget(name)
	metrics.DatasetRows.DeleteLabelValues(name)
	c.logger.Debug("dataset invalidated", zap.String("dataset", name))
	return true
}

// InvalidateAll drops every loaded table.
func (c *Cache) InvalidateAll() {
	for _, name := range c.Names() {
		c.Invalidate(name)
	}
}

// LoadAll loads every registered dataset in registration order and stops
// at the first failure.
func (c *Cache) LoadAll(ctx context.Context) error {
	for _, name := range c.Names() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.Get(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Loaded reports whether name currently holds a table.
func (c *Cache) Loaded(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return ok && e.table != nil
}

// LastError returns the error of the most recent failed load of name, or
// nil after a successful load or invalidation.
func (c *Cache) LastError(name string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[name]; ok {
		return e.err
	}
	return nil
}

// Stat returns the state of every registered dataset in registration
// order.
func (c *Cache) Stat() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Info, 0, len(c.order))
	for _, name := range c.order {
		e := c.entries[name]
		info := Info{
			Name:     name,
			Path:     e.source.Path,
			Loaded:   e.table != nil,
			LoadedAt: e.loadedAt,
			Duration: e.took,
			Err:      e.err,
		}
		if e.table != nil {
			info.Rows = e.table.NumRows()
		}
		out = append(out, info)
	}
	return out
}

func (e *entry) reset() {
	e.table = nil
	e.err = nil
	e.gen++
	e.loadedAt = time.Time{}
	e.took = 0
}
