package highlight

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTheme    = "github-dark"
	DefaultLanguage = "typescript"
)

// BaseLanguages are loaded into every freshly constructed engine.
var BaseLanguages = []string{"typescript", "javascript"}

// Key identifies one cache entry.
type Key struct {
	Theme    string
	Language string
}

func (k Key) String() string { return k.Theme + "/" + k.Language }

// future is the pending result of one construction or extension.
type future struct {
	done chan struct{}
	eng  Engine
	err  error
}

func newFuture() *future { return &future{done: make(chan struct{})} }

func (f *future) resolve(eng Engine, err error) {
	f.eng, f.err = eng, err
	close(f.done)
}

func (f *future) wait(ctx context.Context) (Engine, error) {
	select {
	case <-f.done:
		return f.eng, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cache hands out engines per (theme, language). Ready entries live for the
// life of the cache. At most one construction or extension runs per key;
// concurrent callers for that key share its result.
type Cache struct {
	factory Factory
	log     *log.Logger
	warm    bool

	mu      sync.Mutex
	ready   map[Key]Engine
	pending map[Key]*future
	first   Engine // reuse candidate for new keys
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger routes cache diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithoutWarmup skips building the default engine at construction time.
func WithoutWarmup() Option {
	return func(c *Cache) { c.warm = false }
}

// NewCache returns a cache that builds engines with factory. Unless
// WithoutWarmup is given it immediately starts building the default engine.
func NewCache(factory Factory, opts ...Option) *Cache {
	c := &Cache{
		factory: factory,
		log:     log.New(io.Discard),
		warm:    true,
		ready:   map[Key]Engine{},
		pending: map[Key]*future{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.warm {
		c.Warm()
	}
	return c
}

// Warm starts building the default engine in the background. It registers
// as a pending entry, so an Acquire for the default key joins it.
func (c *Cache) Warm() {
	go func() {
		if _, err := c.Acquire(context.Background(), DefaultTheme, DefaultLanguage); err != nil {
			c.log.Warn("default highlighter warm-up failed", "err", err)
		}
	}()
}

// Lookup returns the ready engine for the key without waiting.
func (c *Cache) Lookup(theme, language string) (Engine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.ready[Key{theme, language}]
	return e, ok
}

// Acquire returns an engine able to highlight language in theme.
//
// A ready entry is returned as is and an in-flight one is joined. Otherwise
// an existing engine is extended in place, or when none exists yet a new one
// is constructed. ctx bounds only this caller's wait; the work itself keeps
// running for the other waiters.
func (c *Cache) Acquire(ctx context.Context, theme, language string) (Engine, error) {
	key := Key{theme, language}
	c.mu.Lock()
	if e, ok := c.ready[key]; ok {
		c.mu.Unlock()
		return e, nil
	}
	if f, ok := c.pending[key]; ok {
		c.mu.Unlock()
		return f.wait(ctx)
	}
	f := newFuture()
	c.pending[key] = f
	base := c.first
	c.mu.Unlock()

	go c.resolve(key, f, base)
	return f.wait(ctx)
}

func (c *Cache) resolve(key Key, f *future, base Engine) {
	ctx := context.Background()
	var (
		eng Engine
		err error
	)
	if base != nil {
		eng = c.extend(ctx, base, key)
	} else {
		eng, err = c.construct(ctx, key)
	}

	c.mu.Lock()
	delete(c.pending, key)
	if err == nil {
		c.ready[key] = eng
		if c.first == nil {
			c.first = eng
		}
	}
	c.mu.Unlock()
	f.resolve(eng, err)
}

func (c *Cache) construct(ctx context.Context, key Key) (Engine, error) {
	langs := []string{key.Language}
	for _, l := range BaseLanguages {
		if l != key.Language {
			langs = append(langs, l)
		}
	}
	c.log.Debug("constructing highlighter", "key", key, "languages", langs)
	eng, err := c.factory(ctx, []string{key.Theme}, langs)
	if err != nil {
		c.log.Error("highlighter construction failed", "key", key, "err", err)
		return nil, err
	}
	return eng, nil
}

// extend loads the key's theme and language into an existing engine. Each
// load is best-effort: a failure leaves the engine as it was and the
// acquisition still succeeds, since rendering falls back to plain text for
// whatever the engine cannot serve.
func (c *Cache) extend(ctx context.Context, eng Engine, key Key) Engine {
	c.log.Debug("extending highlighter", "key", key)
	var g errgroup.Group
	g.Go(func() error {
		c.bestEffort(key, "theme", eng.LoadTheme(ctx, key.Theme))
		return nil
	})
	g.Go(func() error {
		c.bestEffort(key, "language", eng.LoadLanguage(ctx, key.Language))
		return nil
	})
	_ = g.Wait()
	return eng
}

// bestEffort is the one place load errors are intentionally discarded.
func (c *Cache) bestEffort(key Key, what string, err error) {
	if err != nil {
		c.log.Warn("highlighter "+what+" not loaded", "key", key, "err", err)
	}
}
