package highlight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu        sync.Mutex
	themes    []string
	languages []string
	failTheme bool
}

func (f *fakeEngine) LoadTheme(_ context.Context, theme string) error {
	if f.failTheme {
		return ErrUnknownTheme
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes = append(f.themes, theme)
	return nil
}

func (f *fakeEngine) LoadLanguage(_ context.Context, language string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.languages = append(f.languages, language)
	return nil
}

func (f *fakeEngine) Highlight(code, _, _ string) ([]Token, error) {
	return []Token{{Text: code}}, nil
}

func (f *fakeEngine) Themes() []string    { return f.themes }
func (f *fakeEngine) Languages() []string { return f.languages }

type countingFactory struct {
	calls   atomic.Int32
	gate    chan struct{} // when non-nil, construction blocks until closed
	started chan struct{}
	fail    error
	last    *fakeEngine
}

func (cf *countingFactory) build(_ context.Context, themes, languages []string) (Engine, error) {
	cf.calls.Add(1)
	if cf.started != nil {
		cf.started <- struct{}{}
	}
	if cf.gate != nil {
		<-cf.gate
	}
	if cf.fail != nil {
		return nil, cf.fail
	}
	e := &fakeEngine{themes: append([]string{}, themes...), languages: append([]string{}, languages...)}
	cf.last = e
	return e, nil
}

func TestConcurrentAcquireSharesOneConstruction(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := NewCache(cf.build, WithoutWarmup())

	var wg sync.WaitGroup
	results := make([]Engine, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := c.Acquire(context.Background(), "nord", "go")
			require.NoError(t, err)
			results[i] = e
		}(i)
	}
	<-cf.started
	time.Sleep(20 * time.Millisecond)
	close(cf.gate)
	wg.Wait()

	require.Equal(t, int32(1), cf.calls.Load())
	require.Same(t, results[0], results[1])
}

func TestAcquireReturnsReadyEntry(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{}
	c := NewCache(cf.build, WithoutWarmup())

	first, err := c.Acquire(context.Background(), "nord", "go")
	require.NoError(t, err)
	again, err := c.Acquire(context.Background(), "nord", "go")
	require.NoError(t, err)

	require.Same(t, first, again)
	require.Equal(t, int32(1), cf.calls.Load())

	got, ok := c.Lookup("nord", "go")
	require.True(t, ok)
	require.Same(t, first, got)
}

func TestConstructionUsesBaseLanguages(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{}
	c := NewCache(cf.build, WithoutWarmup())

	_, err := c.Acquire(context.Background(), "dracula", "python")
	require.NoError(t, err)
	require.Equal(t, []string{"dracula"}, cf.last.themes)
	require.Equal(t, []string{"python", "typescript", "javascript"}, cf.last.languages)
}

func TestNewKeyExtendsExistingEngine(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{}
	c := NewCache(cf.build, WithoutWarmup())

	first, err := c.Acquire(context.Background(), "github-dark", "typescript")
	require.NoError(t, err)
	second, err := c.Acquire(context.Background(), "dracula", "python")
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, int32(1), cf.calls.Load())
	fe := first.(*fakeEngine)
	require.Contains(t, fe.themes, "dracula")
	require.Contains(t, fe.languages, "python")

	_, ok := c.Lookup("dracula", "python")
	require.True(t, ok)
}

func TestExtensionFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{}
	c := NewCache(cf.build, WithoutWarmup())

	first, err := c.Acquire(context.Background(), "github-dark", "typescript")
	require.NoError(t, err)
	first.(*fakeEngine).failTheme = true

	second, err := c.Acquire(context.Background(), "no-such-theme", "typescript")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestConstructionFailurePropagatesAndAllowsRetry(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cf := &countingFactory{fail: boom}
	c := NewCache(cf.build, WithoutWarmup())

	_, err := c.Acquire(context.Background(), "nord", "go")
	require.ErrorIs(t, err, boom)
	_, ok := c.Lookup("nord", "go")
	require.False(t, ok)

	cf.fail = nil
	e, err := c.Acquire(context.Background(), "nord", "go")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, int32(2), cf.calls.Load())
}

func TestCancelledWaitDoesNotAbortConstruction(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	c := NewCache(cf.build, WithoutWarmup())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Acquire(ctx, "nord", "go")
		errc <- err
	}()
	<-cf.started
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	close(cf.gate)
	e, err := c.Acquire(context.Background(), "nord", "go")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, int32(1), cf.calls.Load())
}

func TestWarmupBuildsDefaultEngine(t *testing.T) {
	t.Parallel()

	cf := &countingFactory{}
	c := NewCache(cf.build)

	require.Eventually(t, func() bool {
		_, ok := c.Lookup(DefaultTheme, DefaultLanguage)
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	_, err := c.Acquire(context.Background(), DefaultTheme, DefaultLanguage)
	require.NoError(t, err)
	require.Equal(t, int32(1), cf.calls.Load())
	require.Equal(t, []string{"typescript", "javascript"}, cf.last.languages)
}
