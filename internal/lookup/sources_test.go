package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"grantify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSources = []models.DataSource{
	{ID: "src-gov", Name: "Grants.gov", Active: true},
	{ID: "src-eu", Name: "EU Funding Portal", Active: true},
}

func TestSources_InitAndResolve(t *testing.T) {
	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		return testSources, nil
	}), zap.NewNop())

	assert.Equal(t, NotStarted, s.State())
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Done, s.State())

	assert.Equal(t, []string{"src-gov", "src-eu", "unknown"},
		s.Resolve([]string{"grants.gov", "src-eu", "unknown"}))
	assert.Len(t, s.List(), 2)
}

func TestSources_ResolveKeepsOrderAndDuplicates(t *testing.T) {
	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		return testSources, nil
	}), zap.NewNop())
	require.NoError(t, s.Init(context.Background()))

	assert.Equal(t, []string{"src-eu", "src-gov", "src-eu", "src-gov"},
		s.Resolve([]string{"EU Funding Portal", "src-gov", "src-eu", "grants.gov"}))
}

func TestSources_ResolveKeepsNilAndEmpty(t *testing.T) {
	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		return testSources, nil
	}), zap.NewNop())

	assert.Nil(t, s.Resolve(nil))

	got := s.Resolve([]string{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSources_ResolveBeforeInitPassesThrough(t *testing.T) {
	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		return testSources, nil
	}), zap.NewNop())

	assert.Equal(t, []string{"Grants.gov"}, s.Resolve([]string{"Grants.gov"}))
}

func TestSources_FailedInitRetries(t *testing.T) {
	var calls int32
	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("connection refused")
		}
		return testSources, nil
	}), zap.NewNop())

	require.Error(t, s.Init(context.Background()))
	assert.Equal(t, NotStarted, s.State())

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Done, s.State())

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSources_ConcurrentInitLoadsOnce(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testSources, nil
	}), zap.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Init(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return s.State() == InProgress }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, Done, s.State())
}

func TestSources_WaiterHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := NewSources(LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		<-release
		return testSources, nil
	}), zap.NewNop())

	go s.Init(context.Background())
	require.Eventually(t, func() bool { return s.State() == InProgress }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Init(ctx), context.DeadlineExceeded)
}

type mapCache struct {
	data map[string][]models.DataSource
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.data[key]
	if !ok {
		return errors.New("miss")
	}
	*dest.(*[]models.DataSource) = v
	return nil
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.data[key] = value.([]models.DataSource)
	return nil
}

func TestCachedLoader(t *testing.T) {
	var calls int32
	cache := &mapCache{data: map[string][]models.DataSource{}}
	l := CachedLoader{
		Loader: LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
			atomic.AddInt32(&calls, 1)
			return testSources, nil
		}),
		Cache:  cache,
		Key:    "sources:all",
		TTL:    time.Hour,
		Logger: zap.NewNop(),
	}

	for i := 0; i < 3; i++ {
		got, err := l.LoadDataSources(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testSources, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFallback(t *testing.T) {
	empty := LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) { return nil, nil })
	failing := LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) { return nil, errors.New("down") })
	full := LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) { return testSources, nil })

	got, err := Fallback{empty, failing, full}.LoadDataSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSources, got)

	_, err = Fallback{empty, failing}.LoadDataSources(context.Background())
	assert.EqualError(t, err, "down")

	got, err = Fallback{empty, empty}.LoadDataSources(context.Background())
	assert.ErrorIs(t, err, ErrNoDataSources)
	assert.Empty(t, got)
}

func TestSources_EmptyFallbackStaysRetryable(t *testing.T) {
	var rows []models.DataSource
	fallback := Fallback{LoaderFunc(func(ctx context.Context) ([]models.DataSource, error) {
		return rows, nil
	})}
	s := NewSources(fallback, zap.NewNop())

	assert.ErrorIs(t, s.Init(context.Background()), ErrNoDataSources)
	assert.Equal(t, NotStarted, s.State())

	rows = testSources
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Done, s.State())
}
