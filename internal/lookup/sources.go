package lookup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"grantify/internal/models"

	"go.uber.org/zap"
)

type InitState int

const (
	NotStarted InitState = iota
	InProgress
	Done
)

func (s InitState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("InitState(%d)", int(s))
	}
}

type Loader interface {
	LoadDataSources(ctx context.Context) ([]models.DataSource, error)
}

type LoaderFunc func(ctx context.Context) ([]models.DataSource, error)

func (f LoaderFunc) LoadDataSources(ctx context.Context) ([]models.DataSource, error) {
	return f(ctx)
}

// Sources is the read-only table of data sources used to turn the names a
// user picks into the identifiers the backend filters on.
type Sources struct {
	loader Loader
	logger *zap.Logger

	mu    sync.Mutex
	state InitState
	done  chan struct{}
	byKey map[string]string
	list  []models.DataSource
}

func NewSources(loader Loader, logger *zap.Logger) *Sources {
	return &Sources{
		loader: loader,
		logger: logger,
	}
}

func (s *Sources) State() InitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Init loads the table once. Callers arriving during a load wait for it; a
// failed load puts the table back to NotStarted so the next call retries.
func (s *Sources) Init(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case Done:
		s.mu.Unlock()
		return nil
	case InProgress:
		done := s.done
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		if s.State() != Done {
			return fmt.Errorf("data sources: concurrent load failed")
		}
		return nil
	}

	s.state = InProgress
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	sources, err := s.loader.LoadDataSources(ctx)

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		close(done)
	}()

	if err != nil {
		s.state = NotStarted
		s.logger.Error("failed to load data sources", zap.Error(err))
		return fmt.Errorf("load data sources: %w", err)
	}

	s.byKey = make(map[string]string, len(sources)*2)
	for _, src := range sources {
		s.byKey[strings.ToLower(src.Name)] = src.ID
		s.byKey[strings.ToLower(src.ID)] = src.ID
	}
	s.list = sources
	s.state = Done

	s.logger.Info("data sources loaded", zap.Int("count", len(sources)))
	return nil
}

// Resolve maps names or identifiers to identifiers, one output per input in
// the same order. Unknown tokens pass through unchanged. A nil input stays
// nil and an empty input stays empty, since the two mean different things to
// the query mapper.
func (s *Sources) Resolve(names []string) []string {
	if names == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(names))
	for i, name := range names {
		id, ok := s.byKey[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			id = name
		}
		out[i] = id
	}
	return out
}

// List returns the loaded sources, empty before Init succeeds.
func (s *Sources) List() []models.DataSource {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DataSource, len(s.list))
	copy(out, s.list)
	return out
}
