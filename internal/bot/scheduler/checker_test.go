package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"grantify/internal/api/grants"
	"grantify/internal/filter"
	"grantify/internal/models"
	"grantify/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu sync.Mutex

	alerts    []models.Alert
	seen      map[int64]map[string]bool
	cached    []string
	checked   []int64
	checkedAt []time.Time
	cleaned   int

	alertsErr error
}

func newFakeStore(alerts ...models.Alert) *fakeStore {
	return &fakeStore{
		alerts: alerts,
		seen:   map[int64]map[string]bool{},
	}
}

func alertFor(userID int64, f filter.Filter) models.Alert {
	return models.Alert{UserID: userID, NotifyInterval: 60, Filter: models.FilterBody(f)}
}

func (s *fakeStore) GetAlertsDue(context.Context) ([]models.Alert, error) {
	return s.alerts, s.alertsErr
}

func (s *fakeStore) GetUnseenGrants(_ context.Context, userID int64, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if !s.seen[userID][id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *fakeStore) CacheGrant(_ context.Context, g *models.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = append(s.cached, g.ID)
	return nil
}

func (s *fakeStore) MarkGrantAsSeen(_ context.Context, userID int64, id string) error {
	if s.seen[userID] == nil {
		s.seen[userID] = map[string]bool{}
	}
	s.seen[userID][id] = true
	return nil
}

func (s *fakeStore) MarkChecked(_ context.Context, userID int64, at time.Time) error {
	s.checked = append(s.checked, userID)
	s.checkedAt = append(s.checkedAt, at)
	return nil
}

func (s *fakeStore) CleanOldGrantsCache(context.Context, int) (int64, error) {
	s.cleaned++
	return 0, nil
}

func (s *fakeStore) CleanOldSeenGrants(context.Context, int) (int64, error) {
	s.cleaned++
	return 0, nil
}

type fakeSearcher struct {
	results map[string][]grants.GrantItem
	got     []filter.Filter
	err     error
}

func (s *fakeSearcher) Search(_ context.Context, f filter.Filter) (*search.Result, error) {
	s.got = append(s.got, f)
	if s.err != nil {
		return nil, s.err
	}
	items := s.results[f.SearchTerm]
	return &search.Result{Filter: f, Grants: items, Total: len(items)}, nil
}

type fakeNotifier struct {
	sent map[int64][]string
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, items []grants.GrantItem) error {
	if n.err != nil {
		return n.err
	}
	if n.sent == nil {
		n.sent = map[int64][]string{}
	}
	for _, g := range items {
		n.sent[userID] = append(n.sent[userID], g.ID)
	}
	return nil
}

func withSearch(term string) filter.Filter {
	f := filter.Default()
	f.SearchTerm = term
	f.Page = 4
	return f
}

func newTestChecker(store Store, searcher Searcher, notifier Notifier) *GrantChecker {
	return New(store, searcher, notifier, Options{Interval: time.Minute, MaxGrants: 5}, zap.NewNop())
}

func TestCheckGrantsForAllUsers_SendsOnlyUnseen(t *testing.T) {
	store := newFakeStore(alertFor(1, withSearch("water")), alertFor(2, withSearch("desert")))
	store.seen[1] = map[string]bool{"g-1": true}

	searcher := &fakeSearcher{results: map[string][]grants.GrantItem{
		"water": {{ID: "g-1"}, {ID: "g-2"}, {ID: "g-3"}},
	}}
	notifier := &fakeNotifier{}

	gc := newTestChecker(store, searcher, notifier)
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	gc.now = func() time.Time { return now }
	gc.checkGrantsForAllUsers(context.Background())

	assert.Equal(t, map[int64][]string{1: {"g-2", "g-3"}}, notifier.sent)
	assert.ElementsMatch(t, []string{"g-2", "g-3"}, store.cached)
	assert.True(t, store.seen[1]["g-3"])

	// user 2 found nothing but still counts as checked
	assert.Equal(t, []int64{1, 2}, store.checked)
	assert.Equal(t, []time.Time{now, now}, store.checkedAt)

	require.Len(t, searcher.got, 2)
	assert.Equal(t, "water", searcher.got[0].SearchTerm)
	assert.Equal(t, filter.DefaultPage, searcher.got[0].Page)
	assert.Equal(t, 5, searcher.got[0].Limit)

	// a second run finds nothing new
	gc.checkGrantsForAllUsers(context.Background())
	assert.Equal(t, []string{"g-2", "g-3"}, notifier.sent[1])
}

func TestCheckGrantsForAllUsers_FailuresSkipLastCheck(t *testing.T) {
	store := newFakeStore(alertFor(1, withSearch("solar")))

	searcher := &fakeSearcher{err: errors.New("backend down")}
	gc := newTestChecker(store, searcher, &fakeNotifier{})
	gc.checkGrantsForAllUsers(context.Background())
	assert.Empty(t, store.checked)

	searcher.err = nil
	searcher.results = map[string][]grants.GrantItem{"solar": {{ID: "g-9"}}}
	notifier := &fakeNotifier{err: errors.New("blocked by user")}
	gc = newTestChecker(store, searcher, notifier)
	gc.checkGrantsForAllUsers(context.Background())

	assert.Empty(t, store.checked)
	assert.False(t, store.seen[1]["g-9"], "undelivered grants stay unseen")
}

func TestCheckGrantsForAllUsers_AlertsError(t *testing.T) {
	store := newFakeStore()
	store.alertsErr = errors.New("db down")
	searcher := &fakeSearcher{}

	newTestChecker(store, searcher, &fakeNotifier{}).checkGrantsForAllUsers(context.Background())
	assert.Empty(t, searcher.got)
}

func TestRunOnce_CleansUpDaily(t *testing.T) {
	store := newFakeStore()
	gc := newTestChecker(store, &fakeSearcher{}, &fakeNotifier{})

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	gc.now = func() time.Time { return now }

	gc.runOnce(context.Background())
	assert.Equal(t, 2, store.cleaned)

	now = now.Add(time.Hour)
	gc.runOnce(context.Background())
	assert.Equal(t, 2, store.cleaned)

	now = now.Add(cleanupInterval)
	gc.runOnce(context.Background())
	assert.Equal(t, 4, store.cleaned)
}

func TestStart_StopsOnCancel(t *testing.T) {
	gc := newTestChecker(newFakeStore(), &fakeSearcher{}, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gc.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("checker did not stop")
	}
}
