package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the parts of tele.Context the middleware touches.
type fakeContext struct {
	tele.Context

	sender   *tele.User
	message  *tele.Message
	callback *tele.Callback

	replies   []string
	sent      []string
	responses []*tele.CallbackResponse
}

func (f *fakeContext) Sender() *tele.User       { return f.sender }
func (f *fakeContext) Message() *tele.Message   { return f.message }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }

func (f *fakeContext) Reply(what interface{}, _ ...interface{}) error {
	f.replies = append(f.replies, what.(string))
	return nil
}

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what.(string))
	return nil
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	f.responses = append(f.responses, resp...)
	return nil
}

type fakeCounter struct {
	counts map[int64]int64
	err    error
}

func (f *fakeCounter) IncrementUserRateLimit(_ context.Context, userID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[userID]++
	return f.counts[userID], nil
}

func TestRateLimit(t *testing.T) {
	counter := &fakeCounter{counts: map[int64]int64{}}
	calls := 0
	handler := RateLimit(counter, 2, zap.NewNop())(func(tele.Context) error {
		calls++
		return nil
	})

	c := &fakeContext{sender: &tele.User{ID: 7}}
	for i := 0; i < 3; i++ {
		require.NoError(t, handler(c))
	}

	assert.Equal(t, 2, calls)
	require.Len(t, c.replies, 1)
	assert.Contains(t, c.replies[0], "Too many requests")

	cb := &fakeContext{sender: &tele.User{ID: 7}, callback: &tele.Callback{Data: "noop"}}
	require.NoError(t, handler(cb))
	assert.Equal(t, 2, calls)
	assert.Len(t, cb.responses, 1)
}

func TestRateLimit_CounterFailureLetsThrough(t *testing.T) {
	counter := &fakeCounter{err: errors.New("redis down")}
	calls := 0
	handler := RateLimit(counter, 1, zap.NewNop())(func(tele.Context) error {
		calls++
		return nil
	})

	c := &fakeContext{sender: &tele.User{ID: 1}}
	require.NoError(t, handler(c))
	require.NoError(t, handler(c))
	assert.Equal(t, 2, calls)
	assert.Empty(t, c.replies)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := Recovery(zap.New(core))(func(tele.Context) error {
		panic("boom")
	})

	c := &fakeContext{sender: &tele.User{ID: 42}}
	require.NotPanics(t, func() { _ = handler(c) })

	require.Len(t, c.sent, 1)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	wantErr := errors.New("handler failed")

	ok := Logger(zap.New(core))(func(tele.Context) error { return nil })
	failing := Logger(zap.New(core))(func(tele.Context) error { return wantErr })

	require.NoError(t, ok(&fakeContext{sender: &tele.User{ID: 1}, message: &tele.Message{Text: "/grants"}}))
	assert.ErrorIs(t, failing(&fakeContext{callback: &tele.Callback{Data: "noop"}}), wantErr)

	handled := logs.FilterMessage("update handled").All()
	require.Len(t, handled, 1)
	assert.Equal(t, "/grants", handled[0].ContextMap()["text"])
	assert.Equal(t, 1, logs.FilterMessage("handler error").Len())
}
