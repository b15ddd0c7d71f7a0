package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJSaunders1997/GPTeasers/internal/quiz"
)

// fakeSource replays a fixed list of payloads, then returns tail.
type fakeSource struct {
	payloads [][]byte
	tail     error
	subErr   error

	mu      sync.Mutex
	lastReq Request
	subs    []*fakeSub
}

func (f *fakeSource) Subscribe(_ context.Context, req Request) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	if f.subErr != nil {
		return nil, f.subErr
	}
	sub := &fakeSub{payloads: f.payloads, tail: f.tail, closeCh: make(chan struct{})}
	f.subs = append(f.subs, sub)
	return sub, nil
}

type fakeSub struct {
	payloads [][]byte
	tail     error
	pos      int

	mu      sync.Mutex
	closes  int
	closeCh chan struct{}
}

func (s *fakeSub) Next() ([]byte, error) {
	if s.pos < len(s.payloads) {
		p := s.payloads[s.pos]
		s.pos++
		return p, nil
	}
	if s.tail != nil {
		return nil, s.tail
	}
	<-s.closeCh
	return nil, errors.New("connection closed")
}

func (s *fakeSub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	if s.closes == 1 {
		close(s.closeCh)
	}
	return nil
}

func (s *fakeSub) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func payload(t *testing.T, id int, answer string) []byte {
	t.Helper()
	b, err := json.Marshal(quiz.Question{ID: id, Text: "Q", A: "a", B: "b", C: "c", Answer: answer})
	require.NoError(t, err)
	return b
}

func TestRun_DeliversExactlyTargetCount(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{payload(t, 1, "A"), payload(t, 2, "B"), payload(t, 3, "C")}}
	session := quiz.NewSession(3)
	c := NewConsumer(src, session, nil)

	var calls int
	err := c.Run(context.Background(), Request{Topic: "Rome", Difficulty: "Easy", Count: 3}, func(quiz.Question) {
		calls++
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, session.Available())
	require.Len(t, src.subs, 1)
	assert.Equal(t, 1, src.subs[0].closeCount())
	assert.Equal(t, "Rome", src.lastReq.Topic)

	// A second close after completion does nothing.
	require.NoError(t, c.Close())
	assert.Equal(t, 1, src.subs[0].closeCount())
}

func TestRun_StopsReadingAfterTargetCount(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{
		payload(t, 1, "A"), payload(t, 2, "B"), payload(t, 3, "C"), payload(t, 4, "A"),
	}}
	session := quiz.NewSession(3)
	c := NewConsumer(src, session, nil)

	var ids []int
	err := c.Run(context.Background(), Request{Topic: "Rome", Count: 3}, func(q quiz.Question) {
		ids = append(ids, q.ID)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
	assert.Equal(t, 3, session.Available())
	require.Len(t, src.subs, 1)
	assert.Equal(t, 3, src.subs[0].pos, "fourth payload is never read")
	assert.Equal(t, 1, src.subs[0].closeCount())
}

func TestRun_ErrorAfterFirstQuestion(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{payload(t, 1, "A")}, tail: errors.New("connection reset")}
	session := quiz.NewSession(3)
	c := NewConsumer(src, session, nil)

	var calls int
	err := c.Run(context.Background(), Request{Topic: "Rome", Count: 3}, func(quiz.Question) { calls++ })

	var serr *StreamError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Received)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, session.Available())
	assert.Equal(t, 0, session.CurrentIndex())
	assert.Equal(t, 1, src.subs[0].closeCount())
}

func TestRun_EarlyEndOfStream(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{payload(t, 1, "A")}, tail: io.EOF}
	c := NewConsumer(src, quiz.NewSession(2), nil)

	err := c.Run(context.Background(), Request{Count: 2}, nil)
	var serr *StreamError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRun_MalformedPayload(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{[]byte("not json")}}
	session := quiz.NewSession(2)
	c := NewConsumer(src, session, nil)

	var calls int
	err := c.Run(context.Background(), Request{Count: 2}, func(quiz.Question) { calls++ })
	var serr *StreamError
	require.ErrorAs(t, err, &serr)
	assert.Zero(t, calls)
	assert.Zero(t, session.Available())
}

func TestRun_SubscribeFailure(t *testing.T) {
	src := &fakeSource{subErr: errors.New("dial tcp: refused")}
	c := NewConsumer(src, quiz.NewSession(1), nil)

	err := c.Run(context.Background(), Request{Count: 1}, nil)
	var serr *StreamError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "refused")
}

func TestRun_CloseCancelsBlockedStream(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{payload(t, 1, "A")}}
	c := NewConsumer(src, quiz.NewSession(3), nil)

	got := make(chan quiz.Question, 3)
	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), Request{Count: 3}, func(q quiz.Question) { got <- q })
	}()

	<-got
	require.NoError(t, c.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Equal(t, 1, src.subs[0].closeCount())
}

func TestRun_ContextCancel(t *testing.T) {
	src := &fakeSource{}
	c := NewConsumer(src, quiz.NewSession(1), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, Request{Count: 1}, nil) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStart_ChannelView(t *testing.T) {
	src := &fakeSource{payloads: [][]byte{payload(t, 1, "A"), payload(t, 2, "B")}}
	session := quiz.NewSession(2)
	s := Start(context.Background(), NewConsumer(src, session, nil), Request{Count: 2})

	var ids []int
	for q := range s.Questions() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []int{1, 2}, ids)
	assert.NoError(t, <-s.Done())

	_, open := <-s.Done()
	assert.False(t, open, "done yields a single value")
}
