package poster

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	chunks []string
	err    error
	calls  int
}

func (f *fakeResponder) Respond(ctx context.Context, querent, text string) (core.Reply, error) {
	f.calls++
	if f.err != nil {
		return core.Reply{}, f.err
	}
	return core.Reply{RequestID: "req-1", Question: text, Chunks: f.chunks}, nil
}

type fakeMentions struct {
	mu       sync.Mutex
	seen     map[string]bool
	replies  [][]string
	failures []string
}

func newFakeMentions() *fakeMentions {
	return &fakeMentions{seen: map[string]bool{}}
}

func (f *fakeMentions) MarkHandled(ctx context.Context, source, eventID, querent string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := source + "/" + eventID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeMentions) RecordReply(ctx context.Context, source, eventID, question string, chunks []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, chunks)
	return nil
}

func (f *fakeMentions) RecordFailure(ctx context.Context, source, eventID, question, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f.failures = append(f.failures, source+"/"+eventID+" "+question+": "+reason)
	return nil
}

func (f *fakeMentions) Stats(ctx context.Context) (core.MentionStats, error) {
	return core.MentionStats{Handled: len(f.seen), Replies: len(f.replies), Failed: len(f.failures)}, nil
}

type postingConfig struct {
	silent, supervised bool
}

func (c postingConfig) GetPostInterval() (time.Duration, time.Duration) {
	return time.Millisecond, 2 * time.Millisecond
}
func (c postingConfig) IsSilent() bool     { return c.silent }
func (c postingConfig) IsSupervised() bool { return c.supervised }

type stubApprover struct {
	ok    bool
	err   error
	calls int
}

func (s *stubApprover) Approve(ctx context.Context, m Mention, chunks []string) (bool, error) {
	s.calls++
	return s.ok, s.err
}

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

type collector struct {
	posted []string
}

func (c *collector) deliver(ctx context.Context, i int, chunk string) error {
	c.posted = append(c.posted, chunk)
	return nil
}

var mention = Mention{Source: "telegram", EventID: "7", Querent: "@alice", Text: "named roma"}

func TestPoster_PostsChunksInOrder(t *testing.T) {
	resp := &fakeResponder{chunks: []string{"one", "two", "three"}}
	mentions := newFakeMentions()
	p := New(resp, mentions, postingConfig{}, WithRetrier(fastRetrier()))

	var c collector
	require.NoError(t, p.Handle(context.Background(), mention, c.deliver))

	assert.Equal(t, []string{"one", "two", "three"}, c.posted)
	assert.Equal(t, [][]string{{"one", "two", "three"}}, mentions.replies)
}

func TestPoster_SkipsHandledMentions(t *testing.T) {
	resp := &fakeResponder{chunks: []string{"one"}}
	p := New(resp, newFakeMentions(), postingConfig{}, WithRetrier(fastRetrier()))

	var c collector
	require.NoError(t, p.Handle(context.Background(), mention, c.deliver))
	require.NoError(t, p.Handle(context.Background(), mention, c.deliver))

	assert.Equal(t, 1, resp.calls)
	assert.Equal(t, []string{"one"}, c.posted)
}

func TestPoster_Silent(t *testing.T) {
	resp := &fakeResponder{chunks: []string{"one"}}
	mentions := newFakeMentions()
	p := New(resp, mentions, postingConfig{silent: true})

	var c collector
	require.NoError(t, p.Handle(context.Background(), mention, c.deliver))
	assert.Empty(t, c.posted)
	assert.Empty(t, mentions.replies)
}

func TestPoster_Supervised(t *testing.T) {
	for _, ok := range []bool{true, false} {
		resp := &fakeResponder{chunks: []string{"one"}}
		approver := &stubApprover{ok: ok}
		p := New(resp, newFakeMentions(), postingConfig{supervised: true}, WithApprover(approver), WithRetrier(fastRetrier()))

		var c collector
		require.NoError(t, p.Handle(context.Background(), mention, c.deliver))
		assert.Equal(t, 1, approver.calls)
		if ok {
			assert.Equal(t, []string{"one"}, c.posted)
		} else {
			assert.Empty(t, c.posted)
		}
	}
}

func TestPoster_RetriesDelivery(t *testing.T) {
	resp := &fakeResponder{chunks: []string{"one"}}
	p := New(resp, nil, postingConfig{}, WithRetrier(fastRetrier()))

	attempts := 0
	err := p.Handle(context.Background(), mention, func(ctx context.Context, i int, chunk string) error {
		attempts++
		if attempts < 2 {
			return errors.New("flaky network")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestPoster_PermanentDeliveryError(t *testing.T) {
	resp := &fakeResponder{chunks: []string{"one", "two"}}
	p := New(resp, nil, postingConfig{}, WithRetrier(fastRetrier()))

	attempts := 0
	err := p.Handle(context.Background(), mention, func(ctx context.Context, i int, chunk string) error {
		attempts++
		return retry.Permanent(errors.New("chat not found"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 1 of 2")
	assert.Equal(t, 1, attempts)
}

func TestPoster_ResponderError(t *testing.T) {
	resp := &fakeResponder{err: errors.New("boom")}
	p := New(resp, nil, postingConfig{})

	var c collector
	assert.Error(t, p.Handle(context.Background(), mention, c.deliver))
	assert.Empty(t, c.posted)
}

func TestPoster_RecordsFailures(t *testing.T) {
	t.Run("responder error", func(t *testing.T) {
		mentions := newFakeMentions()
		p := New(&fakeResponder{err: errors.New("boom")}, mentions, postingConfig{})

		var c collector
		require.Error(t, p.Handle(context.Background(), mention, c.deliver))
		assert.Equal(t, []string{"telegram/7 named roma: boom"}, mentions.failures)
		assert.Empty(t, mentions.replies)
	})

	t.Run("approval error", func(t *testing.T) {
		mentions := newFakeMentions()
		approver := &stubApprover{err: errors.New("console gone")}
		p := New(&fakeResponder{chunks: []string{"one"}}, mentions, postingConfig{supervised: true}, WithApprover(approver))

		var c collector
		require.Error(t, p.Handle(context.Background(), mention, c.deliver))
		require.Len(t, mentions.failures, 1)
		assert.Contains(t, mentions.failures[0], "console gone")
		assert.Empty(t, c.posted)
	})

	t.Run("delivery error", func(t *testing.T) {
		mentions := newFakeMentions()
		p := New(&fakeResponder{chunks: []string{"one", "two"}}, mentions, postingConfig{}, WithRetrier(fastRetrier()))

		err := p.Handle(context.Background(), mention, func(ctx context.Context, i int, chunk string) error {
			return retry.Permanent(errors.New("chat not found"))
		})
		require.Error(t, err)
		require.Len(t, mentions.failures, 1)
		assert.Contains(t, mentions.failures[0], "chunk 1 of 2")
		assert.Empty(t, mentions.replies)

		stats, err := mentions.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Handled)
		assert.Equal(t, 1, stats.Failed)
	})

	t.Run("cancelled while posting", func(t *testing.T) {
		mentions := newFakeMentions()
		p := New(&fakeResponder{chunks: []string{"one"}}, mentions, postingConfig{}, WithRetrier(fastRetrier()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var c collector
		require.Error(t, p.Handle(ctx, mention, c.deliver))
		assert.Len(t, mentions.failures, 1)
	})

	t.Run("repeat is not a failure", func(t *testing.T) {
		mentions := newFakeMentions()
		p := New(&fakeResponder{chunks: []string{"one"}}, mentions, postingConfig{}, WithRetrier(fastRetrier()))

		var c collector
		require.NoError(t, p.Handle(context.Background(), mention, c.deliver))
		require.NoError(t, p.Handle(context.Background(), mention, c.deliver))
		assert.Empty(t, mentions.failures)
	})
}

func TestPoster_PacesPosts(t *testing.T) {
	resp := &fakeResponder{chunks: []string{"one", "two", "three"}}
	p := New(resp, nil, postingConfig{},
		WithRetrier(fastRetrier()),
		WithInterval(func() time.Duration { return 30 * time.Millisecond }),
	)

	var stamps []time.Time
	start := time.Now()
	require.NoError(t, p.Handle(context.Background(), mention, func(ctx context.Context, i int, chunk string) error {
		stamps = append(stamps, time.Now())
		return nil
	}))

	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestPoster_RandomIntervalWithinBounds(t *testing.T) {
	p := New(&fakeResponder{}, nil, postingConfig{})
	for i := 0; i < 100; i++ {
		d := p.randomInterval()
		assert.GreaterOrEqual(t, d, time.Millisecond)
		assert.LessOrEqual(t, d, 2*time.Millisecond)
	}
}

func TestConsoleApprover(t *testing.T) {
	tests := []struct {
		input string
		err   error
		want  bool
	}{
		{input: "y", want: true},
		{input: " YES ", want: true},
		{input: "n", want: false},
		{input: "", want: false},
		{err: io.EOF, want: false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		a := &ConsoleApprover{
			out:      &out,
			readLine: func() (string, error) { return tt.input, tt.err },
		}

		ok, err := a.Approve(context.Background(), mention, []string{"@alice\n\nRoma (423025): Capital."})
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "input %q", tt.input)
		assert.Contains(t, out.String(), "     > Roma (423025): Capital.")
	}
}
