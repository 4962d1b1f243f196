package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// titleSequence is a Driver whose title advances on every read.
type titleSequence struct {
	Driver
	titles []string
	reads  int
}

func (s *titleSequence) Title(context.Context) (string, error) {
	i := s.reads
	if i >= len(s.titles) {
		i = len(s.titles) - 1
	}
	s.reads++
	return s.titles[i], nil
}

func fastPolicy(timeout time.Duration) WaitPolicy {
	return WaitPolicy{Timeout: timeout, Interval: 5 * time.Millisecond, Find: 10 * time.Millisecond}
}

func TestWaitUntilTitleContains_WaitsForPhrase(t *testing.T) {
	d := &titleSequence{titles: []string{"Loading", "Loading", "Cart | Fender"}}

	err := WaitUntilTitleContains(context.Background(), d, fastPolicy(time.Second), "Cart")

	require.NoError(t, err)
	assert.Equal(t, 3, d.reads, "must not return before the title matches")
}

func TestWaitUntilTitleContains_TimesOut(t *testing.T) {
	d := &titleSequence{titles: []string{"Fender"}}

	start := time.Now()
	err := WaitUntilTitleContains(context.Background(), d, fastPolicy(50*time.Millisecond), "Checkout")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.After)
	assert.Less(t, time.Since(start), time.Second, "must fail rather than hang")
}

func TestWaitUntilTitleContains_ContextCancelled(t *testing.T) {
	d := &titleSequence{titles: []string{"Fender"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitUntilTitleContains(ctx, d, fastPolicy(time.Second), "Checkout")

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

type failingTitle struct {
	Driver
}

func (failingTitle) Title(context.Context) (string, error) {
	return "", errors.New("target closed")
}

func TestWaitUntilTitleContains_DriverErrorAborts(t *testing.T) {
	err := WaitUntilTitleContains(context.Background(), failingTitle{}, fastPolicy(time.Second), "Cart")

	assert.ErrorContains(t, err, "target closed")
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestWaitForVisible(t *testing.T) {
	site := Site{
		"/": `<html><head><title>t</title></head><body>
			<div class="overlay" style="display: none"><span>hidden</span></div>
			<div class="banner"><span>shown</span></div>
		</body></html>`,
	}
	d := NewDocumentDriver(site)
	require.NoError(t, d.Navigate(context.Background(), "https://shop.example/"))

	t.Run("visible element", func(t *testing.T) {
		el, err := WaitForVisible(context.Background(), d, fastPolicy(time.Second), CSS("div.banner span"))
		require.NoError(t, err)
		text, err := el.Text(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "shown", text)
	})

	t.Run("hidden element times out", func(t *testing.T) {
		_, err := WaitForVisible(context.Background(), d, fastPolicy(30*time.Millisecond), CSS("div.overlay span"))
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("missing element times out", func(t *testing.T) {
		_, err := WaitForVisible(context.Background(), d, fastPolicy(30*time.Millisecond), CSS("div.nope"))
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestWaitPolicy_Pause(t *testing.T) {
	w := WaitPolicy{Settle: 20 * time.Millisecond}
	start := time.Now()
	require.NoError(t, w.Pause(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, WaitPolicy{Settle: time.Hour}.Pause(ctx), context.Canceled)

	assert.NoError(t, WaitPolicy{}.Pause(ctx), "zero settle never blocks")
}

// stalledTitle blocks until its context ends, like a page stuck navigating.
type stalledTitle struct {
	Driver
}

func (stalledTitle) Title(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWaitUntilTitleContains_BlockedDriverTimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := WaitUntilTitleContains(ctx, stalledTitle{}, fastPolicy(100*time.Millisecond), "Checkout")

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second, "must not wait past the budget")
}

func TestWaitUntilTitleContains_BlockedDriverParentCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := WaitUntilTitleContains(ctx, stalledTitle{}, fastPolicy(time.Second), "Checkout")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrTimeout)
}
