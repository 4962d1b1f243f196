package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// WaitPolicy bounds every blocking operation against the browser. There is
// no driver-wide implicit wait; callers pass the policy explicitly.
type WaitPolicy struct {
	// Timeout is the budget for explicit waits (title, visibility).
	Timeout time.Duration
	// Interval is the polling period of explicit waits.
	Interval time.Duration
	// Find is how long a single element lookup retries before not-found.
	Find time.Duration
	// Settle is the fixed delay used between workflow steps to absorb
	// asynchronous rendering.
	Settle time.Duration
}

// DefaultWaitPolicy matches the live shop's latency.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		Timeout:  30 * time.Second,
		Interval: 250 * time.Millisecond,
		Find:     10 * time.Second,
		Settle:   2 * time.Second,
	}
}

// Until polls cond every Interval until it reports true, returns an error,
// or the Timeout budget is spent. cond runs under the budget too, so a
// blocked driver call ends with a *TimeoutError.
func (w WaitPolicy) Until(ctx context.Context, condition string, cond func(ctx context.Context) (bool, error)) error {
	interval := w.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	wctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last error
	expired := func() error {
		if ctx.Err() != nil {
			return fmt.Errorf("waiting for %s: %w", condition, ctx.Err())
		}
		return &TimeoutError{Condition: condition, After: w.Timeout, Last: last}
	}

	for {
		ok, err := cond(wctx)
		switch {
		case err == nil && ok:
			return nil
		case wctx.Err() != nil:
			if err != nil && !errors.Is(err, wctx.Err()) {
				last = err
			}
			return expired()
		case err != nil && !errors.Is(err, ErrElementNotFound):
			return fmt.Errorf("waiting for %s: %w", condition, err)
		case err != nil:
			last = err
		}

		select {
		case <-wctx.Done():
			return expired()
		case <-ticker.C:
		}
	}
}

// Pause blocks for the Settle delay unless ctx ends first.
func (w WaitPolicy) Pause(ctx context.Context) error {
	if w.Settle <= 0 {
		return nil
	}
	t := time.NewTimer(w.Settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WaitUntilTitleContains blocks until the document title contains phrase.
func WaitUntilTitleContains(ctx context.Context, d Driver, w WaitPolicy, phrase string) error {
	return w.Until(ctx, fmt.Sprintf("title to contain %q", phrase), func(ctx context.Context) (bool, error) {
		title, err := d.Title(ctx)
		if err != nil {
			return false, err
		}
		return strings.Contains(title, phrase), nil
	})
}

// WaitForVisible blocks until an element matching loc is displayed and
// returns it.
func WaitForVisible(ctx context.Context, d Driver, w WaitPolicy, loc Locator) (Element, error) {
	var found Element
	err := w.Until(ctx, fmt.Sprintf("visibility of %s", loc), func(ctx context.Context) (bool, error) {
		els, err := d.FindAll(ctx, loc)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			visible, err := el.Visible(ctx)
			if err != nil {
				return false, err
			}
			if visible {
				found = el
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
