package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

// domStableWindow is how long the DOM must stay unchanged to count as stable.
const domStableWindow = 500 * time.Millisecond

// WaitForIFrames recursively waits for DOM stability on the page and on all
// visible iframes, so that mini-cart overlays and embedded checkout widgets
// are rendered before they are read.
func WaitForIFrames(page *rod.Page) error {
	if err := page.WaitDOMStable(domStableWindow, 0); err != nil {
		return fmt.Errorf("wait for DOM stability: %w", err)
	}

	iframes, err := page.Elements("iframe")
	if err != nil {
		return nil
	}

	for _, iframe := range iframes {
		visible, _ := iframe.Visible()
		if !visible {
			continue
		}

		frame, err := iframe.Frame()
		if err != nil {
			continue
		}

		if err := WaitForIFrames(frame); err != nil {
			return err
		}
	}

	return nil
}
