package browser

import (
	"math/rand"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// TypeHuman types text into an element with human-like timing.
// It uses Element.Type() which properly triggers keyboard events (keydown/keyup).
// Small random delays (50-150ms) between keystrokes keep the shop's
// client-side validation from coalescing input events.
func TypeHuman(el *rod.Element, text string) error {
	for _, char := range text {
		if err := el.Type(input.Key(char)); err != nil {
			return err
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
	return nil
}

// TypeFast types text without delays, still emitting keydown/keyup per rune.
func TypeFast(el *rod.Element, text string) error {
	runes := []rune(text)
	keys := make([]input.Key, len(runes))
	for i, char := range runes {
		keys[i] = input.Key(char)
	}
	return el.Type(keys...)
}
