// Package browser opens URLs in the user's default web browser.
package browser

import (
	"fmt"
	"io"

	pkgbrowser "github.com/pkg/browser"
	"go.uber.org/zap"
)

// Opener launches a URL in a browser.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(url string) error

// Open calls f(url).
func (f OpenerFunc) Open(url string) error {
	return f(url)
}

// System opens URLs with the platform facility (xdg-open, open, rundll32).
type System struct{}

// NewSystem returns a System opener. Output of the helper process is discarded.
func NewSystem() System {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
	return System{}
}

// Open launches url in the default browser.
func (System) Open(url string) error {
	if err := pkgbrowser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// TryOpen opens url and logs a failure instead of returning it.
// It reports whether the browser was launched.
func TryOpen(o Opener, url string, logg *zap.Logger) bool {
	if err := o.Open(url); err != nil {
		logg.Warn("Could not open browser, open the URL manually",
			zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}
