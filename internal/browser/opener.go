package browser

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	systembrowser "github.com/pkg/browser"
)

const (
	invalidURLMessageConstant       = "refusing to open a non-web URL"
	invalidURLErrorTemplateConstant = "%w: %q"
	openErrorTemplateConstant       = "opening %s in browser: %w"
	httpSchemeConstant              = "http"
	httpsSchemeConstant             = "https"
)

// ErrInvalidURL indicates a URL that is not an absolute http or https address.
var ErrInvalidURL = errors.New(invalidURLMessageConstant)

// URLLauncher hands a URL to the operating system.
type URLLauncher func(address string) error

// SystemOpener opens web pages in the user's default browser.
type SystemOpener struct {
	launch URLLauncher
}

// RedirectLauncherOutput sends the output of the platform launcher to diagnostics so it does not
// interleave with status lines. The setting is process-wide; call it once at startup.
func RedirectLauncherOutput(diagnostics io.Writer) {
	if diagnostics == nil {
		diagnostics = io.Discard
	}
	systembrowser.Stdout = diagnostics
	systembrowser.Stderr = diagnostics
}

// NewSystemOpener constructs an opener that launches the platform browser.
func NewSystemOpener() *SystemOpener {
	return &SystemOpener{launch: systembrowser.OpenURL}
}

// NewOpenerWithLauncher constructs an opener around a custom launcher.
func NewOpenerWithLauncher(launch URLLauncher) *SystemOpener {
	return &SystemOpener{launch: launch}
}

// Open validates the address and launches it.
func (opener *SystemOpener) Open(address string) error {
	trimmedAddress := strings.TrimSpace(address)
	parsedURL, parseError := url.Parse(trimmedAddress)
	if parseError != nil || len(parsedURL.Host) == 0 || (parsedURL.Scheme != httpSchemeConstant && parsedURL.Scheme != httpsSchemeConstant) {
		return fmt.Errorf(invalidURLErrorTemplateConstant, ErrInvalidURL, address)
	}

	if launchError := opener.launch(trimmedAddress); launchError != nil {
		return fmt.Errorf(openErrorTemplateConstant, trimmedAddress, launchError)
	}
	return nil
}
