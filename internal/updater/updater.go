// Package updater checks GitHub releases for a newer CLI version. Results
// are cached so routine runs never hit the network.
package updater

import (
	"net/http"
	"time"
)

// Release represents a GitHub release.
type Release struct {
	Version   string    `json:"tag_name"`
	Published time.Time `json:"published_at"`
	HTMLURL   string    `json:"html_url"`
}

// Updater performs version checks against GitHub.
type Updater struct {
	currentVersion string
	httpClient     *http.Client
}

// Option configures an Updater.
type Option func(*Updater)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) {
		u.httpClient = c
	}
}

// New creates an Updater with the given current version and options.
func New(currentVersion string, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		httpClient:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}
