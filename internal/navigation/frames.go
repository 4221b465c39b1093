// Package navigation holds the named targets that search results are
// opened in.
package navigation

import (
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"hostgrip/internal/eventbus"
	"hostgrip/internal/logging"
)

// Frames tracks the location of every named target frame
type Frames struct {
	mu      sync.RWMutex
	base    *url.URL
	current map[string]string
	history map[string][]string
	bus     eventbus.EventBus
}

// NewFrames creates frames resolving relative locations against baseURL.
// An empty baseURL keeps locations relative.
func NewFrames(baseURL string, bus eventbus.EventBus) (*Frames, error) {
	f := &Frames{
		current: make(map[string]string),
		history: make(map[string][]string),
		bus:     bus,
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parse base url %q", baseURL)
		}
		f.base = u
	}
	return f, nil
}

// Navigate sets the location of target
func (f *Frames) Navigate(target, location string) error {
	abs, err := f.Resolve(location)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.current[target] = abs
	f.history[target] = append(f.history[target], abs)
	f.mu.Unlock()

	logging.Log.WithField("target", target).WithField("url", abs).Info("navigate")
	if f.bus != nil {
		f.bus.Publish(eventbus.NavigatedEvent{Target: target, URL: abs})
	}
	return nil
}

// Resolve turns a console-relative location into the URL that is opened
func (f *Frames) Resolve(location string) (string, error) {
	if f.base == nil {
		return location, nil
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", errors.Wrapf(err, "parse location %q", location)
	}
	return f.base.ResolveReference(ref).String(), nil
}

// Location returns the current location of target
func (f *Frames) Location(target string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	loc, ok := f.current[target]
	return loc, ok
}

// History returns every location target was sent to, oldest first
func (f *Frames) History(target string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.history[target]))
	copy(out, f.history[target])
	return out
}
