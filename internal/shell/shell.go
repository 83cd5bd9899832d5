// Package shell keeps the page usable without network access: a fixed asset
// list is stored in a versioned cache on install, stale caches are dropped on
// activate, and every request is answered cache-first.
package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"attendance-tracker/internal/models"
	"attendance-tracker/internal/repository"

	"github.com/sirupsen/logrus"
)

// CDNPrefix is the local path under which pinned third-party assets are served.
const CDNPrefix = "/cdn/"

type State string

const (
	StateNew       State = "new"
	StateInstalled State = "installed"
	StateActivated State = "activated"
	StateRedundant State = "redundant"
	StatePrevious  State = "previous" // install failed, earlier caches keep serving
)

// DefaultAssets is the fixed asset list: the embedded page files plus pinned
// third-party styles and scripts.
func DefaultAssets(cdnBase string) []string {
	cdnBase = strings.TrimRight(cdnBase, "/")
	return []string{
		"./",
		"./index.html",
		"./app.js",
		"./manifest.json",
		"./icon192.png",
		"./icon512.png",
		cdnBase + "/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css",
		cdnBase + "/npm/fullcalendar@6.1.15/index.global.min.css",
		cdnBase + "/npm/fullcalendar@6.1.15/index.global.min.js",
	}
}

type Shell struct {
	version string
	assets  []string
	listed  map[string]bool
	cdnBase string
	caches  repository.CacheRepository
	fetcher Fetcher
	logger  *logrus.Logger

	mu    sync.RWMutex
	state State
}

func New(version, cdnBase string, assets []string, caches repository.CacheRepository, fetcher Fetcher) *Shell {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	listed := make(map[string]bool, len(assets))
	for _, url := range assets {
		listed[url] = true
	}

	return &Shell{
		version: version,
		assets:  assets,
		listed:  listed,
		cdnBase: strings.TrimRight(cdnBase, "/"),
		caches:  caches,
		fetcher: fetcher,
		logger:  logger,
		state:   StateNew,
	}
}

// State returns the current lifecycle state.
func (s *Shell) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Controlling reports whether requests are answered cache-first.
func (s *Shell) Controlling() bool {
	st := s.State()
	return st == StateActivated || st == StatePrevious
}

func (s *Shell) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Start runs install (only when this version has no cache yet) followed by
// activate. A failed install leaves older caches untouched; they keep
// serving cache-first when present, otherwise the shell stays uncontrolled.
func (s *Shell) Start(ctx context.Context) error {
	installed, err := s.caches.Has(ctx, s.version)
	if err != nil {
		return fmt.Errorf("check cache %s: %w", s.version, err)
	}

	if installed {
		s.logger.WithField("cache", s.version).Debug("Cache already installed")
		s.setState(StateInstalled)
	} else if err := s.Install(ctx); err != nil {
		s.keepPrevious(ctx)
		return err
	}

	return s.Activate(ctx)
}

// keepPrevious puts the shell back in control of the caches left by an
// earlier version. Nothing is deleted.
func (s *Shell) keepPrevious(ctx context.Context) {
	names, err := s.caches.Names(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to list previous caches")
		return
	}
	if len(names) == 0 {
		return
	}

	s.setState(StatePrevious)
	s.logger.WithFields(logrus.Fields{
		"cache":    s.version,
		"previous": names,
	}).Warn("Install failed, serving previous caches")
}

// Install fetches every asset and stores them in the versioned cache. Any
// failed fetch or non-2xx response aborts the whole population.
func (s *Shell) Install(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"cache":  s.version,
		"assets": len(s.assets),
	}).Info("Installing offline cache")

	entries := make([]models.CacheEntry, 0, len(s.assets))
	for _, url := range s.assets {
		resp, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.setState(StateRedundant)
			return fmt.Errorf("install %s: fetch %s: %w", s.version, url, err)
		}
		if !resp.OK() {
			s.setState(StateRedundant)
			return fmt.Errorf("install %s: fetch %s: status %d", s.version, url, resp.Status)
		}

		entry, err := toEntry(resp)
		if err != nil {
			s.setState(StateRedundant)
			return fmt.Errorf("install %s: %w", s.version, err)
		}
		entries = append(entries, entry)
	}

	if err := s.caches.PutAll(ctx, s.version, entries); err != nil {
		s.setState(StateRedundant)
		return fmt.Errorf("install %s: %w", s.version, err)
	}

	s.setState(StateInstalled)
	return nil
}

// Activate drops every cache not named after the current version and takes
// control immediately.
func (s *Shell) Activate(ctx context.Context) error {
	if st := s.State(); st != StateInstalled && st != StateActivated {
		return fmt.Errorf("activate %s: shell is %s", s.version, st)
	}

	names, err := s.caches.Names(ctx)
	if err != nil {
		return fmt.Errorf("activate %s: %w", s.version, err)
	}
	for _, name := range names {
		if name == s.version {
			continue
		}
		if err := s.caches.DeleteCache(ctx, name); err != nil {
			return fmt.Errorf("activate %s: delete %s: %w", s.version, name, err)
		}
	}

	s.setState(StateActivated)
	s.logger.WithField("cache", s.version).Info("Offline shell activated")
	return nil
}

// Fetch answers from cache when possible, otherwise fetches live. When the
// live fetch fails the cached response (absent here) is returned, so the
// second value is false.
func (s *Shell) Fetch(ctx context.Context, url string) (*Response, bool) {
	cached, err := s.match(ctx, url)
	if err != nil {
		s.logger.WithError(err).WithField("url", url).Debug("Cache lookup failed")
	}
	if cached != nil {
		return cached, true
	}

	resp, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.WithError(err).WithField("url", url).Debug("Live fetch failed")
		return cached, cached != nil
	}
	return resp, true
}

func (s *Shell) match(ctx context.Context, url string) (*Response, error) {
	entry, err := s.caches.Match(ctx, url)
	if err != nil || entry == nil {
		return nil, err
	}
	return fromEntry(entry)
}

// URLFor maps a request path to the asset URL used as cache key.
func (s *Shell) URLFor(requestPath string) string {
	if strings.HasPrefix(requestPath, CDNPrefix) {
		return s.cdnBase + "/" + strings.TrimPrefix(requestPath, CDNPrefix)
	}
	if requestPath == "" || requestPath == "/" {
		return "./"
	}
	return "." + requestPath
}

// ServeHTTP serves assets through the shell. Before activation requests go
// straight to the fetcher. Only listed assets are reachable under CDNPrefix.
func (s *Shell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	url := s.URLFor(r.URL.Path)
	if strings.HasPrefix(r.URL.Path, CDNPrefix) && !s.listed[url] {
		http.NotFound(w, r)
		return
	}

	var (
		resp *Response
		ok   bool
	)
	if s.Controlling() {
		resp, ok = s.Fetch(r.Context(), url)
	} else {
		var err error
		resp, err = s.fetcher.Fetch(r.Context(), url)
		ok = err == nil
	}

	if !ok || resp == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.Status)
	if r.Method == http.MethodGet {
		if _, err := w.Write(resp.Body); err != nil {
			s.logger.WithError(err).Debug("Error writing asset")
		}
	}
}

func toEntry(resp *Response) (models.CacheEntry, error) {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return models.CacheEntry{}, fmt.Errorf("encode header for %s: %w", resp.URL, err)
	}
	return models.CacheEntry{
		URL:    resp.URL,
		Status: resp.Status,
		Header: string(header),
		Body:   resp.Body,
	}, nil
}

func fromEntry(entry *models.CacheEntry) (*Response, error) {
	header := http.Header{}
	if entry.Header != "" {
		if err := json.Unmarshal([]byte(entry.Header), &header); err != nil {
			return nil, fmt.Errorf("decode header for %s: %w", entry.URL, err)
		}
	}
	return &Response{
		URL:    entry.URL,
		Status: entry.Status,
		Header: header,
		Body:   entry.Body,
	}, nil
}
