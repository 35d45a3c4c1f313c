// Package site holds the currently loaded site configuration and its
// enabled plugin set. It is the single source of truth for "which site is
// active" and "what features are unlocked".
package site

import (
	"context"
	"sort"
	"sync"

	"github.com/HustleV0/VirtinSaz-sub001/internal/api"
	"github.com/HustleV0/VirtinSaz-sub001/internal/eventbus"
)

// Store mediates between consumers and the remote site API. Instances are
// explicit: construct one per process (or per test) instead of sharing a
// package-level singleton.
type Store struct {
	client *api.Client
	bus    *eventbus.Bus

	mu            sync.Mutex
	site          *api.Site
	sites         []api.Site
	activePlugins map[string]struct{}
	isLoading     bool
	errMsg        string
}

// Option customises store construction.
type Option func(*Store)

// WithBus attaches an event bus; the store publishes a snapshot after each
// state commit so observers (the plugin gate) re-evaluate on change.
func WithBus(bus *eventbus.Bus) Option {
	return func(s *Store) {
		s.bus = bus
	}
}

// NewStore creates a site store backed by the given API client.
func NewStore(client *api.Client, opts ...Option) *Store {
	s := &Store{
		client:        client,
		activePlugins: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchSite loads the site record, replacing the held site and plugin set
// wholesale on success. An empty slug fetches the authenticated owner's own
// site. Failures are recorded in Err, not returned: consumers display the
// error state rather than branch on a return value. On failure the
// previously held site is kept — stale-but-present beats a flash to empty.
func (s *Store) FetchSite(ctx context.Context, slug string) {
	s.beginLoad(ctx)

	var (
		fetched api.Site
		err     error
	)
	if slug == "" {
		fetched, err = s.client.MySite(ctx)
	} else {
		fetched, err = s.client.SiteBySlug(ctx, slug)
	}

	// Commit against whatever state exists at resolution time. Two
	// overlapping fetches therefore land in resolution order, not issuance
	// order: a slow stale fetch can overwrite a newer one (last write wins,
	// as the dashboard behaves).
	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		s.errMsg = err.Error()
	} else {
		s.site = &fetched
		s.activePlugins = make(map[string]struct{}, len(fetched.ActivePlugins))
		for _, key := range fetched.ActivePlugins {
			s.activePlugins[key] = struct{}{}
		}
	}
	s.mu.Unlock()

	s.publishSnapshot(ctx)
}

// FetchAllSites loads the list of sites owned by the current user and
// replaces the held list wholesale. Same loading/error discipline as
// FetchSite.
func (s *Store) FetchAllSites(ctx context.Context) {
	s.beginLoad(ctx)

	sites, err := s.client.UserSites(ctx)

	s.mu.Lock()
	s.isLoading = false
	if err != nil {
		s.errMsg = err.Error()
	} else {
		s.sites = sites
	}
	s.mu.Unlock()

	s.publishSnapshot(ctx)
}

// IsPluginActive reports whether the plugin key is in the active set. Pure
// membership check, no network call.
func (s *Store) IsPluginActive(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.activePlugins[key]
	return ok
}

// TogglePlugin sends the desired state to the server first and applies the
// local update only after the server confirms. On failure the local set is
// untouched (it was never speculatively changed) and the error is returned
// for the caller to surface — unlike fetches, toggle failures are not
// recorded in Err. Toggling a key already in the desired state is
// idempotent.
func (s *Store) TogglePlugin(ctx context.Context, key string, active bool) error {
	if err := s.client.TogglePlugin(ctx, key, active); err != nil {
		return err
	}

	s.mu.Lock()
	if active {
		s.activePlugins[key] = struct{}{}
	} else {
		delete(s.activePlugins, key)
	}
	s.mu.Unlock()

	s.publishSnapshot(ctx)
	return nil
}

// Site returns a copy of the currently held site, or nil when none has been
// loaded yet.
func (s *Store) Site() *api.Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.site == nil {
		return nil
	}
	copied := *s.site
	return &copied
}

// Sites returns a copy of the user-sites list.
func (s *Store) Sites() []api.Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Site, len(s.sites))
	copy(out, s.sites)
	return out
}

// ActivePlugins returns the enabled plugin keys, sorted for stable output.
func (s *Store) ActivePlugins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePluginsLocked()
}

// IsLoading reports whether a fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the last recorded fetch failure, or "" when the last fetch
// succeeded.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Snapshot returns the current state as a snapshot event.
func (s *Store) Snapshot() eventbus.SiteSnapshotEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reset clears all held state. Test-harness operation; production code
// creates a store once at process start and never resets it.
func (s *Store) Reset() {
	s.mu.Lock()
	s.site = nil
	s.sites = nil
	s.activePlugins = make(map[string]struct{})
	s.isLoading = false
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *Store) beginLoad(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	s.mu.Unlock()

	s.publishSnapshot(ctx)
}

func (s *Store) publishSnapshot(ctx context.Context) {
	if s.bus == nil {
		return
	}
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	eventbus.Publish(ctx, s.bus, eventbus.SiteSnapshots, eventbus.SourceSiteStore, snapshot)
}

func (s *Store) snapshotLocked() eventbus.SiteSnapshotEvent {
	event := eventbus.SiteSnapshotEvent{
		ActivePlugins: s.activePluginsLocked(),
		IsLoading:     s.isLoading,
		Err:           s.errMsg,
	}
	if s.site != nil {
		event.SiteID = s.site.ID
		event.Slug = s.site.Slug
	}
	return event
}

func (s *Store) activePluginsLocked() []string {
	keys := make([]string, 0, len(s.activePlugins))
	for key := range s.activePlugins {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
