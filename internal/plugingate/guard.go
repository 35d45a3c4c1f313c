// Package plugingate guards dashboard sections behind plugin activation.
// It observes the site store and, when a required plugin is not enabled,
// notifies the user once and redirects to the dashboard root.
package plugingate

import (
	"fmt"
	"sync"

	"github.com/HustleV0/VirtinSaz-sub001/internal/eventbus"
	"github.com/HustleV0/VirtinSaz-sub001/internal/site"
)

// DefaultRedirectPath is where denied consumers are sent.
const DefaultRedirectPath = "/dashboard"

// Status is the gate's verdict for a plugin key.
type Status int

const (
	// StatusLoading means the site store has not settled yet; callers
	// should render neither the gated content nor an access-denied state.
	StatusLoading Status = iota
	StatusAllowed
	StatusDenied
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAllowed:
		return "allowed"
	case StatusDenied:
		return "denied"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Notifier surfaces a user-visible notification (a toast in the dashboard).
type Notifier interface {
	Notify(title, message string)
}

// Navigator issues a client-side redirect.
type Navigator interface {
	NavigateTo(path string)
}

// Guard evaluates plugin access against site-store state. It is a passive
// observer: it never mutates the store. Denials fire the notification and
// redirect exactly once per (site, plugin key) combination; re-evaluation
// happens when a new store snapshot arrives, not on every read.
type Guard struct {
	store     *site.Store
	notifier  Notifier
	navigator Navigator

	mu      sync.Mutex
	watched map[string]struct{}
	fired   map[string]struct{} // "{siteID}:{key}"
	sub     *eventbus.TypedSubscription[eventbus.SiteSnapshotEvent]
	done    chan struct{}
}

// NewGuard creates a guard over the given site store.
func NewGuard(store *site.Store, notifier Notifier, navigator Navigator) *Guard {
	return &Guard{
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		watched:   make(map[string]struct{}),
		fired:     make(map[string]struct{}),
	}
}

// Start subscribes to site snapshots so watched keys are re-evaluated when
// the store commits new state. Without Start the guard still works, but
// only evaluates at the moment Require is called.
func (g *Guard) Start(bus *eventbus.Bus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sub != nil {
		return
	}
	sub := eventbus.SubscribeTo(bus, eventbus.SiteSnapshots,
		eventbus.WithSubscriptionName("plugin_gate"))
	done := make(chan struct{})
	g.sub = sub
	g.done = done

	// The goroutine must not touch g.sub/g.done: Close nils them out under
	// the lock, possibly before this goroutine is first scheduled.
	go func() {
		defer close(done)
		for env := range sub.C() {
			g.evaluateWatched(env.Payload)
		}
	}()
}

// Close stops the snapshot subscription.
func (g *Guard) Close() {
	g.mu.Lock()
	sub, done := g.sub, g.done
	g.sub = nil
	g.done = nil
	g.mu.Unlock()

	if sub != nil {
		sub.Close()
		<-done
	}
}

// Require evaluates access for the plugin key against the current store
// state and registers the key for re-evaluation on future snapshots.
func (g *Guard) Require(key string) Status {
	g.mu.Lock()
	g.watched[key] = struct{}{}
	g.mu.Unlock()

	return g.evaluate(g.store.Snapshot(), key)
}

func (g *Guard) evaluateWatched(snapshot eventbus.SiteSnapshotEvent) {
	g.mu.Lock()
	keys := make([]string, 0, len(g.watched))
	for key := range g.watched {
		keys = append(keys, key)
	}
	g.mu.Unlock()

	for _, key := range keys {
		g.evaluate(snapshot, key)
	}
}

func (g *Guard) evaluate(snapshot eventbus.SiteSnapshotEvent, key string) Status {
	if snapshot.IsLoading || !snapshot.HasSite() {
		return StatusLoading
	}

	for _, active := range snapshot.ActivePlugins {
		if active == key {
			return StatusAllowed
		}
	}

	g.deny(snapshot.SiteID, key)
	return StatusDenied
}

// deny fires the notification and redirect once per (site, key). The dedup
// key includes the site id so switching sites re-evaluates from scratch.
func (g *Guard) deny(siteID int, key string) {
	dedupKey := fmt.Sprintf("%d:%s", siteID, key)

	g.mu.Lock()
	if _, seen := g.fired[dedupKey]; seen {
		g.mu.Unlock()
		return
	}
	g.fired[dedupKey] = struct{}{}
	g.mu.Unlock()

	if g.notifier != nil {
		g.notifier.Notify("Restricted access",
			fmt.Sprintf("Enable the %s plugin to access this section.", key))
	}
	if g.navigator != nil {
		g.navigator.NavigateTo(DefaultRedirectPath)
	}
}
