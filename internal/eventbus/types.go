package eventbus

import "time"

// Topic identifies a logical channel on the bus.
type Topic string

const (
	// TopicSiteSnapshot carries the site store's state after each commit.
	TopicSiteSnapshot Topic = "site.snapshot"
)

// Source describes which component produced an event.
type Source string

const (
	SourceSiteStore  Source = "site_store"
	SourcePluginGate Source = "plugin_gate"
	SourceUnknown    Source = "unknown"
)

// Envelope wraps every message published on the bus.
type Envelope struct {
	Topic         Topic
	Timestamp     time.Time
	Source        Source
	CorrelationID string
	Payload       any
}

// SiteSnapshotEvent is published by the site store whenever its state
// commits: after a fetch resolves (success or failure) and after a plugin
// toggle is confirmed.
type SiteSnapshotEvent struct {
	SiteID        int
	Slug          string
	ActivePlugins []string
	IsLoading     bool
	Err           string
}

// HasSite reports whether a site has been loaded.
func (e SiteSnapshotEvent) HasSite() bool {
	return e.SiteID != 0
}

// SiteSnapshots is the typed descriptor for TopicSiteSnapshot.
var SiteSnapshots = NewTopicDef[SiteSnapshotEvent](TopicSiteSnapshot)
