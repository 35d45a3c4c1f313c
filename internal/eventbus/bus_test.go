package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	t.Parallel()

	bus := New()
	defer bus.Shutdown()

	sub := SubscribeTo(bus, SiteSnapshots, WithSubscriptionName("test"))
	defer sub.Close()

	event := SiteSnapshotEvent{SiteID: 1, Slug: "demo-cafe", ActivePlugins: []string{"menu"}}
	Publish(context.Background(), bus, SiteSnapshots, SourceSiteStore, event)

	select {
	case env := <-sub.C():
		if env.Payload.Slug != "demo-cafe" {
			t.Errorf("payload slug = %q, want demo-cafe", env.Payload.Slug)
		}
		if env.Source != SourceSiteStore {
			t.Errorf("source = %q, want site_store", env.Source)
		}
		if env.CorrelationID == "" {
			t.Error("correlation ID was not assigned")
		}
		if env.Timestamp.IsZero() {
			t.Error("timestamp was not assigned")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishOnNilBusIsNoOp(t *testing.T) {
	t.Parallel()

	// Must not panic.
	Publish(context.Background(), nil, SiteSnapshots, SourceSiteStore, SiteSnapshotEvent{})
}

func TestSubscribeOnNilBusReturnsClosedChannel(t *testing.T) {
	t.Parallel()

	sub := SubscribeTo[SiteSnapshotEvent](nil, SiteSnapshots)
	select {
	case _, ok := <-sub.C():
		if ok {
			t.Error("expected closed channel from nil bus")
		}
	case <-time.After(time.Second):
		t.Fatal("channel from nil bus did not close")
	}
	sub.Close()
}

func TestFullBufferDropsEvent(t *testing.T) {
	t.Parallel()

	bus := New(WithTopicBuffer(TopicSiteSnapshot, 1))
	defer bus.Shutdown()

	raw := bus.Subscribe(TopicSiteSnapshot, WithSubscriptionName("slow"))
	defer raw.Close()

	ctx := context.Background()
	// Nobody drains: second publish overflows the single-slot buffer.
	Publish(ctx, bus, SiteSnapshots, SourceSiteStore, SiteSnapshotEvent{SiteID: 1})
	Publish(ctx, bus, SiteSnapshots, SourceSiteStore, SiteSnapshotEvent{SiteID: 2})

	if dropped := raw.Dropped(); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := New()
	defer bus.Shutdown()

	sub := SubscribeTo(bus, SiteSnapshots)
	sub.Close()

	// Must not panic on a closed subscription.
	Publish(context.Background(), bus, SiteSnapshots, SourceSiteStore, SiteSnapshotEvent{})
}

func TestContextCancellationClosesSubscription(t *testing.T) {
	t.Parallel()

	bus := New()
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	sub := SubscribeTo(bus, SiteSnapshots, WithContext(ctx))

	cancel()

	select {
	case _, ok := <-sub.C():
		if ok {
			t.Error("expected channel to close after context cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription did not close after context cancellation")
	}
}

func TestTypedSubscriptionSkipsMismatchedPayloads(t *testing.T) {
	t.Parallel()

	bus := New()
	defer bus.Shutdown()

	sub := SubscribeTo(bus, SiteSnapshots)
	defer sub.Close()

	// Raw publish with a payload of the wrong type; the typed bridge
	// silently drops it.
	bus.publish(context.Background(), Envelope{
		Topic:   TopicSiteSnapshot,
		Source:  SourceUnknown,
		Payload: "not a snapshot",
	})
	Publish(context.Background(), bus, SiteSnapshots, SourceSiteStore, SiteSnapshotEvent{SiteID: 7})

	select {
	case env := <-sub.C():
		if env.Payload.SiteID != 7 {
			t.Errorf("payload = %+v, want SiteID 7", env.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for typed event")
	}
}
