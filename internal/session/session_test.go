package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreStartsEmptyAndOverwrites(t *testing.T) {
	s := NewStore()
	_, ok := s.Current()
	require.False(t, ok)
	require.Empty(t, s.UserID())

	s.SetUser(UserFromEmail("  ana@example.test "))
	u, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "ana@example.test", u.ID)

	s.SetUser(User{ID: "bob"})
	require.Equal(t, "bob", s.UserID())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetUser(User{ID: "x"})
			_ = s.UserID()
		}()
	}
	wg.Wait()
	require.Equal(t, "x", s.UserID())
}

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(func(e Event) { got = append(got, "first") })
	b.Subscribe(func(e Event) { got = append(got, "second") })

	b.Publish(Event{Kind: SubscriptionsChanged, ChannelID: 3})
	require.Equal(t, []string{"first", "second"}, got)
	require.Equal(t, 1, b.Published(SubscriptionsChanged))
}

func TestBusCancelStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0
	cancel := b.Subscribe(func(Event) { calls++ })
	b.Publish(Event{Kind: SubscriptionsChanged})
	cancel()
	b.Publish(Event{Kind: SubscriptionsChanged})

	require.Equal(t, 1, calls)
	require.Equal(t, 2, b.Published(SubscriptionsChanged))
}

func TestSubscriberMayPublishWithoutDeadlock(t *testing.T) {
	b := NewBus()
	depth := 0
	b.Subscribe(func(e Event) {
		depth++
		if depth == 1 {
			b.Publish(e)
		}
	})
	b.Publish(Event{Kind: SubscriptionsChanged})
	require.Equal(t, 2, depth)
}

func TestZeroBusIsUsable(t *testing.T) {
	var b Bus
	require.Zero(t, b.Published(SubscriptionsChanged))

	var got []Event
	cancel := b.Subscribe(func(e Event) { got = append(got, e) })
	b.Publish(Event{Kind: SubscriptionsChanged, ChannelID: 4})
	cancel()
	b.Publish(Event{Kind: SubscriptionsChanged})

	require.Equal(t, []Event{{Kind: SubscriptionsChanged, ChannelID: 4}}, got)
	require.Equal(t, 2, b.Published(SubscriptionsChanged))
}
