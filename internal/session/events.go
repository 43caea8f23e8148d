package session

import "sync"

// EventKind names what changed.
type EventKind int

const (
	// SubscriptionsChanged fires after a subscribe or unsubscribe call succeeded.
	SubscriptionsChanged EventKind = iota + 1
)

func (k EventKind) String() string {
	switch k {
	case SubscriptionsChanged:
		return "subscriptions-changed"
	default:
		return "unknown"
	}
}

// Event is published on the Bus.
type Event struct {
	Kind      EventKind
	ChannelID int64
}

// Bus fans events out to subscribers synchronously, in publish order.
// The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
	counts map[EventKind]int
}

func NewBus() *Bus {
	return &Bus{subs: map[int]func(Event){}, counts: map[EventKind]int{}}
}

// init allocates the maps of a zero Bus. Callers hold mu.
func (b *Bus) init() {
	if b.subs == nil {
		b.subs = map[int]func(Event){}
	}
	if b.counts == nil {
		b.counts = map[EventKind]int{}
	}
}

// Subscribe registers fn and returns a func that removes it.
func (b *Bus) Subscribe(fn func(Event)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers e to every current subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	b.init()
	b.counts[e.Kind]++
	fns := make([]func(Event), 0, len(b.subs))
	for id := 0; id < b.nextID; id++ {
		if fn, ok := b.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Published counts events of kind published so far.
func (b *Bus) Published(kind EventKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[kind]
}
