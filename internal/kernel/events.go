package kernel

import (
	"sync"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// Event is the closed tagged union described in spec §4.8. Go has no sum
// types, so each variant is a distinct struct implementing the marker
// method; callers switch on the concrete type.
type Event interface {
	isEvent()
}

// Initialized is emitted exactly once, before any other event, once the
// swarm is up and the local peer id is known.
type Initialized struct {
	PeerID peer.ID
}

// NewListenAddress is emitted for every address the swarm reports as bound.
type NewListenAddress struct {
	Addr multiaddr.Multiaddr
}

// PeerConnected is emitted when a new connection to p is established.
type PeerConnected struct {
	PeerID peer.ID
}

// PeerDisconnected is emitted when a connection to p is closed.
type PeerDisconnected struct {
	PeerID peer.ID
}

// OfferReceived is emitted only after the gossip validator accepts an
// incoming message.
type OfferReceived struct {
	Text string
}

// OfferBroadcasted is emitted once the local publish call returns success.
type OfferBroadcasted struct {
	Text string
}

// OfferBroadcastFailed is emitted for invalid offers and for publish
// failures; it is never retried by the kernel.
type OfferBroadcastFailed struct {
	Reason string
}

func (Initialized) isEvent()          {}
func (NewListenAddress) isEvent()     {}
func (PeerConnected) isEvent()        {}
func (PeerDisconnected) isEvent()     {}
func (OfferReceived) isEvent()        {}
func (OfferBroadcasted) isEvent()     {}
func (OfferBroadcastFailed) isEvent() {}

// DefaultBusCapacity is the per-subscriber buffer size used when callers
// don't need a different bound.
const DefaultBusCapacity = 256

// Bus is a bounded, lossy, multi-producer multi-consumer broadcast of
// Events (spec §4.8 / C8). Publish never blocks: when a subscriber's
// buffer is full, the oldest undelivered event for that subscriber is
// dropped to make room for the new one.
type Bus struct {
	mu       sync.Mutex
	capacity int
	subs     []chan Event
}

// NewBus creates an event bus whose subscriber channels each hold up to
// capacity undelivered events.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultBusCapacity
	}
	return &Bus{capacity: capacity}
}

// Subscribe registers a new receiver. Each subscriber sees every
// subsequently published event at most once, in publication order.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, b.capacity)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish fans e out to every subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Buffer full: drop the oldest pending event, then retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}
