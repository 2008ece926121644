package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/multiformats/go-multiaddr"

	"github.com/dexie-space/splash/internal/config"
)

func startNode(t *testing.T) (*Node, <-chan Event, chan Command, context.CancelFunc) {
	t.Helper()
	bus := NewBus(DefaultBusCapacity)
	events := bus.Subscribe()
	node := New(config.Config{ListenAddrs: []string{"/ip4/127.0.0.1/tcp/0"}}, bus)

	ctx, cancel := context.WithCancel(context.Background())
	cmds := make(chan Command)
	go func() { _ = node.Run(ctx, cmds) }()

	waitFor[Initialized](t, events, 10*time.Second)
	return node, events, cmds, cancel
}

func listenAddr(t *testing.T, events <-chan Event, timeout time.Duration) NewListenAddress {
	t.Helper()
	return waitFor[NewListenAddress](t, events, timeout)
}

func fullAddr(t *testing.T, addr multiaddr.Multiaddr, id stringer) multiaddr.Multiaddr {
	t.Helper()
	p2p, err := multiaddr.NewMultiaddr("/p2p/" + id.String())
	if err != nil {
		t.Fatalf("bad peer id multiaddr: %v", err)
	}
	return addr.Encapsulate(p2p)
}

type stringer interface{ String() string }

// TestTwoNodeRelay exercises scenario S1: A and B connect, a broadcast from
// A is observed as OfferBroadcasted on A and OfferReceived on B with the
// identical string.
func TestTwoNodeRelay(t *testing.T) {
	nodeA, eventsA, cmdsA, cancelA := startNode(t)
	defer cancelA()
	nodeB, eventsB, _, cancelB := startNode(t)
	defer cancelB()

	addrA := listenAddr(t, eventsA, 10*time.Second)
	dialAddr := fullAddr(t, addrA.Addr, nodeA.sw.host.ID())

	nodeB.dialSeed(context.Background(), dialAddr)

	waitFor[PeerConnected](t, eventsA, 10*time.Second)
	waitFor[PeerConnected](t, eventsB, 10*time.Second)

	const text = "offer1qqqqqqqqqqqqqqqqqqqqqqqqqqqq"
	cmdsA <- Command{Offer: text}

	broadcasted := waitFor[OfferBroadcasted](t, eventsA, 10*time.Second)
	if broadcasted.Text != text {
		t.Errorf("expected OfferBroadcasted text %q, got %q", text, broadcasted.Text)
	}

	received := waitFor[OfferReceived](t, eventsB, 10*time.Second)
	if received.Text != text {
		t.Errorf("expected OfferReceived text %q, got %q", text, received.Text)
	}
}

// TestDuplicateSuppressionInClique exercises scenario S4: in a 3-node
// clique, a single broadcast from A is observed exactly once by each of B
// and C.
func TestDuplicateSuppressionInClique(t *testing.T) {
	nodeA, eventsA, cmdsA, cancelA := startNode(t)
	defer cancelA()
	nodeB, eventsB, _, cancelB := startNode(t)
	defer cancelB()
	nodeC, eventsC, _, cancelC := startNode(t)
	defer cancelC()

	addrA := listenAddr(t, eventsA, 10*time.Second)
	dialA := fullAddr(t, addrA.Addr, nodeA.sw.host.ID())
	addrB := listenAddr(t, eventsB, 10*time.Second)
	dialB := fullAddr(t, addrB.Addr, nodeB.sw.host.ID())

	nodeB.dialSeed(context.Background(), dialA)
	nodeC.dialSeed(context.Background(), dialA)

	waitFor[PeerConnected](t, eventsB, 10*time.Second)
	waitFor[PeerConnected](t, eventsC, 10*time.Second)

	nodeC.dialSeed(context.Background(), dialB)
	waitFor[PeerConnected](t, eventsC, 10*time.Second)

	const text = "offer1pppppppppppppppppppppppppppp"
	cmdsA <- Command{Offer: text}

	firstOnB := waitFor[OfferReceived](t, eventsB, 10*time.Second)
	if firstOnB.Text != text {
		t.Fatalf("unexpected text on B: %q", firstOnB.Text)
	}
	firstOnC := waitFor[OfferReceived](t, eventsC, 10*time.Second)
	if firstOnC.Text != text {
		t.Fatalf("unexpected text on C: %q", firstOnC.Text)
	}

	select {
	case e := <-eventsB:
		if _, ok := e.(OfferReceived); ok {
			t.Fatalf("B received the offer more than once")
		}
	case <-time.After(2 * time.Second):
	}
	select {
	case e := <-eventsC:
		if _, ok := e.(OfferReceived); ok {
			t.Fatalf("C received the offer more than once")
		}
	case <-time.After(2 * time.Second):
	}
}
