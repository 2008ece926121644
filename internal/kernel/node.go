// Package kernel implements the P2P node kernel described in spec §§2-9:
// bootstrap and peer-discovery policy, the pub/sub offers topic, identity
// management, external-address observation, and the event/command bridge
// to external I/O.
package kernel

import (
	"context"
	"fmt"
	"time"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"

	"github.com/dexie-space/splash/internal/config"
	"github.com/dexie-space/splash/internal/identity"
	"github.com/dexie-space/splash/internal/introducer"
	"github.com/dexie-space/splash/internal/logger"
	"github.com/dexie-space/splash/internal/offer"
)

var zlog = logger.New("kernel")

// housekeepingInterval is the 60-second cadence from spec §4.7.
const housekeepingInterval = 60 * time.Second

// resolveIntroducer is a package-level indirection over introducer.Resolve,
// swappable in tests the same way internal/identity swaps its FS.
var resolveIntroducer = introducer.Resolve

// Node owns the swarm and runs as the single cooperative task described in
// spec §5 and §4.7 (C7 Node Loop). All of its fields below are mutated
// exclusively from Run's select loop.
type Node struct {
	cfg config.Config
	bus *Bus

	sw *swarm

	peerCount     int
	bootstrapping bool
	trigger       *HousekeepingTrigger
}

// New constructs a Node that will publish lifecycle and offer events onto
// bus.
func New(cfg config.Config, bus *Bus) *Node {
	return &Node{
		cfg:     cfg,
		bus:     bus,
		trigger: NewHousekeepingTrigger(housekeepingInterval),
	}
}

// swarmEvent is the tagged union of network-layer notifications the main
// loop dispatches via a type switch (spec §9: "dispatch the outer event to
// the right sub-handler via a tagged-variant switch").
type swarmEvent interface{ isSwarmEvent() }

type listenAddrEvent struct{ addr multiaddr.Multiaddr }
type connectedEvent struct {
	peer peer.ID
	addr multiaddr.Multiaddr
}
type disconnectedEvent struct{ peer peer.ID }

func (listenAddrEvent) isSwarmEvent()   {}
func (connectedEvent) isSwarmEvent()    {}
func (disconnectedEvent) isSwarmEvent() {}

// Run executes the startup sequence from spec §4.7 and then the main
// select loop until cmds is closed, at which point it drains pending
// swarm state, closes the swarm, and returns.
func (n *Node) Run(ctx context.Context, cmds <-chan Command) error {
	priv, err := identity.LoadOrCreate(n.cfg.IdentityPath)
	if err != nil {
		return fmt.Errorf("fatal startup: identity: %w", err)
	}

	sw, err := buildSwarm(ctx, priv, n.cfg.ListenAddrs)
	if err != nil {
		return fmt.Errorf("fatal startup: swarm: %w", err)
	}
	n.sw = sw
	defer func() {
		if err := sw.close(); err != nil {
			zlog.Sugar().Warnf("error while closing swarm: %v", err)
		}
	}()

	if err := sw.gossip.subscribe(OffersTopic); err != nil {
		return fmt.Errorf("fatal startup: gossip: %w", err)
	}

	swarmEvents := make(chan swarmEvent, 256)
	sw.host.Network().Notify(&network.NotifyBundle{
		ListenF: func(_ network.Network, a multiaddr.Multiaddr) {
			sendSwarmEvent(ctx, swarmEvents, listenAddrEvent{addr: a})
		},
		ConnectedF: func(_ network.Network, c network.Conn) {
			sendSwarmEvent(ctx, swarmEvents, connectedEvent{peer: c.RemotePeer(), addr: c.RemoteMultiaddr()})
		},
		DisconnectedF: func(_ network.Network, c network.Conn) {
			sendSwarmEvent(ctx, swarmEvents, disconnectedEvent{peer: c.RemotePeer()})
		},
	})

	idEvents, err := sw.host.EventBus().Subscribe(new(event.EvtPeerIdentificationCompleted))
	if err != nil {
		return fmt.Errorf("fatal startup: subscribe identify events: %w", err)
	}
	defer idEvents.Close()

	gossipMsgs := make(chan *pubsub.Message, 64)
	go pumpGossip(ctx, sw.gossip, sw.host.ID(), gossipMsgs)

	n.seed(ctx)

	n.bus.Publish(Initialized{PeerID: sw.host.ID()})

	// The host bound its listen addresses inside buildSwarm, before the
	// notifiee above was registered, so those binds are reported here.
	for _, a := range sw.host.Network().ListenAddresses() {
		n.bus.Publish(NewListenAddress{Addr: a})
	}

	housekeeping := time.NewTicker(5 * time.Second)
	defer housekeeping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd, ok := <-cmds:
			if !ok {
				for len(swarmEvents) > 0 {
					n.handleSwarmEvent(<-swarmEvents)
				}
				return nil
			}
			n.handleCommand(ctx, cmd)

		case se := <-swarmEvents:
			n.handleSwarmEvent(se)

		case evt, ok := <-idEvents.Out():
			if !ok {
				continue
			}
			n.handleIdentify(evt.(event.EvtPeerIdentificationCompleted))

		case msg, ok := <-gossipMsgs:
			if !ok {
				continue
			}
			n.bus.Publish(OfferReceived{Text: string(msg.Data)})

		case <-housekeeping.C:
			n.maybeBootstrap(ctx)
		}
	}
}

// sendSwarmEvent bridges a libp2p network-layer callback (which runs on a
// library-owned goroutine) into the node loop's single-threaded state
// machine. It blocks rather than drops, because connection bookkeeping
// must stay exact (spec §8 invariant 4); it only gives up if the whole
// node is shutting down.
func sendSwarmEvent(ctx context.Context, ch chan<- swarmEvent, e swarmEvent) {
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}

func (n *Node) handleSwarmEvent(e swarmEvent) {
	switch ev := e.(type) {
	case listenAddrEvent:
		n.bus.Publish(NewListenAddress{Addr: ev.addr})

	case connectedEvent:
		n.peerCount++
		addAddress(n.sw.dht, ev.peer, ev.addr)
		n.bus.Publish(PeerConnected{PeerID: ev.peer})

	case disconnectedEvent:
		n.peerCount--
		n.bus.Publish(PeerDisconnected{PeerID: ev.peer})

	default:
		zlog.Sugar().Warnf("unhandled swarm event type %T", e)
	}
}

// handleIdentify folds newly learned listen addresses into the DHT's
// peerstore. The ExternalAddressSet itself (spec §3) is maintained
// entirely inside go-libp2p's own identify/basichost machinery, which
// already applies an equivalent multi-reporter confirmation heuristic and
// folds the result into host.Addrs() — there is no public swarm API this
// node loop can additionally push a confirmed address into, so it leaves
// that bookkeeping to the library rather than duplicating it (see
// DESIGN.md).
func (n *Node) handleIdentify(evt event.EvtPeerIdentificationCompleted) {
	for _, addr := range evt.ListenAddrs {
		addAddress(n.sw.dht, evt.Peer, addr)
	}
}

func (n *Node) handleCommand(ctx context.Context, cmd Command) {
	if !offer.IsValid(cmd.Offer) {
		n.bus.Publish(OfferBroadcastFailed{Reason: "invalid offer"})
		return
	}

	if err := n.sw.gossip.publish(ctx, cmd.Offer); err != nil {
		zlog.Sugar().Warnf("publish failed: %v", err)
		n.bus.Publish(OfferBroadcastFailed{Reason: err.Error()})
		return
	}

	n.bus.Publish(OfferBroadcasted{Text: cmd.Offer})
}

// seed implements startup step 5: dial every known peer, or fall back to
// the introducer resolver when none was supplied.
func (n *Node) seed(ctx context.Context) {
	addrs := n.cfg.KnownPeers
	var seeds []multiaddr.Multiaddr

	for _, s := range addrs {
		ma, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			zlog.Sugar().Warnf("skipping unparsable known peer %q: %v", s, err)
			continue
		}
		seeds = append(seeds, ma)
	}

	if len(seeds) == 0 {
		name := introducer.Name(n.cfg.Testnet)
		seeds = resolveIntroducer(name)
		if len(seeds) == 0 {
			zlog.Sugar().Warnf("introducer resolution for %s returned no seeds", name)
		}
	}

	for _, ma := range seeds {
		n.dialSeed(ctx, ma)
	}

	if len(seeds) > 0 {
		if err := n.sw.dht.Bootstrap(ctx); err != nil {
			zlog.Sugar().Warnf("initial bootstrap failed: %v", err)
		}
		n.trigger.Reset()
	}
}

func (n *Node) dialSeed(ctx context.Context, ma multiaddr.Multiaddr) {
	info, err := peer.AddrInfoFromP2pAddr(ma)
	if err != nil {
		zlog.Sugar().Warnf("skipping seed without a peer id %q: %v", ma, err)
		return
	}

	addAddress(n.sw.dht, info.ID, ma)

	if err := n.sw.host.Connect(ctx, *info); err != nil {
		zlog.Sugar().Warnf("dial to seed %s failed: %v", info.ID, err)
	}
}

// maybeBootstrap re-invokes bootstrap() on the 60-second housekeeping
// cadence, per spec §4.7, provided the DHT isn't already mid-bootstrap
// from this kernel's perspective and it has at least one connected peer.
// dht.Bootstrap queues its self-lookup queries and returns promptly, so
// this runs inline on the node loop rather than on a separate goroutine,
// preserving the single-task mutation invariant from spec §5.
func (n *Node) maybeBootstrap(ctx context.Context) {
	if !n.trigger.IsReady() {
		return
	}
	n.trigger.Reset()

	if n.bootstrapping || n.peerCount < 1 {
		return
	}

	n.bootstrapping = true
	if err := n.sw.dht.Bootstrap(ctx); err != nil {
		zlog.Sugar().Debugf("housekeeping bootstrap failed: %v", err)
	}
	n.bootstrapping = false
}

// pumpGossip bridges the blocking pubsub subscription into a channel the
// main select loop can multiplex over, filtering out messages the local
// host published to itself.
func pumpGossip(ctx context.Context, g *gossipRouter, self peer.ID, out chan<- *pubsub.Message) {
	for {
		msg, err := g.next(ctx)
		if err != nil {
			close(out)
			return
		}
		if msg.GetFrom() == self {
			continue
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}
