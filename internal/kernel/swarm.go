package kernel

import (
	"context"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/routing"
	"github.com/libp2p/go-libp2p/p2p/net/connmgr"
	"github.com/libp2p/go-libp2p/p2p/security/noise"
)

// swarm is the composite Swarm Behaviour (spec §4.6, C6): one libp2p host
// embedding identify, Kademlia, and gossipsub, reached from a single root
// handle as described in spec §9's "back-reference to the library" note.
// identify itself has no separate handle here: libp2p.New starts it
// automatically, configured below via libp2p.ProtocolVersion, and the
// node loop observes it exclusively through the host's event bus.
type swarm struct {
	host   host.Host
	dht    *dht.IpfsDHT
	gossip *gossipRouter
}

// buildSwarm constructs the host with the transport stack (TCP + noise +
// yamux-or-default-muxer, configuration only, per spec §4.6), identify
// (started by libp2p.New itself) and the Kademlia routing behaviour, then
// layers gossipsub on top.
func buildSwarm(ctx context.Context, priv crypto.PrivKey, listenAddrs []string) (*swarm, error) {
	if len(listenAddrs) == 0 {
		listenAddrs = []string{
			"/ip4/0.0.0.0/tcp/0",
			"/ip6/::/tcp/0",
		}
	}

	cm, err := connmgr.NewConnManager(32, 256, connmgr.WithGracePeriod(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("construct connection manager: %w", err)
	}

	s := &swarm{}

	h, err := libp2p.New(
		libp2p.Identity(priv),
		libp2p.ListenAddrStrings(listenAddrs...),
		libp2p.ProtocolVersion(string(IdentifyProtocolID)),
		libp2p.Security(noise.ID, noise.New),
		libp2p.DefaultTransports,
		libp2p.ConnectionManager(cm),
		libp2p.Routing(func(h host.Host) (routing.PeerRouting, error) {
			d, err := newDHT(ctx, h)
			if err != nil {
				return nil, err
			}
			s.dht = d
			return d, nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("construct libp2p host: %w", err)
	}
	s.host = h

	gossip, err := newGossipRouter(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("construct gossip router: %w", err)
	}
	s.gossip = gossip

	return s, nil
}

// close tears every layer of the swarm down, from the outermost
// behaviour in.
func (s *swarm) close() error {
	if s.dht != nil {
		if err := s.dht.Close(); err != nil {
			return fmt.Errorf("close dht: %w", err)
		}
	}
	return s.host.Close()
}
