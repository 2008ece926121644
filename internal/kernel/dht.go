package kernel

import (
	"context"
	"fmt"
	"time"

	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// defaultAddrTTL is how long a peerstore-learned address is trusted for
// before it needs to be refreshed by a subsequent identify exchange.
const defaultAddrTTL = 2 * time.Hour

// newDHT constructs the Kademlia DHT Client (spec §4.3, C3) running under
// the custom /splash/kad/1 protocol identifier, in server mode so it
// answers queries from others.
func newDHT(ctx context.Context, h host.Host) (*dht.IpfsDHT, error) {
	d, err := dht.New(ctx, h,
		dht.Mode(dht.ModeServer),
		dht.V1ProtocolOverride(KadProtocolID),
	)
	if err != nil {
		return nil, fmt.Errorf("construct kademlia dht: %w", err)
	}
	return d, nil
}

// addAddress records a candidate address for peer p, as invoked whenever
// the kernel dials a known peer or learns an address through identify.
func addAddress(d *dht.IpfsDHT, p peer.ID, addr multiaddr.Multiaddr) {
	d.Host().Peerstore().AddAddr(p, addr, defaultAddrTTL)
}
