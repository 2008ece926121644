// Package config holds the process-wide configuration for a splash node,
// assembled from CLI flags by the cmd package.
package config

import (
	"fmt"

	"github.com/multiformats/go-multiaddr"
)

// Config is the enumerated option set described in spec §3.
type Config struct {
	// ListenAddrs is the ordered sequence of multiaddresses to bind.
	// Empty means bind tcp/0 on all interfaces.
	ListenAddrs []string

	// KnownPeers is the set of seed multiaddresses. Empty means the
	// introducer resolver is used instead.
	KnownPeers []string

	// IdentityPath is an optional filesystem path for the persisted private
	// key. Empty means an ephemeral key is used.
	IdentityPath string

	// Testnet selects the testnet introducer DNS name over the mainnet one.
	Testnet bool

	// OfferHookURL, when set, is POSTed {"offer": text} for every offer the
	// kernel receives. Empty means offers are written to stdout instead.
	OfferHookURL string

	// ListenOfferSubmission is the host:port the offer-ingress HTTP server
	// binds to.
	ListenOfferSubmission string

	// ListenMetrics is the host:port the Prometheus /metrics server binds
	// to. Empty disables the metrics server.
	ListenMetrics string
}

// Validate checks that every multiaddress-shaped flag actually parses,
// failing fast before the kernel is constructed.
func (c Config) Validate() error {
	for _, a := range c.ListenAddrs {
		if _, err := multiaddr.NewMultiaddr(a); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", a, err)
		}
	}
	for _, a := range c.KnownPeers {
		if _, err := multiaddr.NewMultiaddr(a); err != nil {
			return fmt.Errorf("invalid known peer address %q: %w", a, err)
		}
	}
	return nil
}
