// Package introducer implements the Introducer Resolver (spec §4.5, C5):
// resolving a DNS TXT record into a set of seed multiaddresses when the
// caller supplied no known peers.
package introducer

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
	"github.com/multiformats/go-multiaddr"

	"github.com/dexie-space/splash/internal/logger"
)

var zlog = logger.New("introducer")

const (
	// MainnetName is the TXT record queried when testnet is false.
	MainnetName = "_dnsaddr.splash.dexie.space."
	// TestnetName is the TXT record queried when testnet is true.
	TestnetName = "_dnsaddr.testnet11.splash.dexie.space."

	dnsaddrPrefix = "dnsaddr="
)

// recursiveResolvers is tried in order; the first one that answers wins.
// These are the same well-known public resolvers the wider libp2p
// ecosystem falls back to for dnsaddr lookups.
var recursiveResolvers = []string{
	"1.1.1.1:53",
	"8.8.8.8:53",
}

// Name returns the introducer DNS name for the given network selection.
func Name(testnet bool) string {
	if testnet {
		return TestnetName
	}
	return MainnetName
}

// Resolve looks up the TXT records at name and returns every value parsed
// as a multiaddress, stripping an optional "dnsaddr=" prefix. Resolution
// failures yield an empty, non-error result — per §4.5 this is a Warning,
// never fatal.
func Resolve(name string) []multiaddr.Multiaddr {
	values, err := lookupTXT(name)
	if err != nil {
		zlog.Sugar().Warnf("introducer lookup for %s failed: %v", name, err)
		return nil
	}

	var addrs []multiaddr.Multiaddr
	for _, v := range values {
		v = strings.TrimPrefix(v, dnsaddrPrefix)
		ma, err := multiaddr.NewMultiaddr(v)
		if err != nil {
			zlog.Sugar().Warnf("introducer: skipping unparsable TXT value %q: %v", v, err)
			continue
		}
		addrs = append(addrs, ma)
	}
	return addrs
}

func lookupTXT(name string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	m.RecursionDesired = true

	c := new(dns.Client)

	var lastErr error
	for _, resolver := range recursiveResolvers {
		resp, _, err := c.Exchange(m, resolver)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("resolver %s returned rcode %d", resolver, resp.Rcode)
			continue
		}

		var values []string
		for _, rr := range resp.Answer {
			if txt, ok := rr.(*dns.TXT); ok {
				values = append(values, strings.Join(txt.Txt, ""))
			}
		}
		return values, nil
	}
	return nil, fmt.Errorf("all recursive resolvers failed: %w", lastErr)
}
