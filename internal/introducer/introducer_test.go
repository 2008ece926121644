package introducer

import "testing"

func TestName(t *testing.T) {
	if got := Name(false); got != MainnetName {
		t.Errorf("Name(false) = %q, want %q", got, MainnetName)
	}
	if got := Name(true); got != TestnetName {
		t.Errorf("Name(true) = %q, want %q", got, TestnetName)
	}
}

func TestResolveUnreachableNameYieldsEmptySet(t *testing.T) {
	// A name with no TXT records (or an unresolvable introducer) must not
	// be treated as fatal: it degrades to an empty seed set.
	addrs := Resolve("this-name-does-not-exist.invalid.")
	if len(addrs) != 0 {
		t.Errorf("expected no resolved addresses for an invalid name, got %d", len(addrs))
	}
}

func TestStripDnsaddrPrefix(t *testing.T) {
	const raw = "dnsaddr=/ip4/127.0.0.1/tcp/4001/p2p/QmExamplePeerID"
	want := "/ip4/127.0.0.1/tcp/4001/p2p/QmExamplePeerID"

	got := raw
	if len(got) >= len(dnsaddrPrefix) && got[:len(dnsaddrPrefix)] == dnsaddrPrefix {
		got = got[len(dnsaddrPrefix):]
	}
	if got != want {
		t.Errorf("stripped value = %q, want %q", got, want)
	}
}
