package offer

import (
	"strings"
	"testing"
)

func validBody(n int) string {
	return "offer1" + strings.Repeat("q", n)
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		name string
		s    string
		want bool
	}{
		{"minimal valid", validBody(1), true},
		{"wrong prefix", "offer2" + strings.Repeat("q", 20), false},
		{"uppercase rejected", "OFFER1" + strings.Repeat("q", 20), false},
		{"bad alphabet char", "offer1" + strings.Repeat("b", 20), false}, // 'b' not in bech32 set
		{"exactly at lower bound", "offer1", false},                     // len 6, not > 6
		{"one over lower bound", "offer1q", true},
		{"oversize", validBody(80000), false},
		{"just under cap", validBody(79990), true},
		{"hello", "hello", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValid(tc.s); got != tc.want {
				t.Errorf("IsValid(%q) = %v, want %v", tc.s, got, tc.want)
			}
		})
	}
}

func TestComputeDigestDeterministic(t *testing.T) {
	s := validBody(10)
	if ComputeDigest(s) != ComputeDigest(s) {
		t.Errorf("digest of the same string must be equal across calls")
	}
}

func TestComputeDigestDistinguishesInput(t *testing.T) {
	a := ComputeDigest(validBody(10))
	b := ComputeDigest(validBody(11))
	if a == b {
		t.Errorf("different offer strings must not collide")
	}
}

func TestDigestString(t *testing.T) {
	d := ComputeDigest("offer1qqqqqqqq")
	if len(d.String()) != DigestSize*2 {
		t.Errorf("hex digest string should be %d chars, got %d", DigestSize*2, len(d.String()))
	}
}
