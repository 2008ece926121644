// Package offer implements the structural validation and canonical hashing
// of a Splash offer string (spec §4.2, C2 Offer Codec).
package offer

import sha256simd "github.com/minio/sha256-simd"

// bech32Alphabet is the canonical lowercase bech32 character set, per
// spec §9's Open Question resolution.
const bech32Alphabet = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const (
	prefix    = "offer1"
	minLength = 6     // |s| must be strictly greater than this
	maxLength = 80000 // |s| must be strictly less than this
)

// DigestSize is the length in bytes of an OfferDigest.
const DigestSize = 32

// Digest is a 32-byte cryptographic hash of an offer's UTF-8 bytes. It
// doubles as the gossip message-id and the local de-duplication key.
type Digest [DigestSize]byte

var bech32Set [256]bool

func init() {
	for i := 0; i < len(bech32Alphabet); i++ {
		bech32Set[bech32Alphabet[i]] = true
	}
}

// IsValid reports whether s has the strict structural shape required of a
// Splash offer: it begins with "offer1", its length is strictly between 6
// and 80,000 characters, and every character after the "offer1" prefix lies
// in the bech32 alphabet.
func IsValid(s string) bool {
	if len(s) <= minLength || len(s) >= maxLength {
		return false
	}
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return false
	}
	for i := len(prefix); i < len(s); i++ {
		c := s[i]
		if c >= 128 || !bech32Set[c] {
			return false
		}
	}
	return true
}

// ComputeDigest computes the OfferDigest of s's UTF-8 bytes. It is a pure,
// deterministic function: equal strings always hash to equal digests.
func ComputeDigest(s string) Digest {
	sum := sha256simd.Sum256([]byte(s))
	var d Digest
	copy(d[:], sum[:])
	return d
}

// String renders the digest as a lowercase hex string, used for logging.
func (d Digest) String() string {
	const hexChars = "0123456789abcdef"
	out := make([]byte, 2*len(d))
	for i, b := range d {
		out[2*i] = hexChars[b>>4]
		out[2*i+1] = hexChars[b&0x0f]
	}
	return string(out)
}
