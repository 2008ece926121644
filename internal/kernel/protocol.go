package kernel

import "github.com/libp2p/go-libp2p/core/protocol"

// Wire protocol identifiers, bit-exact per spec §6.
const (
	KadProtocolID      protocol.ID = "/splash/kad/1"
	IdentifyProtocolID             = "/splash/id/1"
	OffersTopic                    = "/splash/offers/1"
)
