package kernel

import (
	"context"
	"fmt"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pubsub_pb "github.com/libp2p/go-libp2p-pubsub/pb"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/dexie-space/splash/internal/offer"
)

// gossipRouter wraps the Gossip Router (spec §4.4, C4): a single pub/sub
// topic with strict signature validation, offer-digest message ids, and a
// validator hook that gates mesh forwarding.
type gossipRouter struct {
	ps    *pubsub.PubSub
	topic *pubsub.Topic
	sub   *pubsub.Subscription
}

// newGossipRouter constructs the gossipsub instance with strict message
// signing (the library default) and the offer-digest message-id function.
func newGossipRouter(ctx context.Context, h host.Host) (*gossipRouter, error) {
	ps, err := pubsub.NewGossipSub(ctx, h,
		pubsub.WithMessageSignaturePolicy(pubsub.StrictSign),
		pubsub.WithMessageIdFn(messageIDFn),
	)
	if err != nil {
		return nil, fmt.Errorf("construct gossipsub: %w", err)
	}
	return &gossipRouter{ps: ps}, nil
}

// messageIDFn computes msg_id(m) = digest(m.data), so that two peers
// publishing the same offer text collapse to a single delivery.
func messageIDFn(m *pubsub_pb.Message) string {
	d := offer.ComputeDigest(string(m.Data))
	return string(d[:])
}

// subscribe joins and subscribes to the fixed offers topic exactly once,
// registering the validator hook described in spec §4.4.
func (g *gossipRouter) subscribe(topicName string) error {
	topic, err := g.ps.Join(topicName)
	if err != nil {
		return fmt.Errorf("join topic %s: %w", topicName, err)
	}

	if err := g.ps.RegisterTopicValidator(topicName, validateOffer); err != nil {
		return fmt.Errorf("register validator for topic %s: %w", topicName, err)
	}

	sub, err := topic.Subscribe()
	if err != nil {
		return fmt.Errorf("subscribe to topic %s: %w", topicName, err)
	}

	g.topic = topic
	g.sub = sub
	return nil
}

// validateOffer is the synchronous validator hook: Accept iff the message
// body is a structurally valid offer. Rejected messages are dropped and
// never reach the mesh or the kernel's OfferReceived path; the library
// applies its default score penalty to the source peer.
func validateOffer(_ context.Context, _ peer.ID, msg *pubsub.Message) pubsub.ValidationResult {
	if offer.IsValid(string(msg.Data)) {
		return pubsub.ValidationAccept
	}
	return pubsub.ValidationReject
}

// publish sends an already-validated offer onto the topic.
func (g *gossipRouter) publish(ctx context.Context, text string) error {
	return g.topic.Publish(ctx, []byte(text))
}

// next blocks for the next accepted message on the subscription. Rejected
// messages never surface here: go-libp2p-pubsub filters them out before a
// subscriber ever sees them.
func (g *gossipRouter) next(ctx context.Context) (*pubsub.Message, error) {
	return g.sub.Next(ctx)
}
