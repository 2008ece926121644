package httpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dexie-space/splash/internal/kernel"
)

// StdoutSink prints every OfferReceived event as one JSON object per line.
// It is the default egress when no --offer-hook is configured.
func StdoutSink(ctx context.Context, events <-chan kernel.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if received, ok := e.(kernel.OfferReceived); ok {
				line, err := json.Marshal(offerHookPayload{Offer: received.Text})
				if err != nil {
					continue
				}
				fmt.Println(string(line))
			}
		}
	}
}
