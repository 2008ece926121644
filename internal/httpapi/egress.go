package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dexie-space/splash/internal/kernel"
)

type offerHookPayload struct {
	Offer string `json:"offer"`
}

// OfferHook posts every OfferReceived event to a configured webhook URL, in
// the same fire-and-forget style as the teacher's logbin client.
type OfferHook struct {
	URL    string
	client *http.Client
}

func NewOfferHook(url string) *OfferHook {
	return &OfferHook{
		URL:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Run consumes events until ctx is cancelled or events is closed, posting
// the text of every OfferReceived event to the hook URL.
func (h *OfferHook) Run(ctx context.Context, events <-chan kernel.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if received, ok := e.(kernel.OfferReceived); ok {
				h.post(ctx, received.Text)
			}
		}
	}
}

func (h *OfferHook) post(ctx context.Context, offerText string) {
	body, err := json.Marshal(offerHookPayload{Offer: offerText})
	if err != nil {
		zlog.Sugar().Errorf("unable to marshal offer-hook payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewBuffer(body))
	if err != nil {
		zlog.Sugar().Errorf("unable to create offer-hook request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := h.client.Do(req)
	if err != nil {
		zlog.Sugar().Warnf("offer-hook post to %s failed: %v", h.URL, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		zlog.Sugar().Warnf("offer-hook %s responded with status %d", h.URL, resp.StatusCode)
	}
}
