package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dexie-space/splash/internal/kernel"
)

// Metrics holds the Prometheus collectors this node exposes, following the
// one-gauge/one-counter-per-signal layout used throughout the example
// pack's prometheus plugin.
type Metrics struct {
	registry *prometheus.Registry

	connectedPeers          prometheus.Gauge
	offersReceivedTotal     prometheus.Counter
	offersBroadcastTotal    prometheus.Counter
	offersBroadcastFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		connectedPeers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "splash_connected_peers",
			Help: "Number of currently connected peers.",
		}),
		offersReceivedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "splash_offers_received_total",
			Help: "Total number of validated offers received from the gossip topic.",
		}),
		offersBroadcastTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "splash_offers_broadcast_total",
			Help: "Total number of offers successfully published to the gossip topic.",
		}),
		offersBroadcastFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "splash_offers_broadcast_failed_total",
			Help: "Total number of offer broadcast attempts rejected or failed.",
		}),
	}
}

// Handler returns the gin engine serving /metrics.
func (m *Metrics) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))
	return router
}

// Run consumes kernel events until ctx is cancelled or events is closed,
// updating the collectors above.
func (m *Metrics) Run(ctx context.Context, events <-chan kernel.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			switch e.(type) {
			case kernel.PeerConnected:
				m.connectedPeers.Inc()
			case kernel.PeerDisconnected:
				m.connectedPeers.Dec()
			case kernel.OfferReceived:
				m.offersReceivedTotal.Inc()
			case kernel.OfferBroadcasted:
				m.offersBroadcastTotal.Inc()
			case kernel.OfferBroadcastFailed:
				m.offersBroadcastFailures.Inc()
			}
		}
	}
}
