package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_ws_connections",
		Help: "Number of live websocket connections.",
	})

	announcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_announcements_total",
		Help: "Announcements dispatched, by kind.",
	}, []string{"kind"})

	sends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_announcement_sends_total",
		Help: "Successful per-connection announcement sends.",
	})

	sendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_announcement_send_failures_total",
		Help: "Announcement sends that hit a dead or closing connection.",
	})
)
