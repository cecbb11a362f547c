// Package metrics exposes prometheus collectors for content mutations.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ContentMutations counts committed content store mutations by operation.
	ContentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_content_mutations_total",
		Help: "Total number of committed content mutations by operation",
	}, []string{"operation"})

	// GateRejections counts requests the authorization gate refused, by reason.
	GateRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_gate_rejections_total",
		Help: "Total number of requests rejected by the authorization gate",
	}, []string{"operation", "reason"})

	// PostViews counts recorded post views.
	PostViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postboard_post_views_total",
		Help: "Total number of recorded post views",
	})
)

// Handler serves the default registry in the prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
