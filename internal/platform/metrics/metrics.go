package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// GraphRebuilds counts rebuild requests by outcome (built, skipped, failed).
	GraphRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_graph_rebuilds_total",
			Help: "Graph rebuild requests by outcome",
		},
		[]string{"outcome"},
	)

	// GraphNodes tracks the node count of the active generation.
	GraphNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "route_engine_graph_nodes",
			Help: "Number of nodes in the active graph generation",
		},
	)

	// GraphEdges tracks the directed edge count of the active generation.
	GraphEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "route_engine_graph_edges",
			Help: "Number of directed edges in the active graph generation",
		},
	)

	// GraphVersion exposes the version of the active generation.
	GraphVersion = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "route_engine_graph_version",
			Help: "Version number of the active graph generation",
		},
	)

	// PathCacheLookups counts path cache lookups by table (distances, paths) and result (hit, miss).
	PathCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_path_cache_lookups_total",
			Help: "Path cache lookups by table and result",
		},
		[]string{"table", "result"},
	)

	// TourPlanSeconds observes tour planning latency.
	TourPlanSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_engine_tour_plan_seconds",
			Help:    "Time spent planning a visiting tour",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// HTTPRequests counts API requests by route pattern and status code.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_engine_http_requests_total",
			Help: "HTTP requests by path and status",
		},
		[]string{"path", "status"},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(GraphRebuilds)
	prometheus.MustRegister(GraphNodes)
	prometheus.MustRegister(GraphEdges)
	prometheus.MustRegister(GraphVersion)
	prometheus.MustRegister(PathCacheLookups)
	prometheus.MustRegister(TourPlanSeconds)
	prometheus.MustRegister(HTTPRequests)
}
