package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WalletConnections tracks wallet connection attempts by result
	WalletConnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memeforge_wallet_connections_total",
			Help: "The total number of wallet connection attempts",
		},
		[]string{"wallet", "result"}, // connected, failed, superseded
	)

	// SessionStatus tracks the wallet session status (0 = disconnected, 1 = connecting, 2 = connected)
	SessionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memeforge_wallet_session_status",
		Help: "Current wallet session status (0 = disconnected, 1 = connecting, 2 = connected)",
	})

	// TaskQueueLength tracks the number of tasks waiting in the queue
	TaskQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memeforge_task_queue_length",
		Help: "The number of tasks currently in the queue",
	})

	// WorkersActive tracks the number of active workers
	WorkersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memeforge_workers_active",
		Help: "The number of workers currently active",
	})

	// TasksTotal tracks finished tasks by kind and final status
	TasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memeforge_tasks_total",
			Help: "The total number of tasks that reached a final status",
		},
		[]string{"kind", "status"},
	)

	// TaskDuration tracks how long workers spend on tasks
	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "memeforge_task_duration_seconds",
			Help:    "Time taken by workers to complete tasks",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// HTTPRequests tracks handled HTTP requests by route and status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memeforge_http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	// RPCRequestsTotal tracks RPC requests by status
	RPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memeforge_rpc_requests_total",
			Help: "The total number of RPC requests",
		},
		[]string{"status"},
	)

	// RPCEndpointHealth tracks RPC endpoint health
	RPCEndpointHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "memeforge_rpc_endpoint_health",
			Help: "Health status of RPC endpoints (1 = healthy, 0 = unhealthy)",
		},
		[]string{"endpoint"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memeforge_database_operations_total",
			Help: "The total number of database operations",
		},
		[]string{"operation", "status"},
	)
)

// RecordWalletConnection records the outcome of a wallet connection attempt
func RecordWalletConnection(wallet, result string) {
	WalletConnections.WithLabelValues(wallet, result).Inc()
}

// SetSessionStatus publishes the numeric session status
func SetSessionStatus(value float64) {
	SessionStatus.Set(value)
}

// RecordTask records a finished task and its duration
func RecordTask(kind, status string, duration float64) {
	TasksTotal.WithLabelValues(kind, status).Inc()
	TaskDuration.WithLabelValues(kind).Observe(duration)
}

// RecordHTTPRequest records a handled HTTP request
func RecordHTTPRequest(route, code string) {
	HTTPRequests.WithLabelValues(route, code).Inc()
}

// RecordRPCRequest records an RPC request with the given status
func RecordRPCRequest(status string) {
	RPCRequestsTotal.WithLabelValues(status).Inc()
}

// SetRPCEndpointHealth sets the health status of an RPC endpoint
func SetRPCEndpointHealth(endpoint string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	RPCEndpointHealth.WithLabelValues(endpoint).Set(value)
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string) {
	DatabaseOperations.WithLabelValues(operation, status).Inc()
}
