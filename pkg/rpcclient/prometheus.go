package rpcclient

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var rpcCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Help:      "Number of successfully dispatched RPC calls per method",
		Name:      "rpc_calls_total",
		Namespace: "solana",
	},
	[]string{"method"},
)

func incCallCounter(method string) {
	rpcCalls.WithLabelValues(method).Inc()
}

func init() {
	prometheus.MustRegister(
		rpcCalls,
	)
}
