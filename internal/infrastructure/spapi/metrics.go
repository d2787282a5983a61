package spapi

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokenExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spapi_token_exchanges_total",
		Help: "LWA token exchanges by grant type and outcome.",
	}, []string{"grant", "outcome"})

	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spapi_requests_total",
		Help: "SP-API requests by method and response status.",
	}, []string{"method", "status"})

	apiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spapi_request_duration_seconds",
		Help:    "SP-API request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

func observeExchange(grant Grant, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	tokenExchanges.WithLabelValues(string(grant), outcome).Inc()
}

func observeRequest(method string, status int) {
	apiRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
