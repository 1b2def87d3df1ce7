package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_lifecycle_transitions_total",
		Help: "Borrowing lifecycle operations by event and outcome.",
	}, []string{"event", "outcome"})

	finesCharged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_fines_charged_total",
		Help: "Total fine amount charged on returns, in currency units.",
	})
)

// ObserveTransition records one lifecycle operation attempt.
func ObserveTransition(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	transitions.WithLabelValues(event, outcome).Inc()
}

// ObserveFine records the fine charged by a completed return.
func ObserveFine(amount int64) {
	if amount > 0 {
		finesCharged.Add(float64(amount))
	}
}

// Handler exposes the Prometheus registry as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) { h.ServeHTTP(c.Writer, c.Request) }
}
