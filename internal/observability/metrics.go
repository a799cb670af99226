package observability

import (
	"strconv"
	"sync"
	"time"

	"payflow/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	stageDuration         *prometheus.HistogramVec
	stageOutcomeCounter   *prometheus.CounterVec
	sagaResultCounter     *prometheus.CounterVec
	idempotencyCounter    *prometheus.CounterVec
	breakerStateGauge     *prometheus.GaugeVec
	poolAvailableGauge    *prometheus.GaugeVec
	poolReservedGauge     *prometheus.GaugeVec
	reservationCounter    *prometheus.CounterVec
	dlqCaptureCounter     *prometheus.CounterVec
	rebalanceCounter      *prometheus.CounterVec
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors with the default registry.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payflow_saga_stage_duration_seconds",
			Help:    "Latency of each saga stage attempt",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"})

		stageOutcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payflow_saga_stage_outcomes_total",
			Help: "Saga stage outcomes",
		}, []string{"stage", "outcome"})

		sagaResultCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payflow_saga_results_total",
			Help: "Final status reached by sagas",
		}, []string{"status"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payflow_idempotency_events_total",
			Help: "Idempotency lock outcomes",
		}, []string{"outcome"})

		breakerStateGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "payflow_circuit_breaker_state",
			Help: "Circuit breaker state per dependency (0 closed, 1 half-open, 2 open)",
		}, []string{"dependency"})

		poolAvailableGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "payflow_pool_available",
			Help: "Available liquidity per pool",
		}, []string{"pool"})

		poolReservedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "payflow_pool_reserved",
			Help: "Reserved liquidity per pool",
		}, []string{"pool"})

		reservationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payflow_reservation_events_total",
			Help: "Liquidity reservation lifecycle events",
		}, []string{"event"})

		dlqCaptureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payflow_dlq_captures_total",
			Help: "Tasks captured to the dead letter queue",
		}, []string{"task_type"})

		rebalanceCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payflow_rebalance_actions_total",
			Help: "Rebalance recommendations and their execution result",
		}, []string{"action", "result"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			stageDuration,
			stageOutcomeCounter,
			sagaResultCounter,
			idempotencyCounter,
			breakerStateGauge,
			poolAvailableGauge,
			poolReservedGauge,
			reservationCounter,
			dlqCaptureCounter,
			rebalanceCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func ObserveStage(stage domain.SagaStage, outcome domain.StageOutcome, duration time.Duration) {
	if stageDuration == nil {
		return
	}
	stageDuration.WithLabelValues(string(stage)).Observe(duration.Seconds())
	stageOutcomeCounter.WithLabelValues(string(stage), string(outcome)).Inc()
}

func IncrementSagaResult(status domain.PaymentStatus) {
	if sagaResultCounter == nil {
		return
	}
	sagaResultCounter.WithLabelValues(string(status)).Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func SetBreakerState(dependency string, state domain.BreakerState) {
	if breakerStateGauge == nil {
		return
	}
	v := 0.0
	switch state {
	case domain.BreakerHalfOpen:
		v = 1
	case domain.BreakerOpen:
		v = 2
	}
	breakerStateGauge.WithLabelValues(dependency).Set(v)
}

func SetPoolBalances(pool *domain.LiquidityPool) {
	if poolAvailableGauge == nil || pool == nil {
		return
	}
	available, _ := pool.Available.Float64()
	reserved, _ := pool.Reserved.Float64()
	poolAvailableGauge.WithLabelValues(pool.ID).Set(available)
	poolReservedGauge.WithLabelValues(pool.ID).Set(reserved)
}

func IncrementReservationEvent(event string) {
	if reservationCounter == nil {
		return
	}
	reservationCounter.WithLabelValues(event).Inc()
}

func IncrementDLQCapture(taskType string) {
	if dlqCaptureCounter == nil {
		return
	}
	dlqCaptureCounter.WithLabelValues(taskType).Inc()
}

func IncrementRebalance(action domain.RebalanceActionType, result string) {
	if rebalanceCounter == nil {
		return
	}
	rebalanceCounter.WithLabelValues(string(action), result).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
