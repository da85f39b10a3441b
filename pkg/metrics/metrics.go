package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smc"

// Результаты синхронизации ёмкости
const (
	SyncResultOK     = "ok"
	SyncResultFailed = "failed"
)

// Metrics набор Prometheus метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	slotsCreated       prometheus.Counter
	slotsSkipped       prometheus.Counter
	generationWarnings *prometheus.CounterVec
	capacitySyncs      *prometheus.CounterVec
	shiftsCompleted    prometheus.Counter
	slotsExpired       prometheus.Counter
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики и регистрирует их в reg
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		serviceName: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Database call latency by operation.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_errors_total",
			Help:        "Database call errors by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "connections",
			Help:        "Connection pool state (open, in_use, idle).",
			ConstLabels: constLabels,
		}, []string{"state"}),
		slotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "scheduler",
			Name:        "slots_created_total",
			Help:        "Slots inserted by the slot generator.",
			ConstLabels: constLabels,
		}),
		slotsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "scheduler",
			Name:        "slots_skipped_total",
			Help:        "Slot candidates discarded as duplicates.",
			ConstLabels: constLabels,
		}),
		generationWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "scheduler",
			Name:        "generation_warnings_total",
			Help:        "Center/date pairs skipped during slot generation by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		capacitySyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "scheduler",
			Name:        "capacity_syncs_total",
			Help:        "Capacity synchronizations by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		shiftsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "scheduler",
			Name:        "shifts_completed_total",
			Help:        "Shifts moved to completed by the lifecycle sweep.",
			ConstLabels: constLabels,
		}),
		slotsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "scheduler",
			Name:        "slots_expired_total",
			Help:        "Slots moved to expired by the lifecycle sweep.",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.slotsCreated,
		m.slotsSkipped,
		m.generationWarnings,
		m.capacitySyncs,
		m.shiftsCompleted,
		m.slotsExpired,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует обращение к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// SlotsGenerated фиксирует результат генерации слотов
func (m *Metrics) SlotsGenerated(created, skipped int) {
	if m == nil {
		return
	}
	m.slotsCreated.Add(float64(created))
	m.slotsSkipped.Add(float64(skipped))
}

// GenerationWarning фиксирует пропущенную при генерации пару (центр, дата)
func (m *Metrics) GenerationWarning(reason string) {
	if m == nil {
		return
	}
	m.generationWarnings.WithLabelValues(reason).Inc()
}

// CapacitySynced фиксирует результат синхронизации ёмкости
func (m *Metrics) CapacitySynced(result string) {
	if m == nil {
		return
	}
	m.capacitySyncs.WithLabelValues(result).Inc()
}

// ShiftsCompleted фиксирует количество завершённых смен
func (m *Metrics) ShiftsCompleted(n int) {
	if m == nil {
		return
	}
	m.shiftsCompleted.Add(float64(n))
}

// SlotsExpired фиксирует количество истёкших слотов
func (m *Metrics) SlotsExpired(n int) {
	if m == nil {
		return
	}
	m.slotsExpired.Add(float64(n))
}
