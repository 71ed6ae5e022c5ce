package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор метрик сервиса
// Все методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	service string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	BookingsCreated       *prometheus.CounterVec
	BookingConflicts      *prometheus.CounterVec
	AvailabilityFallbacks *prometheus.CounterVec
	AppointmentsCancelled *prometheus.CounterVec
}

// New создает и регистрирует метрики в стандартном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		service: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),
		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of created appointments",
		}, []string{"service", "status"}),
		BookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Total number of rejected bookings because the slot was occupied",
		}, []string{"service", "stage"}),
		AvailabilityFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_fallback_total",
			Help: "Availability responses served as all-available because the store failed",
		}, []string{"service"}),
		AppointmentsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_cancelled_total",
			Help: "Total number of cancelled appointments",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.BookingsCreated,
		m.BookingConflicts,
		m.AvailabilityFallbacks,
		m.AppointmentsCancelled,
	)

	return m
}

// Service возвращает имя сервиса, которым помечаются метрики
func (m *Metrics) Service() string {
	if m == nil {
		return ""
	}
	return m.service
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues(m.service, "open").Set(float64(open))
	m.DBConnections.WithLabelValues(m.service, "in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues(m.service, "idle").Set(float64(idle))
}

// IncBookingCreated увеличивает счетчик созданных записей
func (m *Metrics) IncBookingCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(m.service, status).Inc()
}

// IncBookingConflict увеличивает счетчик конфликтов
// stage: lock, precheck, insert
func (m *Metrics) IncBookingConflict(stage string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(m.service, stage).Inc()
}

// IncAvailabilityFallback фиксирует деградированный ответ доступности
func (m *Metrics) IncAvailabilityFallback() {
	if m == nil {
		return
	}
	m.AvailabilityFallbacks.WithLabelValues(m.service).Inc()
}

// IncAppointmentCancelled увеличивает счетчик отмен
func (m *Metrics) IncAppointmentCancelled() {
	if m == nil {
		return
	}
	m.AppointmentsCancelled.WithLabelValues(m.service).Inc()
}
