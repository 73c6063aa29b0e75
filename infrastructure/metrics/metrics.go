package metrics

import (
	"context"
	"sync"

	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Manager registers and drives the application's instruments. All methods are
// safe for concurrent use; unknown instrument names are logged and dropped.
type Manager interface {
	NewCounter(name, description string)
	NewUpDownCounter(name, description string)
	NewGauge(name, description string)
	NewHistogram(name, description string, buckets ...float64)

	IncCounter(name string, attrs ...attribute.KeyValue)
	AddUpDownCounter(name string, delta int64, attrs ...attribute.KeyValue)
	SetGauge(name string, value float64, attrs ...attribute.KeyValue)
	ObserveHistogram(name string, value float64, attrs ...attribute.KeyValue)
}

type metricsManager struct {
	meter  metric.Meter
	logger *logger.Logger

	mu             sync.RWMutex
	counters       map[string]metric.Int64Counter
	upDownCounters map[string]metric.Int64UpDownCounter
	gauges         map[string]metric.Float64Gauge
	histograms     map[string]metric.Float64Histogram
}

func NewMetricsManager(meter metric.Meter, logger *logger.Logger) Manager {
	return &metricsManager{
		meter:          meter,
		logger:         logger,
		counters:       make(map[string]metric.Int64Counter),
		upDownCounters: make(map[string]metric.Int64UpDownCounter),
		gauges:         make(map[string]metric.Float64Gauge),
		histograms:     make(map[string]metric.Float64Histogram),
	}
}

func (m *metricsManager) NewCounter(name, description string) {
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		m.logger.Error("failed to register counter", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] = counter
}

func (m *metricsManager) NewUpDownCounter(name, description string) {
	counter, err := m.meter.Int64UpDownCounter(name, metric.WithDescription(description))
	if err != nil {
		m.logger.Error("failed to register up-down counter", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.upDownCounters[name] = counter
}

func (m *metricsManager) NewGauge(name, description string) {
	gauge, err := m.meter.Float64Gauge(name, metric.WithDescription(description))
	if err != nil {
		m.logger.Error("failed to register gauge", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = gauge
}

func (m *metricsManager) NewHistogram(name, description string, buckets ...float64) {
	histogram, err := m.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		m.logger.Error("failed to register histogram", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[name] = histogram
}

func (m *metricsManager) IncCounter(name string, attrs ...attribute.KeyValue) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()

	if !ok {
		m.logger.Warn("unknown counter", zap.String("name", name))
		return
	}

	counter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func (m *metricsManager) AddUpDownCounter(name string, delta int64, attrs ...attribute.KeyValue) {
	m.mu.RLock()
	counter, ok := m.upDownCounters[name]
	m.mu.RUnlock()

	if !ok {
		m.logger.Warn("unknown up-down counter", zap.String("name", name))
		return
	}

	counter.Add(context.Background(), delta, metric.WithAttributes(attrs...))
}

func (m *metricsManager) SetGauge(name string, value float64, attrs ...attribute.KeyValue) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()

	if !ok {
		m.logger.Warn("unknown gauge", zap.String("name", name))
		return
	}

	gauge.Record(context.Background(), value, metric.WithAttributes(attrs...))
}

func (m *metricsManager) ObserveHistogram(name string, value float64, attrs ...attribute.KeyValue) {
	m.mu.RLock()
	histogram, ok := m.histograms[name]
	m.mu.RUnlock()

	if !ok {
		m.logger.Warn("unknown histogram", zap.String("name", name))
		return
	}

	histogram.Record(context.Background(), value, metric.WithAttributes(attrs...))
}
