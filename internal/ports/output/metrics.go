package output

import "time"

// MetricsCollector defines the secondary port for metrics collection.
type MetricsCollector interface {
	// IncDecodeCount increments the decode counter.
	IncDecodeCount(layoutID string, success bool)

	// ObserveDecodeDuration records decode duration.
	ObserveDecodeDuration(layoutID string, duration time.Duration)

	// IncCellQueryCount increments the cell query counter.
	IncCellQueryCount(layoutID string, success bool)

	// SetLayoutsLoaded sets the number of loaded layouts.
	SetLayoutsLoaded(count int)

	// SetLayoutsReady sets the number of ready layouts.
	SetLayoutsReady(count int)

	// IncStorageOperations increments storage operation counter.
	IncStorageOperations(operation string, success bool)

	// ObserveStorageDuration records storage operation duration.
	ObserveStorageDuration(operation string, duration time.Duration)
}

// NoOpMetrics is a no-op implementation of MetricsCollector.
type NoOpMetrics struct{}

// IncDecodeCount implements MetricsCollector.
func (n *NoOpMetrics) IncDecodeCount(_ string, _ bool) {}

// ObserveDecodeDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveDecodeDuration(_ string, _ time.Duration) {}

// IncCellQueryCount implements MetricsCollector.
func (n *NoOpMetrics) IncCellQueryCount(_ string, _ bool) {}

// SetLayoutsLoaded implements MetricsCollector.
func (n *NoOpMetrics) SetLayoutsLoaded(_ int) {}

// SetLayoutsReady implements MetricsCollector.
func (n *NoOpMetrics) SetLayoutsReady(_ int) {}

// IncStorageOperations implements MetricsCollector.
func (n *NoOpMetrics) IncStorageOperations(_ string, _ bool) {}

// ObserveStorageDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
