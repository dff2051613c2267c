package observability

import (
	"time"
)

// MetricsHooks feeds transaction write events into the metrics registry.
// Safe with a nil registry (metrics disabled).
type MetricsHooks struct {
	m *Metrics
}

func NewMetricsHooks(m *Metrics) *MetricsHooks {
	return &MetricsHooks{m: m}
}

func (h *MetricsHooks) ObserveWrite(op, status string, dur time.Duration) {
	if h == nil {
		return
	}
	h.m.ObserveWriteOp(op, status, dur)
}

func (h *MetricsHooks) IncUnderflowClamp(op string) {
	if h == nil {
		return
	}
	h.m.IncUnderflowClamp(op)
}

func (h *MetricsHooks) AddAuditRows(n int) {
	if h == nil {
		return
	}
	h.m.AddAuditRows(n)
}

func (h *MetricsHooks) IncNotification(channel string) {
	if h == nil {
		return
	}
	h.m.IncNotification(channel)
}
