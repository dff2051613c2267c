package aggregates

import (
	"time"
)

// Hooks captures write-path observability events.
type Hooks interface {
	ObserveWrite(op, status string, dur time.Duration)
	IncUnderflowClamp(op string)
	AddAuditRows(n int)
	IncNotification(channel string)
}

type NoopHooks struct{}

func (NoopHooks) ObserveWrite(string, string, time.Duration) {}
func (NoopHooks) IncUnderflowClamp(string)                   {}
func (NoopHooks) AddAuditRows(int)                           {}
func (NoopHooks) IncNotification(string)                     {}
