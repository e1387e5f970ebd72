package infra

import (
	"sync/atomic"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	launchesAccepted atomic.Uint64
	launchesRejected atomic.Uint64
	stagesDispatched atomic.Uint64
	stageErrors      atomic.Uint64
	feesWithdrawn    atomic.Uint64

	// Gauges
	pendingWorkflows atomic.Int64
	monitorConnected atomic.Int32 // 1 = connected, 0 = not
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordLaunchAccepted records a launch that passed the synchronous path.
func (m *Metrics) RecordLaunchAccepted() {
	m.launchesAccepted.Add(1)
}

// RecordLaunchRejected records a launch that failed before dispatch.
func (m *Metrics) RecordLaunchRejected() {
	m.launchesRejected.Add(1)
}

// RecordStageDispatched records one workflow stage handed to the ledger.
func (m *Metrics) RecordStageDispatched() {
	m.stagesDispatched.Add(1)
}

// RecordStageError records a failed stage submission. Stage failures are
// permanent and only counted, never retried.
func (m *Metrics) RecordStageError() {
	m.stageErrors.Add(1)
}

// RecordFeesWithdrawn records one fee withdrawal.
func (m *Metrics) RecordFeesWithdrawn() {
	m.feesWithdrawn.Add(1)
}

// AddPendingWorkflows adjusts the queued-workflow gauge.
func (m *Metrics) AddPendingWorkflows(delta int64) {
	m.pendingWorkflows.Add(delta)
}

// SetMonitorConnected sets the exchange monitor connection gauge.
func (m *Metrics) SetMonitorConnected(connected bool) {
	if connected {
		m.monitorConnected.Store(1)
	} else {
		m.monitorConnected.Store(0)
	}
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"launches_accepted": int64(m.launchesAccepted.Load()),
		"launches_rejected": int64(m.launchesRejected.Load()),
		"stages_dispatched": int64(m.stagesDispatched.Load()),
		"stage_errors":      int64(m.stageErrors.Load()),
		"fees_withdrawn":    int64(m.feesWithdrawn.Load()),
		"pending_workflows": m.pendingWorkflows.Load(),
		"monitor_connected": int64(m.monitorConnected.Load()),
	}
}
