package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks the owner loop: queued tasks, render ticks and theme
// reloads. Frame composition counters live in renderer.Stats.
type Metrics struct {
	// Tasks
	taskCount   atomic.Uint64
	taskErrors  atomic.Uint64
	taskPanics  atomic.Uint64
	taskTotalNs atomic.Int64

	// Render ticks
	tickCount    atomic.Uint64
	renderCount  atomic.Uint64
	renderErrors atomic.Uint64
	renderMaxNs  atomic.Int64

	// Theme
	themeReloads      atomic.Uint64
	themeReloadErrors atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordTask records one executed task.
func (m *Metrics) RecordTask(duration time.Duration, err error) {
	m.taskCount.Add(1)
	m.taskTotalNs.Add(duration.Nanoseconds())
	if err != nil {
		m.taskErrors.Add(1)
	}
}

// RecordPanic records a task that panicked.
func (m *Metrics) RecordPanic() {
	m.taskPanics.Add(1)
}

// RecordTick records a render tick. rendered reports whether a frame was
// produced.
func (m *Metrics) RecordTick(duration time.Duration, rendered bool, err error) {
	m.tickCount.Add(1)
	if err != nil {
		m.renderErrors.Add(1)
		return
	}
	if !rendered {
		return
	}
	m.renderCount.Add(1)

	ns := duration.Nanoseconds()
	for {
		old := m.renderMaxNs.Load()
		if ns <= old {
			break
		}
		if m.renderMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordThemeReload records a theme file reload attempt.
func (m *Metrics) RecordThemeReload(err error) {
	if err != nil {
		m.themeReloadErrors.Add(1)
		return
	}
	m.themeReloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	taskCount := m.taskCount.Load()

	var avgTaskNs int64
	if taskCount > 0 {
		avgTaskNs = m.taskTotalNs.Load() / int64(taskCount)
	}

	return MetricsSnapshot{
		Uptime:            time.Since(m.startTime),
		TaskCount:         taskCount,
		TaskErrors:        m.taskErrors.Load(),
		TaskPanics:        m.taskPanics.Load(),
		AvgTaskNs:         avgTaskNs,
		TickCount:         m.tickCount.Load(),
		RenderCount:       m.renderCount.Load(),
		RenderErrors:      m.renderErrors.Load(),
		MaxRenderNs:       m.renderMaxNs.Load(),
		ThemeReloads:      m.themeReloads.Load(),
		ThemeReloadErrors: m.themeReloadErrors.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime            time.Duration
	TaskCount         uint64
	TaskErrors        uint64
	TaskPanics        uint64
	AvgTaskNs         int64
	TickCount         uint64
	RenderCount       uint64
	RenderErrors      uint64
	MaxRenderNs       int64
	ThemeReloads      uint64
	ThemeReloadErrors uint64
}

// IdleRate returns the percentage of ticks that produced no frame.
func (s MetricsSnapshot) IdleRate() float64 {
	if s.TickCount == 0 {
		return 0
	}
	idle := s.TickCount - s.RenderCount - s.RenderErrors
	return float64(idle) / float64(s.TickCount) * 100
}
