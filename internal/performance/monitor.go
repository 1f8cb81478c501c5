package performance

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// StageRecord holds the measured wall-clock duration of one pipeline stage
type StageRecord struct {
	Name     string
	Duration time.Duration
}

// StageTimer tracks timing for a single in-flight stage
type StageTimer struct {
	name  string
	start time.Time
}

// Monitor records how long each pipeline stage takes so a run can report
// where its time went.
type Monitor struct {
	logger *zap.Logger
	mu     sync.Mutex
	stages []StageRecord
}

// NewMonitor creates a new performance monitor
func NewMonitor(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		logger: logger,
	}
}

// StartStage begins timing a named pipeline stage
func (m *Monitor) StartStage(name string) *StageTimer {
	return &StageTimer{
		name:  name,
		start: time.Now(),
	}
}

// EndStage completes timing and records the stage duration
func (m *Monitor) EndStage(timer *StageTimer) {
	record := StageRecord{
		Name:     timer.name,
		Duration: time.Since(timer.start),
	}

	m.mu.Lock()
	m.stages = append(m.stages, record)
	m.mu.Unlock()

	m.logger.Debug("pipeline stage completed",
		zap.String("stage", record.Name),
		zap.Duration("duration", record.Duration))
}

// Stages returns a copy of the recorded stage durations, in completion order
func (m *Monitor) Stages() []StageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StageRecord(nil), m.stages...)
}

// LogSummary logs one line per recorded stage plus the total
func (m *Monitor) LogSummary() {
	var total time.Duration
	for _, record := range m.Stages() {
		total += record.Duration
		m.logger.Info("stage timing",
			zap.String("stage", record.Name),
			zap.Duration("duration", record.Duration))
	}
	m.logger.Info("pipeline timing summary", zap.Duration("total", total))
}
