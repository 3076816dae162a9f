package util

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// TimerState collects the durations of one named section across ticks.
type TimerState struct {
	name         string
	lastDuration float64

	totalDuration  float64
	executionCount int64

	minDuration float64
	maxDuration float64
}

func (t *TimerState) AverageDuration() float64 {
	if t.executionCount == 0 {
		return 0
	}
	return t.totalDuration / float64(t.executionCount)
}

func (t *TimerState) Count() int64 {
	return t.executionCount
}

func (t *TimerState) String() string {
	return fmt.Sprintf("%s last: %.3fms, avg: %.3fms, min: %.3fms, max: %.3fms", t.name, t.lastDuration, t.AverageDuration(), t.minDuration, t.maxDuration)
}

func (t *TimerState) Fields() []zap.Field {
	return []zap.Field{
		zap.String("section", t.name),
		zap.Int64("count", t.executionCount),
		zap.Float64("avg_ms", t.AverageDuration()),
		zap.Float64("min_ms", t.minDuration),
		zap.Float64("max_ms", t.maxDuration),
	}
}

func (t *TimerState) record(durationInMS float64) {
	t.lastDuration = durationInMS
	t.totalDuration += durationInMS
	t.executionCount++
	if durationInMS < t.minDuration {
		t.minDuration = durationInMS
	}
	if durationInMS > t.maxDuration {
		t.maxDuration = durationInMS
	}
}

// Timer measures named sections of the simulation tick.
type Timer struct {
	states     map[string]*TimerState
	timerNames []string
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
	}
}

func (t *Timer) GetState(name string) *TimerState {
	return t.states[name]
}

func (t *Timer) Names() []string {
	return t.timerNames
}

// Start begins a measurement. Calling the returned func ends it and returns the duration in ms.
func (t *Timer) Start(name string) func() float64 {
	state, ok := t.states[name]
	if !ok {
		t.timerNames = append(t.timerNames, name)
		state = &TimerState{
			name:        name,
			minDuration: math.MaxFloat64,
			maxDuration: 0,
		}
		t.states[name] = state
	}
	start := time.Now()
	return func() float64 {
		durationInMS := float64(time.Since(start).Microseconds()) / 1000.0
		state.record(durationInMS)
		return durationInMS
	}
}

// Report logs every section once.
func (t *Timer) Report() {
	for _, name := range t.timerNames {
		LogSystemInfo("tick timing", t.states[name].Fields()...)
	}
}
