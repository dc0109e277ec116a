package jsonschema

import (
	"sync/atomic"
	"time"
)

// Metrics tracks compile and validation counters using lock-free atomics.
// All methods are safe for concurrent use.
type Metrics struct {
	compilesTotal    atomic.Uint64
	compileFailures  atomic.Uint64
	nodesCompiled    atomic.Uint64
	compileTimeTotal atomic.Uint64

	validationsTotal atomic.Uint64
	validationsValid atomic.Uint64

	// Validation timing, nanoseconds.
	validationTimeTotal atomic.Uint64
	validationTimeMin   atomic.Uint64
	validationTimeMax   atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// First recorded value becomes the minimum.
	m.validationTimeMin.Store(^uint64(0))
	return m
}

// RecordCompile records a compile call and the number of nodes it staged.
func (m *Metrics) RecordCompile(d time.Duration, nodes int, ok bool) {
	m.compilesTotal.Add(1)
	m.compileTimeTotal.Add(uint64(d.Nanoseconds()))
	if !ok {
		m.compileFailures.Add(1)
		return
	}
	m.nodesCompiled.Add(uint64(nodes))
}

// RecordValidation records a completed validation.
func (m *Metrics) RecordValidation(d time.Duration, valid bool) {
	m.validationsTotal.Add(1)
	if valid {
		m.validationsValid.Add(1)
	}
	ns := uint64(d.Nanoseconds())
	m.validationTimeTotal.Add(ns)
	for {
		min := m.validationTimeMin.Load()
		if ns >= min || m.validationTimeMin.CompareAndSwap(min, ns) {
			break
		}
	}
	for {
		max := m.validationTimeMax.Load()
		if ns <= max || m.validationTimeMax.CompareAndSwap(max, ns) {
			break
		}
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	CompilesTotal    uint64
	CompileFailures  uint64
	NodesCompiled    uint64
	CompileTimeTotal time.Duration

	ValidationsTotal uint64
	ValidationsValid uint64

	ValidationTimeTotal time.Duration
	ValidationTimeMin   time.Duration
	ValidationTimeMax   time.Duration
}

// Snapshot returns a consistent-enough copy of the current counters.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		CompilesTotal:       m.compilesTotal.Load(),
		CompileFailures:     m.compileFailures.Load(),
		NodesCompiled:       m.nodesCompiled.Load(),
		CompileTimeTotal:    time.Duration(m.compileTimeTotal.Load()),
		ValidationsTotal:    m.validationsTotal.Load(),
		ValidationsValid:    m.validationsValid.Load(),
		ValidationTimeTotal: time.Duration(m.validationTimeTotal.Load()),
		ValidationTimeMax:   time.Duration(m.validationTimeMax.Load()),
	}
	if min := m.validationTimeMin.Load(); min != ^uint64(0) {
		s.ValidationTimeMin = time.Duration(min)
	}
	return s
}
