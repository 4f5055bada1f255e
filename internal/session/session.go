// Package session drives the simulation's fixed-rate logic loop: a
// Clock-driven Ticker paces calls into Universe.Update, a sequenced
// CommandQueue feeds operator command-language lines into
// Universe.Controller at each tick boundary, and a bounded
// SnapshotManager backs a "rewind last N ticks" debug aid.
package session

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/voidreach/simcore/internal/observability"
	"github.com/voidreach/simcore/internal/universe"
)

// snapshotInterval is how many logic ticks elapse between automatic
// snapshot captures for the rewind debug aid.
const snapshotInterval = 30

// Session orchestrates the logic loop by combining a fixed-rate
// ticker, a sequenced command queue, and a Universe.
type Session struct {
	universe  *universe.Universe
	queue     *CommandQueue
	ticker    *Ticker
	clock     Clock
	snapshots *SnapshotManager
	running   bool
	logger    logr.Logger

	ticksSinceSnapshot int
}

// NewSession creates a Session driving universe at fps ticks per
// second against clock, with a command queue bounded at maxQueueSize
// and a rewind history bounded at rewindCapacity snapshots.
func NewSession(clock Clock, u *universe.Universe, fps, maxQueueSize, rewindCapacity int) *Session {
	return &Session{
		universe:  u,
		queue:     NewCommandQueue(maxQueueSize),
		ticker:    NewFixedRateTicker(clock, fps),
		clock:     clock,
		snapshots: NewSnapshotManager(rewindCapacity),
		running:   false,
	}
}

// SetLogger installs a logger used for slow-tick diagnostics. Optional;
// a zero logr.Logger silently discards these.
func (s *Session) SetLogger(logger logr.Logger) { s.logger = logger }

// EnqueueCommand adds a command-language line to the queue with the
// given sequence number. Returns false if the queue rejected it
// (stale sequence, duplicate, or full).
func (s *Session) EnqueueCommand(seq uint32, line string) bool {
	ok := s.queue.Enqueue(seq, line)
	observability.UpdateQueueDepth(s.queue.Size())
	return ok
}

// Universe returns the session's underlying universe.
func (s *Session) Universe() *universe.Universe { return s.universe }

// Snapshots returns the session's rewind history manager.
func (s *Session) Snapshots() *SnapshotManager { return s.snapshots }

// Rewind restores the universe to the nearest retained snapshot at or
// before targetTick.
func (s *Session) Rewind(targetTick float64) bool {
	return s.snapshots.Rewind(s.universe, targetTick)
}

// Run executes the logic loop for up to maxTicks fixed-rate
// iterations, based on elapsed clock time since the ticker's last
// tick. Each iteration dequeues and dispatches at most one command
// line, then calls Universe.Update to apply any due auto-simulation,
// periodically capturing a rewind snapshot.
func (s *Session) Run(maxTicks int) error {
	s.running = true
	defer func() { s.running = false }()

	now := s.clock.Now()
	elapsed := now.Sub(s.ticker.lastTick)

	totalTicksNeeded := int(elapsed / s.ticker.interval)
	if totalTicksNeeded == 0 && elapsed > 0 {
		totalTicksNeeded = 1
	}
	if totalTicksNeeded > maxTicks {
		totalTicksNeeded = maxTicks
	}

	for i := 0; i < totalTicksNeeded; i++ {
		tickStart := time.Now()

		s.ticker.lastTick = s.ticker.lastTick.Add(s.ticker.interval)

		if queued, ok := s.queue.Dequeue(); ok {
			if _, err := s.universe.Controller().ExecuteLine(queued.Line); err != nil {
				s.warn(queued.Line, err)
			}
		}
		observability.UpdateQueueDepth(s.queue.Size())

		s.universe.Update()

		s.ticksSinceSnapshot++
		if s.ticksSinceSnapshot >= snapshotInterval {
			s.snapshots.Capture(s.universe, s.clock)
			s.ticksSinceSnapshot = 0
		}

		tickDuration := time.Since(tickStart)
		if histogram := observability.GetTickDurationHistogram(); histogram != nil {
			histogram.Observe(tickDuration.Seconds())
		}

		const slowTickThreshold = 10 * time.Millisecond
		if tickDuration > slowTickThreshold && s.logger.Enabled() {
			s.logger.WithValues(
				"component", "session",
				"tick", s.universe.Tick(),
				"duration_ms", tickDuration.Seconds()*1000,
			).Info("Tick execution exceeded threshold")
		}
	}

	return nil
}

func (s *Session) warn(line string, err error) {
	if s.logger.Enabled() {
		s.logger.WithValues("component", "session", "line", line).Info("command dispatch failed", "error", err.Error())
	}
}

// IsRunning reports whether Run is currently executing.
func (s *Session) IsRunning() bool { return s.running }

// Stop marks the session as no longer running. Run itself still
// completes its current call; Stop only affects IsRunning's reported
// state for callers checking between Run invocations.
func (s *Session) Stop() { s.running = false }
