package session

import (
	"time"

	"github.com/voidreach/simcore/internal/physics"
)

// snapshotSource is the slice of Universe that SnapshotManager needs:
// capturing and restoring engine state and the simulated tick.
type snapshotSource interface {
	Tick() float64
	EngineSnapshot() map[string]physics.StatTable
	Restore(tick float64, stats map[string]physics.StatTable)
}

// Snapshot is one captured point of engine state, keyed by the
// simulated tick it was taken at.
type Snapshot struct {
	Tick  float64
	Stats map[string]physics.StatTable
	Time  time.Time
}

// SnapshotManager retains a bounded history of engine snapshots,
// oldest dropped first, backing the "rewind last N ticks" debug aid
// (sim.rewind). Unlike the teacher's rollback manager, which restores
// state for client-side prediction reconciliation, this one only ever
// serves an operator's own debug command and never crosses a process
// boundary.
type SnapshotManager struct {
	history  []*Snapshot
	capacity int
}

// NewSnapshotManager returns a manager retaining up to capacity
// snapshots.
func NewSnapshotManager(capacity int) *SnapshotManager {
	if capacity <= 0 {
		capacity = 1
	}
	return &SnapshotManager{capacity: capacity}
}

// Capture records the source's current tick and engine state, dropping
// the oldest retained snapshot if at capacity.
func (sm *SnapshotManager) Capture(source snapshotSource, clock Clock) *Snapshot {
	snap := &Snapshot{
		Tick:  source.Tick(),
		Stats: source.EngineSnapshot(),
		Time:  clock.Now(),
	}
	sm.history = append(sm.history, snap)
	if len(sm.history) > sm.capacity {
		sm.history = sm.history[len(sm.history)-sm.capacity:]
	}
	return snap
}

// Nearest returns the most recent retained snapshot at or before
// targetTick.
func (sm *SnapshotManager) Nearest(targetTick float64) (*Snapshot, bool) {
	var best *Snapshot
	for _, snap := range sm.history {
		if snap.Tick <= targetTick && (best == nil || snap.Tick > best.Tick) {
			best = snap
		}
	}
	return best, best != nil
}

// Rewind restores source to the most recent snapshot at or before
// targetTick. Returns false if no such snapshot is retained.
func (sm *SnapshotManager) Rewind(source snapshotSource, targetTick float64) bool {
	snap, ok := sm.Nearest(targetTick)
	if !ok {
		return false
	}
	source.Restore(snap.Tick, snap.Stats)
	return true
}

// Len returns the number of snapshots currently retained.
func (sm *SnapshotManager) Len() int { return len(sm.history) }

// Clear discards every retained snapshot.
func (sm *SnapshotManager) Clear() { sm.history = nil }
