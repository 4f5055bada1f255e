package session

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/voidreach/simcore/internal/physics"
)

func TestRollback(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Snapshot Rollback Suite")
}

// fakeSource is a minimal snapshotSource double tracking a tick
// through an engine-shaped map, so tests don't need a whole Universe.
type fakeSource struct {
	tick float64
}

func (f *fakeSource) Tick() float64 { return f.tick }

func (f *fakeSource) EngineSnapshot() map[string]physics.StatTable {
	return map[string]physics.StatTable{"position": {}}
}

func (f *fakeSource) Restore(tick float64, stats map[string]physics.StatTable) {
	f.tick = tick
}

var _ = Describe("SnapshotManager", Label("scope:unit", "layer:session"), func() {
	It("retains captured snapshots up to capacity, dropping the oldest", func() {
		sm := NewSnapshotManager(2)
		clock := NewFakeClock()
		sm.Capture(&fakeSource{tick: 1}, clock)
		sm.Capture(&fakeSource{tick: 2}, clock)
		sm.Capture(&fakeSource{tick: 3}, clock)

		Expect(sm.Len()).To(Equal(2))
		_, ok := sm.Nearest(1)
		Expect(ok).To(BeFalse())
	})

	It("finds the nearest snapshot at or before a target tick", func() {
		sm := NewSnapshotManager(10)
		clock := NewFakeClock()
		for _, tick := range []float64{1, 5, 10} {
			sm.Capture(&fakeSource{tick: tick}, clock)
		}

		snap, ok := sm.Nearest(7)
		Expect(ok).To(BeTrue())
		Expect(snap.Tick).To(Equal(5.0))
	})

	It("rewinds a source to the nearest retained snapshot", func() {
		sm := NewSnapshotManager(10)
		clock := NewFakeClock()
		sm.Capture(&fakeSource{tick: 1}, clock)
		src := &fakeSource{tick: 20}

		Expect(sm.Rewind(src, 1)).To(BeTrue())
		Expect(src.tick).To(Equal(1.0))
	})

	It("reports no rewind possible with nothing retained before the target", func() {
		sm := NewSnapshotManager(10)
		src := &fakeSource{tick: 5}
		Expect(sm.Rewind(src, 1)).To(BeFalse())
	})

	It("clear discards every retained snapshot", func() {
		sm := NewSnapshotManager(10)
		clock := NewFakeClock()
		sm.Capture(&fakeSource{tick: 1}, clock)
		sm.Clear()
		Expect(sm.Len()).To(Equal(0))
	})
})
