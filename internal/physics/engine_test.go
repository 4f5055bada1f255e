package physics

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/voidreach/simcore/internal/vec3"
)

func TestPhysics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Physics Suite")
}

var _ = Describe("Engine", Label("scope:unit", "layer:physics"), func() {
	It("grows stat tables with AddObjects and starts them at zero", func() {
		e := NewEngine("position")
		idx := e.AddObjects(2)
		Expect(idx).To(Equal(0))
		Expect(e.ObjectCount()).To(Equal(2))
		Expect(e.GetStat("position")).To(Equal([]vec3.Vec3{vec3.Zero(), vec3.Zero()}))
	})

	It("applies the first derivative to value before the second to the first", func() {
		e := NewEngine("position")
		e.AddObjects(1)
		e.GetDerivative("position")[0] = vec3.New(1, 0, 0)
		e.GetDerivativeSecond("position")[0] = vec3.New(0, 2, 0)

		e.Tick(1.0)

		// Position must advance using the velocity from BEFORE this tick,
		// not a velocity already bumped by acceleration this same step.
		Expect(e.GetStat("position")[0]).To(Equal(vec3.New(1, 0, 0)))
		Expect(e.GetDerivative("position")[0]).To(Equal(vec3.New(1, 2, 0)))
	})

	It("advances value by derivative*dt and derivative by second*dt over two ticks", func() {
		e := NewEngine("position")
		e.AddObjects(1)
		e.GetDerivativeSecond("position")[0] = vec3.New(1, 0, 0)

		e.Tick(1.0)
		Expect(e.GetStat("position")[0]).To(Equal(vec3.Zero()))
		Expect(e.GetDerivative("position")[0]).To(Equal(vec3.New(1, 0, 0)))

		e.Tick(1.0)
		Expect(e.GetStat("position")[0]).To(Equal(vec3.New(1, 0, 0)))
		Expect(e.GetDerivative("position")[0]).To(Equal(vec3.New(2, 0, 0)))
	})

	It("keeps independent stat tables in lockstep object counts", func() {
		e := NewEngine("position", "orientation")
		e.AddObjects(3)
		Expect(e.GetStat("position")).To(HaveLen(3))
		Expect(e.GetStat("orientation")).To(HaveLen(3))
	})

	It("appends new objects without disturbing existing ones", func() {
		e := NewEngine("position")
		e.AddObjects(1)
		e.GetStat("position")[0] = vec3.New(5, 5, 5)
		second := e.AddObjects(1)
		Expect(second).To(Equal(1))
		Expect(e.GetStat("position")[0]).To(Equal(vec3.New(5, 5, 5)))
		Expect(e.GetStat("position")[1]).To(Equal(vec3.Zero()))
	})
})
