package camera

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/voidreach/simcore/internal/vec3"
)

func TestCamera(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Camera Suite")
}

var _ = Describe("Camera", Label("scope:unit", "layer:camera"), func() {
	It("starts at the origin with identity rotation and zoom 1", func() {
		c := New()
		Expect(c.Position).To(Equal(vec3.Zero()))
		Expect(c.Zoom()).To(Equal(1.0))
		forward, _, _ := c.CurrentAxes()
		Expect(forward.Equal(vec3.New(1, 0, 0))).To(BeTrue())
	})

	It("moves along its forward axis and disables follow by default", func() {
		c := New()
		c.Follow(func() vec3.Vec3 { return vec3.New(9, 9, 9) })
		c.Move(2, true)
		Expect(c.Position).To(Equal(vec3.New(2, 0, 0)))
		Expect(c.Following()).To(BeFalse())
	})

	It("strafes along its right axis", func() {
		c := New()
		c.Strafe(1, true)
		_, right, _ := c.CurrentAxes()
		Expect(c.Position.Equal(right)).To(BeTrue())
	})

	It("clamps zoom at a minimum of 0.5", func() {
		c := New()
		c.AdjustZoom(0.1)
		Expect(c.Zoom()).To(Equal(0.5))
	})

	It("applies a follow callback on Update", func() {
		c := New()
		c.Follow(func() vec3.Vec3 { return vec3.New(1, 2, 3) })
		c.Update()
		Expect(c.Position).To(Equal(vec3.New(1, 2, 3)))
	})

	It("yaws around the up axis", func() {
		c := New()
		c.Yaw(90)
		forward, _, _ := c.CurrentAxes()
		Expect(forward.X).To(BeNumerically("~", 0, 1e-9))
		Expect(forward.Y).To(BeNumerically("~", 1, 1e-9))
	})

	It("resets rotation and clears tracking", func() {
		c := New()
		c.Track(func() vec3.Vec3 { return vec3.New(1, 0, 0) })
		c.Yaw(45)
		c.ResetRotation(true)
		Expect(c.Tracking()).To(BeFalse())
		forward, _, _ := c.CurrentAxes()
		Expect(forward.Equal(vec3.New(1, 0, 0))).To(BeTrue())
	})

	It("looks directly at a point placed along +Y", func() {
		c := New()
		c.LookAtVector(vec3.New(0, 5, 0), true, true)
		forward, _, _ := c.CurrentAxes()
		Expect(forward.X).To(BeNumerically("~", 0, 1e-6))
		Expect(forward.Y).To(BeNumerically("~", 1, 1e-6))
	})

	It("excludes points exactly at the camera position from projection", func() {
		c := New()
		pixels := c.ProjectedPixels([]vec3.Vec3{vec3.Zero(), vec3.New(10, 0, 0)}, 40, 20)
		for _, p := range pixels {
			Expect(p.Index).NotTo(Equal(0))
		}
	})

	It("projects a point straight ahead near the center column", func() {
		c := New()
		pixels := c.ProjectedPixels([]vec3.Vec3{vec3.New(10, 0, 0)}, 40, 20)
		Expect(pixels).To(HaveLen(1))
		Expect(pixels[0].X).To(Equal(20))
		Expect(pixels[0].Y).To(Equal(10))
	})
})

var _ = Describe("AdjustableSigmoid", Label("scope:unit", "layer:camera"), func() {
	It("passes through the endpoints regardless of k", func() {
		Expect(AdjustableSigmoid(0, 0)).To(BeNumerically("~", 0, 1e-9))
		Expect(AdjustableSigmoid(1, 0)).To(BeNumerically("~", 1, 1e-9))
	})

	It("is linear at the midpoint when k is 0", func() {
		Expect(AdjustableSigmoid(0.5, 0)).To(BeNumerically("~", 0.5, 1e-9))
	})
})

var _ = Describe("SwivelToPoint", Label("scope:unit", "layer:camera"), func() {
	It("installs a track callback that moves the camera toward the target", func() {
		c := New()
		c.SwivelToPoint(vec3.New(0, 5, 0), 1000, 0)
		Expect(c.Tracking()).To(BeTrue())
		time.Sleep(2 * time.Millisecond)
		c.Update()
		forward, _, _ := c.CurrentAxes()
		// Partway through the swivel, forward should have moved off +X
		// toward +Y without having fully arrived yet.
		Expect(forward.X).To(BeNumerically("<", 1))
		Expect(c.Tracking()).To(BeTrue())
	})

	It("stops tracking once the swivel's total time has elapsed", func() {
		c := New()
		c.SwivelToPoint(vec3.New(0, 5, 0), 1, 0)
		time.Sleep(5 * time.Millisecond)
		c.Update()
		Expect(c.Tracking()).To(BeFalse())
	})
})
