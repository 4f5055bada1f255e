// Package camera implements the first-person viewpoint used to project
// the universe onto a character-map display: position, orientation as a
// quaternion, zoom, and optional follow/track behaviors.
package camera

import (
	"time"

	"github.com/voidreach/simcore/internal/quat"
	"github.com/voidreach/simcore/internal/vec3"
)

// aspectRatio corrects for a terminal character cell being taller than
// it is wide, so a projected sphere renders round rather than squashed.
const aspectRatio = 29.0 / 64.0

// minZoom is the lowest zoom level AdjustZoom will settle at; zooming
// out further than this makes the projection degenerate.
const minZoom = 0.5

// PositionFunc and VectorFunc report a moving point the camera should
// follow or look toward, evaluated once per Update.
type PositionFunc func() vec3.Vec3

// Camera tracks a point of view in the simulated world and projects
// points onto longitude/latitude for character-map rendering.
type Camera struct {
	Position vec3.Vec3
	Rotation quat.Quaternion
	zoom     float64

	following PositionFunc
	tracking  PositionFunc
}

// New returns a Camera at the origin with identity rotation and zoom 1.
func New() *Camera {
	c := &Camera{}
	c.ResetZoom()
	c.ResetRotation(true)
	return c
}

// Follow sets (or, with nil, clears) the callback that drives Position
// on every Update.
func (c *Camera) Follow(fn PositionFunc) {
	c.following = fn
}

// Track sets (or, with nil, clears) the callback that the camera keeps
// oriented toward on every Update.
func (c *Camera) Track(fn PositionFunc) {
	c.tracking = fn
}

// Following reports whether a follow callback is currently set.
func (c *Camera) Following() bool { return c.following != nil }

// Tracking reports whether a track callback is currently set.
func (c *Camera) Tracking() bool { return c.tracking != nil }

// Update applies the follow and track callbacks, if set, moving
// Position and reorienting Rotation respectively.
func (c *Camera) Update() {
	if c.following != nil {
		c.Position = c.following()
	}
	if c.tracking != nil {
		c.LookAtVector(c.tracking(), true, false)
	}
}

// SetPosition places the camera at point directly.
func (c *Camera) SetPosition(point vec3.Vec3) {
	c.Position = point
}

// CurrentAxes returns the camera's current (forward, right, up) axes.
func (c *Camera) CurrentAxes() (forward, right, up vec3.Vec3) {
	return quat.RotatedAxes(c.Rotation)
}

// Move translates the camera d units along its forward axis. By
// default this clears any active follow callback, since a manual move
// would otherwise be immediately overwritten on the next Update.
func (c *Camera) Move(d float64, disableFollow bool) {
	forward, _, _ := c.CurrentAxes()
	c.Position = c.Position.Add(forward.Scale(d))
	if disableFollow {
		c.Follow(nil)
	}
}

// Strafe translates the camera d units along its right axis.
func (c *Camera) Strafe(d float64, disableFollow bool) {
	_, right, _ := c.CurrentAxes()
	c.Position = c.Position.Add(right.Scale(d))
	if disableFollow {
		c.Follow(nil)
	}
}

// Zoom returns the current zoom level.
func (c *Camera) Zoom() float64 { return c.zoom }

// ResetZoom restores zoom to 1.
func (c *Camera) ResetZoom() { c.zoom = 1 }

// ResetRotation restores the identity rotation.
func (c *Camera) ResetRotation(disableTrack bool) {
	c.Rotation = quat.Identity()
	if disableTrack {
		c.Track(nil)
	}
}

// Rotate composes yaw, pitch, and roll (all in degrees) onto the
// camera's current rotation, in that order, recomputing the rotation
// axes after each step so pitch rotates around the axis yaw just
// produced and roll around the axis pitch just produced. When
// considerZoom is true, yaw and pitch are scaled down by the current
// zoom level so turning feels slower while zoomed in; roll is never
// zoom-scaled. A nonzero value for an axis is required for it to be
// applied at all; disableTrack clears any active track callback
// afterward, since a manual rotate would otherwise be immediately
// overwritten on the next Update.
func (c *Camera) Rotate(yaw, pitch, roll float64, considerZoom, disableTrack bool) {
	if considerZoom {
		yaw /= c.zoom
		pitch /= c.zoom
	}
	if yaw != 0 {
		_, _, up := c.CurrentAxes()
		c.Rotation = quat.Mul(c.Rotation, quat.FromAxisAngle(up, yaw))
	}
	if pitch != 0 {
		_, right, _ := c.CurrentAxes()
		c.Rotation = quat.Mul(c.Rotation, quat.FromAxisAngle(right, pitch))
	}
	if roll != 0 {
		forward, _, _ := c.CurrentAxes()
		c.Rotation = quat.Mul(c.Rotation, quat.FromAxisAngle(forward, roll))
	}
	if disableTrack {
		c.Track(nil)
	}
}

// Yaw rotates by yawDeg alone, ignoring zoom scaling.
func (c *Camera) Yaw(yawDeg float64) { c.Rotate(yawDeg, 0, 0, false, true) }

// Pitch rotates by pitchDeg alone, ignoring zoom scaling.
func (c *Camera) Pitch(pitchDeg float64) { c.Rotate(0, pitchDeg, 0, false, true) }

// Roll rotates by rollDeg alone.
func (c *Camera) Roll(rollDeg float64) { c.Rotate(0, 0, rollDeg, true, true) }

// Flip rotates 180 degrees in yaw, ignoring zoom, and clears tracking.
func (c *Camera) Flip() {
	c.Rotate(180, 0, 0, false, true)
	c.Track(nil)
}

// AdjustZoom multiplies the zoom level by multiplier, clamped to a
// minimum of 0.5.
func (c *Camera) AdjustZoom(multiplier float64) {
	z := c.zoom * multiplier
	if z < minZoom {
		z = minZoom
	}
	c.zoom = z
}

// LookAtVector reorients the camera toward vector. If resetAxes is
// true the rotation is reset to identity first, so the result is an
// absolute orientation rather than relative to the prior one.
func (c *Camera) LookAtVector(vector vec3.Vec3, resetAxes, disableTrack bool) {
	if resetAxes {
		c.ResetRotation(disableTrack)
	}
	rotated := c.Rotation.Conjugate().Rotate(vector.Sub(c.Position))
	lon, lat := quat.LatLong(rotated)
	// LatLong's longitude is measured with the opposite handedness from
	// FromAxisAngle's rotation about the up axis, so the yaw step here
	// negates it to actually bring the forward axis onto the target.
	c.Rotate(-lon, 0, 0, false, disableTrack)
	c.Rotate(0, lat, 0, false, disableTrack)
}

// LookAtPoint is an alias for LookAtVector, matching the name used
// elsewhere for this operation when the target is a point in space
// rather than a direction.
func (c *Camera) LookAtPoint(point vec3.Vec3, resetAxes, disableTrack bool) {
	c.LookAtVector(point, resetAxes, disableTrack)
}

// SwivelToPoint smoothly reorients the camera's forward axis toward
// point over totalTimeMS milliseconds of wall-clock time, easing the
// turn with AdjustableSigmoid(_, smooth). It installs a track callback
// that drives the turn on each subsequent Update and clears itself
// once the turn completes.
func (c *Camera) SwivelToPoint(point vec3.Vec3, totalTimeMS float64, smooth float64) {
	c.Update()
	target := point.Sub(c.Position).Normalize()
	startForward, _, _ := c.CurrentAxes()
	rot := quat.FromVectorVector(startForward, target)
	start := time.Now()

	c.Track(func() vec3.Vec3 {
		elapsedMS := float64(time.Since(start).Microseconds()) / 1000
		ratio := elapsedMS / totalTimeMS
		var step quat.Quaternion
		if ratio < 1 {
			step = rot.Pow(AdjustableSigmoid(ratio, smooth))
		} else {
			step = rot
			c.Track(nil)
		}
		return c.Position.Add(step.Rotate(startForward))
	})
}

// AdjustableSigmoid maps x in [0, 1] through an S-curve whose steepness
// is tuned by k in (-1, 1): k near 0 is linear, positive k accelerates
// the middle of the curve, negative k decelerates it.
func AdjustableSigmoid(x, k float64) float64 {
	if x <= 0.5 {
		nom := 2*k*x - 2*x
		denom := 4*k*x - k - 1
		r := nom / denom * 0.5
		if r < 0.5 {
			return r
		}
		return 0.5
	}
	nom := -2*k*x - 2*x + k + 1
	denom := -4*k*x + 3*k - 1
	r := nom/denom*0.5 + 0.5
	if r > 0.5 {
		return r
	}
	return 0.5
}

// LatLong returns the longitude and latitude the camera currently
// faces, derived from its forward axis.
func (c *Camera) LatLong() (longitudeDeg, latitudeDeg float64) {
	forward, _, _ := c.CurrentAxes()
	return quat.LatLong(forward)
}

// ProjectedCoords returns, for each point, the (longitude, latitude)
// pair seen from the camera's position and orientation.
func (c *Camera) ProjectedCoords(points []vec3.Vec3) [][2]float64 {
	relative := make([]vec3.Vec3, len(points))
	for i, p := range points {
		relative[i] = c.Rotation.Conjugate().Rotate(p.Sub(c.Position))
	}
	return quat.LatLongBatch(relative)
}

// Pixel is a point successfully projected onto the character-map grid:
// Index refers back to the input slice passed to ProjectedPixels.
type Pixel struct {
	Index int
	X, Y  int
}

// ProjectedPixels projects points onto a width x height character grid
// using a Mercator-style longitude/latitude mapping, discarding points
// that fall outside the grid or that coincide exactly with the
// camera's own position.
func (c *Camera) ProjectedPixels(points []vec3.Vec3, width, height int) []Pixel {
	coords := c.ProjectedCoords(points)
	out := make([]Pixel, 0, len(points))
	for i, ll := range coords {
		if points[i].Equal(c.Position) {
			continue
		}
		x := ll[0]*c.zoom + float64(width)/2
		y := float64(height) - (ll[1]*aspectRatio*c.zoom + float64(height)/2)
		rx := roundHalfAwayFromZero(x)
		ry := roundHalfAwayFromZero(y)
		if rx < 0 || ry < 0 || rx >= width-1 || ry >= height-1 {
			continue
		}
		out = append(out, Pixel{Index: i, X: rx, Y: ry})
	}
	return out
}

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
