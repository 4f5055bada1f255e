// Package navigation computes multi-stage thrust plans that bring a
// ship from its current velocity to rest at a target point using the
// "naive fastest" burn sequence: cancel existing drift, burn toward the
// target, brake to a stop, then mark arrival.
package navigation

import (
	"math"

	"github.com/voidreach/simcore/internal/vec3"
)

// velocityEpsilon is the threshold below which initial velocity is
// treated as already at rest, skipping the rest-cancel stage.
const velocityEpsilon = 1e-9

// Stage is one leg of a navigation plan: a constant acceleration held
// for a fixed number of ticks.
type Stage struct {
	Acceleration vec3.Vec3
	Duration     float64
	Description  string
}

// Plan is an ordered sequence of stages, along with progress tracking.
// CurrentIndex starts at -1, meaning the plan has not yet begun.
type Plan struct {
	Stages       []Stage
	TotalTicks   float64
	CurrentIndex int
}

// CancelDrift returns the burn that zeroes initialVelocity: full
// thrust held opposite the current velocity for v0/thrust ticks. ok is
// false when the ship is already at rest (within velocityEpsilon), in
// which case stage and drift are both zero. drift is the displacement
// that burn covers while it cancels the velocity, for a caller that
// needs to account for it before plotting the remaining trip.
func CancelDrift(initialVelocity vec3.Vec3, thrust float64) (stage Stage, drift vec3.Vec3, ok bool) {
	speed := initialVelocity.Length()
	if speed <= velocityEpsilon {
		return Stage{}, vec3.Zero(), false
	}
	t := speed / thrust
	accel := initialVelocity.Normalize().Scale(-thrust)
	drift = accel.Scale(0.5 * t * t).Add(initialVelocity.Scale(t))
	return Stage{Acceleration: accel, Duration: t, Description: "rest-cancel"}, drift, true
}

// Plot builds a naive-fastest navigation plan: a rest-cancel burn (if
// the ship is not already at rest), a full-thrust departure burn
// toward the target, a full-thrust brake burn to stop there, and a
// zero-duration arrival marker. thrust must be positive.
func Plot(targetVector, initialVelocity vec3.Vec3, thrust float64) *Plan {
	stages := make([]Stage, 0, 4)
	remaining := targetVector

	if stage, drift, ok := CancelDrift(initialVelocity, thrust); ok {
		remaining = remaining.Sub(drift)
		stages = append(stages, stage)
	}

	distance := remaining.Length()
	var burnDuration float64
	if distance > 0 {
		burnDuration = math.Sqrt(distance / thrust)
	}
	direction := vec3.Zero()
	if distance > 0 {
		direction = remaining.Normalize()
	}

	stages = append(stages,
		Stage{
			Acceleration: direction.Scale(thrust),
			Duration:     burnDuration,
			Description:  "departure",
		},
		Stage{
			Acceleration: direction.Scale(-thrust),
			Duration:     burnDuration,
			Description:  "brake",
		},
		Stage{
			Acceleration: vec3.Zero(),
			Duration:     0,
			Description:  "arrival",
		},
	)

	total := 0.0
	for _, s := range stages {
		total += s.Duration
	}
	return &Plan{Stages: stages, TotalTicks: total, CurrentIndex: -1}
}

// Started reports whether IncrementStage has ever advanced past -1.
func (p *Plan) Started() bool {
	return p.CurrentIndex >= 0
}

// Ended reports whether the plan has advanced past its last stage.
func (p *Plan) Ended() bool {
	return p.CurrentIndex >= len(p.Stages)
}

// InProgress reports whether the plan has started but not yet ended.
func (p *Plan) InProgress() bool {
	return p.Started() && !p.Ended()
}

// CurrentStage returns the stage at CurrentIndex. ok is false before
// the plan has started or after it has ended.
func (p *Plan) CurrentStage() (stage Stage, ok bool) {
	if !p.InProgress() {
		return Stage{}, false
	}
	return p.Stages[p.CurrentIndex], true
}

// IncrementStage advances to the next stage, returning it. Calling it
// again once the plan has ended is a no-op that keeps returning false.
func (p *Plan) IncrementStage() (stage Stage, ok bool) {
	if p.Ended() {
		return Stage{}, false
	}
	p.CurrentIndex++
	return p.CurrentStage()
}
