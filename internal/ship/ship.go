// Package ship implements controllable deep-space vessels: engine
// burns, scheduled flight plans, and patrol orders, all guarded by a
// stale-order discipline so a superseded order's callbacks become
// silent no-ops once a newer order has taken over.
package ship

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/voidreach/simcore/internal/navigation"
	"github.com/voidreach/simcore/internal/physics"
	"github.com/voidreach/simcore/internal/scheduler"
	"github.com/voidreach/simcore/internal/vec3"
)

// orderEpsilon bounds ratios that should be "close enough to 1" in the
// simple flight plan's arrival-time sanity check.
const orderEpsilon = 1e-6

// World is the slice of the owning universe a ship needs: the physics
// engine (to read/write its own derivative-second row), the event
// scheduler, and the current simulation tick.
type World interface {
	Engine() *physics.Engine
	Scheduler() *scheduler.Queue
	CurrentTick() float64
	IsOID(oid int) bool
	Position(oid int) vec3.Vec3
}

// FlightPlan is the timing of an automatic fly-to order: burn until
// Cutoff, cruise until BreakBurn, brake until Arrival.
type FlightPlan struct {
	Cutoff    float64
	BreakBurn float64
	Arrival   float64
	Total     float64
}

// Ship is a single controllable vessel tracked in the physics engine
// at index OID.
type Ship struct {
	OID    int
	Name   string
	Thrust float64
	Icon   rune
	Color  string

	world World
	log   logr.Logger

	currentOrderUID uint64
	currentFlight   *FlightPlan
	patrolLook      bool
	patrolTargets   []int
	patrolIndex     int
}

// New returns a Ship tracked at oid in world's physics engine.
func New(oid int, name string, thrust float64, icon rune, color string, world World, log logr.Logger) *Ship {
	return &Ship{
		OID:    oid,
		Name:   name,
		Thrust: thrust,
		Icon:   icon,
		Color:  color,
		world:  world,
		log:    log.WithValues("ship", name, "oid", oid),
	}
}

// Label formats the ship's icon, oid, and name for display.
func (s *Ship) Label() string {
	return fmt.Sprintf("%c%d %s", s.Icon, s.OID, s.Name)
}

func (s *Ship) velocity() vec3.Vec3 {
	return s.world.Engine().GetDerivative("position")[s.OID]
}

// checkObsoleteOrder reports whether uid no longer matches the ship's
// active order, meaning any event carrying it should be ignored. A uid
// of 0 always passes, letting a caller force a callback through
// regardless of order state.
func (s *Ship) checkObsoleteOrder(uid uint64) bool {
	return uid != 0 && uid != s.currentOrderUID
}

func (s *Ship) eventCallback(uid uint64, f func()) {
	if s.checkObsoleteOrder(uid) {
		s.log.V(1).Info("ignoring event callback with obsolete uid", "uid", uid)
		return
	}
	f()
}

// OrderCancel clears any scheduled flight plan. Events already queued
// for the canceled order will still fire but will no-op, since their
// uid no longer matches currentOrderUID. If applyBreak is set, a fresh
// OrderBreak is issued immediately after, so the ship doesn't coast on
// whatever velocity the canceled order left it with.
func (s *Ship) OrderCancel(applyBreak bool) {
	s.currentOrderUID = 0
	s.currentFlight = nil
	if applyBreak {
		s.OrderBreak(1)
	}
}

// OrderBreak burns at throttle opposite the ship's current velocity
// until it reaches rest, going through the same stale-order discipline
// as FlyTo: a single navigation.CancelDrift stage, cut at its cutoff
// tick unless a newer order has since taken over. A ship already at
// rest burns and schedules nothing; its previous order is cleared and
// it reports Idle.
func (s *Ship) OrderBreak(throttle float64) {
	if s.Thrust == 0 {
		s.log.V(1).Info("ignoring order_break: no thrust")
		return
	}
	uid := s.world.Scheduler().NewUID()
	s.currentOrderUID = uid

	stage, _, ok := navigation.CancelDrift(s.velocity(), s.Thrust)
	if !ok {
		s.currentOrderUID = 0
		s.currentFlight = nil
		return
	}

	duration := stage.Duration / throttle
	cutoff := s.world.CurrentTick() + duration
	s.currentFlight = &FlightPlan{Cutoff: cutoff, BreakBurn: cutoff, Arrival: cutoff, Total: duration}
	s.EngineBurn(stage.Acceleration, throttle)
	s.world.Scheduler().Add(cutoff, func(u uint64) { s.breakCutoff(u) }, s.Label()+": break burn cutoff", uid)
}

func (s *Ship) breakCutoff(uid uint64) {
	s.eventCallback(uid, func() {
		s.EngineCutBurn()
		s.currentFlight = nil
	})
}

// OrderPatrol begins cycling through targets, flying to each in turn
// and re-queuing the next leg a short delay after each arrival. A
// thrustless ship (Thrust == 0) ignores the order.
func (s *Ship) OrderPatrol(targets []int, autoLook bool) {
	if s.Thrust == 0 {
		s.log.V(1).Info("ignoring patrol order: no thrust")
		return
	}
	uid := s.world.Scheduler().NewUID()
	s.currentOrderUID = uid
	s.patrolTargets = targets
	s.patrolIndex = 0
	s.patrolLook = autoLook
	s.world.Scheduler().Add(s.world.CurrentTick(), func(u uint64) { s.nextPatrol(u) }, s.Label()+": start patrol", uid)
}

func (s *Ship) nextPatrol(uid uint64) {
	s.eventCallback(uid, func() {
		if len(s.patrolTargets) == 0 {
			return
		}
		target := s.patrolTargets[s.patrolIndex%len(s.patrolTargets)]
		s.patrolIndex++
		plan := s.FlyTo(target, 1e10, s.patrolLook, uid)
		if plan == nil {
			return
		}
		s.currentFlight = plan
		next := plan.Arrival + 200
		s.world.Scheduler().Add(next, func(u uint64) { s.nextPatrol(u) }, s.Label()+": next patrol", uid)
	})
}

// LookFunc reorients a viewer toward a target oid. Nothing in this
// package calls one: FlyTo takes a plain look flag and does not act
// on it.
type LookFunc func(oid int)

// FlyTo schedules a full flight plan (burn, cruise, brake, arrival) to
// oid, capping cruise speed at cruiseSpeed. A thrustless ship ignores
// the order and returns nil. If the ship is already drifting, a
// navigation.CancelDrift burn is scheduled first to zero its velocity
// before the departure burn begins, so the plan's cruise phase starts
// from rest exactly as simpleFlightPlan assumes.
func (s *Ship) FlyTo(oid int, cruiseSpeed float64, look bool, uid uint64) *FlightPlan {
	if s.Thrust == 0 {
		s.log.V(1).Info("ignoring fly_to: no thrust")
		return nil
	}
	if !s.world.IsOID(oid) {
		s.log.Info("fly_to target is not a valid object id", "oid", oid)
		return nil
	}
	target := s.world.Position(oid)
	travel := target.Sub(s.world.Position(s.OID))
	tick := s.world.CurrentTick()

	departureStart := tick
	driftStage, driftDrift, hasDrift := navigation.CancelDrift(s.velocity(), s.Thrust)
	if hasDrift {
		travel = travel.Sub(driftDrift)
		departureStart = tick + driftStage.Duration
	}

	distance := travel.Length()
	plan := simpleFlightPlan(distance, cruiseSpeed, s.Thrust, departureStart)

	s.currentOrderUID = uid
	s.currentFlight = &plan

	if hasDrift {
		s.EngineBurn(driftStage.Acceleration, 1)
		s.world.Scheduler().Add(departureStart, func(u uint64) { s.flyDepartureBurn(u, travel) }, s.Label()+": drift-cancel burn cutoff, departure burn ignition", uid)
	} else {
		s.EngineBurn(travel, 1)
	}
	s.world.Scheduler().Add(plan.Cutoff, func(u uint64) { s.flyCruiseCutoff(u) }, s.Label()+": cruise burn cutoff", uid)
	return &plan
}

func (s *Ship) flyDepartureBurn(uid uint64, travel vec3.Vec3) {
	s.eventCallback(uid, func() {
		s.EngineBurn(travel, 1)
	})
}

func (s *Ship) flyCruiseCutoff(uid uint64) {
	s.eventCallback(uid, func() {
		s.EngineCutBurn()
		if s.currentFlight == nil {
			return
		}
		s.world.Scheduler().Add(s.currentFlight.BreakBurn, func(u uint64) { s.flyBreakBurn(u) }, s.Label()+": break burn ignition", uid)
	})
}

func (s *Ship) flyBreakBurn(uid uint64) {
	s.eventCallback(uid, func() {
		s.EngineBreakBurn(1, false)
		if s.currentFlight == nil {
			return
		}
		s.world.Scheduler().Add(s.currentFlight.Arrival, func(u uint64) { s.flyEnd(u) }, s.Label()+": break burn cutoff, arrival", uid)
	})
}

func (s *Ship) flyEnd(uid uint64) {
	s.eventCallback(uid, func() {
		s.EngineCutBurn()
		s.currentFlight = nil
	})
}

// simpleFlightPlan finds a burn/cruise/burn timing that reaches
// travelDist, tapering cruiseSpeed down until the two symmetric burns
// no longer overlap past the midpoint.
func simpleFlightPlan(travelDist, cruiseSpeed, thrust, tickOffset float64) FlightPlan {
	burnTime := cruiseSpeed / thrust
	burnDistance := math.Floor(burnTime*(burnTime+1)/2) * thrust
	for burnDistance >= travelDist/2 {
		cruiseSpeed *= 0.95
		burnTime = cruiseSpeed / thrust
		burnDistance = math.Floor(burnTime*(burnTime+1)/2) * thrust
	}
	cruiseDist := travelDist - burnDistance*2
	cruiseTime := cruiseDist / cruiseSpeed
	total := burnTime*2 + cruiseTime
	cutoff := tickOffset + burnTime
	breakBurn := cutoff + cruiseTime
	arrival := breakBurn + burnTime
	if tickOffset+total != 0 {
		ratio := arrival/(tickOffset+total) - 1
		if ratio >= orderEpsilon {
			panic(fmt.Sprintf("flight plan arrival sanity check failed: ratio %v", ratio))
		}
	}
	return FlightPlan{Cutoff: cutoff, BreakBurn: breakBurn, Arrival: arrival, Total: total}
}

// EngineBurn sets the ship's acceleration to thrust*throttle in the
// direction of vector. A zero vector logs a warning and leaves the
// engine state untouched; throttle must be in (0, 1].
func (s *Ship) EngineBurn(vector vec3.Vec3, throttle float64) {
	mag := vector.Length()
	if mag == 0 {
		s.log.Info("engine burn requested without a direction")
		return
	}
	accel := vector.Scale(s.Thrust * throttle / mag)
	s.world.Engine().GetDerivativeSecond("position")[s.OID] = accel
}

// EngineCutBurn zeroes the ship's acceleration.
func (s *Ship) EngineCutBurn() {
	s.world.Engine().GetDerivativeSecond("position")[s.OID] = vec3.Zero()
}

// EngineBreakBurn burns opposite the ship's current velocity. If
// autoCutoff is true, it also schedules an engine cut once the
// velocity should have reached zero.
func (s *Ship) EngineBreakBurn(throttle float64, autoCutoff bool) {
	v := s.velocity()
	mag := v.Length()
	if mag == 0 {
		s.log.Info("engine break burn requested with no velocity")
		return
	}
	s.EngineBurn(v.Neg(), throttle)
	if autoCutoff {
		cutoff := s.world.CurrentTick() + mag/(s.Thrust*throttle)
		s.world.Scheduler().Add(cutoff, func(uint64) { s.EngineCutBurn() }, "auto cutoff engine burn", 0)
	}
}

// CurrentOrders describes the ship's present activity for display.
func (s *Ship) CurrentOrders() string {
	if s.currentFlight != nil {
		return s.formatFlightPlan(s.currentFlight)
	}
	if s.currentOrderUID != 0 {
		return "Docked."
	}
	return "Idle."
}

func (s *Ship) formatFlightPlan(fp *FlightPlan) string {
	tick := s.world.CurrentTick()
	remaining := tick - fp.Arrival
	switch {
	case tick < fp.Cutoff:
		return fmt.Sprintf("Cruise burn: %.4f (%.4f)", tick-fp.Cutoff, remaining)
	case tick < fp.BreakBurn:
		return fmt.Sprintf("Cruising: %.4f (%.4f)", tick-fp.BreakBurn, remaining)
	default:
		return fmt.Sprintf("Break burn: %.4f", tick-fp.Arrival)
	}
}

// Archetype constants mirror the distinct ship classes: differing
// thrust, icon, and color but otherwise identical behavior.
var (
	ArchetypeTug     = Archetype{Name: "tug", Thrust: 0.01, Icon: '¬', Color: "yellow"}
	ArchetypeFighter = Archetype{Name: "fighter", Thrust: 3, Icon: '‡', Color: "red"}
	ArchetypeEscort  = Archetype{Name: "escort", Thrust: 1, Icon: '≡', Color: "green"}
	ArchetypePort    = Archetype{Name: "port", Thrust: 0, Icon: 'þ', Color: "blue"}
)

// Archetype bundles the per-class constants a new Ship is built from.
type Archetype struct {
	Name   string
	Thrust float64
	Icon   rune
	Color  string
}
