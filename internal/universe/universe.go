// Package universe owns the simulation's engine, scheduler, objects,
// and admirals, and advances simulated time honoring the event queue —
// the one authoritative place spec.md's tick contract is enforced.
package universe

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-logr/logr"

	"github.com/voidreach/simcore/internal/admiral"
	"github.com/voidreach/simcore/internal/command"
	"github.com/voidreach/simcore/internal/config"
	"github.com/voidreach/simcore/internal/observability"
	"github.com/voidreach/simcore/internal/physics"
	"github.com/voidreach/simcore/internal/quat"
	"github.com/voidreach/simcore/internal/scheduler"
	"github.com/voidreach/simcore/internal/ship"
	"github.com/voidreach/simcore/internal/vec3"
)

// feedbackCapacity and consoleCapacity bound the two ring buffers a UI
// client can page through.
const (
	feedbackCapacity = 20
	consoleCapacity  = 1000
)

// intervalTick is how often Universe re-schedules its own housekeeping
// event, far enough out that it never meaningfully competes with real
// simulation events.
const intervalTick = 1_000_000

type objectKind int

const (
	kindCelestial objectKind = iota
	kindShip
)

// celestialArchetype bundles the per-class constants a generated
// celestial body is built from, mirroring internal/ship.Archetype.
type celestialArchetype struct {
	TypeName string
	Icon     rune
	Color    string
}

var (
	archetypeSMBH = celestialArchetype{TypeName: "SMBH", Icon: '■', Color: "grey"}
	archetypeStar = celestialArchetype{TypeName: "star", Icon: '¤', Color: "white"}
	archetypeRock = celestialArchetype{TypeName: "rock", Icon: '•', Color: "brown"}
)

type objectRecord struct {
	Kind     objectKind
	TypeName string
	Icon     rune
	Color    string
	Name     string
	Ship     *ship.Ship
}

// Universe owns every object, the physics engine, the event scheduler,
// and the admirals that issue orders, and is the sole place simulated
// time advances.
type Universe struct {
	cfg config.Config
	log logr.Logger

	engine *physics.Engine
	events *scheduler.Queue
	tick   float64

	autoSimrate  float64
	lastTickTime time.Time

	objects       []objectRecord
	celestialOIDs []int
	shipOIDs      []int
	objectCounts  map[string]int

	admirals []*admiral.Admiral
	player   *admiral.Player

	feedback *ringBuffer
	console  *ringBuffer

	controller *command.Controller
}

// New builds a Universe, running genesis (player + agents + celestial
// generation) immediately, matching the original's constructor-time
// genesis call.
func New(cfg config.Config, log logr.Logger) *Universe {
	u := &Universe{
		cfg:          cfg,
		log:          log,
		engine:       physics.NewEngine("position"),
		events:       scheduler.NewQueue(),
		autoSimrate:  cfg.DefaultSimrate,
		lastTickTime: time.Now(),
		feedback:     newRingBuffer(feedbackCapacity),
		console:      newRingBuffer(consoleCapacity),
		objectCounts: make(map[string]int),
	}
	u.controller = command.NewController("Universe", log, u.pushFeedback)
	u.registerCommands()
	u.genesis()
	u.scheduleInterval()
	u.pushFeedback("Welcome to space.")
	return u
}

func (u *Universe) pushFeedback(msg string) {
	u.feedback.Push(msg)
}

func (u *Universe) pushConsole(msg string) {
	u.console.Push(msg)
}

// Feedback returns the feedback ring buffer's contents, oldest first.
func (u *Universe) Feedback() []string { return u.feedback.Entries() }

// Console returns the console ring buffer's contents, oldest first.
func (u *Universe) Console() []string { return u.console.Entries() }

// Controller returns the command dispatcher this universe registered
// its own commands on, so callers (the player admiral, the uplink
// layer) can register theirs on the same registry.
func (u *Universe) Controller() *command.Controller { return u.controller }

// --- ship.World --------------------------------------------------------

func (u *Universe) Engine() *physics.Engine     { return u.engine }
func (u *Universe) Scheduler() *scheduler.Queue { return u.events }
func (u *Universe) CurrentTick() float64        { return u.tick }

func (u *Universe) IsOID(oid int) bool {
	return oid >= 0 && oid < len(u.objects)
}

func (u *Universe) Position(oid int) vec3.Vec3 {
	return u.engine.GetStat("position")[oid]
}

// --- admiral.World -------------------------------------------------------

func (u *Universe) AddShip(archetype ship.Archetype, fid int, name string, parent int) *ship.Ship {
	oid := u.addObject(objectRecord{
		Kind:     kindShip,
		TypeName: archetype.Name,
		Icon:     archetype.Icon,
		Color:    archetype.Color,
		Name:     name,
	})
	if parent >= 0 {
		u.positionFromParent(oid, parent, 100)
	}
	s := ship.New(oid, name, archetype.Thrust, archetype.Icon, archetype.Color, u, u.log)
	u.objects[oid].Ship = s
	u.shipOIDs = append(u.shipOIDs, oid)
	return s
}

func (u *Universe) CelestialOIDs() []int {
	out := make([]int, len(u.celestialOIDs))
	copy(out, u.celestialOIDs)
	return out
}

func (u *Universe) RandomCelestialOID() (int, bool) {
	if len(u.celestialOIDs) == 0 {
		return 0, false
	}
	return u.celestialOIDs[rand.Intn(len(u.celestialOIDs))], true
}

// --- ship.Cockpit Catalog --------------------------------------------

func (u *Universe) Icon(oid int) rune   { return u.objects[oid].Icon }
func (u *Universe) Tag(oid int) string  { return u.objects[oid].TypeName }
func (u *Universe) Name(oid int) string { return u.objects[oid].Name }

func (u *Universe) OIDs() []int {
	out := make([]int, len(u.objects))
	for i := range u.objects {
		out[i] = i
	}
	return out
}

// --- object bookkeeping --------------------------------------------------

func (u *Universe) addObject(rec objectRecord) int {
	oid := u.engine.AddObjects(1)
	u.objects = append(u.objects, rec)
	if rec.Kind == kindCelestial {
		u.celestialOIDs = append(u.celestialOIDs, oid)
	}
	u.objectCounts[rec.TypeName]++
	observability.UpdateUniverseObjects(rec.TypeName, u.objectCounts[rec.TypeName])
	return oid
}

func (u *Universe) addCelestial(archetype celestialArchetype, name string) int {
	return u.addObject(objectRecord{
		Kind:     kindCelestial,
		TypeName: archetype.TypeName,
		Icon:     archetype.Icon,
		Color:    archetype.Color,
		Name:     name,
	})
}

// positionFromParent offsets oid from parent's current position by a
// 3-axis Gaussian jitter with the given standard deviation, matching
// DeepSpaceObject.offset_from_parent.
func (u *Universe) positionFromParent(oid, parent int, stddev float64) {
	positions := u.engine.GetStat("position")
	base := positions[parent]
	jitter := vec3.New(rand.NormFloat64()*stddev, rand.NormFloat64()*stddev, rand.NormFloat64()*stddev)
	positions[oid] = base.Add(jitter)
}

// --- genesis --------------------------------------------------------

func (u *Universe) genesis() {
	u.addPlayer("Dev")
	u.generateSMBH()
	for i := 0; i < u.cfg.ComputerPlayers; i++ {
		u.addAgent(fmt.Sprintf("Admiral #%d", i+1))
	}
	u.randomizeShipPositions()
}

func (u *Universe) generateSMBH() {
	smbh := u.addCelestial(archetypeSMBH, "SMBH")
	starCount := int(math.Round(rand.NormFloat64()*u.cfg.SpawnRateStar.StdDev + u.cfg.SpawnRateStar.Mean))
	for i := 0; i < starCount; i++ {
		u.generateStar(smbh)
	}
}

func (u *Universe) generateStar(parent int) {
	star := u.addCelestial(archetypeStar, randomCelestialName())
	u.positionFromParent(star, parent, u.cfg.SpawnOffsetStar)
	rockCount := int(math.Round(rand.NormFloat64()*u.cfg.SpawnRateRock.StdDev + u.cfg.SpawnRateRock.Mean))
	for i := 0; i < rockCount; i++ {
		u.generateRock(star)
	}
}

func (u *Universe) generateRock(parent int) {
	rock := u.addCelestial(archetypeRock, randomCelestialName())
	u.positionFromParent(rock, parent, u.cfg.SpawnOffsetRock)
}

// randomizeShipPositions scatters every ship near a random celestial
// parent, used once at genesis after all ships and celestials exist.
func (u *Universe) randomizeShipPositions() {
	if len(u.celestialOIDs) == 0 {
		return
	}
	for _, oid := range u.shipOIDs {
		parent := u.celestialOIDs[rand.Intn(len(u.celestialOIDs))]
		u.positionFromParent(oid, parent, 100)
	}
}

func (u *Universe) addPlayer(name string) {
	if len(u.admirals) != 0 {
		panic("universe: player must be the first admiral added")
	}
	p := admiral.NewPlayer(u, name)
	u.admirals = append(u.admirals, p.Admiral)
	u.player = p
	p.Setup(20)
}

func (u *Universe) addAgent(name string) *admiral.Agent {
	a := admiral.NewAgent(u, len(u.admirals), name)
	u.admirals = append(u.admirals, a.Admiral)
	a.Setup()
	uid := u.events.NewUID()
	u.events.Add(u.tick, func(callbackUID uint64) { a.FirstOrder(callbackUID) }, "start first order", uid)
	return a
}

// Player returns the human-operated admiral, always FID 0.
func (u *Universe) Player() *admiral.Player { return u.player }

func randomCelestialName() string {
	names := []string{
		"Alkurhah", "Alterf", "Wezn", "Caph", "Alderamin", "Cursa", "Dubhe",
		"Sirius", "Mirphak", "Menkar", "Alnitak", "Ascella", "Naos",
		"Algenib", "Algol", "Canopus", "Sadalsuud", "Capella", "Rigel",
		"Polaris", "Alphard", "Vega", "Antares", "Altair", "Achernar",
		"Betelgeuse", "Deneb", "Regulus", "Spica", "Procyon",
	}
	return names[rand.Intn(len(names))]
}

// --- simulation time --------------------------------------------------

// DoTicks advances simulated time by ticks, firing every scheduled
// event at or before the resulting tick in order, each event's own
// intervening ticks applied to the engine before its callback runs.
func (u *Universe) DoTicks(ticks float64) {
	if ticks <= 0 {
		panic("universe: DoTicks requires ticks > 0")
	}
	last := u.tick + ticks
	for {
		next, ok := u.events.PopNext(last)
		if !ok {
			break
		}
		u.advance(next.Tick - u.tick)
		u.pushConsole(fmt.Sprintf("@%.4f %s (uid %d)", u.tick, next.Description, next.UID))
		next.Callback(next.UID)
	}
	u.advance(last - u.tick)
}

func (u *Universe) advance(ticks float64) {
	u.tick += ticks
	u.engine.Tick(ticks)
	u.lastTickTime = time.Now()
}

// DoUntilEvent advances up to (but not including) the next scheduled
// event's tick.
func (u *Universe) DoUntilEvent() {
	next, ok := u.events.PeekNext()
	if !ok {
		return
	}
	u.DoTicks(next.Tick - u.tick - 0.00001)
}

// DoNextEvent advances just past the next scheduled event's tick, so
// its callback fires.
func (u *Universe) DoNextEvent() {
	next, ok := u.events.PeekNext()
	if !ok {
		return
	}
	u.DoTicks(next.Tick - u.tick + 0.00001)
}

// Update applies wall-clock-driven auto-simulation: when the stored
// rate is positive, it converts elapsed wall time directly into ticks
// and advances. A rate of zero or negative is "paused."
func (u *Universe) Update() {
	ticks := u.GetAutosimTicks()
	if ticks > 0 {
		u.DoTicks(ticks)
	}
}

func (u *Universe) scheduleInterval() {
	uid := u.events.NewUID()
	u.events.Add(u.tick+intervalTick, func(callbackUID uint64) { u.intervalEvent(callbackUID) }, "universe interval", uid)
}

func (u *Universe) intervalEvent(uint64) {
	u.scheduleInterval()
}

// ToggleAutosim negates the stored rate (or, from exactly zero,
// resumes at the configured default), matching toggle_autosim.
func (u *Universe) ToggleAutosim() {
	rate := u.autoSimrate
	if rate == 0 {
		rate = u.cfg.DefaultSimrate
	} else {
		rate = -rate
	}
	u.SetSimrate(rate)
	if u.autoSimrate > 0 {
		u.pushFeedback("Simulation in progress")
	} else {
		u.pushFeedback("Simulation paused")
	}
}

// SetSimrate installs a new auto-sim rate directly, resetting the
// wall-clock reference point so the next Update doesn't charge for
// time that elapsed while paused. A value of zero leaves the stored
// rate unchanged.
func (u *Universe) SetSimrate(value float64) {
	if value != 0 {
		u.autoSimrate = value
	}
	if u.autoSimrate > 0 {
		u.lastTickTime = time.Now()
	}
	observability.UpdateSimRate(u.autoSimrate)
}

// GetAutosimTicks reports how many ticks Update would currently apply:
// zero whenever the rate is paused (<= 0), matching the pinned
// "negative/zero auto-simrate means paused" decision.
func (u *Universe) GetAutosimTicks() float64 {
	if u.autoSimrate <= 0 {
		return 0
	}
	elapsed := time.Since(u.lastTickTime).Seconds()
	return elapsed * u.autoSimrate
}

// AutoSimrate returns the currently stored rate, positive or not.
func (u *Universe) AutoSimrate() float64 { return u.autoSimrate }

// Tick returns the current simulated tick.
func (u *Universe) Tick() float64 { return u.tick }

// EventCount returns the number of events still queued.
func (u *Universe) EventCount() int { return u.events.Len() }

// EngineSnapshot returns a deep copy of the engine's current stat
// tables, for internal/session's rewind debug aid.
func (u *Universe) EngineSnapshot() map[string]physics.StatTable {
	return u.engine.Snapshot()
}

// Restore resets the simulated tick and the engine's stat tables to a
// prior EngineSnapshot. Objects and scheduled events added after the
// snapshot was taken are left as-is; only kinematic state rewinds.
func (u *Universe) Restore(tick float64, stats map[string]physics.StatTable) {
	u.tick = tick
	u.engine.Restore(stats)
}

// --- inspection / debug content ---------------------------------------

// InspectionContent summarizes one object's position/velocity/
// acceleration relative to the player, plus its current orders if it's
// a ship.
func (u *Universe) InspectionContent(oid int) string {
	rec := u.objects[oid]
	position := u.engine.GetStat("position")[oid]
	velocity := u.engine.GetDerivative("position")[oid]
	acceleration := u.engine.GetDerivativeSecond("position")[oid]

	playerPos := u.engine.GetStat("position")[u.player.Flagship.OID]
	relative := position.Sub(playerPos)
	lon, lat := quat.LatLong(relative)

	lines := []string{
		fmt.Sprintf("#%d %s (%s)", oid, rec.Name, rec.TypeName),
		fmt.Sprintf("Pos: %.1f [%.1f, %.1f]", relative.Length(), lon, lat),
		fmt.Sprintf("Vel: %.4f", velocity.Length()),
		fmt.Sprintf("Acc: %.4f", acceleration.Length()),
	}
	if rec.Ship != nil {
		lines = append(lines, "Current orders:", rec.Ship.CurrentOrders())
	}
	return joinLines(lines)
}

// DebugContent renders a short simulation overview: simrate, tick,
// event count and the next event, and a sample of celestial and ship
// labels.
func (u *Universe) DebugContent() string {
	lines := []string{
		"Simulation",
		fmt.Sprintf("Simrate: %g", u.autoSimrate),
		fmt.Sprintf("Tick: %.4f", u.tick),
		fmt.Sprintf("Events: %d", u.events.Len()),
	}
	if next, ok := u.events.PeekNext(); ok {
		lines = append(lines, fmt.Sprintf("Next: @%.2f %s", next.Tick, next.Description))
	}
	lines = append(lines, "Celestial Objects")
	for i, oid := range u.celestialOIDs {
		if i >= 5 {
			lines = append(lines, "...")
			break
		}
		rec := u.objects[oid]
		lines = append(lines, fmt.Sprintf("%s (%s)", rec.Name, rec.TypeName))
	}
	for i, oid := range u.shipOIDs {
		if i >= 30 {
			break
		}
		rec := u.objects[oid]
		lines = append(lines, fmt.Sprintf("%s (%s) %s", rec.Name, rec.TypeName, rec.Ship.CurrentOrders()))
	}
	return joinLines(lines)
}

// --- command registration -----------------------------------------

func (u *Universe) registerCommands() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(u.controller.RegisterCommand("sim", "Show the current simulation rate and tick", func(args *command.Args) (string, error) {
		return fmt.Sprintf("Simrate: %g, Tick: %.4f", u.autoSimrate, u.tick), nil
	}))

	must(u.controller.RegisterCommand("sim.toggle", "Pause or resume automatic simulation", func(args *command.Args) (string, error) {
		u.ToggleAutosim()
		return "", nil
	}))

	must(u.controller.RegisterCommand("sim.rate", "Set the automatic simulation rate\nRATE Ticks simulated per real second", func(args *command.Args) (string, error) {
		rate, ok := args.Positional[0].(int)
		if !ok {
			f, ok2 := args.Positional[0].(float64)
			if !ok2 {
				return "", fmt.Errorf("universe: sim.rate requires a number")
			}
			u.SetSimrate(f)
			return fmt.Sprintf("Simrate set to %g", u.autoSimrate), nil
		}
		u.SetSimrate(float64(rate))
		return fmt.Sprintf("Simrate set to %g", u.autoSimrate), nil
	}))

	must(u.controller.RegisterCommand("sim.tick", "Advance simulated time by a number of ticks\nTICKS Ticks to advance", func(args *command.Args) (string, error) {
		ticks, ok := toFloat(args.Positional[0])
		if !ok || ticks <= 0 {
			return "", fmt.Errorf("universe: sim.tick requires a positive number of ticks")
		}
		u.DoTicks(ticks)
		return fmt.Sprintf("Advanced to tick %.4f", u.tick), nil
	}))

	must(u.controller.RegisterCommand("sim.next_event", "Advance simulated time just past the next scheduled event", func(args *command.Args) (string, error) {
		u.DoNextEvent()
		return fmt.Sprintf("Advanced to tick %.4f", u.tick), nil
	}))

	must(u.controller.RegisterCommand("sim.until_event", "Advance simulated time up to the next scheduled event", func(args *command.Args) (string, error) {
		u.DoUntilEvent()
		return fmt.Sprintf("Advanced to tick %.4f", u.tick), nil
	}))

	must(u.controller.RegisterCommand("uni.debug", "Show a simulation overview", func(args *command.Args) (string, error) {
		return u.DebugContent(), nil
	}))

	must(u.controller.RegisterCommand("inspect", "Inspect an object\nOID Object ID to inspect", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok || !u.IsOID(oid) {
			return "", fmt.Errorf("universe: invalid object id")
		}
		return u.InspectionContent(oid), nil
	}))

	must(u.controller.RegisterCommand("help", "List every registered command", func(args *command.Args) (string, error) {
		names := u.controller.CommandNames()
		return joinLines(names), nil
	}))

	must(u.controller.RegisterCommand("ship.fly", "Order a ship to fly to a deep space object\nOID Ship ID to order\nTARGET_OID Target ID to fly to\n-s CRUISE_SPEED Maximum cruising speed", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok {
			return "", fmt.Errorf("universe: ship.fly requires a ship object id")
		}
		target, ok := toInt(args.Positional[1])
		if !ok {
			return "", fmt.Errorf("universe: ship.fly requires a target object id")
		}
		speed := 1.0
		if v, ok := args.Flags["s"]; ok {
			speed, ok = toFloat(v)
			if !ok {
				return "", fmt.Errorf("universe: ship.fly -s requires a number")
			}
		}
		uid := u.events.NewUID()
		plan, err := u.player.OrderFly(oid, target, speed, uid)
		if err != nil {
			return "", err
		}
		observability.RecordShipOrder("fly")
		if plan == nil {
			return "Ship has no thrust.", nil
		}
		return fmt.Sprintf("Flying to #%d, arrival @%.2f", target, plan.Arrival), nil
	}))

	must(u.controller.RegisterCommand("ship.patrol", "Order a ship to patrol between celestial objects\nOID Ship ID to order\n*TARGET_OIDS Objects to patrol between\n-+look AUTO_LOOK Automatically turn camera to look at each target", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok {
			return "", fmt.Errorf("universe: ship.patrol requires a ship object id")
		}
		rest, ok := args.Positional[1].([]interface{})
		if !ok || len(rest) == 0 {
			return "", fmt.Errorf("universe: ship.patrol requires at least one target object id")
		}
		targets := make([]int, len(rest))
		for i, v := range rest {
			t, ok := toInt(v)
			if !ok {
				return "", fmt.Errorf("universe: ship.patrol targets must be object ids")
			}
			targets[i] = t
		}
		_, look := args.Flags["look"]
		if err := u.player.OrderPatrol(oid, targets, look); err != nil {
			return "", err
		}
		observability.RecordShipOrder("patrol")
		return "Patrol order issued.", nil
	}))

	must(u.controller.RegisterCommand("ship.cancel", "Cancel a ship's active order\nOID Ship ID to order\n-+break APPLY_BREAK Issue a break burn after canceling", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok {
			return "", fmt.Errorf("universe: ship.cancel requires a ship object id")
		}
		_, applyBreak := args.Flags["break"]
		if err := u.player.OrderCancel(oid, applyBreak); err != nil {
			return "", err
		}
		observability.RecordShipOrder("cancel")
		return "Order canceled.", nil
	}))

	must(u.controller.RegisterCommand("ship.break", "Burn a ship's engine to rest\nOID Ship ID to order\n-s THROTTLE Burn throttle, 0 to 1", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok {
			return "", fmt.Errorf("universe: ship.break requires a ship object id")
		}
		throttle := 1.0
		if v, ok := args.Flags["s"]; ok {
			throttle, ok = toFloat(v)
			if !ok {
				return "", fmt.Errorf("universe: ship.break -s requires a number")
			}
		}
		if err := u.player.OrderBreak(oid, throttle); err != nil {
			return "", err
		}
		observability.RecordShipOrder("break")
		return "Break burn issued.", nil
	}))

	must(u.controller.RegisterCommand("ship.burn", "Directly set a ship's acceleration\nOID Ship ID to order\nX Acceleration direction, X component\nY Acceleration direction, Y component\nZ Acceleration direction, Z component\n-s THROTTLE Burn throttle, 0 to 1", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok {
			return "", fmt.Errorf("universe: ship.burn requires a ship object id")
		}
		x, okX := toFloat(args.Positional[1])
		y, okY := toFloat(args.Positional[2])
		z, okZ := toFloat(args.Positional[3])
		if !okX || !okY || !okZ {
			return "", fmt.Errorf("universe: ship.burn requires X Y Z components")
		}
		throttle := 1.0
		if v, ok := args.Flags["s"]; ok {
			throttle, ok = toFloat(v)
			if !ok {
				return "", fmt.Errorf("universe: ship.burn -s requires a number")
			}
		}
		if err := u.player.OrderEngineBurn(oid, vec3.New(x, y, z), throttle); err != nil {
			return "", err
		}
		observability.RecordShipOrder("burn")
		return "Engine burn applied.", nil
	}))

	must(u.controller.RegisterCommand("ship.cut", "Immediately zero a ship's acceleration\nOID Ship ID to order", func(args *command.Args) (string, error) {
		oid, ok := toInt(args.Positional[0])
		if !ok {
			return "", fmt.Errorf("universe: ship.cut requires a ship object id")
		}
		if err := u.player.OrderEngineCut(oid); err != nil {
			return "", err
		}
		observability.RecordShipOrder("cut")
		return "Engine cut.", nil
	}))

	must(u.controller.Cache("hotkeys", joinLines(hotkeyLines(u.cfg.HotkeyCommands))))
}

func hotkeyLines(hotkeys map[string]string) []string {
	lines := make([]string, 0, len(hotkeys))
	for key, cmd := range hotkeys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, cmd))
	}
	return lines
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
