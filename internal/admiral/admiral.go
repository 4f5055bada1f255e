// Package admiral implements fleet ownership: the human player's
// flagship and fleet, and autonomous agents that commission a flagship
// and issue their own patrol orders once the universe is running.
package admiral

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/voidreach/simcore/internal/ship"
	"github.com/voidreach/simcore/internal/vec3"
)

// shipPrefixes name an admiral's hull registry, chosen once at setup.
var shipPrefixes = []string{"XSS", "KRS", "ISS", "JTS", "VSS"}

// celestialNames seeds procedurally-named ships when an admiral isn't
// given an explicit name, a representative sample of the traditional
// star names the original catalog draws from.
var celestialNames = []string{
	"Alkurhah", "Alterf", "Wezn", "Caph", "Alderamin", "Cursa", "Dubhe",
	"Sirius", "Mirphak", "Menkar", "Alnitak", "Ascella", "Naos",
	"Algenib", "Algol", "Canopus", "Sadalsuud", "Capella", "Rigel",
	"Polaris", "Alphard", "Vega", "Antares", "Altair", "Achernar",
	"Betelgeuse", "Deneb", "Regulus", "Spica", "Procyon",
}

// World is the slice of the owning universe an admiral needs: adding a
// ship with a given archetype/name/parent, validating object ids, and
// enumerating celestial bodies for an agent's opening orders.
type World interface {
	AddShip(archetype ship.Archetype, fid int, name string, parent int) *ship.Ship
	IsOID(oid int) bool
	CelestialOIDs() []int
	RandomCelestialOID() (int, bool)
}

// Admiral owns a flagship and a fleet of subordinate ships under a
// shared hull-registry prefix.
type Admiral struct {
	World World
	FID   int
	Name  string

	flagshipName string
	shipPrefix   string
	Flagship     *ship.Ship
	fleet        []*ship.Ship
	fleetOIDs    map[int]bool
}

// New returns an Admiral with a randomly chosen hull prefix. flagshipName
// defaults to "Flagship" when empty.
func New(world World, fid int, name, flagshipName string) *Admiral {
	if flagshipName == "" {
		flagshipName = "Flagship"
	}
	return &Admiral{
		World:        world,
		FID:          fid,
		Name:         name,
		flagshipName: flagshipName,
		shipPrefix:   shipPrefixes[rand.Intn(len(shipPrefixes))],
		fleetOIDs:    make(map[int]bool),
	}
}

// Setup commissions the flagship. Subtypes extend this with their own
// fleet-building or first-order behavior.
func (a *Admiral) Setup() {
	a.AddFlagship()
}

// AddFlagship commissions the admiral's named flagship, an Escort with
// no parent.
func (a *Admiral) AddFlagship() {
	name := fmt.Sprintf("%s. %s", a.shipPrefix, a.flagshipName)
	a.Flagship = a.World.AddShip(ship.ArchetypeEscort, a.FID, name, -1)
}

// AddShip commissions a new ship of the given archetype under parent's
// position and adds it to the fleet.
func (a *Admiral) AddShip(archetype ship.Archetype, name string, parent int) *ship.Ship {
	fullName := fmt.Sprintf("%s. %s", a.shipPrefix, name)
	s := a.World.AddShip(archetype, a.FID, fullName, parent)
	a.fleet = append(a.fleet, s)
	a.fleetOIDs[s.OID] = true
	return s
}

// Fleet returns the admiral's fleet (excluding the flagship), in
// commissioning order.
func (a *Admiral) Fleet() []*ship.Ship { return a.fleet }

// OwnsOID reports whether oid belongs to this admiral's fleet.
func (a *Admiral) OwnsOID(oid int) bool { return a.fleetOIDs[oid] }

// FleetString renders one label per line, in commissioning order.
func (a *Admiral) FleetString() string {
	labels := make([]string, len(a.fleet))
	for i, s := range a.fleet {
		labels[i] = s.Label()
	}
	return strings.Join(labels, "\n")
}

func (a *Admiral) String() string {
	return fmt.Sprintf("<Admiral %s FID #%d>", a.Name, a.FID)
}

// shipClasses lists the ship archetypes an admiral can commission.
// MakeFleet does not read it; it chooses each class from the ship's
// position within its batch of ten.
var shipClasses = []ship.Archetype{ship.ArchetypeTug, ship.ArchetypeFighter, ship.ArchetypeEscort, ship.ArchetypePort}

// Player is the human-operated admiral: it owns the camera/cockpit
// ship, carries out the ship order commands the universe registers,
// and starts with a pre-built fleet rather than growing one
// autonomously.
type Player struct {
	*Admiral
}

// NewPlayer returns a Player admiral. Per the original design the
// player is always FID 0.
func NewPlayer(world World, name string) *Player {
	return &Player{Admiral: New(world, 0, name, "Devship")}
}

// Setup commissions the flagship and a starter fleet of count ships.
func (p *Player) Setup(count int) {
	p.Admiral.Setup()
	p.MakeFleet(count)
}

// MakeFleet commissions count ships: every tenth is a Port, the next
// two of each batch of ten are Fighters, and the rest are Tugs.
func (p *Player) MakeFleet(count int) {
	for i := 0; i < count; i++ {
		batchIdx := i % 10
		cls := ship.ArchetypeTug
		switch {
		case batchIdx == 0:
			cls = ship.ArchetypePort
		case batchIdx < 3:
			cls = ship.ArchetypeFighter
		}
		name := celestialNames[rand.Intn(len(celestialNames))]
		parent := -1
		if p.Flagship != nil {
			parent = p.Flagship.OID
		}
		p.AddShip(cls, name, parent)
	}
}

// OrderFly orders a fleet ship to fly to targetOID, failing if oid is
// not in the player's fleet, targetOID does not exist, or cruiseSpeed
// is not positive.
func (p *Player) OrderFly(oid, targetOID int, cruiseSpeed float64, uid uint64) (*ship.FlightPlan, error) {
	if !p.OwnsOID(oid) && p.Flagship.OID != oid {
		return nil, fmt.Errorf("admiral: ordered ship must be in fleet, got oid %d", oid)
	}
	if !p.World.IsOID(targetOID) {
		return nil, fmt.Errorf("admiral: invalid target id %d", targetOID)
	}
	if cruiseSpeed <= 0 {
		return nil, fmt.Errorf("admiral: cruise speed must be positive, got %g", cruiseSpeed)
	}
	s := p.shipByOID(oid)
	return s.FlyTo(targetOID, cruiseSpeed, false, uid), nil
}

// OrderPatrol orders a fleet ship to patrol among targetOIDs.
func (p *Player) OrderPatrol(oid int, targetOIDs []int, autoLook bool) error {
	if !p.OwnsOID(oid) && p.Flagship.OID != oid {
		return fmt.Errorf("admiral: ordered ship must be in fleet, got oid %d", oid)
	}
	for _, t := range targetOIDs {
		if !p.World.IsOID(t) {
			return fmt.Errorf("admiral: invalid target id %d", t)
		}
	}
	s := p.shipByOID(oid)
	s.OrderPatrol(targetOIDs, autoLook)
	return nil
}

// OrderCancel invalidates a fleet ship's active order, then issues a
// break burn if applyBreak is set.
func (p *Player) OrderCancel(oid int, applyBreak bool) error {
	if !p.OwnsOID(oid) && p.Flagship.OID != oid {
		return fmt.Errorf("admiral: ordered ship must be in fleet, got oid %d", oid)
	}
	p.shipByOID(oid).OrderCancel(applyBreak)
	return nil
}

// OrderBreak burns a fleet ship's engine opposite its current velocity
// until it comes to rest.
func (p *Player) OrderBreak(oid int, throttle float64) error {
	if !p.OwnsOID(oid) && p.Flagship.OID != oid {
		return fmt.Errorf("admiral: ordered ship must be in fleet, got oid %d", oid)
	}
	p.shipByOID(oid).OrderBreak(throttle)
	return nil
}

// OrderEngineBurn directly sets a fleet ship's acceleration toward
// vector, bypassing any scheduled flight plan.
func (p *Player) OrderEngineBurn(oid int, vector vec3.Vec3, throttle float64) error {
	if !p.OwnsOID(oid) && p.Flagship.OID != oid {
		return fmt.Errorf("admiral: ordered ship must be in fleet, got oid %d", oid)
	}
	p.shipByOID(oid).EngineBurn(vector, throttle)
	return nil
}

// OrderEngineCut immediately zeroes a fleet ship's acceleration.
func (p *Player) OrderEngineCut(oid int) error {
	if !p.OwnsOID(oid) && p.Flagship.OID != oid {
		return fmt.Errorf("admiral: ordered ship must be in fleet, got oid %d", oid)
	}
	p.shipByOID(oid).EngineCutBurn()
	return nil
}

func (p *Player) shipByOID(oid int) *ship.Ship {
	if p.Flagship.OID == oid {
		return p.Flagship
	}
	for _, s := range p.fleet {
		if s.OID == oid {
			return s
		}
	}
	return nil
}

// Agent is an autonomous admiral: once set up, it schedules a first
// patrol order among five random celestial bodies for its flagship.
type Agent struct {
	*Admiral
	patrolSample int
}

// NewAgent returns an Agent admiral with a default patrol sample size
// of 5 celestial bodies, matching the original's first_order behavior.
func NewAgent(world World, fid int, name string) *Agent {
	return &Agent{Admiral: New(world, fid, name, ""), patrolSample: 5}
}

// Setup commissions the flagship; the caller is responsible for
// scheduling FirstOrder as a zero-delay event, since Agent has no
// direct access to the scheduler (that belongs to internal/universe).
func (a *Agent) Setup() {
	a.Admiral.Setup()
}

// FirstOrder picks up to patrolSample random celestial bodies and
// orders the flagship to patrol among them.
func (a *Agent) FirstOrder(uid uint64) {
	oids := a.randomCelestialSample(a.patrolSample)
	if len(oids) == 0 {
		return
	}
	a.Flagship.OrderPatrol(oids, false)
}

func (a *Agent) randomCelestialSample(k int) []int {
	all := a.World.CelestialOIDs()
	if len(all) == 0 {
		return nil
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, all[rand.Intn(len(all))])
	}
	return out
}
