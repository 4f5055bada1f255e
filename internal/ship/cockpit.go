package ship

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voidreach/simcore/internal/camera"
	"github.com/voidreach/simcore/internal/charmap"
	"github.com/voidreach/simcore/internal/vec3"
)

// LabelMode cycles through how much detail an object's label shows.
type LabelMode int

const (
	LabelsOff LabelMode = iota
	LabelsOID
	LabelsOIDName
	LabelsOIDNameDistance
	labelModeCount
)

// Catalog is the read-only view of the universe a cockpit needs to
// render a charmap: every visible object's position, icon, color, and
// name, addressed by object id.
type Catalog interface {
	Position(oid int) vec3.Vec3
	Icon(oid int) rune
	Tag(oid int) string
	Name(oid int) string
	OIDs() []int
}

// Cockpit pairs a ship with the camera used to render its view and the
// label/caching state for that rendering.
type Cockpit struct {
	Ship      *Ship
	Camera    *camera.Camera
	ShowLabel LabelMode

	lastRenderState string
}

// NewCockpit returns a Cockpit for s, with its camera following the
// ship by default.
func NewCockpit(s *Ship, catalog Catalog) *Cockpit {
	c := &Cockpit{Ship: s, Camera: camera.New(), ShowLabel: LabelsOIDName}
	c.Follow(catalog, nil)
	return c
}

// Follow points the camera's follow callback at oid, or at the
// cockpit's own ship if oid is nil.
func (c *Cockpit) Follow(catalog Catalog, oid *int) {
	target := c.Ship.OID
	if oid != nil {
		target = *oid
	}
	c.Camera.Follow(func() vec3.Vec3 { return catalog.Position(target) })
}

// Track points the camera's track callback at oid, or clears tracking
// if oid is nil.
func (c *Cockpit) Track(catalog Catalog, oid *int) {
	if oid == nil {
		c.Camera.Track(nil)
		return
	}
	target := *oid
	c.Camera.Track(func() vec3.Vec3 { return catalog.Position(target) })
}

// Look smoothly swivels the camera toward oid over msDuration
// milliseconds.
func (c *Cockpit) Look(catalog Catalog, oid int, msDuration, smooth float64) {
	c.Camera.SwivelToPoint(catalog.Position(oid), msDuration, smooth)
}

// Snaplook immediately faces the camera at oid.
func (c *Cockpit) Snaplook(catalog Catalog, oid int) {
	c.Camera.LookAtPoint(catalog.Position(oid), true, true)
}

// LookProgradeRetrograde faces the camera along (or against, if
// retrograde is true) the ship's current velocity, effectively at
// infinity.
func (c *Cockpit) LookProgradeRetrograde(retrograde bool) {
	v := c.Ship.velocity().Scale(1e10)
	if retrograde {
		v = v.Neg()
	}
	c.Camera.LookAtPoint(v, true, true)
}

// ToggleLabels cycles ShowLabel through its four modes.
func (c *Cockpit) ToggleLabels() {
	c.ShowLabel = (c.ShowLabel + 1) % labelModeCount
}

func (c *Cockpit) label(catalog Catalog, oid int) string {
	if c.ShowLabel == LabelsOff {
		return ""
	}
	lbl := strconv.Itoa(oid)
	if c.ShowLabel >= LabelsOIDName {
		lbl = fmt.Sprintf("%d.%s", oid, catalog.Name(oid))
	}
	if c.ShowLabel == LabelsOIDNameDistance {
		dist := catalog.Position(oid).Sub(c.Camera.Position).Length()
		lbl = fmt.Sprintf("%s (%.3e)", lbl, dist)
	}
	return lbl
}

// DrawCharmap renders the cockpit's current view at the given size. An
// ErrTooSmall from the charmap package is returned unchanged so the
// caller can substitute a short message.
func (c *Cockpit) DrawCharmap(catalog Catalog, width, height int) (string, error) {
	grid, err := charmap.New(width, height, true)
	if err != nil {
		return "", err
	}

	oids := catalog.OIDs()
	objects := make([]charmap.Object, len(oids))
	for i, oid := range oids {
		var labels []string
		if lbl := c.label(catalog, oid); lbl != "" {
			labels = []string{lbl}
		}
		objects[i] = charmap.Object{
			Position: catalog.Position(oid),
			Glyph:    catalog.Icon(oid),
			Tag:      catalog.Tag(oid),
			Labels:   labels,
		}
	}
	grid.AddObjects(c.Camera, objects)
	grid.AddProjectionAxes(c.Camera)
	grid.AddCrosshair(0, 0, true)
	grid.AddProgradeRetrograde(c.Camera, c.Ship.velocity(), c.ShowLabel != LabelsOff)

	lon, lat := c.Camera.LatLong()
	bar := &charmap.StatusBar{
		Following: c.Camera.Following(),
		Tracking:  c.Camera.Tracking(),
		Longitude: lon,
		Latitude:  lat,
		Zoom:      c.Camera.Zoom(),
		Position:  c.Camera.Position,
	}
	return grid.Draw(bar), nil
}

// renderState packs the cache key GetCharmap compares against:
// whatever changes here forces a fresh render even if the caller polls
// every tick.
func (c *Cockpit) renderState(tick float64, width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v|%dx%d|%d|%v|%v|%v", tick, width, height, c.ShowLabel, c.Camera.Position, c.Camera.Rotation, c.Camera.Zoom())
	return b.String()
}

// GetCharmap renders the cockpit's view only if something relevant
// (tick, size, label mode, or camera state) has changed since the last
// call, returning ok == false when the prior render is still valid so
// the caller can reuse it instead of re-sending an identical frame.
func (c *Cockpit) GetCharmap(catalog Catalog, tick float64, width, height int) (frame string, err error, ok bool) {
	state := c.renderState(tick, width, height)
	if state == c.lastRenderState {
		return "", nil, false
	}
	c.lastRenderState = state
	frame, err = c.DrawCharmap(catalog, width, height)
	return frame, err, true
}
