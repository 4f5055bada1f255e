// Package charmap renders a camera's projected view of the universe as
// a grid of runes: objects as marked points with adjacent labels, a
// crosshair at the grid's center (or at a point of interest), and
// projection axes for orientation.
package charmap

import (
	"fmt"
	"strings"

	"github.com/voidreach/simcore/internal/camera"
	"github.com/voidreach/simcore/internal/quat"
	"github.com/voidreach/simcore/internal/vec3"
)

// ErrTooSmall reports that a requested grid is too small to render
// anything meaningful in.
type ErrTooSmall struct {
	Width, Height int
}

func (e *ErrTooSmall) Error() string {
	return fmt.Sprintf("charmap: size %dx%d is too small (minimum 3x3)", e.Width, e.Height)
}

const minDimension = 3

// minimumLabelSize is the smallest free-cell run a row must have
// before a label is allowed to spill into it as a fallback placement.
const minimumLabelSize = 4

// whitespacePlaceholder marks a literal space written as part of a
// label, so it is never mistaken for an empty cell and overwritten.
const whitespacePlaceholder = ' '

// Grid is a fixed-size rune buffer addressed as [y][x], with (0,0) at
// the top-left. If constructed with showBar, the bottom row is
// reserved for a status line and excluded from the addressable height.
type Grid struct {
	cells         [][]rune
	width, height int
	showBar       int // 1 if a status row is reserved, else 0
}

// New allocates a blank grid sized to fit (width, height): if showBar
// is true, one row is reserved for a status bar and the remaining
// height must still be at least 3; total width must be at least 3.
// Either constraint being unmet returns *ErrTooSmall.
func New(width, height int, showBar bool) (*Grid, error) {
	bar := 0
	if showBar {
		bar = 1
	}
	usable := height - bar
	if width < minDimension || usable < minDimension {
		return nil, &ErrTooSmall{Width: width, Height: usable}
	}
	cells := make([][]rune, usable)
	for y := range cells {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &Grid{cells: cells, width: width, height: usable, showBar: bar}, nil
}

// Width returns the grid's addressable width.
func (g *Grid) Width() int { return g.width }

// Height returns the grid's addressable height, excluding any status
// bar row.
func (g *Grid) Height() int { return g.height }

// WriteChar writes ch at (x, y) unless that cell already holds
// something other than a space, in which case the write is skipped.
// Out-of-bounds coordinates are silently ignored.
func (g *Grid) WriteChar(x, y int, ch rune) bool {
	if x < 0 || y < 0 || y >= g.height || x >= g.width {
		return false
	}
	if g.cells[y][x] == ' ' {
		g.cells[y][x] = ch
		return true
	}
	return false
}

// WriteLabel places name starting one column right of (x, y), trying
// the row itself, then the row below, then the row above, using the
// first that has enough contiguous empty space to hold the whole
// label. Failing that, it falls back to whichever of those three rows
// has the most empty space, as long as that space is at least
// minimumLabelSize. A literal space within name is written using a
// placeholder rune so it can never later be treated as an empty cell.
func (g *Grid) WriteLabel(x, y int, name string) {
	x++
	runes := []rune(name)
	if normal := g.countEmptySpaces(x, y); normal >= len(runes) {
		g.insertLabel(x, y, runes)
		return
	}
	below := g.countEmptySpaces(x, y+1)
	if below >= len(runes) {
		g.insertLabel(x, y+1, runes)
		return
	}
	above := g.countEmptySpaces(x, y-1)
	if above >= len(runes) {
		g.insertLabel(x, y-1, runes)
		return
	}
	options := [3]int{above, g.countEmptySpaces(x, y), below}
	rowOffsets := [3]int{-1, 0, 1}
	bestIdx := 0
	for i, c := range options {
		if c > options[bestIdx] {
			bestIdx = i
		}
	}
	if options[bestIdx] >= minimumLabelSize {
		g.insertLabel(x, y+rowOffsets[bestIdx], runes)
	}
}

func (g *Grid) insertLabel(x, y int, runes []rune) {
	if y < 0 || y >= g.height {
		return
	}
	for i, ch := range runes {
		if x+i >= g.width || g.cells[y][x+i] != ' ' {
			break
		}
		if ch == ' ' {
			ch = whitespacePlaceholder
		}
		g.cells[y][x+i] = ch
	}
}

func (g *Grid) countEmptySpaces(x, y int) int {
	if y < 0 || y >= g.height {
		return -1
	}
	total := 0
	for x < g.width && g.cells[y][x] == ' ' {
		x++
		total++
	}
	return total
}

// emptyNeighbor reports whether (x, y) is currently empty, counting
// out-of-bounds as not-empty so edge crosshairs never appear to "win"
// by going off the grid.
func (g *Grid) emptyNeighbor(x, y int) bool {
	if x < 0 || y < 0 || y >= g.height || x >= g.width {
		return false
	}
	return g.cells[y][x] == ' '
}

// AddCrosshair marks a point of interest (the grid's center if center
// is true) with either 4 straight arms or 4 diagonal arms, whichever
// direction has more empty neighboring cells; ties favor diagonal.
func (g *Grid) AddCrosshair(x, y int, center bool) {
	if center {
		x, y = g.width/2, g.height/2
	}
	straightCells := [4][2]int{{x, y - 1}, {x, y + 1}, {x - 1, y}, {x + 1, y}}
	diagonalCells := [4][2]int{{x + 1, y + 1}, {x - 1, y - 1}, {x - 1, y + 1}, {x + 1, y - 1}}
	straightEmpty, diagonalEmpty := 0, 0
	for _, c := range straightCells {
		if g.emptyNeighbor(c[0], c[1]) {
			straightEmpty++
		}
	}
	for _, c := range diagonalCells {
		if g.emptyNeighbor(c[0], c[1]) {
			diagonalEmpty++
		}
	}
	if straightEmpty > diagonalEmpty {
		g.WriteChar(x, y-1, '│')
		g.WriteChar(x, y+1, '│')
		g.WriteChar(x-1, y, '─')
		g.WriteChar(x+1, y, '─')
		return
	}
	g.WriteChar(x+1, y+1, '\\')
	g.WriteChar(x-1, y-1, '\\')
	g.WriteChar(x-1, y+1, '/')
	g.WriteChar(x+1, y-1, '/')
}

// Object is a single point to mark on the grid.
type Object struct {
	Position vec3.Vec3
	Glyph    rune
	Tag      string
	Labels   []string
}

// AddObjects projects each object's position and, for every one the
// camera's projection keeps in view, writes its glyph and then its
// labels in order.
func (g *Grid) AddObjects(cam *camera.Camera, objects []Object) {
	points := make([]vec3.Vec3, len(objects))
	for i, o := range objects {
		points[i] = o.Position
	}
	for _, pix := range cam.ProjectedPixels(points, g.width, g.height) {
		obj := objects[pix.Index]
		g.WriteChar(pix.X, pix.Y, obj.Glyph)
		for _, label := range obj.Labels {
			g.WriteLabel(pix.X, pix.Y, label)
		}
	}
}

var axisLabels = [6]string{"X+", "X-", "Y+", "Y-", "Z+", "Z-"}

// AddProjectionAxes marks where the six cardinal directions project
// onto the grid, labeled X+/X-/Y+/Y-/Z+/Z-, orienting the viewer
// regardless of where any object happens to be.
func (g *Grid) AddProjectionAxes(cam *camera.Camera) {
	axes := quat.UnitAxisPoints()
	for _, pix := range cam.ProjectedPixels(axes, g.width, g.height) {
		g.WriteChar(pix.X, pix.Y, '╬')
		g.WriteLabel(pix.X, pix.Y, axisLabels[pix.Index])
	}
}

// infinityScale places a prograde/retrograde marker effectively at
// infinity along the velocity direction, so it renders at a fixed
// bearing regardless of the ship's distance from other objects.
const infinityScale = 1e10

// progradeEpsilon is the minimum velocity magnitude below which no
// prograde/retrograde marker is drawn.
const progradeEpsilon = 1e-9

// AddProgradeRetrograde draws a prograde marker (×) along velocity and
// a retrograde marker (+) opposite it, each effectively at infinity,
// each with its own crosshair. If velocity's magnitude is at or below
// progradeEpsilon, nothing is drawn.
func (g *Grid) AddProgradeRetrograde(cam *camera.Camera, velocity vec3.Vec3, showLabels bool) {
	if velocity.Length() <= progradeEpsilon {
		return
	}
	prograde := velocity.Scale(infinityScale)
	retrograde := velocity.Scale(-infinityScale)
	points := []vec3.Vec3{prograde, retrograde}
	for _, pix := range cam.ProjectedPixels(points, g.width, g.height) {
		if pix.Index == 0 {
			g.WriteChar(pix.X, pix.Y, '×')
			if showLabels {
				g.WriteLabel(pix.X, pix.Y, "PROGRADE")
			}
		} else {
			g.WriteChar(pix.X, pix.Y, '+')
			if showLabels {
				g.WriteLabel(pix.X, pix.Y, "RETROGRADE")
			}
		}
		g.AddCrosshair(pix.X, pix.Y, false)
	}
}

// StatusBar describes the contents of the bottom status row.
type StatusBar struct {
	Following bool
	Tracking  bool
	Longitude float64
	Latitude  float64
	Zoom      float64
	Position  vec3.Vec3
}

// Draw joins the grid's rows with newlines and, if the grid reserved a
// status row, appends one summarizing the camera's follow/track state,
// facing, zoom, and position.
func (g *Grid) Draw(bar *StatusBar) string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	if g.showBar == 0 || bar == nil {
		return b.String()
	}
	b.WriteByte('\n')
	b.WriteString(formatStatusBar(bar))
	return b.String()
}

func formatStatusBar(bar *StatusBar) string {
	following, tracking := "flw", "trk"
	if bar.Following {
		following = "FLW"
	}
	if bar.Tracking {
		tracking = "TRK"
	}
	parts := []string{
		fmt.Sprintf("%s %s", following, tracking),
		fmt.Sprintf("%.1f°, %.1f°", bar.Longitude, bar.Latitude),
		fmt.Sprintf("x%.2f", bar.Zoom),
		fmt.Sprintf("[%s]", formatVector(bar.Position)),
	}
	return strings.Join(parts, " | ")
}

func formatVector(v vec3.Vec3) string {
	return fmt.Sprintf("%.3e,%.3e,%.3e", v.X, v.Y, v.Z)
}
