// Package physics implements the tick-driven derivative engine that
// advances every tracked object's kinematic state: position, velocity,
// and acceleration, stored as parallel slices per stat name.
package physics

import "github.com/voidreach/simcore/internal/vec3"

// StatTable holds, for every tracked object, the current value of a
// stat and its first and second derivatives. Index i across Value,
// Derivative, and DerivativeSecond refers to the same object.
type StatTable struct {
	Value            []vec3.Vec3
	Derivative       []vec3.Vec3
	DerivativeSecond []vec3.Vec3
}

// Engine owns a set of named stat tables, all sharing the same object
// count, and advances them in lockstep on each Tick.
type Engine struct {
	stats       map[string]*StatTable
	objectCount int
}

// NewEngine creates an Engine with one empty StatTable per name in
// statNames.
func NewEngine(statNames ...string) *Engine {
	e := &Engine{stats: make(map[string]*StatTable, len(statNames))}
	for _, name := range statNames {
		e.stats[name] = &StatTable{}
	}
	return e
}

// GetStat returns the current value row for statName. The returned
// slice aliases the engine's internal storage; writes through it
// mutate the engine's state.
func (e *Engine) GetStat(statName string) []vec3.Vec3 {
	return e.stats[statName].Value
}

// GetDerivative returns the first-derivative row for statName.
func (e *Engine) GetDerivative(statName string) []vec3.Vec3 {
	return e.stats[statName].Derivative
}

// GetDerivativeSecond returns the second-derivative row for statName.
func (e *Engine) GetDerivativeSecond(statName string) []vec3.Vec3 {
	return e.stats[statName].DerivativeSecond
}

// ObjectCount returns the number of objects currently tracked.
func (e *Engine) ObjectCount() int {
	return e.objectCount
}

// Tick advances every stat table by dt: value is updated using the
// derivative from before this step, and only then is the derivative
// itself updated by the second derivative. This ordering (first-order
// before second-order) must not be swapped; callers that need the
// post-tick derivative must read it after Tick returns.
func (e *Engine) Tick(dt float64) {
	for _, table := range e.stats {
		for i := range table.Value {
			table.Value[i] = table.Value[i].Add(table.Derivative[i].Scale(dt))
			table.Derivative[i] = table.Derivative[i].Add(table.DerivativeSecond[i].Scale(dt))
		}
	}
}

// Snapshot returns a deep copy of every stat table, suitable for a
// later Restore. The copy does not alias the engine's own storage.
func (e *Engine) Snapshot() map[string]StatTable {
	out := make(map[string]StatTable, len(e.stats))
	for name, table := range e.stats {
		out[name] = StatTable{
			Value:            append([]vec3.Vec3(nil), table.Value...),
			Derivative:       append([]vec3.Vec3(nil), table.Derivative...),
			DerivativeSecond: append([]vec3.Vec3(nil), table.DerivativeSecond...),
		}
	}
	return out
}

// Restore replaces every stat table's contents with a prior Snapshot,
// leaving object count untouched (a restore never un-adds objects
// created after the snapshot was taken; those rows are simply left as
// they were when the snapshot predates them, matching the
// rewind-ticks-not-rewind-genesis nature of the debug aid this backs).
func (e *Engine) Restore(snapshot map[string]StatTable) {
	for name, table := range snapshot {
		dst, ok := e.stats[name]
		if !ok {
			continue
		}
		copy(dst.Value, table.Value)
		copy(dst.Derivative, table.Derivative)
		copy(dst.DerivativeSecond, table.DerivativeSecond)
	}
}

// AddObjects grows every stat table by count zero-valued rows and
// returns the index of the first newly added object. Shrinking is not
// supported; the engine is grow-only for the lifetime of a run.
func (e *Engine) AddObjects(count int) int {
	first := e.objectCount
	e.objectCount += count
	for _, table := range e.stats {
		table.Value = append(table.Value, make([]vec3.Vec3, count)...)
		table.Derivative = append(table.Derivative, make([]vec3.Vec3, count)...)
		table.DerivativeSecond = append(table.DerivativeSecond, make([]vec3.Vec3, count)...)
	}
	return first
}
