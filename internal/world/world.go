// Package world hosts aircraft entities and drives the per-tick
// flight-dynamics pipeline.
//
// Entities live in a flat arena keyed by (index, generation): despawning a
// slot bumps its generation, so stale ids fail the liveness check instead
// of aliasing a recycled entity. Component data sits in parallel slices
// alongside the slot table.
//
// Each tick runs, per entity and in strict order: air data, aerodynamics,
// propulsion, force accumulation, integration. The integrator always
// observes the same tick's force output. Single-threaded by design.
package world

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kestrel-sim/kestrel/internal/airdata"
	"github.com/kestrel-sim/kestrel/internal/config"
	"github.com/kestrel-sim/kestrel/internal/dynamics"
	"github.com/kestrel-sim/kestrel/internal/env"
	"github.com/kestrel-sim/kestrel/internal/fdm"
	"github.com/kestrel-sim/kestrel/internal/propulsion"
)

// ErrDeadEntity indicates an entity id whose generation is stale or
// whose slot has been freed.
var ErrDeadEntity = errors.New("world: entity not alive")

// EntityID identifies an entity by arena slot and generation.
type EntityID struct {
	Index      uint32
	Generation uint32
}

type slot struct {
	generation uint32
	live       bool
}

type entity struct {
	aircraft *config.Aircraft
	spatial  fdm.SpatialState
	body     *fdm.RigidBodyState
	air      fdm.AirData
	controls fdm.ControlSurfaces
	engines  []fdm.EngineState
}

// World owns all entities and the environment they fly in.
type World struct {
	environment env.Environment
	slots       []slot
	entities    []entity
	free        []uint32
}

// New creates an empty world. A nil environment defaults to calm air.
func New(environment env.Environment) *World {
	if environment == nil {
		environment = env.Calm{}
	}
	return &World{environment: environment}
}

// Spawn creates an entity from an aircraft definition and initial state.
func (w *World) Spawn(ac *config.Aircraft, spatial fdm.SpatialState, controls fdm.ControlSurfaces) EntityID {
	controls.Clamp()
	e := entity{
		aircraft: ac,
		spatial:  spatial,
		body:     ac.RigidBody(),
		controls: controls,
		engines:  make([]fdm.EngineState, len(ac.Engines)),
	}

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
		w.slots[idx].live = true
		w.entities[idx] = e
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{live: true})
		w.entities = append(w.entities, e)
	}
	return EntityID{Index: idx, Generation: w.slots[idx].generation}
}

// Despawn frees an entity slot, invalidating its id. Returns false for an
// id that is already dead or stale.
func (w *World) Despawn(id EntityID) bool {
	if !w.Alive(id) {
		return false
	}
	w.slots[id.Index].live = false
	w.slots[id.Index].generation++
	w.entities[id.Index] = entity{}
	w.free = append(w.free, id.Index)
	return true
}

// Alive reports whether an id refers to a live entity of the same
// generation.
func (w *World) Alive(id EntityID) bool {
	return id.Index < uint32(len(w.slots)) &&
		w.slots[id.Index].live &&
		w.slots[id.Index].generation == id.Generation
}

func (w *World) get(id EntityID) *entity {
	if !w.Alive(id) {
		return nil
	}
	return &w.entities[id.Index]
}

// Spatial returns the entity's spatial state, or nil for a dead id.
func (w *World) Spatial(id EntityID) *fdm.SpatialState {
	if e := w.get(id); e != nil {
		return &e.spatial
	}
	return nil
}

// Body returns the entity's rigid-body state, or nil for a dead id.
func (w *World) Body(id EntityID) *fdm.RigidBodyState {
	if e := w.get(id); e != nil {
		return e.body
	}
	return nil
}

// Air returns the entity's last computed air data, or nil for a dead id.
func (w *World) Air(id EntityID) *fdm.AirData {
	if e := w.get(id); e != nil {
		return &e.air
	}
	return nil
}

// Controls returns the entity's control surfaces, or nil for a dead id.
// Pilot, agent or autopilot inputs mutate these between ticks.
func (w *World) Controls(id EntityID) *fdm.ControlSurfaces {
	if e := w.get(id); e != nil {
		return &e.controls
	}
	return nil
}

// Engines returns the entity's engine states, or nil for a dead id.
func (w *World) Engines(id EntityID) []fdm.EngineState {
	if e := w.get(id); e != nil {
		return e.engines
	}
	return nil
}

// Aircraft returns the entity's airframe definition, or nil for a dead id.
func (w *World) Aircraft(id EntityID) *config.Aircraft {
	if e := w.get(id); e != nil {
		return e.aircraft
	}
	return nil
}

// Environment returns the world's environment.
func (w *World) Environment() env.Environment { return w.environment }

// Step advances every live entity by one fixed dt through the pipeline.
func (w *World) Step(dt float64) {
	for i := range w.entities {
		if !w.slots[i].live {
			continue
		}
		w.stepEntity(&w.entities[i], dt)
	}
}

func (w *World) stepEntity(e *entity, dt float64) {
	ac := e.aircraft

	wind := w.environment.WindAt(e.spatial.Position)
	density := w.environment.DensityAt(e.spatial.Position)

	e.air = airdata.Compute(&e.spatial, wind, density, ac.Limits.MinAirspeed)

	e.body.ResetAccumulators()

	model := ac.AeroModel()
	aeroForce, aeroMoment := model.Compute(e.air, e.spatial.AngularVelocity, e.controls)
	e.body.AddForce(aeroForce, fdm.FrameBody, fdm.CategoryAerodynamic)
	e.body.AddMoment(aeroMoment, fdm.FrameBody, fdm.CategoryAerodynamic)

	for i := range e.engines {
		f := propulsion.Step(&e.engines[i], ac.Engines[i], e.controls.PowerLever, density, e.air.TrueAirspeed, dt)
		e.body.Forces = append(e.body.Forces, f)
	}

	dynamics.Accumulate(e.body, e.spatial.Attitude, dynamics.Gravity)

	dynamics.Advance(e.body, &e.spatial, dt, dynamics.Limits{
		MaxVelocity:        ac.Limits.MaxVelocity,
		MaxAngularVelocity: ac.Limits.MaxAngularVelocity,
	})
}

// LevelFlight builds a spatial state for level flight at an altitude,
// airspeed and heading, a convenient spawn condition.
func LevelFlight(altitude, airspeed, headingRad float64) fdm.SpatialState {
	att := fdm.QuatFromEuler(0, 0, headingRad)
	return fdm.SpatialState{
		Position: mgl64.Vec3{0, 0, -altitude},
		Velocity: att.Rotate(mgl64.Vec3{airspeed, 0, 0}),
		Attitude: att,
	}
}
