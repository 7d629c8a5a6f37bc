// Package fdm provides the core data model for rigid-body flight dynamics.
//
// The package defines the state carried per aircraft entity and the
// frame-tagged force/moment primitives the per-tick pipeline accumulates:
//
//   - [SpatialState]: position, velocity, attitude, angular velocity
//   - [RigidBodyState]: mass properties plus tick-scoped force/moment accumulators
//   - [Force], [Moment]: tagged vectors with an explicit reference [Frame]
//   - [AirData]: derived air-data quantities, recomputed every tick
//   - [ControlSurfaces], [EngineState]: control and propulsion state
//
// # Frames
//
// World coordinates are NED (north-east-down); altitude is -Position.Z().
// The body frame is vehicle-fixed, x forward and z down. Attitude is a unit
// quaternion rotating body vectors into the world frame.
//
// # Tick Discipline
//
// Force and moment lists on [RigidBodyState] are tick-scoped: the caller
// drains them with [RigidBodyState.ResetAccumulators] before each tick's
// recomputation. Accumulation is at-most-once per tick, never additive
// across ticks.
package fdm
