// Package physics provides the plant model behind the simulated robot.
//
// [TankBase] implements [sim.Dynamics] for a skid-steer drivetrain with
// lagged motors and an optional lateral tracking wheel, and
// [sim.Configurable] for runtime parameter adjustment:
//
//	base := physics.NewTankBase()
//	_ = base.SetParam("lateral_slip", 0.02)
//	plant, err := sim.NewPlant(base, integrators.NewRK4(), make(sim.State, base.StateDim()))
package physics
