// Package sim runs a plant model in fixed steps and exposes it through
// simulated devices.
//
// A [Plant] holds the state of a [Dynamics] model. [MotorActuator], [IMU]
// and [Rotation] read and command the plant the way real motors and sensors
// would, so the drive code cannot tell them apart from hardware. A [Runner]
// advances the plant; paired with a [clock.Mock] it runs lock-step with any
// controller sleeping on the same clock. A [Recorder] observes the run and
// keeps [Sample]s of the true and tracked pose.
package sim
