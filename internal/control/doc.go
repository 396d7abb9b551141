// Package control provides the PID feedback controller used by the drive
// motion primitives.
//
// A [PID] is configured through a [PIDConfig] value and built against a
// [clock.Clock], so timeouts and settle windows can be driven by a mock clock
// in tests and simulation:
//
//	pid := control.DefaultPIDConfig().
//		WithConstants(1.2, 0.01, -0.5).
//		WithIntegralZone(10).
//		WithSettleZone(1).
//		WithSettleTimeout(250 * time.Millisecond).
//		WithTimeout(3 * time.Second).
//		Build(clk)
//
//	pid.Reset()
//	for !pid.IsCompleted() {
//		out := pid.CalculateTarget(target, measured())
//		// command out, sleep one period
//	}
//
// The derivative term is prevError - error, so a damping kd is negative.
// Controllers expose [PID.Params] and [PID.SetParam] for live tuning.
package control
