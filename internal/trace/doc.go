// Package trace streams per-cycle state to an external debugger over
// socket.io.
//
// A Publisher is a driver.Observer: after every cycle it emits one "cycle"
// event carrying the cycle number, the active groups and the ports whose
// settled value changed since the previous event.
package trace
