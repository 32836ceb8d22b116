// Package clock provides a tiny time abstraction.
//
// Countdown, token expiry and auto-dismiss timers depend on Clocker instead of
// calling the time package directly, so tests can pin the current time and
// fire timers on demand.
package clock
