// Package monitoring holds the process-wide diagnostic logger used by the
// loader, the sqlite mirror and the dashboard.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
// It returns a function that restores the previous logger.
func SetLogger(f func(format string, v ...interface{})) (restore func()) {
	prev := Logf
	if f == nil {
		Logf = func(string, ...interface{}) {}
	} else {
		Logf = f
	}
	return func() { Logf = prev }
}

// Prefixed returns a logger that prepends "[prefix] " and forwards to
// whatever Logf is at call time.
func Prefixed(prefix string) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		Logf("["+prefix+"] "+format, v...)
	}
}
