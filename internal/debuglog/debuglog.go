// Package debuglog prints diagnostic messages when debugging is enabled.
package debuglog

import (
	"log"
	"os"
	"sync/atomic"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("GALLERY_DEBUG") == "1")
}

// Enabled reports whether debug output is on.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns debug output on or off.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Printf logs with a "Debug: " prefix when enabled.
func Printf(format string, args ...interface{}) {
	if enabled.Load() {
		log.Printf("Debug: "+format, args...)
	}
}
