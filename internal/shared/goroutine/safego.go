// Package goroutine launches goroutines whose panics are logged or returned
// instead of crashing the process.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine and logs a panic with its stack.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}

// Run calls fn on the current goroutine and converts a panic into an error,
// so a worker inside an errgroup fails its group instead of the process.
func Run(log logger.Interface, name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("worker panicked",
				"worker", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}
