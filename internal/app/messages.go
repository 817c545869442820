package app

import "time"

// TickMsg drives the controller: key polling, elapsed-time checks, and
// the render refresh all happen on this cadence.
type TickMsg time.Time

// ScanErrorMsg reports an asynchronous scanner failure.
type ScanErrorMsg struct {
	Err error
}
