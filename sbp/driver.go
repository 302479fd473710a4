package sbp

// Driver is the contract the interpreter requires of its motion-control
// collaborator (§6). The legacy source expresses this with callbacks
// (get/set/expectStateChange); here the "continuation" collapses into an
// ordinary blocking method call, since the engine itself runs on a single
// goroutine and is free to block (§9 "Continuation-based driver calls").
type Driver interface {
	// RunSegment submits a newline-joined G-code segment. Submission is
	// non-blocking: it does not wait for the motion described by the
	// segment to complete.
	RunSegment(text string) error

	// Get reads a single named driver parameter, e.g. "mpox", "1sa".
	Get(key string) (string, error)

	// GetMulti reads several named driver parameters in one round trip.
	GetMulti(keys []string) (map[string]string, error)

	// Set writes a named driver parameter.
	Set(key, value string) error

	// AwaitState blocks until the driver next reports a transition into
	// the given state ("running", "homing", "probe", "stop"), or returns
	// an error if the expectation is violated. It corresponds to
	// registering a one-shot handler via expectStateChange (§6) and
	// waiting for it to fire.
	AwaitState(state string) error

	// Subscribe returns a channel of status events (§6 "on('status', ...)")
	// and a function to unsubscribe and release it. The legacy source
	// calls disconnect's removeListener with the event name omitted; that
	// ambiguity cannot arise here since Unsubscribe operates on the
	// channel itself, not a named event (§9 Open Questions).
	Subscribe() (ch <-chan StatusEvent, unsubscribe func())
}
