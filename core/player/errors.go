package player

import "fmt"

// InvalidIdentifierError is returned when a controller is constructed with a
// video identifier that does not match the runtime's fixed token shape. It
// fails fast: the bootstrap is never contacted.
type InvalidIdentifierError struct {
	ID string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid video identifier %q", e.ID)
}

// RuntimeLoadError is delivered to every pending bootstrap registrant when
// the runtime load itself fails. Recovery is caller-initiated retry; the
// bootstrap never re-attempts on its own.
type RuntimeLoadError struct {
	Err error
}

func (e *RuntimeLoadError) Error() string {
	return fmt.Sprintf("runtime load failed: %v", e.Err)
}

func (e *RuntimeLoadError) Unwrap() error {
	return e.Err
}

// PlaybackError is a categorized runtime error local to one controller.
// Sibling controllers are unaffected.
type PlaybackError struct {
	Reason ErrorReason
	Code   int
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("player error %d (%s)", e.Code, e.Reason)
}
