package core

// Frame is one raw signaling payload as it arrived on the wire.
type Frame []byte

// Channel abstracts the transport endpoint of one connected participant.
// Owned by the adapter; the adapter must Close() it. The router only ever
// talks to peers through this interface, which keeps it testable with fakes.
type Channel interface {
	// IsOpen reports whether the endpoint can still accept frames.
	IsOpen() bool
	// TrySend enqueues a frame without blocking. It returns an error when
	// the channel is closed or its buffer is full; callers absorb that.
	TrySend(Frame) error
	// Close releases the endpoint. Safe to call more than once.
	Close()
}
