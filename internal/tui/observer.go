package tui

// ChannelNotifier adapts change callbacks to a channel for Bubble Tea.
// Bursts collapse into a single pending signal.
type ChannelNotifier struct {
	ch chan struct{}
}

// NewChannelNotifier creates a notifier with room for one pending signal.
func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan struct{}, 1)}
}

// Notify signals a change (non-blocking if a signal is already pending).
func (n *ChannelNotifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default: // Already pending
	}
}

// C returns the receive side
func (n *ChannelNotifier) C() <-chan struct{} {
	return n.ch
}
