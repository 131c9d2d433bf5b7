package tui

import (
	"sync"

	"github.com/mmcdole/cinedex/internal/catalog"
)

// ChannelObserver adapts catalog.Observer to a channel for Bubble Tea.
type ChannelObserver struct {
	mu   sync.Mutex
	last uint64 // highest Rev sent
	ch   chan catalog.State
}

// NewChannelObserver creates a new channel-based observer with the given buffer.
func NewChannelObserver(buffer int) *ChannelObserver {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelObserver{ch: make(chan catalog.State, buffer)}
}

// OnChange sends the state to the channel. When the buffer is full the
// oldest pending state is dropped so the newest one always gets through.
// A state older than one already sent is ignored.
func (o *ChannelObserver) OnChange(state catalog.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if state.Rev != 0 && state.Rev <= o.last {
		return
	}
	o.last = state.Rev
	for {
		select {
		case o.ch <- state:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// States returns the receive side of the channel
func (o *ChannelObserver) States() <-chan catalog.State {
	return o.ch
}
