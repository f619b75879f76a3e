package notify

import "sync"

// Indicator is the shared "request in flight" flag.
type Indicator struct {
	mu     sync.Mutex
	active bool
	subs   []func(bool)
}

// NewIndicator creates an inactive Indicator
func NewIndicator() *Indicator {
	return &Indicator{}
}

// Set changes the flag and notifies subscribers when the value changed.
func (i *Indicator) Set(active bool) {
	i.mu.Lock()
	if i.active == active {
		i.mu.Unlock()
		return
	}
	i.active = active
	subs := append([]func(bool){}, i.subs...)
	i.mu.Unlock()

	for _, fn := range subs {
		fn(active)
	}
}

// Active reports whether a request is in flight
func (i *Indicator) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.active
}

// Subscribe registers fn to be called on every change
func (i *Indicator) Subscribe(fn func(bool)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.subs = append(i.subs, fn)
}
