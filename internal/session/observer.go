package session

import "sync"

// WidthSource is a passive container-width observer. Subscribe registers
// fn and returns the function that unregisters it.
type WidthSource interface {
	Subscribe(fn func(width float64)) (unsubscribe func())
}

// WidthFeed is a WidthSource fed by the host, for example from resize
// events relayed by a browser.
type WidthFeed struct {
	mu   sync.Mutex
	next int
	subs map[int]func(float64)
}

// NewWidthFeed creates an empty feed.
func NewWidthFeed() *WidthFeed {
	return &WidthFeed{subs: make(map[int]func(float64))}
}

// Subscribe implements WidthSource.
func (f *WidthFeed) Subscribe(fn func(width float64)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Publish reports a new measured width to every subscriber.
func (f *WidthFeed) Publish(width float64) {
	f.mu.Lock()
	fns := make([]func(float64), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}

// Subscribers returns the number of live subscriptions.
func (f *WidthFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
