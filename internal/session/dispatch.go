package session

import (
	"log/slog"
	"sync"
)

// dispatcher delivers host notifications in order on its own goroutine so
// callbacks may call back into the controller.
type dispatcher struct {
	logger *slog.Logger

	mu    sync.Mutex
	queue []func()

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newDispatcher(logger *slog.Logger) *dispatcher {
	d := &dispatcher{
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *dispatcher) post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()

		for _, fn := range batch {
			d.call(fn)
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-d.wake:
		case <-d.quit:
			d.mu.Lock()
			rest := d.queue
			d.queue = nil
			d.mu.Unlock()
			for _, fn := range rest {
				d.call(fn)
			}
			return
		}
	}
}

func (d *dispatcher) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification callback panicked", "panic", r)
		}
	}()
	fn()
}

// stop delivers what is queued and waits for the goroutine to exit.
func (d *dispatcher) stop() {
	close(d.quit)
	<-d.done
}
