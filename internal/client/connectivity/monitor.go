package connectivity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
)

// LinkSource emits link state observations. The first value is the current
// state; the channel closes when ctx is done.
type LinkSource interface {
	Watch(ctx context.Context) <-chan bool
}

// Monitor tracks the link state and notifies a subscriber when it returns.
type Monitor struct {
	src    LinkSource
	log    logging.Logger
	online atomic.Bool
}

func NewMonitor(src LinkSource, l logging.Logger) *Monitor {
	return &Monitor{src: src, log: l.With("module", "monitor")}
}

// Online reports the last observed link state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Subscribe starts following the link and calls onRestored after a down to
// up transition. The first observation only sets the baseline. Online keeps
// tracking the link while onRestored runs. Calls are sequential, and
// transitions seen while a call is running collapse into a single follow-up
// call.
//
// The returned cancel stops the subscription and blocks until the handler
// has returned, so onRestored is never called after cancel.
func (m *Monitor) Subscribe(ctx context.Context, onRestored func(ctx context.Context)) (cancel func()) {
	ctx, stop := context.WithCancel(ctx)
	restored := make(chan struct{}, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer stop()
		m.follow(ctx, restored)
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-restored:
				if ctx.Err() != nil {
					return
				}
				onRestored(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(stop)
		wg.Wait()
	}
}

// follow reads link observations until the source closes or ctx is done.
func (m *Monitor) follow(ctx context.Context, restored chan<- struct{}) {
	first := true
	ch := m.src.Watch(ctx)
	for {
		select {
		case up, ok := <-ch:
			if !ok {
				return
			}
			prev := m.online.Swap(up)
			if first {
				first = false
				m.log.Info(ctx, "link state", "online", up)
				continue
			}
			if up == prev {
				continue
			}
			m.log.Info(ctx, "link state changed", "online", up)
			if !up {
				continue
			}
			select {
			case restored <- struct{}{}:
			default:
				m.log.Debug(ctx, "restore already pending")
			}
		case <-ctx.Done():
			return
		}
	}
}
