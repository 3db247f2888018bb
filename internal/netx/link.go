package netx

import (
	"context"
	"net"
	"time"
)

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// LinkWatcher observes link-layer reachability by dialing a TCP address on a
// fixed interval. A successful dial means the device has a route to the
// network; it says nothing about whether the survey server is healthy.
type LinkWatcher struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	dialer   Dialer
}

func NewLinkWatcher(addr string, interval time.Duration) *LinkWatcher {
	timeout := 3 * time.Second
	if interval < timeout {
		timeout = interval
	}
	return &LinkWatcher{
		addr:     addr,
		interval: interval,
		timeout:  timeout,
		dialer:   &net.Dialer{},
	}
}

// WithDialer replaces the dialer used for checks.
func (w *LinkWatcher) WithDialer(d Dialer) *LinkWatcher {
	w.dialer = d
	return w
}

// Check performs a single dial and reports whether it succeeded.
func (w *LinkWatcher) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	conn, err := w.dialer.DialContext(ctx, "tcp", w.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Watch emits the current link state right away and then every change of it.
// The channel is closed once ctx is done.
func (w *LinkWatcher) Watch(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)

	go func() {
		defer close(out)

		last := w.Check(ctx)
		if !send(ctx, out, last) {
			return
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				up := w.Check(ctx)
				if up == last {
					continue
				}
				last = up
				if !send(ctx, out, up) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func send(ctx context.Context, out chan<- bool, v bool) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
