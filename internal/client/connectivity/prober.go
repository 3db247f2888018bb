package connectivity

import (
	"context"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/client/client"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultProbeAttempts = 5
	DefaultProbeDelay    = 3 * time.Second
)

// Prober pings the server with a bounded number of fixed-delay retries.
type Prober struct {
	pinger         client.Pinger
	log            logging.Logger
	attemptTimeout time.Duration
}

func NewProber(p client.Pinger, l logging.Logger) *Prober {
	return &Prober{pinger: p, log: l.With("module", "prober"), attemptTimeout: 5 * time.Second}
}

// ProbeServer pings the server up to maxAttempts times, sleeping delay
// between attempts, and reports whether any attempt succeeded. Failure is an
// ordinary false, never an error.
func (p *Prober) ProbeServer(ctx context.Context, maxAttempts int, delay time.Duration) bool {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if delay <= 0 {
		delay = time.Millisecond
	}

	b := retry.WithMaxRetries(uint64(maxAttempts-1), retry.NewConstant(delay))

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		actx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
		defer cancel()

		if err := p.pinger.Ping(actx); err != nil {
			p.log.Debug(ctx, "server probe failed", "attempt", attempt, "max_attempts", maxAttempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		p.log.Info(ctx, "server unreachable", "attempts", attempt)
		return false
	}

	p.log.Debug(ctx, "server reachable", "attempts", attempt)
	return true
}
