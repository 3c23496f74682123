// Package scanner fans TCP connect probes out across a port list while
// bounding how many connection attempts are in flight at once.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/lestorrr/NetLab/pkg/probe"
)

// DefaultConcurrency is the default ceiling on simultaneous connect attempts.
const DefaultConcurrency = 200

// Observer is notified after every probe resolves. Calls arrive concurrently
// from probe goroutines in completion order.
type Observer interface {
	OnProbe(port int, outcome probe.Outcome)
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(port int, outcome probe.Outcome)

// OnProbe calls f(port, outcome).
func (f ObserverFunc) OnProbe(port int, outcome probe.Outcome) {
	f(port, outcome)
}

// Scanner probes every port of a host under a fixed admission ceiling.
type Scanner struct {
	prober      probe.Prober
	concurrency int
	observer    Observer
	logger      zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithProber replaces the default TCP prober.
func WithProber(p probe.Prober) Option {
	return func(s *Scanner) {
		if p != nil {
			s.prober = p
		}
	}
}

// WithTimeout installs a TCP prober bounded by timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scanner) {
		s.prober = probe.NewTCPProber(timeout)
	}
}

// WithConcurrency sets the admission ceiling. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithObserver registers an observer for probe outcomes.
func WithObserver(o Observer) Option {
	return func(s *Scanner) {
		s.observer = o
	}
}

// WithLogger overrides the scanner logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// New builds a Scanner. Without options it uses a TCP prober with
// probe.DefaultTimeout and DefaultConcurrency.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		prober:      probe.NewTCPProber(probe.DefaultTimeout),
		concurrency: DefaultConcurrency,
		logger:      log.With().Str("component", "scanner").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Concurrency returns the admission ceiling.
func (s *Scanner) Concurrency() int {
	return s.concurrency
}

// Scan probes every port of host and returns the open ones sorted by port.
//
// One goroutine is spawned per port; each must hold an admission slot for
// the whole connect attempt, so at most Concurrency attempts are in flight.
// Scan returns only after every probe has resolved. Individual probe
// failures never surface; the only error is a failure to admit a probe.
func (s *Scanner) Scan(host string, ports []int) ([]Result, error) {
	started := time.Now()
	s.logger.Debug().
		Str("host", host).
		Int("ports", len(ports)).
		Int("concurrency", s.concurrency).
		Msg("Starting scan")

	gate := semaphore.NewWeighted(int64(s.concurrency))

	var (
		mu      sync.Mutex
		results = make([]Result, 0)
		g       errgroup.Group
	)

	for _, port := range ports {
		port := port
		g.Go(func() error {
			outcome, err := s.admit(gate, host, port)
			if err != nil {
				return err
			}
			if s.observer != nil {
				s.observer.OnProbe(port, outcome)
			}
			if !outcome.IsOpen() {
				return nil
			}

			mu.Lock()
			results = append(results, Result{Port: port, Latency: outcome.Latency()})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("host", host).Msg("Scan failed")
		return nil, err
	}

	s.logger.Debug().
		Str("host", host).
		Int("open", len(results)).
		Dur("elapsed", time.Since(started)).
		Msg("Scan completed")

	return SortResults(results), nil
}

// admit holds one gate slot for the duration of a single probe.
func (s *Scanner) admit(gate *semaphore.Weighted, host string, port int) (probe.Outcome, error) {
	if err := gate.Acquire(context.Background(), 1); err != nil {
		return probe.Closed, fmt.Errorf("admit probe for port %d: %w", port, err)
	}
	defer gate.Release(1)

	return s.prober.Probe(host, port), nil
}

// ScanContext runs Scan and races it against ctx. When ctx ends first the
// scan is reported as aborted with no results; probes already started keep
// running until their own timeouts resolve them.
func (s *Scanner) ScanContext(ctx context.Context, host string, ports []int) ([]Result, error) {
	type scanReturn struct {
		results []Result
		err     error
	}

	done := make(chan scanReturn, 1)
	go func() {
		results, err := s.Scan(host, ports)
		done <- scanReturn{results: results, err: err}
	}()

	select {
	case r := <-done:
		return r.results, r.err
	case <-ctx.Done():
		s.logger.Warn().Str("host", host).Err(ctx.Err()).Msg("Scan aborted")
		return nil, fmt.Errorf("scan aborted: %w", ctx.Err())
	}
}
