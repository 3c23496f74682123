package scanexec

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lestorrr/NetLab/pkg/portspec"
	"github.com/lestorrr/NetLab/pkg/probe"
	"github.com/lestorrr/NetLab/pkg/scanner"
)

// Resolver looks up the addresses of a host name.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type ProgressSink interface {
	OnEvent(ProgressEvent)
}

// ProgressSinkFunc adapts an ordinary function to the ProgressSink interface.
type ProgressSinkFunc func(ProgressEvent)

// OnEvent calls f(ev).
func (f ProgressSinkFunc) OnEvent(ev ProgressEvent) {
	f(ev)
}

// ProgressEvent reports a scan phase transition or a single probe outcome.
// Probe events arrive concurrently and may trail an aborted scan.
type ProgressEvent struct {
	Phase     string // resolve, parse, scan, probe
	Port      int    // set for probe events
	Total     int    // ports in the scan, set once parsing succeeds
	Status    string
	Message   string
	Timestamp time.Time
}

// Service runs scans for the CLI and the HTTP API.
type Service struct {
	resolver      Resolver
	proberFactory func(timeout time.Duration) probe.Prober
	progressSink  ProgressSink
	logger        zerolog.Logger
	newID         func() string
}

// NewService builds a Service with default dependencies.
func NewService() *Service {
	return &Service{
		resolver: net.DefaultResolver,
		proberFactory: func(timeout time.Duration) probe.Prober {
			return probe.NewTCPProber(timeout)
		},
		logger: log.With().Str("component", "scanexec").Logger(),
		newID:  uuid.NewString,
	}
}

// WithProgressSink attaches a sink to receive progress notifications.
func (s *Service) WithProgressSink(sink ProgressSink) *Service {
	s.progressSink = sink
	return s
}

// WithResolver replaces the DNS resolver (useful for tests).
func (s *Service) WithResolver(r Resolver) *Service {
	s.resolver = r
	return s
}

// WithProberFactory allows replacing the prober constructor (useful for tests).
func (s *Service) WithProberFactory(factory func(timeout time.Duration) probe.Prober) *Service {
	s.proberFactory = factory
	return s
}

// WithLogger overrides the service logger.
func (s *Service) WithLogger(l zerolog.Logger) *Service {
	s.logger = l
	return s
}

// Run validates params, applies the guard, parses the port specification and
// scans. The context bounds the whole scan.
func (s *Service) Run(ctx context.Context, params Params) (*Result, error) {
	params = params.withDefaults()
	if params.Host == "" {
		return nil, ErrNoHost
	}
	host := params.Host

	ip, err := s.checkTarget(ctx, host, params.Guard)
	if err != nil {
		s.logger.Info().Str("host", host).Err(err).Msg("Scan refused")
		return nil, err
	}

	ports := portspec.ParseLimit(params.Ports, params.MaxPorts)
	if len(ports) == 0 {
		s.emit("parse", 0, "failed", params.Ports)
		return nil, fmt.Errorf("%q: %w", params.Ports, ErrNoValidPorts)
	}
	s.publish(ProgressEvent{Phase: "parse", Status: "completed", Total: len(ports), Message: "ports=" + strconv.Itoa(len(ports))})

	var closed atomic.Int64
	observer := scanner.ObserverFunc(func(port int, outcome probe.Outcome) {
		if !outcome.IsOpen() {
			closed.Add(1)
		}
		s.emit("probe", port, outcome.String(), "")
	})

	sc := scanner.New(
		scanner.WithProber(s.proberFactory(params.Timeout)),
		scanner.WithConcurrency(params.Concurrency),
		scanner.WithObserver(observer),
		scanner.WithLogger(s.logger),
	)

	s.publish(ProgressEvent{Phase: "scan", Status: "start", Total: len(ports), Message: host})
	start := time.Now()
	open, err := sc.ScanContext(ctx, host, ports)
	end := time.Now()
	if err != nil {
		s.emit("scan", 0, "failed", err.Error())
		return nil, err
	}
	s.emit("scan", 0, "completed", "open="+strconv.Itoa(len(open)))

	res := &Result{
		ID:           s.newID(),
		Host:         host,
		IP:           ip,
		PortsScanned: len(ports),
		OpenPorts:    open,
		ClosedCount:  int(closed.Load()),
		StartTime:    start,
		EndTime:      end,
		Elapsed:      end.Sub(start),
	}
	s.logger.Info().
		Str("scan_id", res.ID).
		Str("host", host).
		Int("ports", res.PortsScanned).
		Int("open", len(open)).
		Float64("took_ms", res.TookMs()).
		Msg("Scan finished")

	return res, nil
}

// checkTarget resolves host and applies guard to the name and to every
// resolved address. The probes dial the name again, so any address it
// resolves to must be allowed. The first address is reported as the IP.
// Without a guard a failed lookup is not an error; the probes will report closed.
func (s *Service) checkTarget(ctx context.Context, host string, guard Guard) (string, error) {
	if guard != nil {
		if err := guard.Check(host); err != nil {
			return "", fmt.Errorf("%s: %w", host, ErrTargetDenied)
		}
	}

	var addrs []string
	if s.resolver != nil {
		found, err := s.resolver.LookupHost(ctx, host)
		if err == nil {
			addrs = found
		}
		if len(addrs) == 0 && guard != nil {
			return "", fmt.Errorf("%s: %w", host, ErrUnresolvableHost)
		}
	}

	ip := ""
	if len(addrs) > 0 {
		ip = addrs[0]
	}
	s.emit("resolve", 0, "completed", ip)

	if guard != nil {
		for _, addr := range addrs {
			if err := guard.Check(addr); err != nil {
				return "", fmt.Errorf("%s (%s): %w", host, addr, ErrTargetDenied)
			}
		}
	}
	return ip, nil
}

func (s *Service) emit(phase string, port int, status, msg string) {
	s.publish(ProgressEvent{Phase: phase, Port: port, Status: status, Message: msg})
}

func (s *Service) publish(ev ProgressEvent) {
	if s.progressSink == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.progressSink.OnEvent(ev)
}
