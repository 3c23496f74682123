// Package probe performs single timeout-bounded TCP connect attempts.
package probe

import (
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds one connect attempt when none is configured.
const DefaultTimeout = 800 * time.Millisecond

// Outcome is the result of one probe: either Open with a connect latency, or Closed.
// Closed carries no detail about why the connection failed.
type Outcome struct {
	open    bool
	latency time.Duration
}

// Closed is the outcome of every failed connect attempt.
var Closed = Outcome{}

// Open returns the outcome of a connection established after latency.
func Open(latency time.Duration) Outcome {
	if latency < 0 {
		latency = 0
	}
	return Outcome{open: true, latency: latency}
}

// IsOpen reports whether the connection was established.
func (o Outcome) IsOpen() bool { return o.open }

// Latency returns the connect latency of an open outcome, zero otherwise.
func (o Outcome) Latency() time.Duration { return o.latency }

// LatencyMs returns the connect latency in fractional milliseconds.
func (o Outcome) LatencyMs() float64 {
	return float64(o.latency) / float64(time.Millisecond)
}

func (o Outcome) String() string {
	if !o.open {
		return "closed"
	}
	return "open"
}

// Prober attempts a connection to one host port. Implementations never fail:
// every error path collapses into Closed.
type Prober interface {
	Probe(host string, port int) Outcome
}

// ProberFunc adapts an ordinary function to the Prober interface.
type ProberFunc func(host string, port int) Outcome

// Probe calls f(host, port).
func (f ProberFunc) Probe(host string, port int) Outcome {
	return f(host, port)
}

// TCPProber connects with a plain TCP handshake and exchanges no payload.
type TCPProber struct {
	// Timeout bounds name resolution plus connection establishment.
	Timeout time.Duration
}

// NewTCPProber returns a TCPProber; non-positive timeouts fall back to DefaultTimeout.
func NewTCPProber(timeout time.Duration) *TCPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCPProber{Timeout: timeout}
}

// Probe measures how long host:port takes to accept a TCP connection.
func (p *TCPProber) Probe(host string, port int) Outcome {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return Closed
	}
	latency := time.Since(start)

	// Close errors are irrelevant once the handshake has succeeded.
	_ = conn.Close()
	return Open(latency)
}
