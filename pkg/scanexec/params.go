package scanexec

import (
	"strings"
	"time"

	"github.com/lestorrr/NetLab/pkg/portspec"
	"github.com/lestorrr/NetLab/pkg/probe"
	"github.com/lestorrr/NetLab/pkg/scanner"
)

// Guard refuses targets that must not be scanned.
type Guard interface {
	Check(targets ...string) error
}

// Params describes one scan request.
type Params struct {
	Host        string
	Ports       string        // port specification, e.g. "22,80,8000-8010"
	Concurrency int           // admission ceiling
	Timeout     time.Duration // per-probe connect timeout
	MaxPorts    int           // truncates the parsed set when positive
	Guard       Guard         // optional; nil allows every target
}

// withDefaults fills unset fields.
func (p Params) withDefaults() Params {
	p.Host = strings.TrimSpace(p.Host)
	if strings.TrimSpace(p.Ports) == "" {
		p.Ports = portspec.DefaultSpec
	}
	if p.Concurrency < 1 {
		p.Concurrency = scanner.DefaultConcurrency
	}
	if p.Timeout <= 0 {
		p.Timeout = probe.DefaultTimeout
	}
	return p
}
