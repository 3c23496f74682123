package scanexec

import (
	"encoding/json"
	"time"

	"github.com/lestorrr/NetLab/pkg/scanner"
)

// Result is the outcome of one completed scan.
type Result struct {
	ID           string
	Host         string
	IP           string // first resolved address, empty when resolution failed
	PortsScanned int
	OpenPorts    []scanner.Result // ascending by port
	ClosedCount  int
	StartTime    time.Time
	EndTime      time.Time
	Elapsed      time.Duration
}

// TookMs returns the scan wall time in fractional milliseconds.
func (r *Result) TookMs() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// report is the serialized form shared by the JSON and YAML encoders.
type report struct {
	ScanID       string           `json:"scan_id" yaml:"scan_id"`
	Host         string           `json:"host" yaml:"host"`
	IP           string           `json:"ip,omitempty" yaml:"ip,omitempty"`
	PortsScanned int              `json:"portsScanned" yaml:"ports_scanned"`
	OpenPorts    []scanner.Result `json:"openPorts" yaml:"open_ports"`
	ClosedCount  int              `json:"closedCount" yaml:"closed_count"`
	StartTime    time.Time        `json:"startTime" yaml:"start_time"`
	EndTime      time.Time        `json:"endTime" yaml:"end_time"`
	TookMs       float64          `json:"tookMs" yaml:"took_ms"`
}

func (r *Result) report() report {
	open := r.OpenPorts
	if open == nil {
		open = []scanner.Result{}
	}
	return report{
		ScanID:       r.ID,
		Host:         r.Host,
		IP:           r.IP,
		PortsScanned: r.PortsScanned,
		OpenPorts:    open,
		ClosedCount:  r.ClosedCount,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		TookMs:       r.TookMs(),
	}
}

// MarshalJSON encodes the result with camelCase keys and a tookMs field.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.report())
}

// MarshalYAML encodes the result with snake_case keys.
func (r *Result) MarshalYAML() (interface{}, error) {
	return r.report(), nil
}
