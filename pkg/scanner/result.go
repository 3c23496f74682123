package scanner

import (
	"encoding/json"
	"sort"
	"time"
)

// Result describes one port that accepted a connection during a scan.
type Result struct {
	Port    int
	Latency time.Duration
}

// LatencyMs returns the connect latency in fractional milliseconds.
func (r Result) LatencyMs() float64 {
	return float64(r.Latency) / float64(time.Millisecond)
}

// MarshalJSON encodes the result as {"port": 443, "ms": 12.3}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Port int     `json:"port"`
		Ms   float64 `json:"ms"`
	}{Port: r.Port, Ms: r.LatencyMs()})
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (r Result) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"port": r.Port,
		"ms":   r.LatencyMs(),
	}, nil
}

// SortResults orders results ascending by port. Ports are unique within a
// scan, so the order is total and independent of probe completion order.
func SortResults(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Port < results[j].Port
	})
	return results
}
