// Package portspec turns textual port specifications such as "22,80,8000-8100"
// into bounded, deduplicated, ascending port lists.
//
// Parsing is total: malformed tokens and out-of-range single ports are dropped
// silently, and an all-malformed or empty specification yields an empty list.
package portspec

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinPort and MaxPort bound the valid TCP port domain.
	MinPort = 1
	MaxPort = 65535

	// MaxPorts is the hard ceiling on distinct ports a single specification can yield.
	MaxPorts = 1000

	// DefaultSpec is used by callers when no specification is supplied.
	DefaultSpec = "1-1024"
)

// Set is an insertion-ordered, duplicate-rejecting accumulator of ports with a
// fixed capacity. Once full, every further Add is a no-op.
type Set struct {
	limit int
	seen  map[int]struct{}
	order []int
}

// NewSet returns an empty Set holding at most limit ports.
func NewSet(limit int) *Set {
	return &Set{
		limit: limit,
		seen:  make(map[int]struct{}),
	}
}

// Full reports whether the set has reached its capacity.
func (s *Set) Full() bool {
	return len(s.order) >= s.limit
}

// Add inserts port unless the set is full or already holds it.
// It returns false when the set is full, which tells range expansion to stop.
func (s *Set) Add(port int) bool {
	if s.Full() {
		return false
	}
	if _, ok := s.seen[port]; ok {
		return true
	}
	s.seen[port] = struct{}{}
	s.order = append(s.order, port)
	return true
}

// Len returns the number of distinct ports held.
func (s *Set) Len() int {
	return len(s.order)
}

// Sorted returns the held ports in ascending order.
func (s *Set) Sorted() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	sort.Ints(out)
	return out
}

// Parse converts spec into an ascending list of distinct ports in [1, 65535],
// capped at MaxPorts entries.
//
// The cap is checked before every single insertion. Once it is reached inside
// a range the rest of that range is abandoned, and every later token
// contributes nothing, so which ports survive depends on token order.
func Parse(spec string) []int {
	return ParseLimit(spec, MaxPorts)
}

// ParseLimit is Parse with a lower cap. Limits outside [1, MaxPorts] use
// MaxPorts. The cap applies in token order exactly as in Parse.
func ParseLimit(spec string, limit int) []int {
	if limit < 1 || limit > MaxPorts {
		limit = MaxPorts
	}
	set := NewSet(limit)

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if strings.Contains(token, "-") {
			addRange(set, token)
			continue
		}

		port, err := strconv.Atoi(token)
		if err != nil || port < MinPort || port > MaxPort {
			continue
		}
		set.Add(port)
	}

	return set.Sorted()
}

// addRange expands an "a-b" token into set. Inverted bounds are normalized and
// both ends are clamped to the port domain.
func addRange(set *Set, token string) {
	bounds := strings.SplitN(token, "-", 2)
	a, okA := parseBound(bounds[0])
	b, okB := parseBound(bounds[1])
	if !okA || !okB {
		return
	}

	start := max(MinPort, min(a, b))
	end := min(MaxPort, max(a, b))
	for p := start; p <= end; p++ {
		if !set.Add(p) {
			return
		}
	}
}

// parseBound reads one range bound. Integers too large for an int saturate
// and are clamped to the port domain by the caller like any other bound.
func parseBound(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err == nil {
		return n, true
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return n, true
	}
	return 0, false
}

// Join renders ports back into a comma-separated specification.
func Join(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
