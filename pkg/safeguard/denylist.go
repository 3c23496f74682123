// Package safeguard keeps the HTTP scan surface from being pointed at
// private, loopback and internal-only targets.
package safeguard

import (
	"errors"
	"net/netip"
	"strings"
	"sync/atomic"
)

// ErrDenied is returned when a target matches the deny list.
var ErrDenied = errors.New("target is not allowed")

// DefaultDenyList blocks private and local networks, internal host suffixes
// and onion services.
var DefaultDenyList = []string{
	"10.", "192.168.", "127.", "::1", "localhost", "fc00:", "fe80:",
	".local", ".lan", ".home",
	".onion",
}

// DenyList matches targets against lowercase substrings. It is safe for
// concurrent use and its patterns can be replaced at runtime.
type DenyList struct {
	patterns atomic.Pointer[[]string]
}

// NewDenyList builds a DenyList from patterns.
func NewDenyList(patterns []string) *DenyList {
	d := &DenyList{}
	d.Replace(patterns)
	return d
}

// Replace swaps the active pattern set.
func (d *DenyList) Replace(patterns []string) {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	d.patterns.Store(&normalized)
}

// Patterns returns a copy of the active patterns.
func (d *DenyList) Patterns() []string {
	current := d.patterns.Load()
	if current == nil {
		return nil
	}
	out := make([]string, len(*current))
	copy(out, *current)
	return out
}

// Denied reports whether target is empty, is a non-public IP literal or
// contains any deny pattern.
func (d *DenyList) Denied(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		return true
	}
	if nonPublic(t) {
		return true
	}
	current := d.patterns.Load()
	if current == nil {
		return false
	}
	for _, p := range *current {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// Check returns ErrDenied when any of targets is denied.
func (d *DenyList) Check(targets ...string) error {
	for _, t := range targets {
		if d.Denied(t) {
			return ErrDenied
		}
	}
	return nil
}

// nonPublic reports whether t is an IP literal in a private, loopback,
// link-local or unspecified range.
func nonPublic(t string) bool {
	addr, err := netip.ParseAddr(strings.Trim(t, "[]"))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsUnspecified()
}
