package demo

import (
	"sort"
	"sync"

	"aura-radar/internal/geo"
)

// Firewall records blocked addresses. It never touches the host firewall.
type Firewall struct {
	mu      sync.Mutex
	blocked map[string]struct{}
}

func NewFirewall() *Firewall {
	return &Firewall{blocked: make(map[string]struct{})}
}

// Block adds ip. Private addresses are never blocked. It reports whether ip was newly added.
func (f *Firewall) Block(ip string) bool {
	if geo.IsPrivateString(ip) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blocked[ip]; ok {
		return false
	}
	f.blocked[ip] = struct{}{}
	return true
}

func (f *Firewall) Unblock(ip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blocked, ip)
}

// List returns the blocked addresses in sorted order.
func (f *Firewall) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.blocked))
	for ip := range f.blocked {
		out = append(out, ip)
	}
	sort.Strings(out)
	return out
}
