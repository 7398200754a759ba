// Package providers defines the capability interfaces that stand in for
// third-party threat-intel services (Shodan/Censys-style host lookups and
// search APIs). Their actual implementations are deliberately out of scope
// — these interfaces exist so the CLI boundary can accept a pluggable
// adapter without the rest of the module depending on any one vendor's SDK.
package providers

import "context"

// Provider is the capability every pluggable adapter implements: a name for
// logging/selection, and a health check a caller can poll before relying on it.
type Provider interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

// HostRecord is what a HostLookup returns for one IP: open ports, detected
// services, and any tags the provider assigns (e.g. "scanner", "tor-exit").
type HostRecord struct {
	IP       string
	Ports    []int
	Services map[int]string
	Tags     []string
}

// HostLookup looks up a single host by IP, the Shodan/Censys "host" query shape.
type HostLookup interface {
	Provider
	LookupHost(ctx context.Context, ip string) (HostRecord, error)
}

// SearchProvider runs a vendor-specific query string and returns matching hosts.
type SearchProvider interface {
	Provider
	Search(ctx context.Context, query string) ([]HostRecord, error)
}

// Noop is a HostLookup/SearchProvider that reports healthy and returns no
// results — the default when no vendor adapter is configured, so callers
// never need a nil check.
type Noop struct{ name string }

// NewNoop returns a Noop provider identifying itself as name.
func NewNoop(name string) *Noop { return &Noop{name: name} }

func (n *Noop) Name() string { return n.name }

func (n *Noop) HealthCheck(ctx context.Context) error { return nil }

func (n *Noop) LookupHost(ctx context.Context, ip string) (HostRecord, error) {
	return HostRecord{IP: ip}, nil
}

func (n *Noop) Search(ctx context.Context, query string) ([]HostRecord, error) {
	return nil, nil
}
