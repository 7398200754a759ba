// Package dnsserver serves the zones built by internal/zonebuild over UDP
// and TCP, reloading them on an interval without dropping in-flight queries.
package dnsserver

import (
	"strings"
	"sync/atomic"

	"github.com/i1is/trustplane/internal/zonebuild"
	"github.com/miekg/dns"
)

// Authority holds the currently-served catalog behind a single atomic
// pointer (spec §5: "single atomic pointer exchange"), so the reload loop
// can swap in a freshly built catalog without a lock on the query path.
type Authority struct {
	current atomic.Pointer[zonebuild.Catalog]
}

// NewAuthority returns an Authority serving no zones until Store is called.
func NewAuthority() *Authority {
	return &Authority{}
}

// Store swaps in a new catalog. Callers typically only do this from the
// reload loop after a successful build.
func (a *Authority) Store(cat *zonebuild.Catalog) {
	a.current.Store(cat)
}

// Load returns the currently-served catalog, or nil if none has been
// loaded yet.
func (a *Authority) Load() *zonebuild.Catalog {
	return a.current.Load()
}

// zoneFor returns the most specific zone whose origin is a suffix of name,
// or nil if name falls outside every served zone.
func zoneFor(cat *zonebuild.Catalog, name string) *zonebuild.Zone {
	if cat == nil {
		return nil
	}
	name = dns.Fqdn(name)
	var best *zonebuild.Zone
	for origin, zone := range cat.Zones {
		o := dns.Fqdn(origin)
		if name == o || strings.HasSuffix(name, "."+strings.TrimSuffix(o, ".")+".") || strings.HasSuffix(name, o) {
			if best == nil || len(o) > len(dns.Fqdn(best.Origin)) {
				best = zone
			}
		}
	}
	return best
}

// soaOf returns the zone's SOA record, if one was built.
func soaOf(zone *zonebuild.Zone) *dns.SOA {
	for _, rr := range zone.Records {
		if soa, ok := rr.(*dns.SOA); ok {
			return soa
		}
	}
	return nil
}
