package dnsserver

import (
	"context"
	"log"
	"time"

	"github.com/i1is/trustplane/internal/zonebuild"
)

// BuildFunc produces a fresh catalog for the next serial, or an error if
// the underlying defense state couldn't be read or parsed.
type BuildFunc func(serial uint32, now time.Time) (*zonebuild.Catalog, error)

// Reloader periodically rebuilds the catalog and swaps it into an
// Authority. A build failure is logged and the previously-served catalog
// is left in place (spec §4.4/§7: malformed input must never take the
// authority offline).
type Reloader struct {
	Authority *Authority
	Build     BuildFunc
	Interval  time.Duration

	serial    uint32
	hasSerial bool

	// OnReload, if set, is called after every successful swap with the new
	// catalog — the admin websocket hub hooks in here.
	OnReload func(*zonebuild.Catalog)
}

// ReloadOnce runs a single build-and-swap cycle. The serial follows
// zonebuild's YYYYMMDD01 date-derived policy (spec §4.5) and only advances
// on a successful build.
func (r *Reloader) ReloadOnce(now time.Time) {
	var next uint32
	if r.hasSerial {
		next = zonebuild.NextSerial(r.serial, now)
	} else {
		next = zonebuild.InitialSerial(now)
	}
	cat, err := r.Build(next, now)
	if err != nil {
		log.Printf("[dnsauthd] zone reload failed, keeping previous catalog: %v", err)
		return
	}
	r.serial = next
	r.hasSerial = true
	r.Authority.Store(cat)
	if r.OnReload != nil {
		r.OnReload(cat)
	}
}

// Run blocks, rebuilding every Interval until ctx is cancelled. It builds
// once immediately so the authority has a catalog before the first tick.
func (r *Reloader) Run(ctx context.Context) {
	r.ReloadOnce(time.Now())

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			r.ReloadOnce(t)
		}
	}
}
