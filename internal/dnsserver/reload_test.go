package dnsserver

import (
	"errors"
	"testing"
	"time"

	"github.com/i1is/trustplane/internal/zonebuild"
)

func okCatalog(serial uint32) *zonebuild.Catalog {
	return &zonebuild.Catalog{Zones: map[string]*zonebuild.Zone{}, EntryCount: int(serial)}
}

func TestReloadOnceKeepsPreviousCatalogOnFailure(t *testing.T) {
	a := NewAuthority()
	a.Store(okCatalog(1))

	r := &Reloader{
		Authority: a,
		Build: func(serial uint32, now time.Time) (*zonebuild.Catalog, error) {
			return nil, errors.New("malformed defense state")
		},
	}
	r.ReloadOnce(time.Now())

	if got := a.Load(); got == nil || got.EntryCount != 1 {
		t.Fatalf("expected previous catalog preserved after failed reload, got %+v", got)
	}
}

func TestReloadOnceBumpsSerialOnSuccess(t *testing.T) {
	a := NewAuthority()
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	var built []uint32
	r := &Reloader{
		Authority: a,
		Build: func(serial uint32, now time.Time) (*zonebuild.Catalog, error) {
			built = append(built, serial)
			return okCatalog(serial), nil
		},
	}
	r.ReloadOnce(now)
	r.ReloadOnce(now.Add(time.Minute))

	wantFirst := zonebuild.InitialSerial(now)
	if len(built) != 2 || built[0] != wantFirst || built[1] != wantFirst+1 {
		t.Fatalf("expected serials %d then %d, got %v", wantFirst, wantFirst+1, built)
	}
	if a.Load().EntryCount != int(wantFirst+1) {
		t.Fatalf("expected second successful build to be swapped in")
	}
}

func TestReloadOnceRollsSerialOverOnDateChange(t *testing.T) {
	a := NewAuthority()
	day1 := time.Date(2026, 7, 29, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 7, 30, 0, 1, 0, 0, time.UTC)
	var built []uint32
	r := &Reloader{
		Authority: a,
		Build: func(serial uint32, now time.Time) (*zonebuild.Catalog, error) {
			built = append(built, serial)
			return okCatalog(serial), nil
		},
	}
	r.ReloadOnce(day1)
	r.ReloadOnce(day2)

	if built[1] != 2026073001 {
		t.Fatalf("expected rollover to 2026073001, got %d", built[1])
	}
}
